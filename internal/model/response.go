/**
 * 模型:响应模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: API响应数据模型，统一信封 {code, msg, data} 以及各业务响应体
 * @func: 各种Response结构体定义
 */
package model

import (
	"net/http"
	"time"
)

// MsgOK 成功响应的默认消息
const MsgOK = "OK"

// APIResponse 通用API响应结构
type APIResponse struct {
	Code int         `json:"code"` // 响应状态码，与HTTP状态码一致
	Msg  string      `json:"msg"`  // 响应消息
	Data interface{} `json:"data"` // 响应数据
}

// PageResponse 分页响应结构
type PageResponse struct {
	Code     int         `json:"code"`      // 响应状态码
	Msg      string      `json:"msg"`       // 响应消息
	Data     interface{} `json:"data"`      // 当前页数据
	Total    int64       `json:"total"`     // 总记录数
	Page     int         `json:"page"`      // 当前页码
	PageSize int         `json:"page_size"` // 每页大小
}

// Success 构造成功响应
func Success(data interface{}) APIResponse {
	return APIResponse{Code: http.StatusOK, Msg: MsgOK, Data: data}
}

// SuccessMsg 构造只带消息的成功响应
func SuccessMsg(msg string) APIResponse {
	return APIResponse{Code: http.StatusOK, Msg: msg}
}

// Fail 构造失败响应
func Fail(code int, msg string) APIResponse {
	return APIResponse{Code: code, Msg: msg}
}

// SuccessPage 构造分页响应
func SuccessPage(data interface{}, total int64, page, pageSize int) PageResponse {
	return PageResponse{
		Code:     http.StatusOK,
		Msg:      MsgOK,
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

// TokenInfo 登录响应
type TokenInfo struct {
	AccessToken  string `json:"access_token"`  // 访问令牌
	RefreshToken string `json:"refresh_token"` // 刷新令牌
	Username     string `json:"username"`      // 用户名
	ExpiresIn    int64  `json:"expires_in"`    // 访问令牌有效期(秒)
}

// RefreshTokenResponse 刷新令牌响应结构
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`  // 新的访问令牌
	RefreshToken string `json:"refresh_token"` // 新的刷新令牌
	ExpiresIn    int64  `json:"expires_in"`    // 访问令牌有效期(秒)
}

// RoleBrief 角色摘要
type RoleBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DeptBrief 部门摘要
type DeptBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserInfo 用户详情/列表项
type UserInfo struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Alias       string      `json:"alias"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	IsActive    bool        `json:"is_active"`
	IsSuperuser bool        `json:"is_superuser"`
	LastLogin   *time.Time  `json:"last_login"`
	DeptID      uint        `json:"dept_id"`
	Dept        *DeptBrief  `json:"dept"`
	Roles       []RoleBrief `json:"roles"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewUserInfo 从用户模型构造响应，不包含密码
func NewUserInfo(user *User) *UserInfo {
	info := &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Alias:       user.Alias,
		Email:       user.Email,
		Phone:       user.Phone,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		LastLogin:   user.LastLogin,
		DeptID:      user.DeptID,
		Roles:       make([]RoleBrief, 0, len(user.Roles)),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	if user.Dept != nil {
		info.Dept = &DeptBrief{ID: user.Dept.ID, Name: user.Dept.Name}
	}
	for _, r := range user.Roles {
		info.Roles = append(info.Roles, RoleBrief{ID: r.ID, Name: r.Name})
	}
	return info
}

// CurrentUserInfo 当前登录用户信息
type CurrentUserInfo struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Alias       string     `json:"alias"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
	DeptID      uint       `json:"dept_id"`
	Avatar      string     `json:"avatar"`
	Roles       []string   `json:"roles"`
}

// MenuNode 菜单树节点
type MenuNode struct {
	*Menu
	Children []*MenuNode `json:"children"`
}

// DeptNode 部门树节点
type DeptNode struct {
	ID       uint        `json:"id"`
	Name     string      `json:"name"`
	Desc     string      `json:"desc"`
	Order    int         `json:"order"`
	ParentID uint        `json:"parent_id"`
	Children []*DeptNode `json:"children"`
}

// RoleAuthorizedInfo 角色已授权的菜单与API
type RoleAuthorizedInfo struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Desc  string  `json:"desc"`
	Menus []*Menu `json:"menus"`
	Apis  []*Api  `json:"apis"`
}

// FileUploadInfo 文件上传结果
type FileUploadInfo struct {
	FileID           string `json:"file_id"`
	OriginalFilename string `json:"original_filename"`
	FileType         string `json:"file_type"`
	FileSize         int64  `json:"file_size"`
	FilePath         string `json:"file_path"`
}

// HealthInfo 健康检查
type HealthInfo struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Service     string `json:"service"`
	Database    string `json:"database"`
}

// VersionInfo 版本信息
type VersionInfo struct {
	Version     string `json:"version"`
	AppTitle    string `json:"app_title"`
	ProjectName string `json:"project_name"`
	Build       string `json:"build"`
	Commit      string `json:"commit"`
	GoVersion   string `json:"go_version"`
}
