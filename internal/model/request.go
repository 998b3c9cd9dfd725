/**
 * 模型:请求模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: API请求数据模型，包含各种业务操作的请求结构体
 * @func: 各种Request结构体定义
 */
package model

// LoginRequest 登录请求结构
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名，必填
	Password string `json:"password" binding:"required"` // 密码，必填
}

// RefreshTokenRequest 刷新令牌请求结构
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"` // 刷新令牌，必填
}

// PageQuery 分页查询参数
type PageQuery struct {
	Page     int `form:"page"`      // 页码，默认1
	PageSize int `form:"page_size"` // 每页大小，默认10
}

// Normalize 修正分页参数
func (q *PageQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	if q.PageSize > 1000 {
		q.PageSize = 1000
	}
}

// Offset 分页偏移量
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// IDQuery 通过 query 传递 id 的请求
type IDQuery struct {
	ID uint `form:"id" binding:"required"`
}

// UserIDQuery 用户接口沿用 user_id 参数名
type UserIDQuery struct {
	UserID uint `form:"user_id" binding:"required"`
}

// UserListQuery 用户列表查询
type UserListQuery struct {
	PageQuery
	Username string `form:"username"` // 用户名模糊匹配
	Email    string `form:"email"`    // 邮箱模糊匹配
	DeptID   *uint  `form:"dept_id"`  // 部门ID，可选
}

// CreateUserRequest 创建用户请求结构
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`                         // 邮箱地址，必填
	Username    string `json:"username" binding:"required,min=3,max=20,alphanumunder"` // 用户名，3-20位字母数字下划线
	Password    string `json:"password" binding:"required,password"`                   // 密码，至少8位且包含字母和数字
	Alias       string `json:"alias"`                                                  // 别名，可选
	Phone       string `json:"phone"`                                                  // 手机号，可选
	IsActive    *bool  `json:"is_active"`                                              // 是否启用，默认启用
	IsSuperuser bool   `json:"is_superuser"`                                           // 是否超级管理员
	RoleIDs     []uint `json:"role_ids"`                                               // 角色ID列表
	DeptID      uint   `json:"dept_id"`                                                // 部门ID，0 表示不属于任何部门
}

// UpdateUserRequest 更新用户请求结构
type UpdateUserRequest struct {
	ID          uint   `json:"id" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,min=3,max=20"`
	Alias       string `json:"alias"`
	Phone       string `json:"phone"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	RoleIDs     []uint `json:"role_ids"`
	DeptID      uint   `json:"dept_id"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// UpdatePasswordRequest 修改密码请求结构
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`          // 旧密码
	NewPassword string `json:"new_password" binding:"required,password"` // 新密码，至少8位且包含字母和数字
}

// RoleListQuery 角色列表查询
type RoleListQuery struct {
	PageQuery
	RoleName string `form:"role_name"`
}

// CreateRoleRequest 创建角色请求结构
type CreateRoleRequest struct {
	Name string `json:"name" binding:"required,max=20"` // 角色名称
	Desc string `json:"desc"`                           // 角色描述
}

// UpdateRoleRequest 更新角色请求结构
type UpdateRoleRequest struct {
	ID   uint   `json:"id" binding:"required"`
	Name string `json:"name" binding:"required,max=20"`
	Desc string `json:"desc"`
}

// ApiInfo 授权时以 path + method 标识一个 API
type ApiInfo struct {
	Path   string `json:"path" binding:"required"`
	Method string `json:"method" binding:"required"`
}

// RoleAuthorizedRequest 角色授权菜单与API
type RoleAuthorizedRequest struct {
	ID       uint      `json:"id" binding:"required"`
	MenuIDs  []uint    `json:"menu_ids"`
	ApiInfos []ApiInfo `json:"api_infos" binding:"dive"`
}

// MenuListQuery 菜单列表查询
type MenuListQuery struct {
	Name string `form:"name"`
}

// CreateMenuRequest 创建菜单请求
type CreateMenuRequest struct {
	MenuType  MenuType `json:"menu_type" binding:"required"`
	Name      string   `json:"name" binding:"required,max=20"`
	Icon      string   `json:"icon"`
	Path      string   `json:"path" binding:"required"`
	Order     int      `json:"order"`
	ParentID  uint     `json:"parent_id"`
	IsHidden  bool     `json:"is_hidden"`
	Component string   `json:"component" binding:"required"`
	KeepAlive *bool    `json:"keepalive"`
	Redirect  string   `json:"redirect"`
}

// UpdateMenuRequest 更新菜单请求
type UpdateMenuRequest struct {
	ID uint `json:"id" binding:"required"`
	CreateMenuRequest
}

// ApiListQuery API列表查询
type ApiListQuery struct {
	PageQuery
	Path    string `form:"path"`
	Summary string `form:"summary"`
	Tags    string `form:"tags"`
}

// CreateApiRequest 创建API请求
type CreateApiRequest struct {
	Path    string `json:"path" binding:"required"`   // API路径
	Summary string `json:"summary"`                   // API简介
	Method  string `json:"method" binding:"required"` // 请求方法
	Tags    string `json:"tags" binding:"required"`   // API标签
}

// UpdateApiRequest 更新API请求
type UpdateApiRequest struct {
	ID uint `json:"id" binding:"required"`
	CreateApiRequest
}

// DeptListQuery 部门列表查询
type DeptListQuery struct {
	Name string `form:"name"`
}

// CreateDeptRequest 创建部门请求
type CreateDeptRequest struct {
	Name     string `json:"name" binding:"required,max=20"` // 部门名称
	Desc     string `json:"desc"`                           // 备注
	Order    int    `json:"order"`                          // 排序
	ParentID uint   `json:"parent_id"`                      // 父部门ID，0 为根
}

// UpdateDeptRequest 更新部门请求
type UpdateDeptRequest struct {
	ID uint `json:"id" binding:"required"`
	CreateDeptRequest
}

// DeptIDQuery 删除部门沿用 dept_id 参数名
type DeptIDQuery struct {
	DeptID uint `form:"dept_id" binding:"required"`
}

// AuditLogListQuery 审计日志查询
type AuditLogListQuery struct {
	PageQuery
	Username  string `form:"username"`
	Module    string `form:"module"`
	Method    string `form:"method"`
	Summary   string `form:"summary"`
	Status    int    `form:"status"`
	StartTime string `form:"start_time"` // 格式 2006-01-02 15:04:05 或 RFC3339
	EndTime   string `form:"end_time"`
}
