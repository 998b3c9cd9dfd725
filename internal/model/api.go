/**
 * 模型:接口模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: 接口权限数据模型，method + path 组成一条权限，path 可包含 {param} 占位符
 * @func: Api 结构体及相关方法
 */
package model

import "strings"

// HTTP 方法枚举
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
	MethodPatch  = "PATCH"
)

// Api 接口模型
type Api struct {
	BaseModel
	Path    string `json:"path" gorm:"not null;size:100;index;comment:接口路径"`  // 接口路径，如 /api/v1/user/{id}
	Method  string `json:"method" gorm:"not null;size:10;index;comment:请求方式"` // 请求方式
	Summary string `json:"summary" gorm:"size:500;index;comment:接口简介"`        // 接口简介
	Tags    string `json:"tags" gorm:"not null;size:100;index;comment:接口标签"`  // 接口标签，对应路由分组

	Roles []*Role `json:"-" gorm:"many2many:role_apis;"`
}

// TableName 指定接口表名
func (Api) TableName() string {
	return "apis"
}

// Key 返回 "METHOD path" 形式的唯一标识
func (a *Api) Key() string {
	return strings.ToUpper(a.Method) + " " + a.Path
}

// IsValidMethod 检查请求方式是否合法
func IsValidMethod(method string) bool {
	switch strings.ToUpper(method) {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch:
		return true
	}
	return false
}

// RouteMeta 需要权限校验的路由声明，用于同步 apis 表
type RouteMeta struct {
	Method  string
	Path    string
	Summary string
	Tags    string
}
