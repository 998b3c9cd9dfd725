/**
 * 模型:用户模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: 用户数据模型，包含用户基本信息、状态和角色关联
 * @func: User 结构体及相关方法
 */
package model

import (
	"time"
)

// User 用户模型
type User struct {
	BaseModel
	Username    string     `json:"username" gorm:"uniqueIndex;not null;size:20;comment:用户名"` // 用户名，唯一索引，3-20字符
	Alias       string     `json:"alias" gorm:"size:30;index;comment:姓名"`                    // 姓名
	Email       string     `json:"email" gorm:"uniqueIndex;not null;size:255;comment:邮箱"`    // 邮箱，唯一索引
	Phone       string     `json:"phone" gorm:"size:20;index;comment:电话"`                    // 手机号码
	Password    string     `json:"-" gorm:"size:128;comment:密码哈希"`                           // argon2id 哈希，不在JSON中返回
	IsActive    bool       `json:"is_active" gorm:"not null;index;comment:是否启用"`             // 禁用后无法登录与刷新令牌
	IsSuperuser bool       `json:"is_superuser" gorm:"not null;index;comment:是否超级管理员"`       // 超级管理员跳过权限检查
	LastLogin   *time.Time `json:"last_login" gorm:"index;comment:最后登录时间"`                   // 最后登录时间，可为空
	DeptID      uint       `json:"dept_id" gorm:"index;default:0;comment:部门ID"`              // 所属部门，0 表示未分配

	// 关联关系
	Roles []*Role `json:"roles" gorm:"many2many:user_roles;"` // 用户角色，多对多关系
	Dept  *Dept   `json:"dept,omitempty" gorm:"-"`            // 部门信息，查询时按需填充
}

// UserRole 用户角色关联表
type UserRole struct {
	UserID uint `json:"user_id" gorm:"primaryKey"` // 用户ID，联合主键
	RoleID uint `json:"role_id" gorm:"primaryKey"` // 角色ID，联合主键
}

// TableName 指定用户表名
func (User) TableName() string {
	return "users"
}

// TableName 指定用户角色关联表名
func (UserRole) TableName() string {
	return "user_roles"
}

// HasRole 检查用户是否拥有指定角色
func (u *User) HasRole(roleName string) bool {
	for _, role := range u.Roles {
		if role.Name == roleName {
			return true
		}
	}
	return false
}

// RoleIDs 用户角色ID列表
func (u *User) RoleIDs() []uint {
	ids := make([]uint, 0, len(u.Roles))
	for _, role := range u.Roles {
		ids = append(ids, role.ID)
	}
	return ids
}

// RoleNames 用户角色名称列表
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
