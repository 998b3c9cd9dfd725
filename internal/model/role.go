/**
 * 模型:角色模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: 角色数据模型，角色通过多对多关联授予菜单与接口
 * @func: Role 结构体及相关方法
 */
package model

// Role 角色模型
type Role struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;not null;size:20;comment:角色名称"` // 角色名称，唯一索引，必填
	Desc string `json:"desc" gorm:"size:500;comment:角色描述"`                     // 角色描述

	// 关联关系
	Users []*User `json:"-" gorm:"many2many:user_roles;"`               // 拥有此角色的用户
	Menus []*Menu `json:"menus,omitempty" gorm:"many2many:role_menus;"` // 角色可见菜单
	Apis  []*Api  `json:"apis,omitempty" gorm:"many2many:role_apis;"`   // 角色可访问接口
}

// RoleMenu 角色菜单关联表
type RoleMenu struct {
	RoleID uint `json:"role_id" gorm:"primaryKey"`
	MenuID uint `json:"menu_id" gorm:"primaryKey"`
}

// RoleApi 角色接口关联表
type RoleApi struct {
	RoleID uint `json:"role_id" gorm:"primaryKey"`
	ApiID  uint `json:"api_id" gorm:"primaryKey"`
}

// TableName 指定角色表名
func (Role) TableName() string {
	return "roles"
}

// TableName 指定角色菜单关联表名
func (RoleMenu) TableName() string {
	return "role_menus"
}

// TableName 指定角色接口关联表名
func (RoleApi) TableName() string {
	return "role_apis"
}

// MenuIDs 角色菜单ID列表
func (r *Role) MenuIDs() []uint {
	ids := make([]uint, 0, len(r.Menus))
	for _, m := range r.Menus {
		ids = append(ids, m.ID)
	}
	return ids
}

// ApiIDs 角色接口ID列表
func (r *Role) ApiIDs() []uint {
	ids := make([]uint, 0, len(r.Apis))
	for _, a := range r.Apis {
		ids = append(ids, a.ID)
	}
	return ids
}
