/**
 * 模型:菜单模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: 前端菜单数据模型，parent_id 为 0 表示顶级菜单
 * @func: Menu 结构体
 */
package model

import "gorm.io/datatypes"

// MenuType 菜单类型
type MenuType string

const (
	MenuTypeCatalog MenuType = "catalog" // 目录
	MenuTypeMenu    MenuType = "menu"    // 菜单
)

// Menu 菜单模型
type Menu struct {
	BaseModel
	Name      string         `json:"name" gorm:"not null;size:20;index;comment:菜单名称"`
	Remark    datatypes.JSON `json:"remark" gorm:"type:json;comment:保留字段"`
	MenuType  MenuType       `json:"menu_type" gorm:"size:20;comment:菜单类型"`
	Icon      string         `json:"icon" gorm:"size:100;comment:菜单图标"`
	Path      string         `json:"path" gorm:"not null;size:100;index;comment:菜单路径"`
	Order     int            `json:"order" gorm:"default:0;index;comment:排序"`
	ParentID  uint           `json:"parent_id" gorm:"default:0;index;comment:父菜单ID"`
	IsHidden  bool           `json:"is_hidden" gorm:"not null;comment:是否隐藏"`
	Component string         `json:"component" gorm:"not null;size:100;comment:组件"`
	KeepAlive bool           `json:"keepalive" gorm:"column:keepalive;not null;comment:存活"`
	Redirect  string         `json:"redirect" gorm:"size:100;comment:重定向"`
}

// TableName 指定菜单表名
func (Menu) TableName() string {
	return "menus"
}

// IsValidMenuType 检查菜单类型是否合法
func IsValidMenuType(t MenuType) bool {
	return t == MenuTypeCatalog || t == MenuTypeMenu
}
