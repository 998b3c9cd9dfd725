/**
 * 模型:部门模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: 部门与部门闭包表。闭包表对每个部门保存到每个祖先(含自身)的一行，level 为距离
 * @func: Dept、DeptClosure 结构体
 */
package model

// Dept 部门模型，删除为软删除
type Dept struct {
	BaseModel
	Name      string `json:"name" gorm:"uniqueIndex;not null;size:20;comment:部门名称"`
	Desc      string `json:"desc" gorm:"size:500;comment:备注"`
	IsDeleted bool   `json:"is_deleted" gorm:"not null;index;comment:软删除标记"`
	Order     int    `json:"order" gorm:"default:0;index;comment:排序"`
	ParentID  uint   `json:"parent_id" gorm:"default:0;index;comment:父部门ID"`
}

// TableName 指定部门表名
func (Dept) TableName() string {
	return "depts"
}

// DeptClosure 部门闭包表
type DeptClosure struct {
	BaseModel
	Ancestor   uint `json:"ancestor" gorm:"not null;index;comment:祖先"`
	Descendant uint `json:"descendant" gorm:"not null;index;comment:子代"`
	Level      int  `json:"level" gorm:"default:0;index;comment:深度"`
}

// TableName 指定部门闭包表名
func (DeptClosure) TableName() string {
	return "dept_closures"
}
