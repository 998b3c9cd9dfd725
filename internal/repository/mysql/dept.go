/**
 * 部门仓库层:部门与闭包表
 * @author: sun977
 * @date: 2025.09.12
 * @description: 部门数据访问。闭包表 dept_closures 对每个部门保存 (祖先, 子代, 距离)，含自身的 (id, id, 0)
 * @func:
 * 	1.CreateDept 创建部门并写入闭包行
 * 	2.UpdateDept 更新部门，父部门变化时重建闭包行
 * 	3.DeleteDept 软删除部门并删除其作为子代的闭包行
 * 	4.ListDepts / GetAncestors 查询
 */
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"

	"gorm.io/gorm"
)

// DeptRepository 部门仓库
type DeptRepository struct {
	db *gorm.DB
}

// NewDeptRepository 创建部门仓库实例
func NewDeptRepository(db *gorm.DB) *DeptRepository {
	return &DeptRepository{db: db}
}

// CreateDept 创建部门
// parent_id 非 0 时父部门必须存在且未删除，否则返回 ErrParentDeptNotFound
func (r *DeptRepository) CreateDept(ctx context.Context, dept *model.Dept) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dept.ParentID != 0 {
			parent, err := findActiveDept(tx, dept.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return system.ErrParentDeptNotFound
			}
		}

		if err := tx.Create(dept).Error; err != nil {
			return fmt.Errorf("failed to create dept: %w", err)
		}
		return insertClosures(tx, dept.ID, dept.ParentID)
	})
}

// UpdateDept 更新部门字段
// parent_id 变化时删除所有提到该部门的闭包行(无论作为祖先还是子代)，再按新父部门重建
func (r *DeptRepository) UpdateDept(ctx context.Context, id uint, fields map[string]interface{}, parentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findActiveDept(tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return system.ErrDeptNotFound
		}

		parentChanged := current.ParentID != parentID
		if parentChanged && parentID != 0 {
			if err := checkNewParent(tx, id, parentID); err != nil {
				return err
			}
		}

		fields["parent_id"] = parentID
		fields["updated_at"] = time.Now()
		if err := tx.Model(&model.Dept{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update dept %d: %w", id, err)
		}

		if !parentChanged {
			return nil
		}
		if err := tx.Where("ancestor = ? OR descendant = ?", id, id).Delete(&model.DeptClosure{}).Error; err != nil {
			return fmt.Errorf("failed to clear closures of dept %d: %w", id, err)
		}
		return insertClosures(tx, id, parentID)
	})
}

// DeleteDept 软删除部门，并删除该部门作为子代的闭包行
// 该部门作为祖先的闭包行保持不变
func (r *DeptRepository) DeleteDept(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Dept{}).Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
		if result.Error != nil {
			return fmt.Errorf("failed to delete dept %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return system.ErrDeptNotFound
		}
		if err := tx.Where("descendant = ?", id).Delete(&model.DeptClosure{}).Error; err != nil {
			logger.LogError(err, "", 0, "", "dept_delete", "DELETE", map[string]interface{}{
				"operation": "delete_dept_closures",
				"dept_id":   id,
				"timestamp": logger.NowFormatted(),
			})
			return fmt.Errorf("failed to delete closures of dept %d: %w", id, err)
		}
		return nil
	})
}

// GetDeptByID 根据ID获取未删除的部门
func (r *DeptRepository) GetDeptByID(ctx context.Context, id uint) (*model.Dept, error) {
	return findActiveDept(r.db.WithContext(ctx), id)
}

// GetDeptByName 根据名称获取部门(含已删除，名称全局唯一)
func (r *DeptRepository) GetDeptByName(ctx context.Context, name string) (*model.Dept, error) {
	var dept model.Dept
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dept by name: %w", err)
	}
	return &dept, nil
}

// GetDeptsByIDs 批量获取部门(用于用户列表关联部门)
func (r *DeptRepository) GetDeptsByIDs(ctx context.Context, ids []uint) (map[uint]*model.Dept, error) {
	result := make(map[uint]*model.Dept)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return result, nil
	}
	var depts []*model.Dept
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&depts).Error; err != nil {
		return nil, fmt.Errorf("failed to get depts: %w", err)
	}
	for _, d := range depts {
		result[d.ID] = d
	}
	return result, nil
}

// ListDepts 获取全部未删除部门，name 非空时按名称模糊过滤，按 order 升序
func (r *DeptRepository) ListDepts(ctx context.Context, name string) ([]*model.Dept, error) {
	query := r.db.WithContext(ctx).Model(&model.Dept{}).Where("is_deleted = ?", false)
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	var depts []*model.Dept
	if err := orderBy(query).Find(&depts).Error; err != nil {
		return nil, fmt.Errorf("failed to list depts: %w", err)
	}
	return depts, nil
}

// CountChildren 未删除的直接子部门数量
func (r *DeptRepository) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Dept{}).
		Where("parent_id = ? AND is_deleted = ?", id, false).Count(&count).Error
	return count, err
}

// GetClosures 获取某部门作为子代的全部闭包行，按 level 升序
func (r *DeptRepository) GetClosures(ctx context.Context, descendant uint) ([]*model.DeptClosure, error) {
	var rows []*model.DeptClosure
	err := r.db.WithContext(ctx).Where("descendant = ?", descendant).Order("level ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get closures of dept %d: %w", descendant, err)
	}
	return rows, nil
}

// GetAncestors 返回祖先ID(不含自身)，由近及远
func (r *DeptRepository) GetAncestors(ctx context.Context, id uint) ([]uint, error) {
	rows, err := r.GetClosures(ctx, id)
	if err != nil {
		return nil, err
	}
	ancestors := make([]uint, 0, len(rows))
	for _, row := range rows {
		if row.Level == 0 {
			continue
		}
		ancestors = append(ancestors, row.Ancestor)
	}
	return ancestors, nil
}

// findActiveDept 查询未删除的部门，不存在时返回 nil, nil
func findActiveDept(tx *gorm.DB, id uint) (*model.Dept, error) {
	var dept model.Dept
	err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dept %d: %w", id, err)
	}
	return &dept, nil
}

// checkNewParent 新父部门必须存在，且不能是自身或自身的子孙
// 沿 parent_id 向上走，不依赖闭包行
func checkNewParent(tx *gorm.DB, id, parentID uint) error {
	if parentID == id {
		return system.ErrDeptInvalidParent
	}
	parent, err := findActiveDept(tx, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return system.ErrParentDeptNotFound
	}

	visited := map[uint]struct{}{parentID: {}}
	for next := parent.ParentID; next != 0; {
		if next == id {
			return system.ErrDeptInvalidParent
		}
		if _, seen := visited[next]; seen {
			break
		}
		visited[next] = struct{}{}

		var node model.Dept
		if err := tx.Select("id", "parent_id").First(&node, next).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return fmt.Errorf("failed to walk dept ancestors: %w", err)
		}
		next = node.ParentID
	}
	return nil
}

// insertClosures 写入部门的闭包行：复制父部门的每条祖先行并 level+1，再加自身行
func insertClosures(tx *gorm.DB, id, parentID uint) error {
	rows := make([]model.DeptClosure, 0, 4)
	if parentID != 0 {
		var parentRows []model.DeptClosure
		if err := tx.Where("descendant = ?", parentID).Find(&parentRows).Error; err != nil {
			return fmt.Errorf("failed to get closures of parent %d: %w", parentID, err)
		}
		for _, p := range parentRows {
			rows = append(rows, model.DeptClosure{Ancestor: p.Ancestor, Descendant: id, Level: p.Level + 1})
		}
	}
	rows = append(rows, model.DeptClosure{Ancestor: id, Descendant: id, Level: 0})

	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create closures of dept %d: %w", id, err)
	}
	return nil
}
