/*
 * 角色仓库层:角色数据访问
 * @author: sun977
 * @date: 2025.09.11
 * @description: 单纯数据访问,不应该包含业务逻辑
 * @func:
 * 1.创建角色
 * 2.更新角色
 * 3.删除角色(连带用户/菜单/接口关联)
 * 4.角色授权菜单与接口
 */

//  基础CRUD操作:
//  	CreateRole - 创建角色
//  	GetRoleByID - 根据ID获取角色
//  	GetRoleByName - 根据角色名获取角色
//  	UpdateRoleFields - 使用map更新特定字段
//  	DeleteRole - 删除角色
//  高级查询功能:
//  	ListRoles - 分页获取角色列表
//  	GetRoleWithAuthorized - 获取角色及其菜单、接口
//  	CountExistingRoles - 统计存在的角色数
//  授权管理:
//  	UpdateRoleAuthorized - 整体替换角色的菜单与接口

package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neoadmin/internal/model"
	"neoadmin/internal/pkg/logger"

	"gorm.io/gorm"
)

// RoleRepository 角色仓库结构体
// 负责处理角色相关的数据访问，不包含业务逻辑
type RoleRepository struct {
	db *gorm.DB // 数据库连接
}

// NewRoleRepository 创建角色仓库实例
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		db: db,
	}
}

// CreateRole 创建角色（纯数据访问）
func (r *RoleRepository) CreateRole(ctx context.Context, role *model.Role) error {
	if err := r.db.WithContext(ctx).Omit("Users", "Menus", "Apis").Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

// GetRoleByID 根据ID获取角色
func (r *RoleRepository) GetRoleByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).First(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		logger.LogError(err, "", 0, "", "role_get", "GET", map[string]interface{}{
			"operation": "get_role_by_id",
			"role_id":   id,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to get role %d: %w", id, err)
	}
	return &role, nil
}

// GetRoleByName 根据角色名获取角色
func (r *RoleRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return &role, nil
}

// GetRoleWithAuthorized 获取角色及其菜单、接口
func (r *RoleRepository) GetRoleWithAuthorized(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Menus").Preload("Apis").First(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role %d with menus and apis: %w", id, err)
	}
	return &role, nil
}

// ListRoles 分页获取角色列表
func (r *RoleRepository) ListRoles(ctx context.Context, name string, offset, limit int) ([]*model.Role, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Role{})
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	var roles []*model.Role
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&roles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, total, nil
}

// CountExistingRoles 统计给定ID中真实存在的角色数量
func (r *RoleRepository) CountExistingRoles(ctx context.Context, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Role{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// UpdateRoleFields 使用map更新角色字段
func (r *RoleRepository) UpdateRoleFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&model.Role{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update role %d: %w", id, err)
	}
	return nil
}

// DeleteRole 删除角色以及用户/菜单/接口关联
func (r *RoleRepository) DeleteRole(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, link := range []interface{}{&model.UserRole{}, &model.RoleMenu{}, &model.RoleApi{}} {
			if err := tx.Where("role_id = ?", id).Delete(link).Error; err != nil {
				return fmt.Errorf("failed to delete links of role %d: %w", id, err)
			}
		}
		if err := tx.Delete(&model.Role{}, id).Error; err != nil {
			logger.LogError(err, "", 0, "", "role_delete", "DELETE", map[string]interface{}{
				"operation": "delete_role",
				"role_id":   id,
				"timestamp": logger.NowFormatted(),
			})
			return fmt.Errorf("failed to delete role %d: %w", id, err)
		}
		return nil
	})
}

// UpdateRoleAuthorized 整体替换角色的菜单与接口授权
func (r *RoleRepository) UpdateRoleAuthorized(ctx context.Context, id uint, menuIDs, apiIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&model.RoleMenu{}).Error; err != nil {
			return fmt.Errorf("failed to clear menus of role %d: %w", id, err)
		}
		if err := tx.Where("role_id = ?", id).Delete(&model.RoleApi{}).Error; err != nil {
			return fmt.Errorf("failed to clear apis of role %d: %w", id, err)
		}

		if menuIDs = uniqueIDs(menuIDs); len(menuIDs) > 0 {
			links := make([]model.RoleMenu, 0, len(menuIDs))
			for _, menuID := range menuIDs {
				links = append(links, model.RoleMenu{RoleID: id, MenuID: menuID})
			}
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("failed to assign menus to role %d: %w", id, err)
			}
		}

		if apiIDs = uniqueIDs(apiIDs); len(apiIDs) > 0 {
			links := make([]model.RoleApi, 0, len(apiIDs))
			for _, apiID := range apiIDs {
				links = append(links, model.RoleApi{RoleID: id, ApiID: apiID})
			}
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("failed to assign apis to role %d: %w", id, err)
			}
		}
		return nil
	})
}

// GetRoleUserIDs 获取拥有该角色的用户ID(用于清理用户缓存)
func (r *RoleRepository) GetRoleUserIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.UserRole{}).Where("role_id = ?", id).Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users of role %d: %w", id, err)
	}
	return ids, nil
}
