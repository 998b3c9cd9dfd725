/**
 * 菜单仓库层:菜单数据访问
 * @author: sun977
 * @date: 2025.09.11
 * @description: 菜单的增删改查，排序字段 order 为保留字，统一通过 clause 引用
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neoadmin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderColumn 按 order 字段升序、id 升序
var orderColumn = []clause.OrderByColumn{
	{Column: clause.Column{Name: "order"}},
	{Column: clause.Column{Name: "id"}},
}

// MenuRepository 菜单仓库
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository 创建菜单仓库实例
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// CreateMenu 创建菜单
func (r *MenuRepository) CreateMenu(ctx context.Context, menu *model.Menu) error {
	if err := r.db.WithContext(ctx).Create(menu).Error; err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}
	return nil
}

// GetMenuByID 根据ID获取菜单
func (r *MenuRepository) GetMenuByID(ctx context.Context, id uint) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.WithContext(ctx).First(&menu, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get menu %d: %w", id, err)
	}
	return &menu, nil
}

// ListMenus 获取全部菜单，name 非空时按名称模糊过滤
func (r *MenuRepository) ListMenus(ctx context.Context, name string) ([]*model.Menu, error) {
	query := r.db.WithContext(ctx).Model(&model.Menu{})
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	var menus []*model.Menu
	if err := orderBy(query).Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	return menus, nil
}

// CountExistingMenus 统计给定ID中真实存在的菜单数量
func (r *MenuRepository) CountExistingMenus(ctx context.Context, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Menu{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// CountChildren 子菜单数量
func (r *MenuRepository) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Menu{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

// UpdateMenuFields 使用map更新菜单字段
func (r *MenuRepository) UpdateMenuFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&model.Menu{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update menu %d: %w", id, err)
	}
	return nil
}

// DeleteMenu 删除菜单及其角色授权
func (r *MenuRepository) DeleteMenu(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", id).Delete(&model.RoleMenu{}).Error; err != nil {
			return fmt.Errorf("failed to delete role links of menu %d: %w", id, err)
		}
		if err := tx.Delete(&model.Menu{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete menu %d: %w", id, err)
		}
		return nil
	})
}

func orderBy(query *gorm.DB) *gorm.DB {
	return query.Order(clause.OrderBy{Columns: orderColumn})
}
