/**
 * 用户仓库层:用户数据访问
 * @author: sun977
 * @date: 2025.08.29
 * @description: 用户数据访问
 * @func:单纯数据访问,不应该包含业务逻辑
 */
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

// UserFilter 用户列表过滤条件
type UserFilter struct {
	Username string // 用户名包含
	Email    string // 邮箱包含
	DeptID   *uint  // 部门ID，为 nil 时不过滤
}

// UserRepository 用户仓库结构体
// 负责处理用户相关的数据访问，不包含业务逻辑
type UserRepository struct {
	db *gorm.DB // 数据库连接
}

// NewUserRepository 创建用户仓库实例
// 注入数据库连接，专注于数据访问操作
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser 创建用户(同时写入角色关联)
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User, roleIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 角色关联单独维护，避免 GORM 级联写 roles 表
		if err := tx.Omit("Roles").Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return replaceUserRoles(tx, user.ID, roleIDs)
	})
}

// GetUserByID 根据ID获取用户
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 返回 nil 而不是错误，让业务层处理
		}
		// 记录数据库错误日志
		logger.LogError(err, "", id, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_by_id",
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserWithRoles 获取用户及其角色
func (r *UserRepository) GetUserWithRoles(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d with roles: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取用户
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "user_get", "GET", map[string]interface{}{
			"operation": "get_user_by_username",
			"username":  username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// GetUserByEmail 根据邮箱获取用户
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// ListUsers 分页获取用户列表(含角色)，按创建时间倒序
func (r *UserRepository) ListUsers(ctx context.Context, filter UserFilter, offset, limit int) ([]*model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if filter.Username != "" {
		query = query.Where("username LIKE ?", "%"+filter.Username+"%")
	}
	if filter.Email != "" {
		query = query.Where("email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.DeptID != nil {
		query = query.Where("dept_id = ?", *filter.DeptID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*model.User
	err := query.Preload("Roles").Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// CountUsers 用户总数
func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// UpdateUserWithRoles 更新用户字段并整体替换角色
func (r *UserRepository) UpdateUserWithRoles(ctx context.Context, userID uint, fields map[string]interface{}, roleIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields["updated_at"] = time.Now()
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error; err != nil {
			logger.LogError(err, "", userID, "", "user_update_with_tx", "PUT", map[string]interface{}{
				"operation": "update_user_with_transaction",
				"user_id":   userID,
				"timestamp": logger.NowFormatted(),
			})
			return fmt.Errorf("failed to update user %d: %w", userID, err)
		}
		return replaceUserRoles(tx, userID, roleIDs)
	})
}

// UpdateUserFields 使用 map 更新用户特定字段
func (r *UserRepository) UpdateUserFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return nil
}

// UpdateLastLogin 更新用户最后登录时间
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.UpdateUserFields(ctx, userID, map[string]interface{}{"last_login": at})
}

// UpdatePassword 更新密码哈希
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	return r.UpdateUserFields(ctx, userID, map[string]interface{}{"password": hash})
}

// DeleteUser 删除用户及其角色关联
func (r *UserRepository) DeleteUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
			logger.LogError(err, "", userID, "", "delete_user_roles", "DELETE", map[string]interface{}{
				"operation": "delete_user_roles_by_user_id",
				"user_id":   userID,
				"timestamp": logger.NowFormatted(),
			})
			return fmt.Errorf("failed to delete roles of user %d: %w", userID, err)
		}
		// 删除操作具有幂等性，即使没有找到记录也不返回错误
		if err := tx.Delete(&model.User{}, userID).Error; err != nil {
			return fmt.Errorf("failed to delete user %d: %w", userID, err)
		}
		return nil
	})
}

// GetUserApis 通过 user_roles → role_apis 联表获取用户被授予的全部API(已去重)
func (r *UserRepository) GetUserApis(ctx context.Context, userID uint) ([]*model.Api, error) {
	var apis []*model.Api
	err := r.db.WithContext(ctx).Model(&model.Api{}).
		Select("apis.*").
		Joins("JOIN role_apis ON role_apis.api_id = apis.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_apis.role_id").
		Where("user_roles.user_id = ?", userID).
		Find(&apis).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get apis of user %d: %w", userID, err)
	}
	return uniqueApis(apis), nil
}

// GetUserMenus 通过 user_roles → role_menus 联表获取用户可见菜单(已去重)
func (r *UserRepository) GetUserMenus(ctx context.Context, userID uint) ([]*model.Menu, error) {
	var menus []*model.Menu
	err := r.db.WithContext(ctx).Model(&model.Menu{}).
		Select("menus.*").
		Joins("JOIN role_menus ON role_menus.menu_id = menus.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_menus.role_id").
		Where("user_roles.user_id = ?", userID).
		Find(&menus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get menus of user %d: %w", userID, err)
	}

	seen := make(map[uint]struct{}, len(menus))
	result := make([]*model.Menu, 0, len(menus))
	for _, m := range menus {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		result = append(result, m)
	}
	return result, nil
}

// replaceUserRoles 整体替换用户角色关联，调用方需处于事务中
func replaceUserRoles(tx *gorm.DB, userID uint, roleIDs []uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
		return fmt.Errorf("failed to clear roles of user %d: %w", userID, err)
	}
	roleIDs = uniqueIDs(roleIDs)
	if len(roleIDs) == 0 {
		return nil
	}

	links := make([]model.UserRole, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		links = append(links, model.UserRole{UserID: userID, RoleID: roleID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to assign roles to user %d: %w", userID, err)
	}
	return nil
}

func uniqueApis(apis []*model.Api) []*model.Api {
	seen := make(map[uint]struct{}, len(apis))
	result := make([]*model.Api, 0, len(apis))
	for _, a := range apis {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		result = append(result, a)
	}
	return result
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
