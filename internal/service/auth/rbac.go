/*
 * @author: sun977
 * @date: 2025.09.05
 * @description: 基于角色的接口权限校验
 * @func:
 * 1.HasPermission 超级管理员直接放行；无角色拒绝；否则按角色授予的 (method, path) 匹配
 * 2.GetPermissionSet 用户授权集合(优先读缓存)
 */
package auth

import (
	"context"
	"fmt"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/matcher"
	"neoadmin/internal/repo/redis"
	"neoadmin/internal/repository/mysql"
)

// RBACService 基于角色的访问控制服务
type RBACService struct {
	userRepo *mysql.UserRepository
	cache    *redis.CacheManager // 可为禁用状态，此时直接查库
}

// NewRBACService 创建RBAC服务实例
func NewRBACService(userRepo *mysql.UserRepository, cache *redis.CacheManager) *RBACService {
	return &RBACService{
		userRepo: userRepo,
		cache:    cache,
	}
}

// permissionKey 用户授权缓存key
func permissionKey(userID uint) string {
	return redis.BuildKey("user_permissions", []interface{}{userID}, nil)
}

// HasPermission 检查用户是否可以访问 method + path
// 允许时返回 nil；拒绝时返回 Forbidden 类 AppError
func (s *RBACService) HasPermission(ctx context.Context, user *model.User, method, path string) error {
	if user == nil {
		return system.ErrAuthFailed
	}
	if user.IsSuperuser {
		return nil
	}
	if len(user.Roles) == 0 {
		return system.ErrNotBoundRole.WithDetail(fmt.Sprintf("user %d has no role", user.ID))
	}

	set, err := s.GetPermissionSet(ctx, user.ID)
	if err != nil {
		logger.LogError(err, "", user.ID, "", path, method, map[string]interface{}{
			"operation": "has_permission",
			"timestamp": logger.NowFormatted(),
		})
		return system.Internal("operation failed", err)
	}

	if _, ok := set.Match(method, path); ok {
		return nil
	}
	return system.Forbidden(fmt.Sprintf("Permission denied method:%s path:%s", method, path)).
		WithDetail(fmt.Sprintf("no rule matched among %d granted apis of roles %v", set.Len(), user.RoleNames()))
}

// GetPermissionSet 获取用户通过角色获得的授权集合
func (s *RBACService) GetPermissionSet(ctx context.Context, userID uint) (*matcher.PermissionSet, error) {
	var perms []matcher.Permission
	err := s.cache.GetOrLoad(ctx, permissionKey(userID), &perms, 0, func(ctx context.Context) error {
		apis, err := s.userRepo.GetUserApis(ctx, userID)
		if err != nil {
			return err
		}
		perms = make([]matcher.Permission, 0, len(apis))
		for _, api := range apis {
			perms = append(perms, matcher.Permission{Method: api.Method, Path: api.Path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions of user %d: %w", userID, err)
	}
	return matcher.NewPermissionSet(perms)
}
