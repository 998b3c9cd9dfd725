/*
 * @author: sun977
 * @date: 2025.09.09
 * @description: 角色管理服务
 * @func:
 * 1.角色列表/详情
 * 2.创建/更新/删除角色
 * 3.查询与更新角色授权(菜单+接口)
 */
package system

import (
	"context"
	"fmt"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repo/redis"
	"neoadmin/internal/repository/mysql"
)

// RoleService 角色管理服务
type RoleService struct {
	roleRepo *mysql.RoleRepository
	menuRepo *mysql.MenuRepository
	apiRepo  *mysql.ApiRepository
	cache    *redis.CacheManager
}

// NewRoleService 创建角色服务实例
func NewRoleService(roleRepo *mysql.RoleRepository, menuRepo *mysql.MenuRepository, apiRepo *mysql.ApiRepository, cache *redis.CacheManager) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		menuRepo: menuRepo,
		apiRepo:  apiRepo,
		cache:    cache,
	}
}

// List 分页获取角色列表
func (s *RoleService) List(ctx context.Context, q *model.RoleListQuery) ([]*model.Role, int64, error) {
	q.Normalize()
	roles, total, err := s.roleRepo.ListRoles(ctx, q.RoleName, q.Offset(), q.PageSize)
	if err != nil {
		return nil, 0, system.Internal("operation failed", err)
	}
	return roles, total, nil
}

// Get 获取角色
func (s *RoleService) Get(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roleRepo.GetRoleByID(ctx, id)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if role == nil {
		return nil, system.ErrRoleNotFound
	}
	return role, nil
}

// Create 创建角色，名称唯一
func (s *RoleService) Create(ctx context.Context, req *model.CreateRoleRequest) (*model.Role, error) {
	existing, err := s.roleRepo.GetRoleByName(ctx, req.Name)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if existing != nil {
		return nil, system.ErrRoleAlreadyExists
	}

	role := &model.Role{Name: req.Name, Desc: req.Desc}
	if err := s.roleRepo.CreateRole(ctx, role); err != nil {
		return nil, system.Internal("operation failed", err)
	}
	return role, nil
}

// Update 更新角色名称与描述
func (s *RoleService) Update(ctx context.Context, req *model.UpdateRoleRequest) error {
	if _, err := s.Get(ctx, req.ID); err != nil {
		return err
	}
	existing, err := s.roleRepo.GetRoleByName(ctx, req.Name)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if existing != nil && existing.ID != req.ID {
		return system.ErrRoleAlreadyExists
	}

	if err := s.roleRepo.UpdateRoleFields(ctx, req.ID, map[string]interface{}{
		"name": req.Name,
		"desc": req.Desc,
	}); err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearRoleCache(ctx, req.ID, nil)
	return nil
}

// Delete 删除角色，同时清理持有该角色的用户缓存
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	userIDs, err := s.roleRepo.GetRoleUserIDs(ctx, id)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if err := s.roleRepo.DeleteRole(ctx, id); err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearRoleCache(ctx, id, userIDs)
	return nil
}

// GetAuthorized 获取角色已授权的菜单与接口
func (s *RoleService) GetAuthorized(ctx context.Context, id uint) (*model.RoleAuthorizedInfo, error) {
	role, err := s.roleRepo.GetRoleWithAuthorized(ctx, id)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if role == nil {
		return nil, system.ErrRoleNotFound
	}
	info := &model.RoleAuthorizedInfo{
		ID:    role.ID,
		Name:  role.Name,
		Desc:  role.Desc,
		Menus: role.Menus,
		Apis:  role.Apis,
	}
	if info.Menus == nil {
		info.Menus = []*model.Menu{}
	}
	if info.Apis == nil {
		info.Apis = []*model.Api{}
	}
	return info, nil
}

// UpdateAuthorized 整体替换角色的菜单与接口授权
// 菜单ID必须全部存在；接口按 (path, method) 查找，不存在的组合被忽略
func (s *RoleService) UpdateAuthorized(ctx context.Context, req *model.RoleAuthorizedRequest) error {
	if _, err := s.Get(ctx, req.ID); err != nil {
		return err
	}

	if want := countDistinct(req.MenuIDs); want > 0 {
		count, err := s.menuRepo.CountExistingMenus(ctx, req.MenuIDs)
		if err != nil {
			return system.Internal("operation failed", err)
		}
		if int(count) != want {
			return system.ErrMenuNotFound.WithDetail(fmt.Sprintf("menus %v", req.MenuIDs))
		}
	}

	apis, err := s.apiRepo.FindApisByInfos(ctx, req.ApiInfos)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	apiIDs := make([]uint, 0, len(apis))
	for _, api := range apis {
		apiIDs = append(apiIDs, api.ID)
	}

	if err := s.roleRepo.UpdateRoleAuthorized(ctx, req.ID, req.MenuIDs, apiIDs); err != nil {
		return system.Internal("operation failed", err)
	}

	userIDs, err := s.roleRepo.GetRoleUserIDs(ctx, req.ID)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearRoleCache(ctx, req.ID, userIDs)
	return nil
}

// clearRoleCache 清理角色缓存以及持有该角色的用户缓存
func (s *RoleService) clearRoleCache(ctx context.Context, roleID uint, userIDs []uint) {
	if err := s.cache.ClearRoleCache(ctx, roleID); err != nil {
		logger.LogWarn("failed to clear role cache", "", 0, "", "", "", map[string]interface{}{
			"role_id": roleID,
			"error":   err.Error(),
		})
	}
	for _, userID := range userIDs {
		if err := s.cache.ClearUserCache(ctx, userID); err != nil {
			logger.LogWarn("failed to clear user cache", "", userID, "", "", "", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
