/*
 * @author: sun977
 * @date: 2025.09.10
 * @description: 菜单管理服务
 * @func:
 * 1.菜单树/详情
 * 2.创建/更新/删除菜单
 */
package system

import (
	"context"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/repository/mysql"
)

// MenuService 菜单管理服务
type MenuService struct {
	menuRepo *mysql.MenuRepository
}

// NewMenuService 创建菜单服务实例
func NewMenuService(menuRepo *mysql.MenuRepository) *MenuService {
	return &MenuService{menuRepo: menuRepo}
}

// List 菜单列表。未过滤时返回完整菜单树，按名称过滤时返回扁平列表
func (s *MenuService) List(ctx context.Context, name string) ([]*model.MenuNode, error) {
	menus, err := s.menuRepo.ListMenus(ctx, name)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if name == "" {
		return model.BuildMenuTree(menus), nil
	}
	nodes := make([]*model.MenuNode, 0, len(menus))
	for _, m := range menus {
		nodes = append(nodes, &model.MenuNode{Menu: m, Children: []*model.MenuNode{}})
	}
	return nodes, nil
}

// Get 获取菜单
func (s *MenuService) Get(ctx context.Context, id uint) (*model.Menu, error) {
	menu, err := s.menuRepo.GetMenuByID(ctx, id)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if menu == nil {
		return nil, system.ErrMenuNotFound
	}
	return menu, nil
}

// Create 创建菜单
func (s *MenuService) Create(ctx context.Context, req *model.CreateMenuRequest) (*model.Menu, error) {
	if err := s.validate(ctx, 0, req); err != nil {
		return nil, err
	}
	keepAlive := true
	if req.KeepAlive != nil {
		keepAlive = *req.KeepAlive
	}
	menu := &model.Menu{
		Name:      req.Name,
		MenuType:  req.MenuType,
		Icon:      req.Icon,
		Path:      req.Path,
		Order:     req.Order,
		ParentID:  req.ParentID,
		IsHidden:  req.IsHidden,
		Component: req.Component,
		KeepAlive: keepAlive,
		Redirect:  req.Redirect,
	}
	if err := s.menuRepo.CreateMenu(ctx, menu); err != nil {
		return nil, system.Internal("operation failed", err)
	}
	return menu, nil
}

// Update 更新菜单
func (s *MenuService) Update(ctx context.Context, req *model.UpdateMenuRequest) error {
	if _, err := s.Get(ctx, req.ID); err != nil {
		return err
	}
	if err := s.validate(ctx, req.ID, &req.CreateMenuRequest); err != nil {
		return err
	}
	fields := map[string]interface{}{
		"name":      req.Name,
		"menu_type": req.MenuType,
		"icon":      req.Icon,
		"path":      req.Path,
		"order":     req.Order,
		"parent_id": req.ParentID,
		"is_hidden": req.IsHidden,
		"component": req.Component,
		"redirect":  req.Redirect,
	}
	if req.KeepAlive != nil {
		fields["keepalive"] = *req.KeepAlive
	}
	if err := s.menuRepo.UpdateMenuFields(ctx, req.ID, fields); err != nil {
		return system.Internal("operation failed", err)
	}
	return nil
}

// Delete 删除菜单，存在子菜单时拒绝
func (s *MenuService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.menuRepo.CountChildren(ctx, id)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if count > 0 {
		return system.ErrMenuHasChildren
	}
	if err := s.menuRepo.DeleteMenu(ctx, id); err != nil {
		return system.Internal("operation failed", err)
	}
	return nil
}

// validate 菜单类型合法，父菜单存在且不是自身
func (s *MenuService) validate(ctx context.Context, id uint, req *model.CreateMenuRequest) error {
	if !model.IsValidMenuType(req.MenuType) {
		return system.BadRequest("Invalid menu type: " + string(req.MenuType))
	}
	if req.ParentID == 0 {
		return nil
	}
	if req.ParentID == id {
		return system.BadRequest("A menu cannot be its own parent")
	}
	parent, err := s.menuRepo.GetMenuByID(ctx, req.ParentID)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if parent == nil {
		return system.ErrMenuNotFound.WithDetail("parent menu does not exist")
	}
	return nil
}
