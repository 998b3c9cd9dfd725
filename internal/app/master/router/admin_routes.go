/**
 * 路由:系统管理路由
 * @author: sun977
 * @date: 2025.10.10
 * @description: 用户、角色、菜单、API、部门、审计日志与文件上传，需要JWT认证与接口权限
 * @func:
 */
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupAdminRoutes 设置系统管理路由
func (r *Router) setupAdminRoutes(v1 *gin.RouterGroup) {
	sys := r.systemModule

	user := r.permissionGroup(v1, "/user")
	user.handle(http.MethodGet, "/list", "查询用户列表", sys.UserHandler.List)
	user.handle(http.MethodGet, "/get", "查询用户详情", sys.UserHandler.Get)
	user.handle(http.MethodPost, "/create", "创建用户", sys.UserHandler.Create)
	user.handle(http.MethodPost, "/update", "更新用户", sys.UserHandler.Update)
	user.handle(http.MethodDelete, "/delete", "删除用户", sys.UserHandler.Delete)
	user.handle(http.MethodPost, "/reset_password", "重置用户密码", sys.UserHandler.ResetPassword)

	role := r.permissionGroup(v1, "/role")
	role.handle(http.MethodGet, "/list", "查询角色列表", sys.RoleHandler.List)
	role.handle(http.MethodGet, "/get", "查询角色详情", sys.RoleHandler.Get)
	role.handle(http.MethodPost, "/create", "创建角色", sys.RoleHandler.Create)
	role.handle(http.MethodPost, "/update", "更新角色", sys.RoleHandler.Update)
	role.handle(http.MethodDelete, "/delete", "删除角色", sys.RoleHandler.Delete)
	role.handle(http.MethodGet, "/authorized", "查询角色授权", sys.RoleHandler.GetAuthorized)
	role.handle(http.MethodPost, "/authorized", "更新角色授权", sys.RoleHandler.UpdateAuthorized)

	menu := r.permissionGroup(v1, "/menu")
	menu.handle(http.MethodGet, "/list", "查询菜单列表", sys.MenuHandler.List)
	menu.handle(http.MethodGet, "/get", "查询菜单详情", sys.MenuHandler.Get)
	menu.handle(http.MethodPost, "/create", "创建菜单", sys.MenuHandler.Create)
	menu.handle(http.MethodPost, "/update", "更新菜单", sys.MenuHandler.Update)
	menu.handle(http.MethodDelete, "/delete", "删除菜单", sys.MenuHandler.Delete)

	api := r.permissionGroup(v1, "/api")
	api.handle(http.MethodGet, "/list", "查询API列表", sys.ApiHandler.List)
	api.handle(http.MethodGet, "/get", "查询API详情", sys.ApiHandler.Get)
	api.handle(http.MethodPost, "/create", "创建API", sys.ApiHandler.Create)
	api.handle(http.MethodPost, "/update", "更新API", sys.ApiHandler.Update)
	api.handle(http.MethodDelete, "/delete", "删除API", sys.ApiHandler.Delete)
	api.handle(http.MethodPost, "/refresh", "刷新API列表", sys.ApiHandler.Refresh)

	dept := r.permissionGroup(v1, "/dept")
	dept.handle(http.MethodGet, "/list", "查询部门树", sys.DeptHandler.List)
	dept.handle(http.MethodGet, "/get", "查询部门详情", sys.DeptHandler.Get)
	dept.handle(http.MethodPost, "/create", "创建部门", sys.DeptHandler.Create)
	dept.handle(http.MethodPost, "/update", "更新部门", sys.DeptHandler.Update)
	dept.handle(http.MethodDelete, "/delete", "删除部门", sys.DeptHandler.Delete)

	auditlog := r.permissionGroup(v1, "/auditlog")
	auditlog.handle(http.MethodGet, "/list", "查询审计日志", sys.AuditLogHandler.List)

	file := r.permissionGroup(v1, "/file")
	file.handle(http.MethodPost, "/upload", "上传文件", sys.FileHandler.Upload)
}
