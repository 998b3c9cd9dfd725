package router

import (
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// permissionGroup 需要权限校验的路由分组
// 通过 handle 注册的路由会被记录，用于同步 API 表
type permissionGroup struct {
	router *Router
	group  *gin.RouterGroup
}

// permissionGroup 在 parent 下创建带 JWT 与权限校验的分组
func (r *Router) permissionGroup(parent *gin.RouterGroup, relativePath string) *permissionGroup {
	group := parent.Group(relativePath)
	group.Use(r.middlewareManager.GinJWTAuthMiddleware())
	group.Use(r.middlewareManager.GinPermissionMiddleware())
	return &permissionGroup{router: r, group: group}
}

// handle 注册路由并记录 (method, path) 及摘要
func (g *permissionGroup) handle(method, relativePath, summary string, handler gin.HandlerFunc) {
	g.group.Handle(method, relativePath, handler)

	fullPath := joinPath(g.group.BasePath(), relativePath)
	g.router.routes = append(g.router.routes, model.RouteMeta{
		Method:  method,
		Path:    utils.GinPathToPattern(fullPath),
		Summary: summary,
		Tags:    utils.RouteTag(fullPath),
	})
}

func joinPath(base, relative string) string {
	if relative == "" {
		return base
	}
	if base == "/" {
		base = ""
	}
	if relative[0] != '/' {
		relative = "/" + relative
	}
	return base + relative
}
