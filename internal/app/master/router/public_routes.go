/**
 * 路由:公共路由
 * @author: sun977
 * @date: 2025.10.10
 * @description: 公共路由，包含登录、刷新令牌等不需要认证的路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupPublicRoutes 设置公共路由
func (r *Router) setupPublicRoutes(v1 *gin.RouterGroup) {
	base := v1.Group("/base")
	{
		// 用户登录，独立的登录限流
		base.POST("/access_token", r.middlewareManager.GinLoginRateLimitMiddleware(), r.authModule.LoginHandler.Login) // handler\auth\login.go
		// 刷新令牌(从body中传递refresh_token)
		base.POST("/refresh_token", r.middlewareManager.GinRefreshRateLimitMiddleware(), r.authModule.RefreshHandler.RefreshToken) // handler\auth\refresh.go
		// 健康检查与版本
		base.GET("/health", r.systemModule.HealthHandler.Health)
		base.GET("/version", r.systemModule.HealthHandler.Version)
	}
}
