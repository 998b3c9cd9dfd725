/**
 * 路由:健康检查路由
 * @author: sun977
 * @date: 2025.10.10
 * @description: 包含健康检查路由
 * @func:
 */

package router

import (
	"github.com/gin-gonic/gin"
)

// setupHealthRoutes 设置健康检查路由
func (r *Router) setupHealthRoutes(group *gin.RouterGroup) {
	health := r.systemModule.HealthHandler
	// 健康检查
	group.GET("/health", health.Health)
	// 就绪检查
	group.GET("/ready", health.Ready)
	// 存活检查
	group.GET("/live", health.Live)
}
