/**
 * 中间件:认证相关中间件
 * @author: sun977
 * @date: 2025.10.10
 * @description: 定义认证与权限中间件
 * @func:
 *   - GinJWTAuthMiddleware: 访问令牌认证，绑定当前用户
 *   - GinPermissionMiddleware: 按 method + path 校验API权限
 *   - GinDebugModeMiddleware: 在上下文中标记调试模式
 */
package middleware

import (
	"neoadmin/internal/handler/common"
	pkgAuth "neoadmin/internal/pkg/auth"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinDebugModeMiddleware 调试模式标记
// 错误响应据此决定是否附带细节
func (m *MiddlewareManager) GinDebugModeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(common.DebugModeKey, m.debug)
		c.Next()
	}
}

// GinJWTAuthMiddleware Gin JWT认证中间件
// 验证请求头中的访问令牌，并将用户信息存储到Gin上下文与标准上下文中
// 使用方式: router.Use(middlewareManager.GinJWTAuthMiddleware())
func (m *MiddlewareManager) GinJWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.GetClientIP(c)
		requestID := utils.GetRequestID(c)

		token := pkgAuth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		user, err := m.sessionService.AuthenticateRequest(c.Request.Context(), token)
		if err != nil {
			logger.LogWarn("Token authentication failed", requestID, 0, clientIP, c.Request.URL.Path, c.Request.Method, map[string]interface{}{
				"operation":  "token_validation",
				"func_name":  "middleware.auth.GinJWTAuthMiddleware",
				"error":      err.Error(),
				"user_agent": c.GetHeader("User-Agent"),
			})
			common.Error(c, err)
			return
		}

		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set(common.CurrentUserKey, user)
		c.Request = c.Request.WithContext(utils.WithRequestMeta(c.Request.Context(), requestID, clientIP, user.ID))

		c.Next()
	}
}

// GinPermissionMiddleware API权限校验中间件
// 必须在 GinJWTAuthMiddleware 之后使用
func (m *MiddlewareManager) GinPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := common.CurrentUser(c)
		method := c.Request.Method
		path := c.Request.URL.Path

		if err := m.rbacService.HasPermission(c.Request.Context(), user, method, path); err != nil {
			userID := uint(0)
			if user != nil {
				userID = user.ID
			}
			logger.LogWarn("Permission denied", utils.GetRequestID(c), userID, utils.GetClientIP(c), path, method, map[string]interface{}{
				"operation": "permission_check",
				"func_name": "middleware.auth.GinPermissionMiddleware",
				"error":     err.Error(),
			})
			common.Error(c, err)
			return
		}
		c.Next()
	}
}
