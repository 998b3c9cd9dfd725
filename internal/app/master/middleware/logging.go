/**
 * 中间件:日志相关中间件
 * @author: sun977
 * @date: 2025.10.10
 * @description: 定义日志中间件
 * @func:
 *   - GinLoggingMiddleware Gin访问日志中间件,状态码>=400时同时记录错误日志
 */
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinLoggingMiddleware Gin日志中间件
// 记录所有HTTP请求的访问日志和错误日志
// 使用方式: router.Use(middlewareManager.GinLoggingMiddleware())
func (m *MiddlewareManager) GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		requestID := utils.GetRequestID(c)
		userID := utils.GetCurrentUserID(c)
		logger.LogAccessRequest(c, start, requestID, userID)

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		errorMsg := http.StatusText(statusCode)
		if errs := c.Errors; len(errs) > 0 {
			errorMsg = errs.String()
		}
		logger.LogError(fmt.Errorf("HTTP %d: %s", statusCode, errorMsg), requestID, userID, utils.GetClientIP(c), c.Request.URL.Path, c.Request.Method, map[string]interface{}{
			"operation":   "http_request",
			"status_code": statusCode,
			"username":    c.GetString("username"),
			"user_agent":  c.GetHeader("User-Agent"),
			"duration":    time.Since(start).Milliseconds(),
			"timestamp":   logger.NowFormatted(),
		})
	}
}
