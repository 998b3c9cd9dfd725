/**
 * 中间件:敏感词输入检查
 * @author: sun977
 * @date: 2025.10.12
 * @description: 检查配置路径下 POST/PUT 的 JSON 请求体，命中敏感词时直接返回拦截结果
 * @func:
 *   - GinSensitiveInputMiddleware 敏感输入中间件[流式请求返回SSE错误事件，普通请求返回blocked]
 */
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// BlockedResponse 普通请求命中敏感词时的响应
type BlockedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// GinSensitiveInputMiddleware 敏感输入中间件
func (m *MiddlewareManager) GinSensitiveInputMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.shouldCheckSensitive(c.Request) {
			c.Next()
			return
		}

		body := peekBody(c.Request)
		if !gjson.ValidBytes(body) {
			c.Next()
			return
		}

		hit, word := m.sensitiveFilter.Contains(jsonText(gjson.ParseBytes(body)))
		if !hit {
			c.Next()
			return
		}

		logger.LogWarn("Sensitive input blocked", utils.GetRequestID(c), utils.GetCurrentUserID(c), utils.GetClientIP(c), c.Request.URL.Path, c.Request.Method, map[string]interface{}{
			"operation": "sensitive_input_check",
			"func_name": "middleware.sensitive.GinSensitiveInputMiddleware",
			"word":      word,
		})

		msg := m.sensitiveFilter.ResponseMessage()
		if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
			writeSSEBlocked(c, msg)
			return
		}
		c.AbortWithStatusJSON(http.StatusOK, BlockedResponse{
			Status:  "blocked",
			Message: msg,
			Code:    system.ErrSensitiveContentDetected.Message,
		})
	}
}

// shouldCheckSensitive 过滤器启用、方法为 POST/PUT、JSON 请求体且路径命中配置前缀
func (m *MiddlewareManager) shouldCheckSensitive(r *http.Request) bool {
	if m.sensitiveFilter == nil || !m.sensitiveFilter.Enabled() {
		return false
	}
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return false
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return false
	}
	for _, prefix := range m.sensitiveConfig.CheckPaths {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// writeSSEBlocked 以SSE错误事件结束流式请求
func writeSSEBlocked(c *gin.Context, msg string) {
	payload, _ := json.Marshal(map[string]string{"event": "error", "answer": msg})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	_, _ = c.Writer.WriteString("data: " + string(payload) + "\n\n")
	_, _ = c.Writer.WriteString("data: [DONE]\n\n")
	c.Writer.Flush()
	c.Abort()
}

// jsonText 拼接JSON中全部字符串值，用换行分隔避免跨字段拼出敏感词
func jsonText(value gjson.Result) string {
	var b strings.Builder
	var walk func(v gjson.Result)
	walk = func(v gjson.Result) {
		switch {
		case v.IsObject() || v.IsArray():
			v.ForEach(func(_, child gjson.Result) bool {
				walk(child)
				return true
			})
		case v.Type == gjson.String:
			b.WriteString(v.Str)
			b.WriteByte('\n')
		}
	}
	walk(value)
	return b.String()
}
