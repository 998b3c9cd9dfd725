/**
 * 中间件:审计日志中间件
 * @author: sun977
 * @date: 2025.10.12
 * @description: 记录请求参数、响应体、状态码与耗时到 audit_logs，写入失败只记日志
 * @func:
 *   - GinAuditLogMiddleware 审计日志中间件
 */
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"neoadmin/internal/model"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"gorm.io/datatypes"
)

const (
	defaultMaxAuditBody = 1024 * 1024 // 响应体记录上限 1MB
	auditWriteTimeout   = 3 * time.Second
	auditLogListPath    = "/api/v1/auditlog/list"
	maskedValue         = "******"
)

// maskedAuditKeys 写入审计日志前替换为掩码的字段，请求参数与响应体都处理
var maskedAuditKeys = map[string]struct{}{
	"password":      {},
	"old_password":  {},
	"new_password":  {},
	"refresh_token": {},
	"access_token":  {},
}

var (
	tooLargeBody  = datatypes.JSON(`{"code":0,"msg":"Response too large to log","data":null}`)
	streamingBody = datatypes.JSON(`{"message":"[Streaming Response]"}`)
)

// auditBodyWriter 在写出响应的同时缓存响应体，超过上限后停止缓存
type auditBodyWriter struct {
	gin.ResponseWriter
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (w *auditBodyWriter) Write(b []byte) (int, error) {
	w.capture(b)
	return w.ResponseWriter.Write(b)
}

func (w *auditBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *auditBodyWriter) capture(b []byte) {
	if w.overflow {
		return
	}
	if w.buf.Len()+len(b) > w.limit {
		w.overflow = true
		w.buf.Reset()
		return
	}
	w.buf.Write(b)
}

// GinAuditLogMiddleware 审计日志中间件
// 需要在认证中间件之前注册，处理完成后从上下文读取认证结果
func (m *MiddlewareManager) GinAuditLogMiddleware() gin.HandlerFunc {
	limit := m.auditConfig.MaxResponseBody
	if limit <= 0 {
		limit = defaultMaxAuditBody
	}

	return func(c *gin.Context) {
		if !m.shouldAudit(c.Request) {
			c.Next()
			return
		}

		start := time.Now()
		args := requestArgs(c)
		writer := &auditBodyWriter{ResponseWriter: c.Writer, limit: limit}
		c.Writer = writer

		c.Next()

		record := &model.AuditLog{
			UserID:       utils.GetCurrentUserID(c),
			Username:     c.GetString("username"),
			Module:       utils.RouteTag(c.Request.URL.Path),
			Method:       c.Request.Method,
			Path:         c.Request.URL.Path,
			Status:       writer.Status(),
			ResponseTime: time.Since(start).Milliseconds(),
			IP:           utils.GetClientIP(c),
			RequestArgs:  args,
			ResponseBody: responseBody(c.Request.URL.Path, writer),
		}
		record.Summary = m.auditSummary(c, record.Method, record.Path)
		m.writeAudit(c, record)
	}
}

// shouldAudit 方法在审计范围内且路径不匹配任何排除规则
func (m *MiddlewareManager) shouldAudit(r *http.Request) bool {
	if m.auditService == nil || !m.auditConfig.Enabled {
		return false
	}
	if _, ok := m.auditMethods[r.Method]; !ok {
		return false
	}
	for _, re := range m.auditExcludes {
		if re.MatchString(r.URL.Path) {
			return false
		}
	}
	return true
}

// auditSummary 优先使用API记录的摘要，否则为 "METHOD path"
func (m *MiddlewareManager) auditSummary(c *gin.Context, method, path string) string {
	pattern := path
	if full := c.FullPath(); full != "" {
		pattern = utils.GinPathToPattern(full)
	}
	if m.apiService != nil {
		api, err := m.apiService.FindByMethodPath(c.Request.Context(), method, pattern)
		if err == nil && api != nil && api.Summary != "" {
			return api.Summary
		}
	}
	return method + " " + path
}

func (m *MiddlewareManager) writeAudit(c *gin.Context, record *model.AuditLog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), auditWriteTimeout)
	defer cancel()

	if err := m.auditService.Record(ctx, record); err != nil {
		logger.LogError(err, utils.GetRequestID(c), record.UserID, record.IP, record.Path, record.Method, map[string]interface{}{
			"operation": "write_audit_log",
			"func_name": "middleware.audit.GinAuditLogMiddleware",
			"timestamp": logger.NowFormatted(),
		})
	}
}

// requestArgs 合并查询参数与JSON请求体，multipart 请求不读取请求体
func requestArgs(c *gin.Context) datatypes.JSON {
	args := make(map[string]interface{})
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			args[key] = maskValue(key, values[0])
		}
	}

	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if !strings.Contains(c.GetHeader("Content-Type"), "multipart/form-data") {
			if body := peekBody(c.Request); gjson.ValidBytes(body) {
				parsed := gjson.ParseBytes(body)
				if parsed.IsObject() {
					parsed.ForEach(func(key, value gjson.Result) bool {
						args[key.String()] = maskValue(key.String(), value.Value())
						return true
					})
				}
			}
		}
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

// peekBody 读取请求体后放回，后续 handler 仍可绑定
func peekBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return body
}

// responseBody 生成记录用的响应体
func responseBody(path string, w *auditBodyWriter) datatypes.JSON {
	if strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream") {
		return streamingBody
	}
	if w.overflow {
		return tooLargeBody
	}

	body := w.buf.Bytes()
	if len(body) == 0 {
		return nil
	}
	if !gjson.ValidBytes(body) {
		quoted, err := json.Marshal(string(body))
		if err != nil {
			return nil
		}
		return datatypes.JSON(quoted)
	}

	var payload interface{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil
	}
	if strings.HasPrefix(path, auditLogListPath) {
		stripResponseBodies(payload)
	}
	raw, err := json.Marshal(maskValue("", payload))
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// stripResponseBodies 查询审计日志本身时去掉每条记录的 response_body
func stripResponseBodies(payload interface{}) {
	envelope, ok := payload.(map[string]interface{})
	if !ok {
		return
	}
	delete(envelope, "response_body")
	if items, ok := envelope["data"].([]interface{}); ok {
		for _, item := range items {
			if obj, ok := item.(map[string]interface{}); ok {
				delete(obj, "response_body")
			}
		}
	}
}

// maskValue 键名命中 maskedAuditKeys 时返回掩码，对象与数组逐层处理
func maskValue(key string, value interface{}) interface{} {
	if _, ok := maskedAuditKeys[strings.ToLower(key)]; ok && value != nil {
		return maskedValue
	}
	switch v := value.(type) {
	case map[string]interface{}:
		for k, item := range v {
			v[k] = maskValue(k, item)
		}
	case []interface{}:
		for i, item := range v {
			v[i] = maskValue("", item)
		}
	}
	return value
}
