/*
 * @author: sun977
 * @date: 2025.11.12
 * @description: 通用的工具包
 * @func:
 * 	1.GetClientIP 获取客户端真实IP
 * 	2.GenerateUUID 生成UUID
 * 	3.上下文读写(用户ID/请求ID/客户端IP)
 */

package utils

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKey 类型用于标准上下文键的定义，避免使用裸字符串造成键冲突
type ContextKey string

const (
	// ContextKeyClientIP 标准上下文中存储客户端IP的统一键
	ContextKeyClientIP ContextKey = "client_ip"
	// ContextKeyRequestID 标准上下文中存储请求ID的统一键
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyUserID 标准上下文中存储当前用户ID的统一键
	ContextKeyUserID ContextKey = "user_id"
)

// GetClientIP 获取客户端IP
// 转发头只在远端地址属于 engine 可信代理时生效，由 gin 的 ClientIP 判定
func GetClientIP(c *gin.Context) string {
	return NormalizeIP(c.ClientIP())
}

// GenerateUUID 生成UUID字符串
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GenerateHexID 生成32位无连字符的十六进制ID，用作文件ID
func GenerateHexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GetCurrentUserID 从 Gin 上下文中提取当前用户ID
// 不存在则返回0
// 来源：user_id 由认证中间件写入
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint); ok2 {
			return id
		}
	}
	return 0
}

// GetRequestID 从 Gin 上下文读取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// WithRequestMeta 把请求ID、客户端IP、用户ID写入标准上下文，供 service 层以下使用
func WithRequestMeta(ctx context.Context, requestID, clientIP string, userID uint) context.Context {
	ctx = context.WithValue(ctx, ContextKeyRequestID, requestID)
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetClientIPFromContext 从标准上下文读取客户端IP（统一键）
// 如果不存在或类型不匹配，返回空字符串
// 用法示例：ip := utils.GetClientIPFromContext(ctx)
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// GetRequestIDFromContext 从标准上下文读取请求ID
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// GetUserIDFromContext 从标准上下文读取当前用户ID
func GetUserIDFromContext(ctx context.Context) uint {
	if id, ok := ctx.Value(ContextKeyUserID).(uint); ok {
		return id
	}
	return 0
}
