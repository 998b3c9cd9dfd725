// 分类型结构化日志
package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FormatTimestamp 格式化时间戳为统一的毫秒精度格式
// 返回格式："2006-01-02 15:04:05.000"
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampFormat)
}

// NowFormatted 返回当前时间的格式化字符串
func NowFormatted() string {
	return FormatTimestamp(time.Now())
}

// LogType 日志类型枚举
type LogType string

const (
	// AccessLog 访问日志 - 记录HTTP请求
	AccessLog LogType = "access"
	// BusinessLog 业务日志 - 登录、刷新令牌、资源变更
	BusinessLog LogType = "business"
	// ErrorLog 错误日志
	ErrorLog LogType = "error"
	// SystemLog 系统日志 - 启动、关闭、组件状态
	SystemLog LogType = "system"
	// DebugLog 调试日志
	DebugLog LogType = "debug"
	// AuditLog 审计日志 - 安全相关操作
	AuditLog LogType = "audit"
)

// mergeFields 合并额外字段
func mergeFields(fields logrus.Fields, extra map[string]interface{}) logrus.Fields {
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

// requestFields 请求上下文相关的公共字段
func requestFields(logType LogType, requestID string, userID uint, clientIP, path, method string) logrus.Fields {
	return logrus.Fields{
		"type":       logType,
		"request_id": requestID,
		"user_id":    userID,
		"client_ip":  clientIP,
		"path":       path,
		"method":     method,
	}
}

// LogAccessRequest 记录HTTP访问日志
func LogAccessRequest(c *gin.Context, startTime time.Time, requestID string, userID uint) {
	if LoggerInstance == nil {
		return
	}

	fields := requestFields(AccessLog, requestID, userID, c.ClientIP(), c.Request.URL.Path, c.Request.Method)
	fields["query"] = c.Request.URL.RawQuery
	fields["status_code"] = c.Writer.Status()
	fields["response_time"] = time.Since(startTime).Milliseconds()
	fields["user_agent"] = c.Request.UserAgent()
	fields["request_size"] = c.Request.ContentLength
	fields["response_size"] = c.Writer.Size()

	LoggerInstance.logger.WithFields(fields).Info("HTTP request processed")
}

// LogBusinessOperation 记录业务操作日志
// result 为 success 时记 Info，否则记 Warn
func LogBusinessOperation(operation string, userID uint, username, clientIP, requestID, result, message string, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}

	fields := mergeFields(logrus.Fields{
		"type":       BusinessLog,
		"operation":  operation,
		"user_id":    userID,
		"username":   username,
		"client_ip":  clientIP,
		"result":     result,
		"message":    message,
		"request_id": requestID,
	}, extraFields)

	if result == "success" {
		LoggerInstance.logger.WithFields(fields).Info(fmt.Sprintf("Business operation: %s", operation))
	} else {
		LoggerInstance.logger.WithFields(fields).Warn(fmt.Sprintf("Business operation failed: %s", operation))
	}
}

// LogError 记录错误日志
func LogError(err error, requestID string, userID uint, clientIP, path, method string, extraFields map[string]interface{}) {
	if LoggerInstance == nil || err == nil {
		return
	}

	fields := mergeFields(requestFields(ErrorLog, requestID, userID, clientIP, path, method), extraFields)
	fields["error"] = err.Error()

	LoggerInstance.logger.WithFields(fields).Errorf("System error occurred: %s", err.Error())
}

// LogWarn 记录带请求上下文的警告日志(写入业务日志)
func LogWarn(message, requestID string, userID uint, clientIP, path, method string, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}
	fields := mergeFields(requestFields(BusinessLog, requestID, userID, clientIP, path, method), extraFields)
	LoggerInstance.logger.WithFields(fields).Warn(message)
}

// LogInfo 记录带请求上下文的信息日志(写入业务日志)
func LogInfo(message, requestID string, userID uint, clientIP, path, method string, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}
	fields := mergeFields(requestFields(BusinessLog, requestID, userID, clientIP, path, method), extraFields)
	LoggerInstance.logger.WithFields(fields).Info(message)
}

// LogSystemEvent 记录系统事件日志
func LogSystemEvent(component, event, message string, level logrus.Level, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}

	fields := mergeFields(logrus.Fields{
		"type":      SystemLog,
		"component": component,
		"event":     event,
		"message":   message,
	}, extraFields)

	entry := LoggerInstance.logger.WithFields(fields)
	msg := fmt.Sprintf("System event: %s - %s", component, event)
	switch level {
	case logrus.DebugLevel:
		entry.Debug(msg)
	case logrus.WarnLevel:
		entry.Warn(msg)
	case logrus.ErrorLevel:
		entry.Error(msg)
	case logrus.FatalLevel:
		entry.Fatal(msg)
	default:
		entry.Info(msg)
	}
}

// LogAuditOperation 记录审计日志
func LogAuditOperation(userID uint, username, action, resource, result, clientIP, userAgent, requestID string, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}

	fields := mergeFields(logrus.Fields{
		"type":       AuditLog,
		"user_id":    userID,
		"username":   username,
		"action":     action,
		"resource":   resource,
		"result":     result,
		"client_ip":  clientIP,
		"user_agent": userAgent,
		"request_id": requestID,
	}, extraFields)

	LoggerInstance.logger.WithFields(fields).Info(fmt.Sprintf("Audit: %s performed %s on %s", username, action, resource))
}
