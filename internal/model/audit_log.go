/**
 * 模型:审计日志模型
 * @author: sun977
 * @date: 2025.08.29
 * @description: 记录经过审计中间件的每一次请求
 * @func: AuditLog 结构体
 */
package model

import "gorm.io/datatypes"

// AuditLog 审计日志
type AuditLog struct {
	BaseModel
	UserID       uint           `json:"user_id" gorm:"index;comment:用户ID"`
	Username     string         `json:"username" gorm:"size:64;default:'';index;comment:用户名称"`
	Module       string         `json:"module" gorm:"size:64;default:'';index;comment:功能模块"`
	Summary      string         `json:"summary" gorm:"size:128;default:'';index;comment:请求描述"`
	Method       string         `json:"method" gorm:"size:10;default:'';index;comment:请求方法"`
	Path         string         `json:"path" gorm:"size:255;default:'';index;comment:请求路径"`
	Status       int            `json:"status" gorm:"default:-1;index;comment:状态码"`
	ResponseTime int64          `json:"response_time" gorm:"default:0;index;comment:响应时间(ms)"`
	IP           string         `json:"ip" gorm:"size:45;comment:客户端IP"`
	RequestArgs  datatypes.JSON `json:"request_args" gorm:"type:json;comment:请求参数"`
	ResponseBody datatypes.JSON `json:"response_body" gorm:"type:json;comment:返回数据"`
}

// TableName 指定审计日志表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
