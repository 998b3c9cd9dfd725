/*
 * @author: sun977
 * @date: 2025.09.15
 * @description: 审计日志服务，只追加与查询
 */
package system

import (
	"context"
	"time"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/repository/mysql"
)

// auditTimeLayouts 查询时间支持的格式
var auditTimeLayouts = []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"}

// AuditLogService 审计日志服务
type AuditLogService struct {
	auditRepo *mysql.AuditLogRepository
}

// NewAuditLogService 创建审计日志服务实例
func NewAuditLogService(auditRepo *mysql.AuditLogRepository) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo}
}

// Record 写入一条审计日志
func (s *AuditLogService) Record(ctx context.Context, log *model.AuditLog) error {
	return s.auditRepo.CreateAuditLog(ctx, log)
}

// List 分页查询审计日志
func (s *AuditLogService) List(ctx context.Context, q *model.AuditLogListQuery) ([]*model.AuditLog, int64, error) {
	q.Normalize()
	filter := mysql.AuditLogFilter{
		Username: q.Username,
		Module:   q.Module,
		Method:   q.Method,
		Summary:  q.Summary,
		Status:   q.Status,
	}

	var err error
	if filter.StartTime, err = parseAuditTime(q.StartTime); err != nil {
		return nil, 0, system.BadRequest("Invalid start_time: " + q.StartTime)
	}
	if filter.EndTime, err = parseAuditTime(q.EndTime); err != nil {
		return nil, 0, system.BadRequest("Invalid end_time: " + q.EndTime)
	}

	logs, total, err := s.auditRepo.ListAuditLogs(ctx, filter, q.Offset(), q.PageSize)
	if err != nil {
		return nil, 0, system.Internal("operation failed", err)
	}
	return logs, total, nil
}

// parseAuditTime 空字符串返回 nil
func parseAuditTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range auditTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
