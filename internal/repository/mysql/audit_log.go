/**
 * 审计日志仓库层
 * @author: sun977
 * @date: 2025.09.15
 * @description: 审计日志只追加，不提供更新与删除
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"fmt"
	"time"

	"neoadmin/internal/model"

	"gorm.io/gorm"
)

// AuditLogFilter 审计日志过滤条件
type AuditLogFilter struct {
	Username  string
	Module    string
	Method    string
	Summary   string
	Status    int // 0 表示不过滤
	StartTime *time.Time
	EndTime   *time.Time
}

// AuditLogRepository 审计日志仓库
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志仓库实例
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// CreateAuditLog 写入一条审计日志
func (r *AuditLogRepository) CreateAuditLog(ctx context.Context, log *model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs 分页查询审计日志，按创建时间倒序
func (r *AuditLogRepository) ListAuditLogs(ctx context.Context, filter AuditLogFilter, offset, limit int) ([]*model.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if filter.Username != "" {
		query = query.Where("LOWER(username) LIKE LOWER(?)", "%"+filter.Username+"%")
	}
	if filter.Module != "" {
		query = query.Where("LOWER(module) LIKE LOWER(?)", "%"+filter.Module+"%")
	}
	if filter.Method != "" {
		query = query.Where("LOWER(method) LIKE LOWER(?)", "%"+filter.Method+"%")
	}
	if filter.Summary != "" {
		query = query.Where("LOWER(summary) LIKE LOWER(?)", "%"+filter.Summary+"%")
	}
	if filter.Status != 0 {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []*model.AuditLog
	if err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}
