// 审计日志接口
package system

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
)

// AuditLogHandler 审计日志处理器
type AuditLogHandler struct {
	auditService *system.AuditLogService
}

// NewAuditLogHandler 创建审计日志处理器
func NewAuditLogHandler(auditService *system.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

// List 审计日志分页查询
func (h *AuditLogHandler) List(c *gin.Context) {
	var q model.AuditLogListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	logs, total, err := h.auditService.List(c.Request.Context(), &q)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessPage(c, logs, total, q.PageQuery)
}
