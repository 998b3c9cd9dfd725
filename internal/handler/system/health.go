/**
 * 健康检查与版本信息
 * @author: sun977
 * @date: 2025.09.16
 * @description: /health /ready /live 以及 /base/health /base/version
 */
package system

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"neoadmin/internal/config"
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 构建信息，编译时通过 -ldflags "-X" 注入
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// pingTimeout 数据库探活超时
const pingTimeout = 2 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	db     *gorm.DB
	appCfg *config.AppConfig
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB, appCfg *config.AppConfig) *HealthHandler {
	return &HealthHandler{db: db, appCfg: appCfg}
}

// Health 服务健康状态，数据库不可用时返回 503
func (h *HealthHandler) Health(c *gin.Context) {
	info := model.HealthInfo{
		Status:      "healthy",
		Timestamp:   logger.NowFormatted(),
		Version:     h.appCfg.Version,
		Environment: h.appCfg.Environment,
		Service:     h.appCfg.Name,
		Database:    "connected",
	}
	if err := h.pingDB(c.Request.Context()); err != nil {
		info.Status = "unhealthy"
		info.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, model.APIResponse{Code: http.StatusServiceUnavailable, Msg: "Service Unavailable", Data: info})
		return
	}
	common.Success(c, info)
}

// Ready 就绪探针，依赖数据库
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.pingDB(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.Fail(http.StatusServiceUnavailable, "not ready"))
		return
	}
	common.Success(c, gin.H{"status": "ready"})
}

// Live 存活探针
func (h *HealthHandler) Live(c *gin.Context) {
	common.Success(c, gin.H{"status": "alive"})
}

// Version 版本信息
func (h *HealthHandler) Version(c *gin.Context) {
	common.Success(c, model.VersionInfo{
		Version:     h.appCfg.Version,
		AppTitle:    h.appCfg.Name,
		ProjectName: h.appCfg.Name,
		Build:       BuildTime,
		Commit:      GitCommit,
		GoVersion:   runtime.Version(),
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
