/**
 * 路由:路由管理器
 * @author: sun977
 * @date: 2025.10.10
 * @description: 路由管理器，包含Router结构体、NewRouter函数和SetupRoutes主函数
 * @func:
 */
package router

import (
	"neoadmin/internal/app/master/middleware"
	"neoadmin/internal/app/master/setup"
	"neoadmin/internal/config"
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/sensitive"
	"neoadmin/internal/pkg/utils"

	// 统一使用项目封装的日志模块，便于采集规范字段与统一输出
	"neoadmin/internal/pkg/logger"
	redisRepo "neoadmin/internal/repo/redis"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Router 路由管理器
type Router struct {
	config            *config.Config
	engine            *gin.Engine
	middlewareManager *middleware.MiddlewareManager
	sensitiveFilter   *sensitive.Filter
	authModule        *setup.AuthModule
	systemModule      *setup.SystemModule

	// 已注册的权限路由，API 刷新与初始化同步使用
	routes []model.RouteMeta
}

// NewRouter 创建路由管理器实例
// redisClient 可为 nil，此时缓存禁用
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Router {
	if err := utils.RegisterValidators(); err != nil {
		logger.WithFields(map[string]interface{}{
			"path":      "router.NewRouter",
			"operation": "register_validators",
			"option":    "utils.RegisterValidators",
			"func_name": "router.NewRouter",
			"error":     err.Error(),
		}).Warn("注册自定义校验器失败")
	}

	cache := redisRepo.NewCacheManager(redisClient, &cfg.Cache)
	sensitiveFilter := sensitive.NewFilter(sensitive.OptionsFromConfig(&cfg.Sensitive))

	r := &Router{
		config:          cfg,
		engine:          gin.New(),
		sensitiveFilter: sensitiveFilter,
	}

	// 只有来自可信代理的请求才解析 X-Forwarded-For / X-Real-IP
	if err := r.engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.WithFields(map[string]interface{}{
			"path":            "router.NewRouter",
			"operation":       "set_trusted_proxies",
			"option":          "engine.SetTrustedProxies",
			"func_name":       "router.NewRouter",
			"trusted_proxies": cfg.Server.TrustedProxies,
			"error":           err.Error(),
		}).Warn("可信代理配置无效，忽略全部转发头")
		_ = r.engine.SetTrustedProxies(nil)
	}

	// 认证模块
	r.authModule = setup.BuildAuthModule(db, cache, cfg, nil)
	// 系统管理模块，API 刷新读取本路由器注册的权限路由
	r.systemModule = setup.BuildSystemModule(db, cache, cfg, r.authModule, r.Routes)

	r.middlewareManager = middleware.NewMiddlewareManager(
		r.authModule.SessionService,
		r.authModule.RBACService,
		r.systemModule.AuditLogService,
		r.systemModule.ApiService,
		sensitiveFilter,
		cfg,
	)

	return r
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	r.registerGlobalMiddleware()
	r.registerRoutes()
}

// registerGlobalMiddleware 注册全局中间件
// 顺序：恢复 -> 请求ID -> 调试标记 -> CORS -> 安全头 -> 访问日志 -> 限流 -> 审计 -> 敏感词
func (r *Router) registerGlobalMiddleware() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(r.middlewareManager.GinRequestIDMiddleware())
	r.engine.Use(r.middlewareManager.GinDebugModeMiddleware())
	r.engine.Use(r.middlewareManager.GinCORSMiddleware())
	r.engine.Use(r.middlewareManager.GinSecurityHeadersMiddleware())
	r.engine.Use(r.middlewareManager.GinLoggingMiddleware())
	r.engine.Use(r.middlewareManager.GinRateLimitMiddleware())
	r.engine.Use(r.middlewareManager.GinAuditLogMiddleware())
	r.engine.Use(r.middlewareManager.GinSensitiveInputMiddleware())

	logger.WithFields(map[string]interface{}{
		"path":      "router.registerGlobalMiddleware",
		"operation": "register_middleware",
		"option":    "engine.Use",
		"func_name": "router.registerGlobalMiddleware",
	}).Info("全局中间件注册完成")
}

// registerRoutes 注册业务路由
func (r *Router) registerRoutes() {
	// 全局健康检查
	r.setupHealthRoutes(r.engine.Group(""))

	api := r.engine.Group("/api")
	v1 := api.Group("/v1")

	r.setupPublicRoutes(v1)
	r.setupUserRoutes(v1)
	r.setupAdminRoutes(v1)

	logger.WithFields(map[string]interface{}{
		"path":      "router.registerRoutes",
		"operation": "register_routes",
		"option":    "engine.Group",
		"func_name": "router.registerRoutes",
		"count":     len(r.routes),
	}).Info("路由注册完成")
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Routes 已注册的权限路由副本
func (r *Router) Routes() []model.RouteMeta {
	out := make([]model.RouteMeta, len(r.routes))
	copy(out, r.routes)
	return out
}

// AuthModule 认证模块
func (r *Router) AuthModule() *setup.AuthModule {
	return r.authModule
}

// SystemModule 系统管理模块
func (r *Router) SystemModule() *setup.SystemModule {
	return r.systemModule
}

// SensitiveFilter 敏感词过滤器，配置热更新时重载
func (r *Router) SensitiveFilter() *sensitive.Filter {
	return r.sensitiveFilter
}
