package middleware

import (
	"regexp"
	"sync"

	"neoadmin/internal/config"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/sensitive"
	"neoadmin/internal/service/auth"
	"neoadmin/internal/service/system"

	"github.com/sirupsen/logrus"
)

// MiddlewareManager 中间件管理器
// 负责管理所有Gin框架的中间件，提供统一的中间件接口
type MiddlewareManager struct {
	sessionService  *auth.SessionService    // 会话服务，用于访问令牌认证
	rbacService     *auth.RBACService       // RBAC服务，用于API权限校验
	auditService    *system.AuditLogService // 审计日志服务
	apiService      *system.ApiService      // API服务，审计摘要取自API记录
	sensitiveFilter *sensitive.Filter       // 敏感词过滤器
	securityConfig  *config.SecurityConfig  // 安全配置
	auditConfig     *config.AuditConfig     // 审计配置
	sensitiveConfig *config.SensitiveConfig // 敏感词配置
	serverConfig    *config.ServerConfig    // 服务器配置(HSTS)
	debug           bool                    // 调试模式，错误响应附带细节
	auditExcludes   []*regexp.Regexp        // 审计排除路径
	auditMethods    map[string]struct{}     // 审计的HTTP方法
	rateLimiter     RateLimiter             // 全局限流器
	rateLimiterOnce sync.Once               // 全局限流器只创建一次
}

// defaultAuditExcludes 默认的审计排除路径
var defaultAuditExcludes = []string{
	`^/api/v1/base/access_token$`,
	`^/docs`,
	`^/openapi.json`,
}

// defaultAuditMethods 默认记录的HTTP方法
var defaultAuditMethods = []string{"GET", "POST", "PUT", "DELETE"}

// NewMiddlewareManager 创建中间件管理器
// 参数:
//   - sessionService: 会话服务实例
//   - rbacService: RBAC服务实例
//   - auditService / apiService: 审计日志写入与摘要查询
//   - sensitiveFilter: 敏感词过滤器，可为 nil
//   - cfg: 全局配置
//
// 返回: 中间件管理器实例
func NewMiddlewareManager(
	sessionService *auth.SessionService,
	rbacService *auth.RBACService,
	auditService *system.AuditLogService,
	apiService *system.ApiService,
	sensitiveFilter *sensitive.Filter,
	cfg *config.Config,
) *MiddlewareManager {
	m := &MiddlewareManager{
		sessionService:  sessionService,
		rbacService:     rbacService,
		auditService:    auditService,
		apiService:      apiService,
		sensitiveFilter: sensitiveFilter,
		securityConfig:  &cfg.Security,
		auditConfig:     &cfg.Audit,
		sensitiveConfig: &cfg.Sensitive,
		serverConfig:    &cfg.Server,
		debug:           cfg.App.Debug,
	}
	m.auditExcludes = compileExcludes(cfg.Audit.ExcludePaths)
	m.auditMethods = methodSet(cfg.Audit.Methods)
	return m
}

// compileExcludes 编译审计排除正则，非法表达式跳过并告警
func compileExcludes(patterns []string) []*regexp.Regexp {
	if len(patterns) == 0 {
		patterns = defaultAuditExcludes
	}
	result := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			logger.LogSystemEvent("middleware", "audit_exclude_invalid", "Invalid audit exclude pattern: "+p, logrus.WarnLevel, map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		result = append(result, re)
	}
	return result
}

func methodSet(methods []string) map[string]struct{} {
	if len(methods) == 0 {
		methods = defaultAuditMethods
	}
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[m] = struct{}{}
	}
	return set
}
