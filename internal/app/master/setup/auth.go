package setup

import (
	"neoadmin/internal/config"
	authHandler "neoadmin/internal/handler/auth"
	authPkg "neoadmin/internal/pkg/auth"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repo/redis"
	"neoadmin/internal/repository/mysql"
	authService "neoadmin/internal/service/auth"

	"gorm.io/gorm"
)

// BuildAuthModule 构建认证模块（Auth）
// 责任边界：
// - 初始化认证相关的工具、仓库与服务（JWT、Password、SessionService、RBACService）
// - 初始化认证相关的处理器（Login/Refresh/Profile）
//
// 参数说明：
// - db：数据库连接（gorm.DB）
// - cache：缓存管理器；Redis 不可用时为禁用状态，权限集合直接查库
// - cfg：全局配置；用于初始化 JWT 参数
// - passwordConfig：argon2 参数，nil 时使用默认值
func BuildAuthModule(db *gorm.DB, cache *redis.CacheManager, cfg *config.Config, passwordConfig *authPkg.PasswordConfig) *AuthModule {
	logger.WithFields(map[string]interface{}{
		"path":      "internal.app.master.setup.auth.BuildAuthModule",
		"operation": "setup",
		"option":    "setup.auth.begin",
		"func_name": "setup.auth.BuildAuthModule",
	}).Info("开始构建认证模块")

	// 1) 初始化工具：JWTManager 与 PasswordManager（从配置读取TTL）
	jwtCfg := cfg.Security.JWT
	jwtManager := authPkg.NewJWTManager(jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.AccessTokenExpire, jwtCfg.RefreshTokenExpire)
	passwordManager := authPkg.NewPasswordManager(passwordConfig)

	// 2) 初始化仓库
	userRepo := mysql.NewUserRepository(db)
	menuRepo := mysql.NewMenuRepository(db)
	apiRepo := mysql.NewApiRepository(db)

	// 3) 初始化服务
	rbacService := authService.NewRBACService(userRepo, cache)
	sessionService := authService.NewSessionService(userRepo, menuRepo, apiRepo, passwordManager, jwtManager)

	// 4) 聚合输出
	module := &AuthModule{
		LoginHandler:    authHandler.NewLoginHandler(sessionService),
		RefreshHandler:  authHandler.NewRefreshHandler(sessionService),
		ProfileHandler:  authHandler.NewProfileHandler(sessionService),
		SessionService:  sessionService,
		RBACService:     rbacService,
		PasswordManager: passwordManager,
		JWTManager:      jwtManager,
		UserRepo:        userRepo,
		MenuRepo:        menuRepo,
		ApiRepo:         apiRepo,
	}

	logger.WithFields(map[string]interface{}{
		"path":      "internal.app.master.setup.auth.BuildAuthModule",
		"operation": "setup",
		"option":    "setup.auth.done",
		"func_name": "setup.auth.BuildAuthModule",
	}).Info("认证模块构建完成")

	return module
}
