package setup

import (
	"neoadmin/internal/config"
	systemHandler "neoadmin/internal/handler/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repo/redis"
	"neoadmin/internal/repository/mysql"
	systemService "neoadmin/internal/service/system"

	"gorm.io/gorm"
)

// BuildSystemModule 构建系统管理模块
// 复用认证模块中的用户、菜单、API仓库与密码管理器
// routes 为 API 刷新接口提供当前注册的权限路由
func BuildSystemModule(
	db *gorm.DB,
	cache *redis.CacheManager,
	cfg *config.Config,
	authModule *AuthModule,
	routes systemHandler.RouteProvider,
) *SystemModule {
	logger.WithFields(map[string]interface{}{
		"path":      "internal.app.master.setup.system.BuildSystemModule",
		"operation": "setup",
		"option":    "setup.system.begin",
		"func_name": "setup.system.BuildSystemModule",
	}).Info("开始构建系统管理模块")

	// 1) 初始化仓库
	roleRepo := mysql.NewRoleRepository(db)
	deptRepo := mysql.NewDeptRepository(db)
	auditRepo := mysql.NewAuditLogRepository(db)
	fileRepo := mysql.NewFileMappingRepository(db)

	// 2) 初始化服务
	userService := systemService.NewUserService(authModule.UserRepo, roleRepo, deptRepo, authModule.PasswordManager, cache, cfg.Superuser.DefaultResetPassword)
	roleService := systemService.NewRoleService(roleRepo, authModule.MenuRepo, authModule.ApiRepo, cache)
	menuService := systemService.NewMenuService(authModule.MenuRepo)
	apiService := systemService.NewApiService(authModule.ApiRepo, cache)
	deptService := systemService.NewDeptService(deptRepo)
	auditService := systemService.NewAuditLogService(auditRepo)
	fileService := systemService.NewFileService(fileRepo, &cfg.Upload)

	// 3) 初始化处理器
	module := &SystemModule{
		UserHandler:     systemHandler.NewUserHandler(userService),
		RoleHandler:     systemHandler.NewRoleHandler(roleService),
		MenuHandler:     systemHandler.NewMenuHandler(menuService),
		ApiHandler:      systemHandler.NewApiHandler(apiService, routes),
		DeptHandler:     systemHandler.NewDeptHandler(deptService),
		AuditLogHandler: systemHandler.NewAuditLogHandler(auditService),
		FileHandler:     systemHandler.NewFileHandler(fileService),
		HealthHandler:   systemHandler.NewHealthHandler(db, &cfg.App),
		UserService:     userService,
		ApiService:      apiService,
		DeptService:     deptService,
		AuditLogService: auditService,
	}

	logger.WithFields(map[string]interface{}{
		"path":      "internal.app.master.setup.system.BuildSystemModule",
		"operation": "setup",
		"option":    "setup.system.done",
		"func_name": "setup.system.BuildSystemModule",
	}).Info("系统管理模块构建完成")

	return module
}
