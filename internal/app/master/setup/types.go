/**
 * 初始化
 * @author: sun977
 * @date: 2025.11.05
 * @description: 包含master程序初始化相关的类型定义
 * @func: Handler 本身包含 Service,Service 再单独暴露一遍供中间件与启动流程使用
 */
package setup

import (
	authHandler "neoadmin/internal/handler/auth"
	systemHandler "neoadmin/internal/handler/system"
	authPkg "neoadmin/internal/pkg/auth"
	"neoadmin/internal/repository/mysql"
	authService "neoadmin/internal/service/auth"
	systemService "neoadmin/internal/service/system"
)

// AuthModule 是认证模块的聚合输出
// 字段说明：
// - LoginHandler/RefreshHandler/ProfileHandler：认证相关的路由处理器
// - SessionService/RBACService：中间件需要的服务实例
// - PasswordManager/UserRepo：超级管理员初始化与系统模块复用
type AuthModule struct {
	// Handlers（认证相关处理器）
	LoginHandler   *authHandler.LoginHandler
	RefreshHandler *authHandler.RefreshHandler
	ProfileHandler *authHandler.ProfileHandler

	// Services（对外暴露以供 router_manager 及其他模块使用）
	SessionService  *authService.SessionService
	RBACService     *authService.RBACService
	PasswordManager *authPkg.PasswordManager
	JWTManager      *authPkg.JWTManager

	// Repositories（系统模块复用同一组仓库）
	UserRepo *mysql.UserRepository
	MenuRepo *mysql.MenuRepository
	ApiRepo  *mysql.ApiRepository
}

// SystemModule 是系统管理模块的聚合输出
// 用户、角色、菜单、API、部门、审计日志、文件上传与健康检查
type SystemModule struct {
	// Handlers
	UserHandler     *systemHandler.UserHandler
	RoleHandler     *systemHandler.RoleHandler
	MenuHandler     *systemHandler.MenuHandler
	ApiHandler      *systemHandler.ApiHandler
	DeptHandler     *systemHandler.DeptHandler
	AuditLogHandler *systemHandler.AuditLogHandler
	FileHandler     *systemHandler.FileHandler
	HealthHandler   *systemHandler.HealthHandler

	// Services（审计中间件与启动流程使用）
	UserService     *systemService.UserService
	ApiService      *systemService.ApiService
	DeptService     *systemService.DeptService
	AuditLogService *systemService.AuditLogService
}
