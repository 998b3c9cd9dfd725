/**
 * 应用程序生命周期
 * @author: sun977
 * @date: 2025.09.05
 * @description: 组装配置、日志、数据库、缓存与路由，负责HTTP服务的启动与优雅关闭
 * @func:
 * 	1.NewApp 按顺序初始化各组件
 * 	2.Start 启动HTTP服务与配置热更新
 * 	3.Stop 关闭HTTP服务并释放资源
 */
package master

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"neoadmin/internal/app/master/router"
	"neoadmin/internal/app/master/setup"
	"neoadmin/internal/config"
	"neoadmin/internal/pkg/database"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/sensitive"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options 启动参数
type Options struct {
	ConfigPath string // 配置文件目录
	Env        string // 环境标识
	Watch      bool   // 是否监听配置文件变化
}

// App 应用程序结构体
type App struct {
	opts        Options
	config      *config.Config
	logManager  *logger.LoggerManager
	db          *gorm.DB
	redisClient *redis.Client
	router      *router.Router
	server      *http.Server
	watcher     *config.ConfigWatcher
}

// NewApp 创建新的应用程序实例
// 初始化顺序：配置 -> 日志 -> 数据库 -> Redis(可选) -> 表结构 -> 路由 -> 初始数据
func NewApp(opts Options) (*App, error) {
	// 1) 加载配置
	cfg, err := config.LoadConfig(opts.ConfigPath, opts.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2) 初始化日志
	logManager, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	gin.SetMode(cfg.Server.Mode)

	app := &App{opts: opts, config: cfg, logManager: logManager}

	// 3) 数据库
	app.db, err = database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := database.AutoMigrate(app.db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 4) Redis，连接失败时降级为无缓存运行
	if cfg.Database.Redis.Enabled {
		app.redisClient, err = database.NewRedisConnection(&cfg.Database.Redis)
		if err != nil {
			logger.LogSystemEvent("app", "redis_unavailable", "Redis连接失败，缓存已禁用", logrus.WarnLevel, map[string]interface{}{
				"address":   cfg.Database.Redis.GetRedisAddress(),
				"error":     err.Error(),
				"timestamp": logger.NowFormatted(),
			})
			app.redisClient = nil
		}
	}

	// 5) 路由
	app.router = router.NewRouter(app.db, app.redisClient, cfg)
	app.router.SetupRoutes()

	// 6) 初始数据：超级管理员与API表
	if err := app.seed(context.Background()); err != nil {
		return nil, err
	}

	app.server = &http.Server{
		Addr:           cfg.Server.GetAddress(),
		Handler:        app.router.GetEngine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return app, nil
}

func (a *App) seed(ctx context.Context) error {
	authModule := a.router.AuthModule()
	if _, err := setup.InitSuperuser(ctx, authModule.UserRepo, authModule.PasswordManager, a.config.Superuser); err != nil {
		return fmt.Errorf("failed to init superuser: %w", err)
	}
	if err := setup.SyncApis(ctx, a.router.SystemModule().ApiService, a.router.Routes()); err != nil {
		return fmt.Errorf("failed to sync apis: %w", err)
	}
	return nil
}

// GetConfig 获取配置
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetRouter 获取路由器实例
func (a *App) GetRouter() *router.Router {
	return a.router
}

// Start 启动HTTP服务，阻塞直到服务关闭
func (a *App) Start() error {
	if a.opts.Watch {
		if err := a.startWatcher(); err != nil {
			logger.LogSystemEvent("app", "watcher_failed", "配置监听启动失败", logrus.WarnLevel, map[string]interface{}{
				"error":     err.Error(),
				"timestamp": logger.NowFormatted(),
			})
		}
	}

	logger.LogSystemEvent("app", "server_start", "HTTP服务启动", logrus.InfoLevel, map[string]interface{}{
		"address":     a.server.Addr,
		"environment": a.config.App.Environment,
		"version":     a.config.App.Version,
		"timestamp":   logger.NowFormatted(),
	})
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 关闭HTTP服务并释放资源
func (a *App) Stop(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("config watcher: %w", err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	logger.LogSystemEvent("app", "server_stop", "HTTP服务已停止", logrus.InfoLevel, map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})
	if err := a.logManager.Close(); err != nil {
		errs = append(errs, fmt.Errorf("logger close: %w", err))
	}
	return errors.Join(errs...)
}

// startWatcher 监听配置目录与敏感词文件，重载日志配置和敏感词库
func (a *App) startWatcher() error {
	watcher, err := config.NewConfigWatcher(a.opts.ConfigPath, a.opts.Env, a.config)
	if err != nil {
		return err
	}
	if err := watcher.WatchFile(a.config.Sensitive.WordsFile); err != nil {
		return err
	}

	watcher.AddCallback(func(_, newConfig *config.Config) error {
		return a.logManager.UpdateConfig(&newConfig.Log)
	})
	watcher.AddCallback(reloadSensitive(a.router.SensitiveFilter()))

	if err := watcher.Start(); err != nil {
		return err
	}
	a.watcher = watcher
	return nil
}

func reloadSensitive(filter *sensitive.Filter) config.ReloadCallback {
	return func(_, newConfig *config.Config) error {
		if !filter.Reload(sensitive.OptionsFromConfig(&newConfig.Sensitive)) {
			return fmt.Errorf("failed to reload sensitive words")
		}
		return nil
	}
}
