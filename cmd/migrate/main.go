/*
*
  - 数据库迁移工具
  - @author: Sun977
  - @date: 2025.10.15
  - @description: 数据库模型迁移和初始数据填充工具
  - @usage: go run main.go -env=test -seed=true -drop=true
    -config string
    配置文件目录 (默认 ./configs)
    -drop
    是否先删除表（危险操作）
    -env string
    环境标识 (test, dev, prod) (default "test")
    -seed
    是否填充初始数据 (default true)

示例:
main.exe -env=test -seed=true    # 测试环境迁移并填充数据
main.exe -env=prod -seed=false   # 生产环境仅迁移表结构
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"neoadmin/internal/app/master/router"
	"neoadmin/internal/app/master/setup"
	"neoadmin/internal/config"
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/database"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repository/mysql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateOptions 迁移选项配置
type MigrateOptions struct {
	ConfigPath  string // 配置文件目录
	Environment string // 环境标识: test, dev, prod
	SeedData    bool   // 是否填充初始数据
	DropFirst   bool   // 是否先删除表（危险操作）
}

// defaultRoleName 初始化时创建的只读角色
const defaultRoleName = "普通用户"

// DataSeeder 初始数据填充器
// 每一步都只在目标数据不存在时写入，可重复执行
type DataSeeder struct {
	db     *gorm.DB
	cfg    *config.Config
	log    *logger.LoggerManager
	router *router.Router
}

func main() {
	// 解析命令行参数
	opts := parseFlags()

	// 加载配置
	cfg, err := config.LoadConfig(opts.ConfigPath, opts.Environment)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 初始化日志管理器
	logManager, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer logManager.Close()

	logManager.GetLogger().WithFields(logrus.Fields{
		"path":        "cmd/migrate/main.go",
		"operation":   "database_migration",
		"option":      "migrate.start",
		"func_name":   "main",
		"environment": opts.Environment,
		"driver":      cfg.Database.Driver,
		"seed_data":   opts.SeedData,
		"drop_first":  opts.DropFirst,
	}).Info("开始数据库迁移")

	// 初始化数据库连接
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logManager.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "database_connection",
			"option":    "database.NewConnection",
			"func_name": "main",
			"error":     err.Error(),
		}).Fatal("数据库连接失败")
	}

	// 执行迁移
	if err := performMigration(db, cfg, opts, logManager); err != nil {
		logManager.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "database_migration",
			"option":    "performMigration",
			"func_name": "main",
			"error":     err.Error(),
		}).Fatal("数据库迁移失败")
	}

	logManager.GetLogger().WithFields(logrus.Fields{
		"path":      "cmd/migrate/main.go",
		"operation": "database_migration",
		"option":    "migrate.complete",
		"func_name": "main",
	}).Info("数据库迁移完成")
}

// parseFlags 解析命令行参数
func parseFlags() *MigrateOptions {
	opts := &MigrateOptions{}

	flag.StringVar(&opts.ConfigPath, "config", "", "配置文件目录 (默认 ./configs)")
	flag.StringVar(&opts.Environment, "env", "test", "环境标识 (test, dev, prod)")
	flag.BoolVar(&opts.SeedData, "seed", true, "是否填充初始数据")
	flag.BoolVar(&opts.DropFirst, "drop", false, "是否先删除表（危险操作）")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "neoadmin 数据库迁移工具\n\n")
		fmt.Fprintf(os.Stderr, "用法: %s [选项]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n示例:\n")
		fmt.Fprintf(os.Stderr, "  %s -env=test -seed=true    # 测试环境迁移并填充数据\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -env=prod -seed=false   # 生产环境仅迁移表结构\n", os.Args[0])
	}

	flag.Parse()
	return opts
}

// performMigration 执行数据库迁移
func performMigration(db *gorm.DB, cfg *config.Config, opts *MigrateOptions, logManager *logger.LoggerManager) error {
	// 1. 删除表（如果指定）
	if opts.DropFirst {
		logManager.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "drop_tables",
			"option":    "database.DropAll",
			"func_name": "performMigration",
		}).Warn("开始删除数据库表")
		if err := database.DropAll(db); err != nil {
			return fmt.Errorf("删除表失败: %w", err)
		}
	}

	// 2. 执行模型迁移
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("模型迁移失败: %w", err)
	}

	// 3. 填充初始数据（如果指定）
	if opts.SeedData {
		seeder := NewDataSeeder(db, cfg, logManager)
		if err := seeder.SeedAll(context.Background()); err != nil {
			return fmt.Errorf("数据填充失败: %w", err)
		}
	}

	return nil
}

// NewDataSeeder 创建数据填充器
// 构建一个不带Redis的路由器，用于读取权限路由表
func NewDataSeeder(db *gorm.DB, cfg *config.Config, logManager *logger.LoggerManager) *DataSeeder {
	r := router.NewRouter(db, nil, cfg)
	r.SetupRoutes()
	return &DataSeeder{db: db, cfg: cfg, log: logManager, router: r}
}

// SeedAll 依次填充：超级管理员 -> API -> 根部门 -> 菜单 -> 默认角色
func (s *DataSeeder) SeedAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"superuser", s.seedSuperuser},
		{"apis", s.seedApis},
		{"dept", s.seedRootDept},
		{"menus", s.seedMenus},
		{"role", s.seedDefaultRole},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		s.log.GetLogger().WithFields(logrus.Fields{
			"path":      "cmd/migrate/main.go",
			"operation": "seed",
			"option":    step.name,
			"func_name": "SeedAll",
		}).Info("初始数据填充完成")
	}
	return nil
}

func (s *DataSeeder) seedSuperuser(ctx context.Context) error {
	auth := s.router.AuthModule()
	_, err := setup.InitSuperuser(ctx, auth.UserRepo, auth.PasswordManager, s.cfg.Superuser)
	return err
}

func (s *DataSeeder) seedApis(ctx context.Context) error {
	return setup.SyncApis(ctx, s.router.SystemModule().ApiService, s.router.Routes())
}

func (s *DataSeeder) seedRootDept(ctx context.Context) error {
	deptRepo := mysql.NewDeptRepository(s.db)
	existing, err := deptRepo.GetDeptByName(ctx, s.cfg.App.Name)
	if err != nil || existing != nil {
		return err
	}
	return deptRepo.CreateDept(ctx, &model.Dept{Name: s.cfg.App.Name, Desc: "根部门"})
}

// seedMenus 菜单表为空时写入系统管理目录及其子菜单
func (s *DataSeeder) seedMenus(ctx context.Context) error {
	menuRepo := mysql.NewMenuRepository(s.db)
	menus, err := menuRepo.ListMenus(ctx, "")
	if err != nil || len(menus) > 0 {
		return err
	}

	catalog := &model.Menu{
		Name:      "系统管理",
		MenuType:  model.MenuTypeCatalog,
		Icon:      "carbon:gui-management",
		Path:      "/system",
		Component: "Layout",
		KeepAlive: true,
		Redirect:  "/system/user",
	}
	if err := menuRepo.CreateMenu(ctx, catalog); err != nil {
		return err
	}

	children := []struct{ name, path, icon string }{
		{"用户管理", "user", "material-symbols:person-outline-rounded"},
		{"角色管理", "role", "carbon:user-role"},
		{"菜单管理", "menu", "material-symbols:list-alt-outline"},
		{"API管理", "api", "ant-design:api-outlined"},
		{"部门管理", "dept", "mingcute:department-line"},
		{"审计日志", "auditlog", "ph:clipboard-text-bold"},
	}
	for i, c := range children {
		if err := menuRepo.CreateMenu(ctx, &model.Menu{
			Name:      c.name,
			MenuType:  model.MenuTypeMenu,
			Icon:      c.icon,
			Path:      c.path,
			Order:     i + 1,
			ParentID:  catalog.ID,
			Component: "/system/" + c.path,
			KeepAlive: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

// seedDefaultRole 创建只读角色，授予全部菜单与全部 GET 接口
func (s *DataSeeder) seedDefaultRole(ctx context.Context) error {
	roleRepo := mysql.NewRoleRepository(s.db)
	existing, err := roleRepo.GetRoleByName(ctx, defaultRoleName)
	if err != nil || existing != nil {
		return err
	}

	role := &model.Role{Name: defaultRoleName, Desc: "只读权限"}
	if err := roleRepo.CreateRole(ctx, role); err != nil {
		return err
	}

	menus, err := mysql.NewMenuRepository(s.db).ListMenus(ctx, "")
	if err != nil {
		return err
	}
	menuIDs := make([]uint, 0, len(menus))
	for _, m := range menus {
		menuIDs = append(menuIDs, m.ID)
	}

	apis, err := mysql.NewApiRepository(s.db).ListAllApis(ctx)
	if err != nil {
		return err
	}
	apiIDs := make([]uint, 0, len(apis))
	for _, a := range apis {
		if a.Method == http.MethodGet {
			apiIDs = append(apiIDs, a.ID)
		}
	}
	return roleRepo.UpdateRoleAuthorized(ctx, role.ID, menuIDs, apiIDs)
}
