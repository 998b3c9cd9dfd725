package setup

import (
	"context"
	"fmt"

	"neoadmin/internal/config"
	"neoadmin/internal/model"
	authPkg "neoadmin/internal/pkg/auth"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repository/mysql"
	systemService "neoadmin/internal/service/system"

	"github.com/sirupsen/logrus"
)

// InitSuperuser 用户表为空时创建初始超级管理员
// 已存在任意用户时不做任何事，返回 false
func InitSuperuser(ctx context.Context, userRepo *mysql.UserRepository, pm *authPkg.PasswordManager, cfg config.SuperuserConfig) (bool, error) {
	count, err := userRepo.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if cfg.Username == "" || cfg.Password == "" {
		return false, fmt.Errorf("superuser username and password are required")
	}

	hash, err := pm.HashPassword(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash superuser password: %w", err)
	}
	user := &model.User{
		Username:    cfg.Username,
		Alias:       cfg.Username,
		Email:       cfg.Email,
		Password:    hash,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := userRepo.CreateUser(ctx, user, nil); err != nil {
		return false, err
	}

	logger.LogSystemEvent("setup", "superuser_created", "初始超级管理员创建成功", logrus.InfoLevel, map[string]interface{}{
		"user_id":   user.ID,
		"username":  user.Username,
		"timestamp": logger.NowFormatted(),
	})
	return true, nil
}

// SyncApis 按当前注册的权限路由同步 API 表
func SyncApis(ctx context.Context, apiService *systemService.ApiService, routes []model.RouteMeta) error {
	created, deleted, err := apiService.RefreshFromRoutes(ctx, routes)
	if err != nil {
		return err
	}
	logger.LogSystemEvent("setup", "apis_synced", "API 表同步完成", logrus.InfoLevel, map[string]interface{}{
		"routes":    len(routes),
		"created":   created,
		"deleted":   deleted,
		"timestamp": logger.NowFormatted(),
	})
	return nil
}
