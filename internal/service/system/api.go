/*
 * @author: sun977
 * @date: 2025.09.11
 * @description: 接口权限管理服务
 * @func:
 * 1.接口列表/详情
 * 2.创建/更新/删除接口
 * 3.RefreshFromRoutes 按已注册路由同步 apis 表
 */
package system

import (
	"context"
	"strings"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repository/mysql"

	"github.com/sirupsen/logrus"
)

// PermissionCache 用户授权缓存，接口记录变化后整体失效
type PermissionCache interface {
	ClearPermissionCache(ctx context.Context) error
}

// ApiService 接口权限管理服务
type ApiService struct {
	apiRepo *mysql.ApiRepository
	cache   PermissionCache
}

// NewApiService 创建接口服务实例
func NewApiService(apiRepo *mysql.ApiRepository, cache PermissionCache) *ApiService {
	return &ApiService{apiRepo: apiRepo, cache: cache}
}

// List 分页获取接口列表
func (s *ApiService) List(ctx context.Context, q *model.ApiListQuery) ([]*model.Api, int64, error) {
	q.Normalize()
	apis, total, err := s.apiRepo.ListApis(ctx, mysql.ApiFilter{
		Path:    q.Path,
		Summary: q.Summary,
		Tags:    q.Tags,
	}, q.Offset(), q.PageSize)
	if err != nil {
		return nil, 0, system.Internal("operation failed", err)
	}
	return apis, total, nil
}

// Get 获取接口
func (s *ApiService) Get(ctx context.Context, id uint) (*model.Api, error) {
	api, err := s.apiRepo.GetApiByID(ctx, id)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if api == nil {
		return nil, system.ErrApiNotFound
	}
	return api, nil
}

// Create 创建接口，method + path 唯一
func (s *ApiService) Create(ctx context.Context, req *model.CreateApiRequest) (*model.Api, error) {
	if err := s.validate(ctx, 0, req); err != nil {
		return nil, err
	}
	api := &model.Api{
		Path:    req.Path,
		Method:  req.Method,
		Summary: req.Summary,
		Tags:    req.Tags,
	}
	if err := s.apiRepo.CreateApi(ctx, api); err != nil {
		return nil, system.Internal("operation failed", err)
	}
	return api, nil
}

// Update 更新接口
func (s *ApiService) Update(ctx context.Context, req *model.UpdateApiRequest) error {
	if _, err := s.Get(ctx, req.ID); err != nil {
		return err
	}
	if err := s.validate(ctx, req.ID, &req.CreateApiRequest); err != nil {
		return err
	}
	if err := s.apiRepo.UpdateApiFields(ctx, req.ID, map[string]interface{}{
		"path":    req.Path,
		"method":  req.Method,
		"summary": req.Summary,
		"tags":    req.Tags,
	}); err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearPermissionCache(ctx)
	return nil
}

// Delete 删除接口及其角色授权
func (s *ApiService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.apiRepo.DeleteApi(ctx, id); err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearPermissionCache(ctx)
	return nil
}

// FindByMethodPath 按请求方式与路径查找接口(审计日志取摘要用)，不存在时返回 nil
func (s *ApiService) FindByMethodPath(ctx context.Context, method, path string) (*model.Api, error) {
	return s.apiRepo.GetApiByMethodPath(ctx, method, path)
}

// RefreshFromRoutes 按已注册的权限路由同步 apis 表
// 表中存在而路由中不存在的记录被删除；新增路由被创建；已存在的记录更新摘要与标签
func (s *ApiService) RefreshFromRoutes(ctx context.Context, routes []model.RouteMeta) (created, deleted int, err error) {
	existing, err := s.apiRepo.ListAllApis(ctx)
	if err != nil {
		return 0, 0, system.Internal("operation failed", err)
	}

	wanted := make(map[string]model.RouteMeta, len(routes))
	for _, r := range routes {
		r.Method = strings.ToUpper(r.Method)
		wanted[r.Method+" "+r.Path] = r
	}

	stale := make([]uint, 0)
	for _, api := range existing {
		key := api.Key()
		r, ok := wanted[key]
		if !ok {
			stale = append(stale, api.ID)
			continue
		}
		delete(wanted, key)
		if r.Summary != api.Summary || r.Tags != api.Tags {
			if err := s.apiRepo.UpdateApiFields(ctx, api.ID, map[string]interface{}{
				"summary": r.Summary,
				"tags":    r.Tags,
			}); err != nil {
				return 0, 0, system.Internal("operation failed", err)
			}
		}
	}

	if err := s.apiRepo.DeleteApis(ctx, stale); err != nil {
		return 0, 0, system.Internal("operation failed", err)
	}

	// 按路由声明顺序创建，保证 id 顺序稳定
	for _, r := range routes {
		r.Method = strings.ToUpper(r.Method)
		if _, ok := wanted[r.Method+" "+r.Path]; !ok {
			continue
		}
		delete(wanted, r.Method+" "+r.Path)
		if err := s.apiRepo.CreateApi(ctx, &model.Api{
			Path:    r.Path,
			Method:  r.Method,
			Summary: r.Summary,
			Tags:    r.Tags,
		}); err != nil {
			return 0, 0, system.Internal("operation failed", err)
		}
		created++
	}
	if created > 0 || len(stale) > 0 {
		s.clearPermissionCache(ctx)
	}

	logger.LogSystemEvent("api", "refresh", "apis synchronised from routes", logrus.InfoLevel, map[string]interface{}{
		"created":   created,
		"deleted":   len(stale),
		"timestamp": logger.NowFormatted(),
	})
	return created, len(stale), nil
}

// clearPermissionCache 失败只记日志，缓存按TTL自然过期
func (s *ApiService) clearPermissionCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.ClearPermissionCache(ctx); err != nil {
		logger.LogWarn("failed to clear permission cache", "", 0, "", "", "", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *ApiService) validate(ctx context.Context, id uint, req *model.CreateApiRequest) error {
	if !model.IsValidMethod(req.Method) {
		return system.BadRequest("Invalid request method: " + req.Method)
	}
	existing, err := s.apiRepo.GetApiByMethodPath(ctx, req.Method, req.Path)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if existing != nil && existing.ID != id {
		return system.Conflict("The api already exists")
	}
	return nil
}
