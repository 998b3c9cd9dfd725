/**
 * 接口仓库层:API权限数据访问
 * @author: sun977
 * @date: 2025.09.11
 * @description: API 权限记录的增删改查，以及按 method + path 批量查询
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"neoadmin/internal/model"

	"gorm.io/gorm"
)

// ApiFilter API列表过滤条件
type ApiFilter struct {
	Path    string
	Summary string
	Tags    string
}

// ApiRepository API仓库
type ApiRepository struct {
	db *gorm.DB
}

// NewApiRepository 创建API仓库实例
func NewApiRepository(db *gorm.DB) *ApiRepository {
	return &ApiRepository{db: db}
}

// CreateApi 创建API
func (r *ApiRepository) CreateApi(ctx context.Context, api *model.Api) error {
	api.Method = strings.ToUpper(api.Method)
	if err := r.db.WithContext(ctx).Omit("Roles").Create(api).Error; err != nil {
		return fmt.Errorf("failed to create api: %w", err)
	}
	return nil
}

// GetApiByID 根据ID获取API
func (r *ApiRepository) GetApiByID(ctx context.Context, id uint) (*model.Api, error) {
	var api model.Api
	err := r.db.WithContext(ctx).First(&api, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get api %d: %w", id, err)
	}
	return &api, nil
}

// GetApiByMethodPath 根据请求方式与路径获取API
func (r *ApiRepository) GetApiByMethodPath(ctx context.Context, method, path string) (*model.Api, error) {
	var api model.Api
	err := r.db.WithContext(ctx).Where("method = ? AND path = ?", strings.ToUpper(method), path).First(&api).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get api %s %s: %w", method, path, err)
	}
	return &api, nil
}

// ListApis 分页获取API列表，按 tags、id 排序
func (r *ApiRepository) ListApis(ctx context.Context, filter ApiFilter, offset, limit int) ([]*model.Api, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Api{})
	if filter.Path != "" {
		query = query.Where("path LIKE ?", "%"+filter.Path+"%")
	}
	if filter.Summary != "" {
		query = query.Where("summary LIKE ?", "%"+filter.Summary+"%")
	}
	if filter.Tags != "" {
		query = query.Where("tags LIKE ?", "%"+filter.Tags+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count apis: %w", err)
	}

	var apis []*model.Api
	if err := query.Order("tags ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&apis).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list apis: %w", err)
	}
	return apis, total, nil
}

// ListAllApis 获取全部API
func (r *ApiRepository) ListAllApis(ctx context.Context) ([]*model.Api, error) {
	var apis []*model.Api
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&apis).Error; err != nil {
		return nil, fmt.Errorf("failed to list all apis: %w", err)
	}
	return apis, nil
}

// FindApisByInfos 按 (path, method) 列表查询API，不存在的组合被忽略
func (r *ApiRepository) FindApisByInfos(ctx context.Context, infos []model.ApiInfo) ([]*model.Api, error) {
	if len(infos) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Model(&model.Api{})
	cond := r.db.WithContext(ctx)
	for i, info := range infos {
		if i == 0 {
			cond = cond.Where("path = ? AND method = ?", info.Path, strings.ToUpper(info.Method))
			continue
		}
		cond = cond.Or("path = ? AND method = ?", info.Path, strings.ToUpper(info.Method))
	}

	var apis []*model.Api
	if err := query.Where(cond).Find(&apis).Error; err != nil {
		return nil, fmt.Errorf("failed to find apis: %w", err)
	}
	return apis, nil
}

// UpdateApiFields 使用map更新API字段
func (r *ApiRepository) UpdateApiFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if m, ok := fields["method"].(string); ok {
		fields["method"] = strings.ToUpper(m)
	}
	fields["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&model.Api{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update api %d: %w", id, err)
	}
	return nil
}

// DeleteApi 删除API及其角色授权
func (r *ApiRepository) DeleteApi(ctx context.Context, id uint) error {
	return r.DeleteApis(ctx, []uint{id})
}

// DeleteApis 批量删除API及其角色授权
func (r *ApiRepository) DeleteApis(ctx context.Context, ids []uint) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("api_id IN ?", ids).Delete(&model.RoleApi{}).Error; err != nil {
			return fmt.Errorf("failed to delete role links of apis: %w", err)
		}
		if err := tx.Delete(&model.Api{}, ids).Error; err != nil {
			return fmt.Errorf("failed to delete apis: %w", err)
		}
		return nil
	})
}
