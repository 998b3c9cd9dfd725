package mysql

import (
	"context"
	"errors"
	"fmt"

	"neoadmin/internal/model"

	"gorm.io/gorm"
)

// FileMappingRepository 文件映射仓库
type FileMappingRepository struct {
	db *gorm.DB
}

// NewFileMappingRepository 创建文件映射仓库实例
func NewFileMappingRepository(db *gorm.DB) *FileMappingRepository {
	return &FileMappingRepository{db: db}
}

// CreateFileMapping 保存文件映射
func (r *FileMappingRepository) CreateFileMapping(ctx context.Context, mapping *model.FileMapping) error {
	if err := r.db.WithContext(ctx).Create(mapping).Error; err != nil {
		return fmt.Errorf("failed to create file mapping: %w", err)
	}
	return nil
}

// GetByFileID 根据文件ID查询映射
func (r *FileMappingRepository) GetByFileID(ctx context.Context, fileID string) (*model.FileMapping, error) {
	var mapping model.FileMapping
	err := r.db.WithContext(ctx).Where("file_id = ?", fileID).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get file mapping %s: %w", fileID, err)
	}
	return &mapping, nil
}
