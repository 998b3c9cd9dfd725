package database

import (
	"fmt"

	"neoadmin/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 迁移全部模型
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// DropAll 删除全部表(含多对多关联表)，仅供迁移工具使用
func DropAll(db *gorm.DB) error {
	tables := []interface{}{
		&model.UserRole{},
		&model.RoleMenu{},
		&model.RoleApi{},
	}
	tables = append(tables, model.AllModels()...)
	if err := db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return nil
}
