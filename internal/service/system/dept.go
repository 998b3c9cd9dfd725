/*
 * @author: sun977
 * @date: 2025.09.12
 * @description: 部门管理服务，层级关系由仓库层的闭包表维护
 * @func:
 * 1.Tree 部门森林(可按名称过滤)
 * 2.Create / Update / Delete
 */
package system

import (
	"context"
	"errors"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repository/mysql"
)

// DeptService 部门管理服务
type DeptService struct {
	deptRepo *mysql.DeptRepository
}

// NewDeptService 创建部门服务实例
func NewDeptService(deptRepo *mysql.DeptRepository) *DeptService {
	return &DeptService{deptRepo: deptRepo}
}

// Tree 获取未删除部门组成的森林，同级按 order 升序
func (s *DeptService) Tree(ctx context.Context, name string) ([]*model.DeptNode, error) {
	depts, err := s.deptRepo.ListDepts(ctx, name)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	return model.BuildDeptTree(depts), nil
}

// Get 获取部门
func (s *DeptService) Get(ctx context.Context, id uint) (*model.Dept, error) {
	dept, err := s.deptRepo.GetDeptByID(ctx, id)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if dept == nil {
		return nil, system.ErrDeptNotFound
	}
	return dept, nil
}

// Create 创建部门，名称唯一
func (s *DeptService) Create(ctx context.Context, req *model.CreateDeptRequest) (*model.Dept, error) {
	if err := s.checkName(ctx, 0, req.Name); err != nil {
		return nil, err
	}
	dept := &model.Dept{
		Name:     req.Name,
		Desc:     req.Desc,
		Order:    req.Order,
		ParentID: req.ParentID,
	}
	if err := s.deptRepo.CreateDept(ctx, dept); err != nil {
		return nil, wrapDeptError(err, "create_dept")
	}
	return dept, nil
}

// Update 更新部门，父部门变化时闭包行在同一事务内重建
func (s *DeptService) Update(ctx context.Context, req *model.UpdateDeptRequest) error {
	if err := s.checkName(ctx, req.ID, req.Name); err != nil {
		return err
	}
	fields := map[string]interface{}{
		"name":  req.Name,
		"desc":  req.Desc,
		"order": req.Order,
	}
	if err := s.deptRepo.UpdateDept(ctx, req.ID, fields, req.ParentID); err != nil {
		return wrapDeptError(err, "update_dept")
	}
	return nil
}

// Delete 软删除部门，存在子部门时拒绝
func (s *DeptService) Delete(ctx context.Context, id uint) error {
	count, err := s.deptRepo.CountChildren(ctx, id)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if count > 0 {
		return system.ErrDeptHasChildren
	}
	if err := s.deptRepo.DeleteDept(ctx, id); err != nil {
		return wrapDeptError(err, "delete_dept")
	}
	return nil
}

func (s *DeptService) checkName(ctx context.Context, excludeID uint, name string) error {
	existing, err := s.deptRepo.GetDeptByName(ctx, name)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if existing != nil && existing.ID != excludeID {
		return system.ErrDeptAlreadyExists
	}
	return nil
}

// wrapDeptError 业务错误原样返回，其余错误记录后统一为 operation failed
func wrapDeptError(err error, operation string) error {
	var appErr *system.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	logger.LogError(err, "", 0, "", "dept", operation, map[string]interface{}{
		"operation": operation,
		"timestamp": logger.NowFormatted(),
	})
	return system.Internal("operation failed", err)
}
