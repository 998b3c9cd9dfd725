/*
 * @author: sun977
 * @date: 2025.09.08
 * @description: 用户管理服务
 * @func:
 * 1.用户列表/详情(详情走缓存)
 * 2.创建用户(邮箱、用户名去重)
 * 3.更新用户与角色
 * 4.删除用户
 * 5.重置密码
 */
package system

import (
	"context"
	"fmt"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/auth"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repo/redis"
	"neoadmin/internal/repository/mysql"
)

// defaultResetPassword 未配置时的重置密码
const defaultResetPassword = "123456"

// UserService 用户管理服务
type UserService struct {
	userRepo        *mysql.UserRepository
	roleRepo        *mysql.RoleRepository
	deptRepo        *mysql.DeptRepository
	passwordManager *auth.PasswordManager
	cache           *redis.CacheManager
	resetPassword   string
}

// NewUserService 创建用户服务实例
func NewUserService(
	userRepo *mysql.UserRepository,
	roleRepo *mysql.RoleRepository,
	deptRepo *mysql.DeptRepository,
	passwordManager *auth.PasswordManager,
	cache *redis.CacheManager,
	resetPassword string,
) *UserService {
	if resetPassword == "" {
		resetPassword = defaultResetPassword
	}
	return &UserService{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		deptRepo:        deptRepo,
		passwordManager: passwordManager,
		cache:           cache,
		resetPassword:   resetPassword,
	}
}

// List 分页获取用户列表，附带部门信息
func (s *UserService) List(ctx context.Context, q *model.UserListQuery) ([]*model.UserInfo, int64, error) {
	q.Normalize()
	users, total, err := s.userRepo.ListUsers(ctx, mysql.UserFilter{
		Username: q.Username,
		Email:    q.Email,
		DeptID:   q.DeptID,
	}, q.Offset(), q.PageSize)
	if err != nil {
		return nil, 0, system.Internal("operation failed", err)
	}

	deptIDs := make([]uint, 0, len(users))
	for _, u := range users {
		deptIDs = append(deptIDs, u.DeptID)
	}
	depts, err := s.deptRepo.GetDeptsByIDs(ctx, deptIDs)
	if err != nil {
		return nil, 0, system.Internal("operation failed", err)
	}

	result := make([]*model.UserInfo, 0, len(users))
	for _, u := range users {
		u.Dept = depts[u.DeptID]
		result = append(result, model.NewUserInfo(u))
	}
	return result, total, nil
}

// Get 获取用户详情，优先读缓存
func (s *UserService) Get(ctx context.Context, id uint) (*model.UserInfo, error) {
	var info *model.UserInfo
	err := s.cache.GetOrLoad(ctx, redis.UserDetailKey(id), &info, 0, func(ctx context.Context) error {
		user, err := s.userRepo.GetUserWithRoles(ctx, id)
		if err != nil {
			return system.Internal("operation failed", err)
		}
		if user == nil {
			return system.ErrUserNotFound
		}
		if user.DeptID != 0 {
			dept, err := s.deptRepo.GetDeptByID(ctx, user.DeptID)
			if err != nil {
				return system.Internal("operation failed", err)
			}
			user.Dept = dept
		}
		info = model.NewUserInfo(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Create 创建用户
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := s.checkUnique(ctx, 0, req.Email, req.Username); err != nil {
		return nil, err
	}
	if err := s.checkRoles(ctx, req.RoleIDs); err != nil {
		return nil, err
	}
	if err := s.checkDept(ctx, req.DeptID); err != nil {
		return nil, err
	}

	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user := &model.User{
		Username:    req.Username,
		Alias:       req.Alias,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    hash,
		IsActive:    isActive,
		IsSuperuser: req.IsSuperuser,
		DeptID:      req.DeptID,
	}
	if err := s.userRepo.CreateUser(ctx, user, req.RoleIDs); err != nil {
		logger.LogError(err, "", 0, "", "user_create", "POST", map[string]interface{}{
			"operation": "create_user",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, system.Internal("operation failed", err)
	}
	return user, nil
}

// Update 更新用户字段并整体替换角色
func (s *UserService) Update(ctx context.Context, req *model.UpdateUserRequest) error {
	user, err := s.userRepo.GetUserByID(ctx, req.ID)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if user == nil {
		return system.ErrUserNotFound
	}
	if err := s.checkUnique(ctx, req.ID, req.Email, req.Username); err != nil {
		return err
	}
	if err := s.checkRoles(ctx, req.RoleIDs); err != nil {
		return err
	}
	if err := s.checkDept(ctx, req.DeptID); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"email":        req.Email,
		"username":     req.Username,
		"alias":        req.Alias,
		"phone":        req.Phone,
		"is_superuser": req.IsSuperuser,
		"dept_id":      req.DeptID,
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if err := s.userRepo.UpdateUserWithRoles(ctx, req.ID, fields, req.RoleIDs); err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearCache(ctx, req.ID)
	return nil
}

// Delete 删除用户，不能删除当前登录用户
func (s *UserService) Delete(ctx context.Context, currentUserID, id uint) error {
	if currentUserID != 0 && currentUserID == id {
		return system.ErrCannotDeleteSelf
	}
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if user == nil {
		return system.ErrUserNotFound
	}
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearCache(ctx, id)
	logger.LogBusinessOperation("delete_user", currentUserID, user.Username, "", "", "success", "user deleted", nil)
	return nil
}

// ResetPassword 将密码重置为默认密码
func (s *UserService) ResetPassword(ctx context.Context, id uint) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if user == nil {
		return system.ErrUserNotFound
	}
	hash, err := s.passwordManager.HashPassword(s.resetPassword)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return system.Internal("operation failed", err)
	}
	s.clearCache(ctx, id)
	return nil
}

// checkUnique 邮箱与用户名不能被其他用户占用，excludeID 为当前用户
func (s *UserService) checkUnique(ctx context.Context, excludeID uint, email, username string) error {
	byEmail, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if byEmail != nil && byEmail.ID != excludeID {
		return system.ErrEmailAlreadyExists
	}

	byName, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if byName != nil && byName.ID != excludeID {
		return system.ErrUsernameAlreadyExists
	}
	return nil
}

// checkRoles 角色ID必须全部存在
func (s *UserService) checkRoles(ctx context.Context, roleIDs []uint) error {
	want := countDistinct(roleIDs)
	if want == 0 {
		return nil
	}
	count, err := s.roleRepo.CountExistingRoles(ctx, roleIDs)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if int(count) != want {
		return system.ErrRoleNotFound.WithDetail(fmt.Sprintf("roles %v", roleIDs))
	}
	return nil
}

// checkDept 部门ID非 0 时必须存在
func (s *UserService) checkDept(ctx context.Context, deptID uint) error {
	if deptID == 0 {
		return nil
	}
	dept, err := s.deptRepo.GetDeptByID(ctx, deptID)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if dept == nil {
		return system.ErrDeptNotFound
	}
	return nil
}

func (s *UserService) clearCache(ctx context.Context, userID uint) {
	if err := s.cache.ClearUserCache(ctx, userID); err != nil {
		logger.LogWarn("failed to clear user cache", "", userID, "", "", "", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// countDistinct 非 0 且不重复的ID数量
func countDistinct(ids []uint) int {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id != 0 {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
