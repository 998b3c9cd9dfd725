/*
 * @author: sun977
 * @date: 2025.09.04
 * @description: 会话管理服务(无状态令牌)
 * @func:
 * 1.登录
 * 2.刷新令牌
 * 3.请求认证
 * 4.当前用户信息、菜单、接口
 * 5.修改密码
 */
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/auth"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/repository/mysql"
)

// SessionService 会话管理服务
type SessionService struct {
	userRepo        *mysql.UserRepository
	menuRepo        *mysql.MenuRepository
	apiRepo         *mysql.ApiRepository
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	now             func() time.Time
	verifyPassword  func(password, encodedHash string) (bool, error)
	dummyHash       string // 用户不存在时参与校验的哈希，参数与真实用户一致
}

// dummyPassword 仅用于生成 dummyHash
const dummyPassword = "neoadmin-dummy-password"

// NewSessionService 创建会话服务实例
func NewSessionService(
	userRepo *mysql.UserRepository,
	menuRepo *mysql.MenuRepository,
	apiRepo *mysql.ApiRepository,
	passwordManager *auth.PasswordManager,
	jwtManager *auth.JWTManager,
) *SessionService {
	s := &SessionService{
		userRepo:        userRepo,
		menuRepo:        menuRepo,
		apiRepo:         apiRepo,
		passwordManager: passwordManager,
		jwtManager:      jwtManager,
		now:             time.Now,
		verifyPassword:  passwordManager.VerifyPassword,
	}
	if hash, err := passwordManager.HashPassword(dummyPassword); err == nil {
		s.dummyHash = hash
	} else {
		logger.LogWarn("failed to prepare dummy password hash", "", 0, "", "", "", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return s
}

// Login 用户登录
// 用户不存在、已禁用、密码错误统一返回 ErrInvalidCredentials
func (s *SessionService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenInfo, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, system.ErrInvalidCredentials.WithDetail("username and password are required")
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		logger.LogError(err, "", 0, "", "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, system.Internal("operation failed", err)
	}
	if user == nil {
		// 与密码错误分支耗时一致
		if s.dummyHash != "" {
			_, _ = s.verifyPassword(req.Password, s.dummyHash)
		}
		logger.LogBusinessOperation("login", 0, req.Username, "", "", "failed", "user not found", nil)
		return nil, system.ErrInvalidCredentials.WithDetail("user not found")
	}

	ok, err := s.verifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		logger.LogBusinessOperation("login", user.ID, user.Username, "", "", "failed", "password mismatch", nil)
		return nil, system.ErrInvalidCredentials.WithDetail("password mismatch")
	}
	if !user.IsActive {
		logger.LogBusinessOperation("login", user.ID, user.Username, "", "", "failed", "user is disabled", nil)
		return nil, system.ErrInvalidCredentials.WithDetail("user is disabled")
	}

	pair, err := s.jwtManager.CreateTokenPair(user.ID)
	if err != nil {
		logger.LogError(err, "", user.ID, "", "user_login", "POST", map[string]interface{}{
			"operation": "create_token_pair",
			"timestamp": logger.NowFormatted(),
		})
		return nil, system.Internal("operation failed", err)
	}

	// 更新最后登录时间失败不影响登录
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		logger.LogWarn("failed to update last login", "", user.ID, "", "user_login", "POST", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.LogBusinessOperation("login", user.ID, user.Username, "", "", "success", "user logged in", nil)
	return &model.TokenInfo{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Username:     user.Username,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// RefreshTokens 使用刷新令牌换取新的令牌对
// 每次刷新都重新检查用户是否存在且启用；旧刷新令牌不会被吊销
func (s *SessionService) RefreshTokens(ctx context.Context, refreshToken string) (*model.RefreshTokenResponse, error) {
	if refreshToken == "" {
		return nil, system.ErrRefreshTokenFailed.WithDetail("refresh token is empty")
	}

	claims, err := s.jwtManager.Verify(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return nil, system.ErrRefreshTokenFailed.WithDetail(err.Error())
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if user == nil || !user.IsActive {
		logger.LogBusinessOperation("refresh_token", claims.UserID, "", "", "", "failed", "user missing or disabled", nil)
		return nil, system.ErrRefreshUserInvalid
	}

	pair, err := s.jwtManager.CreateTokenPair(user.ID)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	return &model.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// AuthenticateRequest 校验访问令牌并加载用户(含角色)
// 令牌有效期内即使用户被禁用也视为已认证，禁用只影响登录与刷新
func (s *SessionService) AuthenticateRequest(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, system.ErrMissingToken
	}

	claims, err := s.jwtManager.Verify(token, auth.TokenKindAccess)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, system.ErrTokenExpired
		case errors.Is(err, auth.ErrInvalidTokenKind):
			return nil, system.ErrInvalidToken.WithDetail("access token required")
		default:
			return nil, system.ErrInvalidToken.WithDetail(err.Error())
		}
	}

	user, err := s.userRepo.GetUserWithRoles(ctx, claims.UserID)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if user == nil {
		return nil, system.ErrAuthFailed.WithDetail("user not found")
	}
	return user, nil
}

// Userinfo 当前用户信息
func (s *SessionService) Userinfo(ctx context.Context, userID uint) (*model.CurrentUserInfo, error) {
	user, err := s.userRepo.GetUserWithRoles(ctx, userID)
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	if user == nil {
		return nil, system.ErrUserNotFound
	}
	return &model.CurrentUserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Alias:       user.Alias,
		Email:       user.Email,
		Phone:       user.Phone,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		LastLogin:   user.LastLogin,
		DeptID:      user.DeptID,
		Roles:       user.RoleNames(),
	}, nil
}

// UserMenu 当前用户可见菜单树，超级管理员返回全部菜单
func (s *SessionService) UserMenu(ctx context.Context, user *model.User) ([]*model.MenuNode, error) {
	var (
		menus []*model.Menu
		err   error
	)
	if user.IsSuperuser {
		menus, err = s.menuRepo.ListMenus(ctx, "")
	} else {
		menus, err = s.userRepo.GetUserMenus(ctx, user.ID)
	}
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	return model.BuildMenuTree(menus), nil
}

// UserApi 当前用户被授予的接口，格式为 小写method+path，超级管理员返回全部
func (s *SessionService) UserApi(ctx context.Context, user *model.User) ([]string, error) {
	var (
		apis []*model.Api
		err  error
	)
	if user.IsSuperuser {
		apis, err = s.apiRepo.ListAllApis(ctx)
	} else {
		apis, err = s.userRepo.GetUserApis(ctx, user.ID)
	}
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}

	result := make([]string, 0, len(apis))
	for _, api := range apis {
		result = append(result, apiKey(api))
	}
	return result, nil
}

// UpdatePassword 修改当前用户密码
func (s *SessionService) UpdatePassword(ctx context.Context, userID uint, req *model.UpdatePasswordRequest) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if user == nil {
		return system.ErrUserNotFound
	}

	ok, err := s.passwordManager.VerifyPassword(req.OldPassword, user.Password)
	if err != nil || !ok {
		return system.ErrOldPasswordIncorrect
	}
	if req.OldPassword == req.NewPassword {
		return system.ErrPasswordUnchanged
	}

	hash, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return system.Internal("operation failed", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		logger.LogError(err, "", userID, "", "update_password", "POST", map[string]interface{}{
			"operation": "update_password",
			"timestamp": logger.NowFormatted(),
		})
		return system.Internal("operation failed", err)
	}
	logger.LogBusinessOperation("update_password", userID, user.Username, "", "", "success", "password updated", nil)
	return nil
}

// apiKey 小写method拼接path，如 get/api/v1/user/list
func apiKey(api *model.Api) string {
	return strings.ToLower(api.Method) + api.Path
}
