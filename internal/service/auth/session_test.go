package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/auth"
	"neoadmin/internal/pkg/database"
	"neoadmin/internal/repo/redis"
	"neoadmin/internal/repository/mysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-with-at-least-32-characters"

var fastPassword = &auth.PasswordConfig{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type testEnv struct {
	db       *gorm.DB
	users    *mysql.UserRepository
	roles    *mysql.RoleRepository
	apis     *mysql.ApiRepository
	menus    *mysql.MenuRepository
	pm       *auth.PasswordManager
	jwt      *auth.JWTManager
	sessions *SessionService
	rbac     *RBACService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	env := &testEnv{
		db:    db,
		users: mysql.NewUserRepository(db),
		roles: mysql.NewRoleRepository(db),
		apis:  mysql.NewApiRepository(db),
		menus: mysql.NewMenuRepository(db),
		pm:    auth.NewPasswordManager(fastPassword),
		jwt:   auth.NewJWTManager(testSecret, "neoadmin", 4*time.Hour, 168*time.Hour),
	}
	env.sessions = NewSessionService(env.users, env.menus, env.apis, env.pm, env.jwt)
	env.rbac = NewRBACService(env.users, redis.NewCacheManager(nil, nil))
	return env
}

func (e *testEnv) createUser(t *testing.T, username, password string, superuser bool, roleIDs ...uint) *model.User {
	t.Helper()
	hash, err := e.pm.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    hash,
		IsActive:    true,
		IsSuperuser: superuser,
	}
	require.NoError(t, e.users.CreateUser(context.Background(), user, roleIDs))
	return user
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "alice", "password123", false)

	info, err := env.sessions.Login(ctx, &model.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	assert.EqualValues(t, 4*3600, info.ExpiresIn)
	assert.NotEqual(t, info.AccessToken, info.RefreshToken)

	claims, err := env.jwt.Verify(info.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	stored, err := env.users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginFailuresShareMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "bob", "password123", false)
	disabled := env.createUser(t, "carol", "password123", false)
	require.NoError(t, env.users.UpdateUserFields(ctx, disabled.ID, map[string]interface{}{"is_active": false}))

	cases := []struct {
		name string
		req  *model.LoginRequest
	}{
		{"unknown user", &model.LoginRequest{Username: "nobody", Password: "password123"}},
		{"wrong password", &model.LoginRequest{Username: u.Username, Password: "wrong-pass1"}},
		{"disabled user", &model.LoginRequest{Username: disabled.Username, Password: "password123"}},
		{"empty", &model.LoginRequest{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.sessions.Login(ctx, tc.req)
			require.Error(t, err)
			appErr := system.AsAppError(err)
			assert.Equal(t, 401, appErr.StatusCode())
			assert.Equal(t, system.ErrInvalidCredentials.Message, appErr.Message)
		})
	}
}

func TestLoginUnknownUserStillVerifiesPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "dave", "password123", false)

	var hashes []string
	verify := env.sessions.verifyPassword
	env.sessions.verifyPassword = func(password, encodedHash string) (bool, error) {
		hashes = append(hashes, encodedHash)
		return verify(password, encodedHash)
	}

	_, err := env.sessions.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "password123"})
	require.ErrorIs(t, err, system.ErrInvalidCredentials)
	require.Len(t, hashes, 1)
	assert.Equal(t, env.sessions.dummyHash, hashes[0])

	_, err = env.sessions.Login(ctx, &model.LoginRequest{Username: u.Username, Password: "wrong-pass1"})
	require.ErrorIs(t, err, system.ErrInvalidCredentials)
	require.Len(t, hashes, 2)
	assert.Equal(t, u.Password, hashes[1])

	// 两个哈希使用相同的 argon2 参数，只有盐值与摘要不同
	params := func(encoded string) string {
		parts := strings.Split(encoded, "$")
		require.Len(t, parts, 6)
		return strings.Join(parts[:4], "$")
	}
	assert.Equal(t, params(u.Password), params(hashes[0]))
}

func TestRefreshIssuesNewPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "dave", "password123", false)

	pair, err := env.jwt.CreateTokenPair(u.ID)
	require.NoError(t, err)

	resp, err := env.sessions.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := env.jwt.Verify(resp.RefreshToken, auth.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	// 访问令牌不能当作刷新令牌
	_, err = env.sessions.RefreshTokens(ctx, pair.AccessToken)
	assert.True(t, system.ErrRefreshTokenFailed.Is(system.AsAppError(err)))

	_, err = env.sessions.RefreshTokens(ctx, "garbage")
	assert.Equal(t, system.ErrRefreshTokenFailed.Message, system.AsAppError(err).Message)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "erin", "password123", false)

	info, err := env.sessions.Login(ctx, &model.LoginRequest{Username: "erin", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, env.users.UpdateUserFields(ctx, u.ID, map[string]interface{}{"is_active": false}))

	// 令牌签名与有效期仍然有效
	_, err = env.jwt.Verify(info.RefreshToken, auth.TokenKindRefresh)
	require.NoError(t, err)

	_, err = env.sessions.RefreshTokens(ctx, info.RefreshToken)
	require.Error(t, err)
	appErr := system.AsAppError(err)
	assert.Equal(t, 401, appErr.StatusCode())
	assert.Equal(t, system.ErrRefreshUserInvalid.Message, appErr.Message)

	// 访问令牌在过期前继续可用
	user, err := env.sessions.AuthenticateRequest(ctx, info.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)

	require.NoError(t, env.users.DeleteUser(ctx, u.ID))
	_, err = env.sessions.RefreshTokens(ctx, info.RefreshToken)
	assert.Equal(t, system.ErrRefreshUserInvalid.Message, system.AsAppError(err).Message)
}

func TestAuthenticateRequestErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "frank", "password123", false)

	_, err := env.sessions.AuthenticateRequest(ctx, "")
	assert.ErrorIs(t, err, system.ErrMissingToken)

	_, err = env.sessions.AuthenticateRequest(ctx, "not-a-token")
	assert.ErrorIs(t, err, system.ErrInvalidToken)

	refresh, err := env.jwt.Issue(u.ID, auth.TokenKindRefresh)
	require.NoError(t, err)
	_, err = env.sessions.AuthenticateRequest(ctx, refresh)
	assert.ErrorIs(t, err, system.ErrInvalidToken)

	past := auth.NewJWTManager(testSecret, "neoadmin", time.Hour, time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, err := past.Issue(u.ID, auth.TokenKindAccess)
	require.NoError(t, err)
	_, err = env.sessions.AuthenticateRequest(ctx, expired)
	assert.ErrorIs(t, err, system.ErrTokenExpired)

	ghost, err := env.jwt.Issue(9999, auth.TokenKindAccess)
	require.NoError(t, err)
	_, err = env.sessions.AuthenticateRequest(ctx, ghost)
	assert.ErrorIs(t, err, system.ErrAuthFailed)
}

func TestUserMenuAndApi(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := &model.Menu{Name: "system", Path: "/system", MenuType: model.MenuTypeCatalog}
	require.NoError(t, env.menus.CreateMenu(ctx, parent))
	child := &model.Menu{Name: "user", Path: "user", MenuType: model.MenuTypeMenu, ParentID: parent.ID}
	require.NoError(t, env.menus.CreateMenu(ctx, child))
	hidden := &model.Menu{Name: "audit", Path: "/audit", MenuType: model.MenuTypeCatalog}
	require.NoError(t, env.menus.CreateMenu(ctx, hidden))

	api := &model.Api{Method: "GET", Path: "/api/v1/user/list", Tags: "user"}
	require.NoError(t, env.apis.CreateApi(ctx, api))
	require.NoError(t, env.apis.CreateApi(ctx, &model.Api{Method: "POST", Path: "/api/v1/user/create", Tags: "user"}))

	role := &model.Role{Name: "viewer"}
	require.NoError(t, env.roles.CreateRole(ctx, role))
	require.NoError(t, env.roles.UpdateRoleAuthorized(ctx, role.ID, []uint{parent.ID, child.ID}, []uint{api.ID}))

	normal := env.createUser(t, "grace", "password123", false, role.ID)
	admin := env.createUser(t, "admin", "password123", true)

	tree, err := env.sessions.UserMenu(ctx, normal)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "system", tree[0].Name)
	require.Len(t, tree[0].Children, 1)

	tree, err = env.sessions.UserMenu(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, tree, 2)

	apis, err := env.sessions.UserApi(ctx, normal)
	require.NoError(t, err)
	assert.Equal(t, []string{"get/api/v1/user/list"}, apis)

	apis, err = env.sessions.UserApi(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, apis, 2)

	info, err := env.sessions.Userinfo(ctx, normal.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer"}, info.Roles)
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.createUser(t, "heidi", "password123", false)

	err := env.sessions.UpdatePassword(ctx, u.ID, &model.UpdatePasswordRequest{OldPassword: "wrong", NewPassword: "newpass123"})
	assert.ErrorIs(t, err, system.ErrOldPasswordIncorrect)

	err = env.sessions.UpdatePassword(ctx, u.ID, &model.UpdatePasswordRequest{OldPassword: "password123", NewPassword: "password123"})
	assert.ErrorIs(t, err, system.ErrPasswordUnchanged)

	require.NoError(t, env.sessions.UpdatePassword(ctx, u.ID, &model.UpdatePasswordRequest{OldPassword: "password123", NewPassword: "newpass123"}))

	_, err = env.sessions.Login(ctx, &model.LoginRequest{Username: "heidi", Password: "password123"})
	assert.Error(t, err)
	_, err = env.sessions.Login(ctx, &model.LoginRequest{Username: "heidi", Password: "newpass123"})
	assert.NoError(t, err)
}
