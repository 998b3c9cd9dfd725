package system

import (
	"context"
	"fmt"
	"strings"
	"testing"

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

type services struct {
	db    *gorm.DB
	pm    *auth.PasswordManager
	users *UserService
	roles *RoleService
	menus *MenuService
	apis  *ApiService
	depts *DeptService
	audit *AuditLogService
}

func newServices(t *testing.T) *services {
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

	userRepo := mysql.NewUserRepository(db)
	roleRepo := mysql.NewRoleRepository(db)
	menuRepo := mysql.NewMenuRepository(db)
	apiRepo := mysql.NewApiRepository(db)
	deptRepo := mysql.NewDeptRepository(db)
	cache := redis.NewCacheManager(nil, nil)
	pm := auth.NewPasswordManager(&auth.PasswordConfig{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	return &services{
		db:    db,
		pm:    pm,
		users: NewUserService(userRepo, roleRepo, deptRepo, pm, cache, "reset-pass1"),
		roles: NewRoleService(roleRepo, menuRepo, apiRepo, cache),
		menus: NewMenuService(menuRepo),
		apis:  NewApiService(apiRepo, cache),
		depts: NewDeptService(deptRepo),
		audit: NewAuditLogService(mysql.NewAuditLogRepository(db)),
	}
}

func createReq(username string, roleIDs ...uint) *model.CreateUserRequest {
	return &model.CreateUserRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
		RoleIDs:  roleIDs,
	}
}

func TestUserCreateAndGet(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	role, err := s.roles.Create(ctx, &model.CreateRoleRequest{Name: "admin"})
	require.NoError(t, err)
	dept, err := s.depts.Create(ctx, &model.CreateDeptRequest{Name: "ops"})
	require.NoError(t, err)

	req := createReq("alice", role.ID)
	req.DeptID = dept.ID
	user, err := s.users.Create(ctx, req)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.Password)

	info, err := s.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	require.Len(t, info.Roles, 1)
	assert.Equal(t, "admin", info.Roles[0].Name)
	require.NotNil(t, info.Dept)
	assert.Equal(t, "ops", info.Dept.Name)

	list, total, err := s.users.List(ctx, &model.UserListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Dept)

	_, err = s.users.Get(ctx, 999)
	assert.ErrorIs(t, err, system.ErrUserNotFound)
}

func TestUserCreateDuplicates(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.users.Create(ctx, createReq("bob"))
	require.NoError(t, err)

	dupEmail := createReq("bobby")
	dupEmail.Email = "bob@example.com"
	_, err = s.users.Create(ctx, dupEmail)
	assert.ErrorIs(t, err, system.ErrEmailAlreadyExists)
	assert.Equal(t, "The user with this email already exists in the system.", system.AsAppError(err).Message)

	dupName := createReq("bob")
	dupName.Email = "other@example.com"
	_, err = s.users.Create(ctx, dupName)
	assert.ErrorIs(t, err, system.ErrUsernameAlreadyExists)

	_, err = s.users.Create(ctx, createReq("carol", 42))
	assert.ErrorIs(t, err, system.ErrRoleNotFound)

	withDept := createReq("dave")
	withDept.DeptID = 77
	_, err = s.users.Create(ctx, withDept)
	assert.ErrorIs(t, err, system.ErrDeptNotFound)
}

func TestUserUpdateReplacesRoles(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	r1, err := s.roles.Create(ctx, &model.CreateRoleRequest{Name: "r1"})
	require.NoError(t, err)
	r2, err := s.roles.Create(ctx, &model.CreateRoleRequest{Name: "r2"})
	require.NoError(t, err)
	user, err := s.users.Create(ctx, createReq("erin", r1.ID))
	require.NoError(t, err)
	other, err := s.users.Create(ctx, createReq("frank"))
	require.NoError(t, err)

	inactive := false
	err = s.users.Update(ctx, &model.UpdateUserRequest{
		ID:       user.ID,
		Email:    "erin@example.com",
		Username: "erin",
		Alias:    "Erin",
		IsActive: &inactive,
		RoleIDs:  []uint{r2.ID},
	})
	require.NoError(t, err)

	info, err := s.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Erin", info.Alias)
	assert.False(t, info.IsActive)
	require.Len(t, info.Roles, 1)
	assert.Equal(t, r2.ID, info.Roles[0].ID)

	err = s.users.Update(ctx, &model.UpdateUserRequest{ID: user.ID, Email: other.Email, Username: "erin"})
	assert.ErrorIs(t, err, system.ErrEmailAlreadyExists)

	err = s.users.Update(ctx, &model.UpdateUserRequest{ID: 999, Email: "x@example.com", Username: "x"})
	assert.ErrorIs(t, err, system.ErrUserNotFound)
}

func TestUserResetPasswordAndDelete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	user, err := s.users.Create(ctx, createReq("grace"))
	require.NoError(t, err)

	require.NoError(t, s.users.ResetPassword(ctx, user.ID))
	var stored model.User
	require.NoError(t, s.db.First(&stored, user.ID).Error)
	ok, err := s.pm.VerifyPassword("reset-pass1", stored.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, s.users.Delete(ctx, user.ID, user.ID), system.ErrCannotDeleteSelf)
	require.NoError(t, s.users.Delete(ctx, 0, user.ID))
	_, err = s.users.Get(ctx, user.ID)
	assert.ErrorIs(t, err, system.ErrUserNotFound)
	assert.ErrorIs(t, s.users.Delete(ctx, 0, user.ID), system.ErrUserNotFound)
}

func TestNewUserServiceDefaultResetPassword(t *testing.T) {
	s := NewUserService(nil, nil, nil, nil, nil, "")
	assert.Equal(t, defaultResetPassword, s.resetPassword)
}
