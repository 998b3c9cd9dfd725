package mysql

import (
	"context"
	"testing"

	"neoadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rbacFixture struct {
	users *UserRepository
	roles *RoleRepository
	apis  *ApiRepository
	menus *MenuRepository
}

func newRBACFixture(t *testing.T) *rbacFixture {
	db := newTestDB(t)
	return &rbacFixture{
		users: NewUserRepository(db),
		roles: NewRoleRepository(db),
		apis:  NewApiRepository(db),
		menus: NewMenuRepository(db),
	}
}

func (f *rbacFixture) role(t *testing.T, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name}
	require.NoError(t, f.roles.CreateRole(context.Background(), role))
	return role
}

func (f *rbacFixture) api(t *testing.T, method, path string) *model.Api {
	t.Helper()
	api := &model.Api{Method: method, Path: path, Tags: "test"}
	require.NoError(t, f.apis.CreateApi(context.Background(), api))
	return api
}

func (f *rbacFixture) user(t *testing.T, username string, roleIDs ...uint) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", IsActive: true}
	require.NoError(t, f.users.CreateUser(context.Background(), user, roleIDs))
	return user
}

func TestUserCreateWithRoles(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	r1 := f.role(t, "admin")
	r2 := f.role(t, "ops")
	u := f.user(t, "alice", r1.ID, r2.ID, r1.ID, 0)

	got, err := f.users.GetUserWithRoles(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.ElementsMatch(t, []uint{r1.ID, r2.ID}, got.RoleIDs())
	assert.ElementsMatch(t, []string{"admin", "ops"}, got.RoleNames())

	byName, err := f.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	missing, err := f.users.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserUpdateReplacesRoles(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	r1 := f.role(t, "admin")
	r2 := f.role(t, "ops")
	u := f.user(t, "bob", r1.ID)

	require.NoError(t, f.users.UpdateUserWithRoles(ctx, u.ID, map[string]interface{}{"alias": "Bob"}, []uint{r2.ID}))

	got, err := f.users.GetUserWithRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Alias)
	assert.Equal(t, []uint{r2.ID}, got.RoleIDs())

	require.NoError(t, f.users.UpdateUserWithRoles(ctx, u.ID, map[string]interface{}{}, nil))
	got, err = f.users.GetUserWithRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Roles)
}

func TestUserApisJoinDeduplicates(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	read := f.api(t, "get", "/api/v1/user/list")
	write := f.api(t, "POST", "/api/v1/user/create")
	other := f.api(t, "DELETE", "/api/v1/user/delete")
	assert.Equal(t, "GET", read.Method)

	r1 := f.role(t, "reader")
	r2 := f.role(t, "writer")
	require.NoError(t, f.roles.UpdateRoleAuthorized(ctx, r1.ID, nil, []uint{read.ID}))
	require.NoError(t, f.roles.UpdateRoleAuthorized(ctx, r2.ID, nil, []uint{read.ID, write.ID}))

	u := f.user(t, "carol", r1.ID, r2.ID)
	apis, err := f.users.GetUserApis(ctx, u.ID)
	require.NoError(t, err)

	ids := make([]uint, 0, len(apis))
	for _, a := range apis {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []uint{read.ID, write.ID}, ids)
	assert.NotContains(t, ids, other.ID)

	lonely := f.user(t, "dave")
	apis, err = f.users.GetUserApis(ctx, lonely.ID)
	require.NoError(t, err)
	assert.Empty(t, apis)
}

func TestUserMenusJoin(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	m1 := &model.Menu{Name: "system", Path: "/system", MenuType: model.MenuTypeCatalog}
	m2 := &model.Menu{Name: "user", Path: "user", MenuType: model.MenuTypeMenu}
	require.NoError(t, f.menus.CreateMenu(ctx, m1))
	m2.ParentID = m1.ID
	require.NoError(t, f.menus.CreateMenu(ctx, m2))

	r1 := f.role(t, "a")
	r2 := f.role(t, "b")
	require.NoError(t, f.roles.UpdateRoleAuthorized(ctx, r1.ID, []uint{m1.ID, m2.ID}, nil))
	require.NoError(t, f.roles.UpdateRoleAuthorized(ctx, r2.ID, []uint{m1.ID}, nil))

	u := f.user(t, "erin", r1.ID, r2.ID)
	menus, err := f.users.GetUserMenus(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, menus, 2)
}

func TestUserDeleteRemovesRoleLinks(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	r := f.role(t, "admin")
	u := f.user(t, "frank", r.ID)

	require.NoError(t, f.users.DeleteUser(ctx, u.ID))

	got, err := f.users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ids, err := f.roles.GetRoleUserIDs(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// 幂等
	assert.NoError(t, f.users.DeleteUser(ctx, u.ID))
}

func TestUserListFilterAndPaging(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "alpine", "beta"} {
		f.user(t, name)
	}

	users, total, err := f.users.ListUsers(ctx, UserFilter{Username: "alp"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = f.users.ListUsers(ctx, UserFilter{}, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	dept := uint(42)
	users, total, err = f.users.ListUsers(ctx, UserFilter{DeptID: &dept}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
}
