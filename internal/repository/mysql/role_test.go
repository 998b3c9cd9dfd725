package mysql

import (
	"context"
	"testing"

	"neoadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAuthorizedReplace(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	menu := &model.Menu{Name: "system", Path: "/system", MenuType: model.MenuTypeCatalog}
	require.NoError(t, f.menus.CreateMenu(ctx, menu))
	a1 := f.api(t, "GET", "/api/v1/role/list")
	a2 := f.api(t, "POST", "/api/v1/role/create")

	role := f.role(t, "admin")
	require.NoError(t, f.roles.UpdateRoleAuthorized(ctx, role.ID, []uint{menu.ID}, []uint{a1.ID, a2.ID}))

	got, err := f.roles.GetRoleWithAuthorized(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{menu.ID}, got.MenuIDs())
	assert.ElementsMatch(t, []uint{a1.ID, a2.ID}, got.ApiIDs())

	require.NoError(t, f.roles.UpdateRoleAuthorized(ctx, role.ID, nil, []uint{a2.ID}))
	got, err = f.roles.GetRoleWithAuthorized(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Menus)
	assert.Equal(t, []uint{a2.ID}, got.ApiIDs())
}

func TestRoleDeleteRemovesLinks(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	api := f.api(t, "GET", "/api/v1/user/list")
	role := f.role(t, "admin")
	require.NoError(t, f.roles.UpdateRoleAuthorized(ctx, role.ID, nil, []uint{api.ID}))
	u := f.user(t, "alice", role.ID)

	require.NoError(t, f.roles.DeleteRole(ctx, role.ID))

	got, err := f.roles.GetRoleByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	user, err := f.users.GetUserWithRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, user.Roles)

	apis, err := f.users.GetUserApis(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, apis)
}

func TestRoleListAndCount(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	r1 := f.role(t, "admin")
	r2 := f.role(t, "auditor")
	f.role(t, "ops")

	roles, total, err := f.roles.ListRoles(ctx, "a", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, roles, 2)
	assert.Equal(t, r1.ID, roles[0].ID)

	count, err := f.roles.CountExistingRoles(ctx, []uint{r1.ID, r2.ID, r2.ID, 999})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestApiFindByInfos(t *testing.T) {
	f := newRBACFixture(t)
	ctx := context.Background()

	list := f.api(t, "GET", "/api/v1/user/list")
	create := f.api(t, "POST", "/api/v1/user/create")
	f.api(t, "POST", "/api/v1/user/list")

	apis, err := f.apis.FindApisByInfos(ctx, []model.ApiInfo{
		{Path: "/api/v1/user/list", Method: "get"},
		{Path: "/api/v1/user/create", Method: "POST"},
		{Path: "/api/v1/missing", Method: "GET"},
	})
	require.NoError(t, err)
	ids := make([]uint, 0, len(apis))
	for _, a := range apis {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []uint{list.ID, create.ID}, ids)

	found, err := f.apis.GetApiByMethodPath(ctx, "post", "/api/v1/user/create")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, create.ID, found.ID)

	require.NoError(t, f.apis.DeleteApis(ctx, []uint{list.ID, create.ID}))
	all, err := f.apis.ListAllApis(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
