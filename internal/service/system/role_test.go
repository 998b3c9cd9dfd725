package system

import (
	"context"
	"testing"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCreateDuplicate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.roles.Create(ctx, &model.CreateRoleRequest{Name: "admin"})
	require.NoError(t, err)
	_, err = s.roles.Create(ctx, &model.CreateRoleRequest{Name: "admin"})
	assert.ErrorIs(t, err, system.ErrRoleAlreadyExists)

	other, err := s.roles.Create(ctx, &model.CreateRoleRequest{Name: "ops"})
	require.NoError(t, err)
	err = s.roles.Update(ctx, &model.UpdateRoleRequest{ID: other.ID, Name: "admin"})
	assert.ErrorIs(t, err, system.ErrRoleAlreadyExists)
	require.NoError(t, s.roles.Update(ctx, &model.UpdateRoleRequest{ID: other.ID, Name: "ops", Desc: "operators"}))

	got, err := s.roles.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "operators", got.Desc)
}

func TestRoleAuthorized(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	role, err := s.roles.Create(ctx, &model.CreateRoleRequest{Name: "admin"})
	require.NoError(t, err)
	menu, err := s.menus.Create(ctx, &model.CreateMenuRequest{
		MenuType: model.MenuTypeCatalog, Name: "system", Path: "/system", Component: "Layout",
	})
	require.NoError(t, err)
	api, err := s.apis.Create(ctx, &model.CreateApiRequest{Path: "/api/v1/user/list", Method: "GET", Tags: "user"})
	require.NoError(t, err)

	info, err := s.roles.GetAuthorized(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, info.Menus)
	assert.NotNil(t, info.Apis)

	err = s.roles.UpdateAuthorized(ctx, &model.RoleAuthorizedRequest{
		ID:      role.ID,
		MenuIDs: []uint{menu.ID},
		ApiInfos: []model.ApiInfo{
			{Path: "/api/v1/user/list", Method: "get"},
			{Path: "/api/v1/unknown", Method: "GET"},
		},
	})
	require.NoError(t, err)

	info, err = s.roles.GetAuthorized(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, info.Menus, 1)
	require.Len(t, info.Apis, 1)
	assert.Equal(t, api.ID, info.Apis[0].ID)

	err = s.roles.UpdateAuthorized(ctx, &model.RoleAuthorizedRequest{ID: role.ID, MenuIDs: []uint{menu.ID, 404}})
	assert.ErrorIs(t, err, system.ErrMenuNotFound)

	require.NoError(t, s.roles.Delete(ctx, role.ID))
	_, err = s.roles.GetAuthorized(ctx, role.ID)
	assert.ErrorIs(t, err, system.ErrRoleNotFound)
}
