package system

import (
	"context"
	"testing"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuLifecycle(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	parent, err := s.menus.Create(ctx, &model.CreateMenuRequest{
		MenuType: model.MenuTypeCatalog, Name: "system", Path: "/system", Component: "Layout",
	})
	require.NoError(t, err)
	assert.True(t, parent.KeepAlive)

	noKeep := false
	child, err := s.menus.Create(ctx, &model.CreateMenuRequest{
		MenuType: model.MenuTypeMenu, Name: "user", Path: "user", Component: "/system/user",
		ParentID: parent.ID, KeepAlive: &noKeep,
	})
	require.NoError(t, err)
	assert.False(t, child.KeepAlive)

	tree, err := s.menus.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)

	flat, err := s.menus.List(ctx, "user")
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, child.ID, flat[0].ID)

	_, err = s.menus.Create(ctx, &model.CreateMenuRequest{MenuType: "button", Name: "x", Path: "x", Component: "x"})
	assert.Equal(t, 400, system.AsAppError(err).StatusCode())

	_, err = s.menus.Create(ctx, &model.CreateMenuRequest{
		MenuType: model.MenuTypeMenu, Name: "x", Path: "x", Component: "x", ParentID: 404,
	})
	assert.ErrorIs(t, err, system.ErrMenuNotFound)

	assert.ErrorIs(t, s.menus.Delete(ctx, parent.ID), system.ErrMenuHasChildren)

	require.NoError(t, s.menus.Update(ctx, &model.UpdateMenuRequest{
		ID: child.ID,
		CreateMenuRequest: model.CreateMenuRequest{
			MenuType: model.MenuTypeMenu, Name: "users", Path: "users", Component: "/system/user", Order: 3,
		},
	}))
	got, err := s.menus.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "users", got.Name)
	assert.Equal(t, 3, got.Order)
	assert.Zero(t, got.ParentID)

	require.NoError(t, s.menus.Delete(ctx, child.ID))
	require.NoError(t, s.menus.Delete(ctx, parent.ID))
}
