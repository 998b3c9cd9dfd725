package system

import (
	"context"
	"testing"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeptTreeAndMove(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	p, err := s.depts.Create(ctx, &model.CreateDeptRequest{Name: "P", Order: 2})
	require.NoError(t, err)
	q, err := s.depts.Create(ctx, &model.CreateDeptRequest{Name: "Q", Order: 1})
	require.NoError(t, err)
	c, err := s.depts.Create(ctx, &model.CreateDeptRequest{Name: "C", ParentID: p.ID})
	require.NoError(t, err)

	tree, err := s.depts.Tree(ctx, "")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Q", tree[0].Name)
	assert.Equal(t, "P", tree[1].Name)
	require.Len(t, tree[1].Children, 1)

	require.NoError(t, s.depts.Update(ctx, &model.UpdateDeptRequest{
		ID:                c.ID,
		CreateDeptRequest: model.CreateDeptRequest{Name: "C", ParentID: q.ID},
	}))
	tree, err = s.depts.Tree(ctx, "")
	require.NoError(t, err)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, c.ID, tree[0].Children[0].ID)
	assert.Empty(t, tree[1].Children)
}

func TestDeptErrors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.depts.Create(ctx, &model.CreateDeptRequest{Name: "orphan", ParentID: 42})
	assert.ErrorIs(t, err, system.ErrParentDeptNotFound)
	assert.Equal(t, 404, system.AsAppError(err).StatusCode())

	root, err := s.depts.Create(ctx, &model.CreateDeptRequest{Name: "root"})
	require.NoError(t, err)
	_, err = s.depts.Create(ctx, &model.CreateDeptRequest{Name: "root"})
	assert.ErrorIs(t, err, system.ErrDeptAlreadyExists)

	child, err := s.depts.Create(ctx, &model.CreateDeptRequest{Name: "child", ParentID: root.ID})
	require.NoError(t, err)

	err = s.depts.Update(ctx, &model.UpdateDeptRequest{
		ID:                root.ID,
		CreateDeptRequest: model.CreateDeptRequest{Name: "root", ParentID: child.ID},
	})
	assert.ErrorIs(t, err, system.ErrDeptInvalidParent)

	assert.ErrorIs(t, s.depts.Delete(ctx, root.ID), system.ErrDeptHasChildren)
	require.NoError(t, s.depts.Delete(ctx, child.ID))
	require.NoError(t, s.depts.Delete(ctx, root.ID))
	assert.ErrorIs(t, s.depts.Delete(ctx, root.ID), system.ErrDeptNotFound)

	_, err = s.depts.Get(ctx, root.ID)
	assert.ErrorIs(t, err, system.ErrDeptNotFound)
}
