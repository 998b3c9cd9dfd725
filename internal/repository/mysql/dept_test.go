package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的共享缓存内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func mustCreateDept(t *testing.T, repo *DeptRepository, name string, parentID uint) *model.Dept {
	t.Helper()
	dept := &model.Dept{Name: name, ParentID: parentID}
	require.NoError(t, repo.CreateDept(context.Background(), dept))
	return dept
}

func closureSet(t *testing.T, repo *DeptRepository, id uint) map[uint]int {
	t.Helper()
	rows, err := repo.GetClosures(context.Background(), id)
	require.NoError(t, err)
	set := make(map[uint]int, len(rows))
	for _, row := range rows {
		set[row.Ancestor] = row.Level
	}
	return set
}

func TestDeptCreateClosures(t *testing.T) {
	repo := NewDeptRepository(newTestDB(t))

	root := mustCreateDept(t, repo, "root", 0)
	child := mustCreateDept(t, repo, "child", root.ID)
	grand := mustCreateDept(t, repo, "grand", child.ID)

	assert.Equal(t, map[uint]int{root.ID: 0}, closureSet(t, repo, root.ID))
	assert.Equal(t, map[uint]int{child.ID: 0, root.ID: 1}, closureSet(t, repo, child.ID))
	assert.Equal(t, map[uint]int{grand.ID: 0, child.ID: 1, root.ID: 2}, closureSet(t, repo, grand.ID))

	ancestors, err := repo.GetAncestors(context.Background(), grand.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{child.ID, root.ID}, ancestors)
}

func TestDeptCreateMissingParent(t *testing.T) {
	db := newTestDB(t)
	repo := NewDeptRepository(db)

	err := repo.CreateDept(context.Background(), &model.Dept{Name: "orphan", ParentID: 99})
	require.Error(t, err)
	assert.True(t, errors.Is(err, system.ErrParentDeptNotFound))
	assert.Equal(t, 404, system.AsAppError(err).StatusCode())

	// 事务回滚，部门与闭包行都不存在
	var count int64
	require.NoError(t, db.Model(&model.Dept{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.DeptClosure{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeptMoveDropsStaleAncestors(t *testing.T) {
	repo := NewDeptRepository(newTestDB(t))
	ctx := context.Background()

	p := mustCreateDept(t, repo, "P", 0)
	q := mustCreateDept(t, repo, "Q", 0)
	qChild := mustCreateDept(t, repo, "Q1", q.ID)
	c := mustCreateDept(t, repo, "C", p.ID)
	require.Equal(t, map[uint]int{c.ID: 0, p.ID: 1}, closureSet(t, repo, c.ID))

	require.NoError(t, repo.UpdateDept(ctx, c.ID, map[string]interface{}{"name": "C"}, qChild.ID))

	got := closureSet(t, repo, c.ID)
	assert.Equal(t, map[uint]int{c.ID: 0, qChild.ID: 1, q.ID: 2}, got)
	_, stale := got[p.ID]
	assert.False(t, stale)

	moved, err := repo.GetDeptByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, qChild.ID, moved.ParentID)
}

func TestDeptUpdateWithoutMoveKeepsClosures(t *testing.T) {
	repo := NewDeptRepository(newTestDB(t))
	ctx := context.Background()

	p := mustCreateDept(t, repo, "P", 0)
	c := mustCreateDept(t, repo, "C", p.ID)
	before, err := repo.GetClosures(ctx, c.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateDept(ctx, c.ID, map[string]interface{}{"desc": "renamed", "order": 3}, p.ID))

	after, err := repo.GetClosures(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}

	dept, err := repo.GetDeptByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", dept.Desc)
	assert.Equal(t, 3, dept.Order)
}

func TestDeptMoveUnderDescendantRejected(t *testing.T) {
	repo := NewDeptRepository(newTestDB(t))
	ctx := context.Background()

	a := mustCreateDept(t, repo, "A", 0)
	b := mustCreateDept(t, repo, "B", a.ID)
	c := mustCreateDept(t, repo, "C", b.ID)

	err := repo.UpdateDept(ctx, a.ID, map[string]interface{}{}, c.ID)
	assert.True(t, errors.Is(err, system.ErrDeptInvalidParent))

	err = repo.UpdateDept(ctx, a.ID, map[string]interface{}{}, a.ID)
	assert.True(t, errors.Is(err, system.ErrDeptInvalidParent))

	err = repo.UpdateDept(ctx, a.ID, map[string]interface{}{}, 999)
	assert.True(t, errors.Is(err, system.ErrParentDeptNotFound))

	// 失败的移动不改变闭包
	assert.Equal(t, map[uint]int{a.ID: 0}, closureSet(t, repo, a.ID))
}

func TestDeptSoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewDeptRepository(db)
	ctx := context.Background()

	p := mustCreateDept(t, repo, "P", 0)
	c := mustCreateDept(t, repo, "C", p.ID)

	require.NoError(t, repo.DeleteDept(ctx, p.ID))

	// 作为子代的行被删除，作为祖先的行保留
	assert.Empty(t, closureSet(t, repo, p.ID))
	assert.Equal(t, map[uint]int{c.ID: 0, p.ID: 1}, closureSet(t, repo, c.ID))

	deleted, err := repo.GetDeptByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	var raw model.Dept
	require.NoError(t, db.First(&raw, p.ID).Error)
	assert.True(t, raw.IsDeleted)

	list, err := repo.ListDepts(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	assert.True(t, errors.Is(repo.DeleteDept(ctx, p.ID), system.ErrDeptNotFound))
}

func TestDeptListOrderAndFilter(t *testing.T) {
	repo := NewDeptRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateDept(ctx, &model.Dept{Name: "ops", Order: 2}))
	require.NoError(t, repo.CreateDept(ctx, &model.Dept{Name: "dev", Order: 1}))
	require.NoError(t, repo.CreateDept(ctx, &model.Dept{Name: "devops", Order: 3}))

	all, err := repo.ListDepts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"dev", "ops", "devops"}, []string{all[0].Name, all[1].Name, all[2].Name})

	filtered, err := repo.ListDepts(ctx, "dev")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	count, err := repo.CountChildren(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestDeptMoveRollsBackWhenClosureInsertFails(t *testing.T) {
	db := newTestDB(t)
	repo := NewDeptRepository(db)
	ctx := context.Background()

	p := mustCreateDept(t, repo, "P", 0)
	q := mustCreateDept(t, repo, "Q", 0)
	c := mustCreateDept(t, repo, "C", p.ID)
	before := closureSet(t, repo, c.ID)

	// 旧闭包行删除之后，新闭包行写入时失败
	failClosures := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_closures", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*[]model.DeptClosure); ok && failClosures {
			_ = tx.AddError(errors.New("closure insert failed"))
		}
	}))
	failClosures = true

	err := repo.UpdateDept(ctx, c.ID, map[string]interface{}{"name": "C2"}, q.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closure insert failed")

	failClosures = false
	assert.Equal(t, before, closureSet(t, repo, c.ID))

	dept, err := repo.GetDeptByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, dept.ParentID)
	assert.Equal(t, "C", dept.Name)
}
