package system

import (
	"context"
	"testing"
	"time"

	"neoadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAuditLogRecordAndList(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	for i, username := range []string{"alice", "Alice2", "bob"} {
		require.NoError(t, s.audit.Record(ctx, &model.AuditLog{
			UserID:      uint(i + 1),
			Username:    username,
			Module:      "user",
			Summary:     "创建用户",
			Method:      "POST",
			Path:        "/api/v1/user/create",
			Status:      200,
			RequestArgs: datatypes.JSON(`{"username":"x"}`),
		}))
	}

	logs, total, err := s.audit.List(ctx, &model.AuditLogListQuery{Username: "ALICE"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 2)
	assert.Equal(t, "Alice2", logs[0].Username)

	_, total, err = s.audit.List(ctx, &model.AuditLogListQuery{Status: 500})
	require.NoError(t, err)
	assert.Zero(t, total)

	future := time.Now().Add(time.Hour).Format("2006-01-02 15:04:05")
	_, total, err = s.audit.List(ctx, &model.AuditLogListQuery{StartTime: future})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = s.audit.List(ctx, &model.AuditLogListQuery{EndTime: "yesterday"})
	assert.Error(t, err)
}
