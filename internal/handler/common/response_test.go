package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, debug bool, err error) (int, model.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/x", func(c *gin.Context) {
		c.Set(DebugModeKey, debug)
		Error(c, err)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestErrorMessages(t *testing.T) {
	boom := errors.New("connection refused")

	cases := []struct {
		name   string
		debug  bool
		err    error
		status int
		msg    string
	}{
		{"plain error hidden", false, boom, 500, "operation failed"},
		{"plain error debug", true, boom, 500, "operation failed: connection refused"},
		{"public message", false, system.ErrUserNotFound, 404, "User not found"},
		{"detail hidden", false, system.ErrPermissionDenied.WithDetail("GET /api/v1/user/list"), 403, "Permission denied"},
		{"detail debug", true, system.ErrPermissionDenied.WithDetail("GET /api/v1/user/list"), 403, "Permission denied: GET /api/v1/user/list"},
		{"wrapped app error", false, fmt.Errorf("load: %w", system.ErrTokenExpired), 401, "Login has expired"},
		{"malformed token", false, system.ErrInvalidToken, 401, "Invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := serveError(t, tc.debug, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.msg, resp.Msg)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, debug := range []bool{false, true} {
		engine := gin.New()
		engine.GET("/x", func(c *gin.Context) {
			c.Set(DebugModeKey, debug)
			BindError(c, errors.New("Key: 'LoginRequest.Username' Error:Field validation for 'Username' failed on the 'required' tag"))
		})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		var resp model.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		if debug {
			assert.Contains(t, resp.Msg, MsgInvalidParams+": Key:")
		} else {
			assert.Equal(t, MsgInvalidParams, resp.Msg)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))

	c.Set(CurrentUserKey, "not a user")
	assert.Nil(t, CurrentUser(c))

	user := &model.User{Username: "admin"}
	c.Set(CurrentUserKey, user)
	assert.Same(t, user, CurrentUser(c))
}
