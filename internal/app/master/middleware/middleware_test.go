package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"neoadmin/internal/config"
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/sensitive"
	systemService "neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager(cfg *config.Config, filter *sensitive.Filter) *MiddlewareManager {
	return NewMiddlewareManager(nil, nil, nil, nil, filter, cfg)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, model.Success(nil))
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestTokenBucketLimiter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	limiter := NewTokenBucketLimiter(2, 3, 0)
	limiter.now = clock.now

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("a"), "burst request %d", i)
	}
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"), "keys are independent")

	// 0.25s 补充 0.5 个令牌，不足以放行；再过 0.25s 凑满 1 个
	clock.t = clock.t.Add(250 * time.Millisecond)
	assert.False(t, limiter.Allow("a"))
	clock.t = clock.t.Add(250 * time.Millisecond)
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	limiter.Reset("a")
	assert.True(t, limiter.Allow("a"))
	limiter.Stop()
	limiter.Stop()
}

func TestWindowLimiter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	limiter := NewWindowLimiter(2, time.Minute)
	limiter.now = clock.now

	assert.True(t, limiter.Allow("ip:/login"))
	assert.True(t, limiter.Allow("ip:/login"))
	assert.False(t, limiter.Allow("ip:/login"))

	clock.t = clock.t.Add(59 * time.Second)
	assert.False(t, limiter.Allow("ip:/login"))

	clock.t = clock.t.Add(time.Second)
	assert.True(t, limiter.Allow("ip:/login"))

	// 新 key 触发清理过期窗口
	clock.t = clock.t.Add(2 * time.Minute)
	assert.True(t, limiter.Allow("other"))
	_, stale := limiter.windows["ip:/login"]
	assert.False(t, stale)
}

func TestAuthRateLimitMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.AuthRateLimit = config.AuthRateLimit{Enabled: true, LoginPerMinute: 2}
	m := newTestManager(cfg, nil)

	engine := gin.New()
	engine.POST("/api/v1/base/access_token", m.GinLoginRateLimitMiddleware(), okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/base/access_token", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// 其它IP不受影响
	req := httptest.NewRequest(http.MethodPost, "/api/v1/base/access_token", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRateLimitDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.AuthRateLimit = config.AuthRateLimit{Enabled: false, LoginPerMinute: 1}
	m := newTestManager(cfg, nil)

	engine := gin.New()
	engine.POST("/login", m.GinLoginRateLimitMiddleware(), okHandler)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGlobalRateLimitSkipPaths(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.RateLimit = config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstSize:         1,
		SkipPaths:         []string{"/health"},
	}
	m := newTestManager(cfg, nil)

	engine := gin.New()
	engine.Use(m.GinRateLimitMiddleware())
	engine.GET("/health", okHandler)
	engine.GET("/data", okHandler)

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, serve("/data").Code)
	limited := serve("/data")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve("/health").Code)
	}
}

func newSensitiveEngine(t *testing.T, checkPaths []string) *gin.Engine {
	t.Helper()
	cfg := &config.Config{}
	cfg.Sensitive = config.SensitiveConfig{
		Enabled:         true,
		Words:           []string{"违禁词"},
		ResponseMessage: "blocked message",
		CheckPaths:      checkPaths,
	}
	m := newTestManager(cfg, sensitive.NewFilter(sensitive.OptionsFromConfig(&cfg.Sensitive)))

	engine := gin.New()
	engine.Use(m.GinSensitiveInputMiddleware())
	engine.POST("/api/v1/chat", func(c *gin.Context) {
		var body map[string]interface{}
		require.NoError(t, c.ShouldBindJSON(&body))
		c.JSON(http.StatusOK, model.Success(body))
	})
	return engine
}

func postJSON(engine *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSensitiveInputBlocked(t *testing.T) {
	engine := newSensitiveEngine(t, []string{"/api/v1/chat"})

	w := postJSON(engine, "/api/v1/chat", `{"query":{"text":"含有违禁词的输入"}}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var blocked BlockedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blocked))
	assert.Equal(t, "blocked", blocked.Status)
	assert.Equal(t, "blocked message", blocked.Message)
	assert.Equal(t, "SENSITIVE_CONTENT_DETECTED", blocked.Code)

	// 未命中时请求体仍可被 handler 绑定
	w = postJSON(engine, "/api/v1/chat", `{"query":"正常输入"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]interface{}{"query": "正常输入"}, resp.Data)
}

func TestSensitiveInputStreaming(t *testing.T) {
	engine := newSensitiveEngine(t, []string{"/api/v1/chat"})

	w := postJSON(engine, "/api/v1/chat", `{"query":"违禁词"}`, map[string]string{"Accept": "text/event-stream"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t,
		"data: {\"answer\":\"blocked message\",\"event\":\"error\"}\n\ndata: [DONE]\n\n",
		w.Body.String())
}

func TestSensitiveInputPathScope(t *testing.T) {
	// 未配置检查路径时不检查任何请求
	engine := newSensitiveEngine(t, nil)
	w := postJSON(engine, "/api/v1/chat", `{"query":"违禁词"}`, nil)
	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)

	// 字段之间不拼接
	engine = newSensitiveEngine(t, []string{"/api/v1/chat"})
	w = postJSON(engine, "/api/v1/chat", `{"a":"违禁","b":"词"}`, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestShouldAudit(t *testing.T) {
	cfg := &config.Config{}
	cfg.Audit = config.AuditConfig{
		Enabled:      true,
		Methods:      []string{"GET", "POST"},
		ExcludePaths: []string{"^/api/v1/base/access_token$", "^/docs"},
	}
	m := newTestManager(cfg, nil)
	m.auditService = &systemService.AuditLogService{}

	cases := []struct {
		method, path string
		want         bool
	}{
		{http.MethodGet, "/api/v1/user/list", true},
		{http.MethodPost, "/api/v1/base/access_token", false},
		{http.MethodPost, "/API/V1/BASE/ACCESS_TOKEN", false},
		{http.MethodGet, "/docs/index.html", false},
		{http.MethodDelete, "/api/v1/user/delete", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		assert.Equal(t, tc.want, m.shouldAudit(req), "%s %s", tc.method, tc.path)
	}

	m.auditConfig.Enabled = false
	assert.False(t, m.shouldAudit(httptest.NewRequest(http.MethodGet, "/api/v1/user/list", nil)))
}

func TestRequestArgs(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/update?user_id=3", bytes.NewBufferString(`{"alias":"bob","role_ids":[1,2]}`))
	req.Header.Set("Content-Type", "application/json")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	var args map[string]interface{}
	require.NoError(t, json.Unmarshal(requestArgs(c), &args))
	assert.Equal(t, "3", args["user_id"])
	assert.Equal(t, "bob", args["alias"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, args["role_ids"])

	// 请求体仍可再次读取
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(c.Request.Body).Decode(&body))
	assert.Equal(t, "bob", body["alias"])
}

func TestRequestArgsMasksCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/base/update_password?access_token=abc",
		bytes.NewBufferString(`{"old_password":"Old12345","new_password":"New12345","profile":{"Password":"x"},"alias":"bob"}`))
	req.Header.Set("Content-Type", "application/json")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	var args map[string]interface{}
	require.NoError(t, json.Unmarshal(requestArgs(c), &args))
	assert.Equal(t, maskedValue, args["access_token"])
	assert.Equal(t, maskedValue, args["old_password"])
	assert.Equal(t, maskedValue, args["new_password"])
	assert.Equal(t, map[string]interface{}{"Password": maskedValue}, args["profile"])
	assert.Equal(t, "bob", args["alias"])

	// handler 读到的仍是原始请求体
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(c.Request.Body).Decode(&body))
	assert.Equal(t, "New12345", body["new_password"])
}

func TestAuditResponseBodyMasksTokens(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	w := &auditBodyWriter{ResponseWriter: c.Writer, limit: 1024}
	_, _ = w.Write([]byte(`{"code":200,"msg":"OK","data":{"access_token":"a.b.c","refresh_token":"d.e.f","expires_in":3600,"items":[{"password":"p"}]}}`))

	assert.JSONEq(t,
		`{"code":200,"msg":"OK","data":{"access_token":"******","refresh_token":"******","expires_in":3600,"items":[{"password":"******"}]}}`,
		string(responseBody("/api/v1/base/refresh_token", w)))
}

func TestAuditResponseBody(t *testing.T) {
	newWriter := func(limit int) (*auditBodyWriter, *httptest.ResponseRecorder) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		return &auditBodyWriter{ResponseWriter: c.Writer, limit: limit}, rec
	}

	w, rec := newWriter(1024)
	_, _ = w.Write([]byte(`{"code":200,"msg":"OK","data":{"id":1}}`))
	assert.JSONEq(t, `{"code":200,"msg":"OK","data":{"id":1}}`, string(responseBody("/api/v1/user/get", w)))
	assert.Equal(t, `{"code":200,"msg":"OK","data":{"id":1}}`, rec.Body.String())

	w, rec = newWriter(8)
	_, _ = w.Write([]byte(`{"code":200,"msg":"OK"}`))
	assert.Equal(t, string(tooLargeBody), string(responseBody("/api/v1/user/list", w)))
	assert.Equal(t, `{"code":200,"msg":"OK"}`, rec.Body.String(), "client still receives the full body")

	w, _ = newWriter(1024)
	_, _ = w.WriteString("plain text")
	assert.Equal(t, `"plain text"`, string(responseBody("/x", w)))

	w, _ = newWriter(1024)
	w.Header().Set("Content-Type", "text/event-stream")
	_, _ = w.WriteString("data: hi\n\n")
	assert.Equal(t, string(streamingBody), string(responseBody("/x", w)))

	w, _ = newWriter(1024)
	_, _ = w.Write([]byte(`{"code":200,"data":[{"id":1,"response_body":{"big":true}},{"id":2}]}`))
	assert.JSONEq(t, `{"code":200,"data":[{"id":1},{"id":2}]}`, string(responseBody("/api/v1/auditlog/list", w)))
}
