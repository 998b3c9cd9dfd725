/**
 * 中间件:限流器中间件
 * @author: sun977
 * @date: 2025.10.10
 * @description: 定义限流器中间件
 * @func:
 *   - GinRateLimitMiddleware 全局限流器中间件[根据客户端IP进行令牌桶限流]
 *   - GinAuthRateLimitMiddleware 认证接口限流器[IP+路径，每分钟固定窗口计数]
 */
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"neoadmin/internal/model"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultRequestsPerSecond = 100
	defaultLoginPerMinute    = 5
	defaultRefreshPerMinute  = 10
	defaultBucketIdle        = 15 * time.Minute
	msgTooManyRequests       = "Too many requests, please try again later"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(key string) bool
	Reset(key string)
}

// TokenBucketLimiter 令牌桶限流器
type TokenBucketLimiter struct {
	buckets map[string]*TokenBucket
	mutex   sync.Mutex
	rate    float64       // 每秒生成的令牌数
	burst   float64       // 桶的容量
	cleanup time.Duration // 清理间隔
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// TokenBucket 令牌桶
type TokenBucket struct {
	tokens   float64   // 当前令牌数，保留小数部分
	lastTime time.Time // 上次更新时间
}

// NewTokenBucketLimiter 创建新的令牌桶限流器
// cleanup 大于 0 时启动清理协程，闲置超过 cleanup 的桶被删除
func NewTokenBucketLimiter(rate, burst int, cleanup time.Duration) *TokenBucketLimiter {
	if burst <= 0 {
		burst = rate
	}
	limiter := &TokenBucketLimiter{
		buckets: make(map[string]*TokenBucket),
		rate:    float64(rate),
		burst:   float64(burst),
		cleanup: cleanup,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if cleanup > 0 {
		go limiter.cleanupExpiredBuckets()
	}

	return limiter
}

// Allow 检查是否允许请求
func (tbl *TokenBucketLimiter) Allow(key string) bool {
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	now := tbl.now()
	bucket, exists := tbl.buckets[key]
	if !exists {
		bucket = &TokenBucket{tokens: tbl.burst, lastTime: now}
		tbl.buckets[key] = bucket
	}

	// 按经过时间补充令牌
	elapsed := now.Sub(bucket.lastTime).Seconds()
	if elapsed > 0 {
		bucket.tokens += elapsed * tbl.rate
		if bucket.tokens > tbl.burst {
			bucket.tokens = tbl.burst
		}
		bucket.lastTime = now
	}

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true
	}
	return false
}

// Reset 重置指定key的限流状态
func (tbl *TokenBucketLimiter) Reset(key string) {
	tbl.mutex.Lock()
	delete(tbl.buckets, key)
	tbl.mutex.Unlock()
}

// Stop 停止清理协程
func (tbl *TokenBucketLimiter) Stop() {
	tbl.once.Do(func() { close(tbl.stop) })
}

// cleanupExpiredBuckets 清理过期的令牌桶
func (tbl *TokenBucketLimiter) cleanupExpiredBuckets() {
	ticker := time.NewTicker(tbl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-tbl.stop:
			return
		case <-ticker.C:
			tbl.mutex.Lock()
			now := tbl.now()
			for key, bucket := range tbl.buckets {
				if now.Sub(bucket.lastTime) > tbl.cleanup {
					delete(tbl.buckets, key)
				}
			}
			tbl.mutex.Unlock()
		}
	}
}

// WindowLimiter 固定窗口计数限流器，适合"每分钟N次"的规则
type WindowLimiter struct {
	mutex   sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*windowCounter
	now     func() time.Time
}

type windowCounter struct {
	start time.Time
	count int
}

// NewWindowLimiter 创建固定窗口限流器
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*windowCounter),
		now:     time.Now,
	}
}

// Allow 当前窗口内计数未超过上限时放行
func (wl *WindowLimiter) Allow(key string) bool {
	wl.mutex.Lock()
	defer wl.mutex.Unlock()

	now := wl.now()
	counter, ok := wl.windows[key]
	if !ok || now.Sub(counter.start) >= wl.window {
		// 新窗口开始时顺带清理其它过期窗口
		if !ok {
			wl.evict(now)
		}
		counter = &windowCounter{start: now}
		wl.windows[key] = counter
	}
	if counter.count >= wl.limit {
		return false
	}
	counter.count++
	return true
}

// Reset 重置指定key
func (wl *WindowLimiter) Reset(key string) {
	wl.mutex.Lock()
	delete(wl.windows, key)
	wl.mutex.Unlock()
}

func (wl *WindowLimiter) evict(now time.Time) {
	for key, counter := range wl.windows {
		if now.Sub(counter.start) >= wl.window {
			delete(wl.windows, key)
		}
	}
}

// GinRateLimitMiddleware 默认限流中间件
// 使用配置文件中的限流策略
func (m *MiddlewareManager) GinRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 检查是否启用限流
		if !m.securityConfig.RateLimit.Enabled {
			c.Next()
			return
		}

		// 检查是否跳过限流
		if m.shouldSkipRateLimit(c) {
			c.Next()
			return
		}

		// 获取客户端IP作为限流key
		clientIP := utils.GetClientIP(c)

		if !m.getRateLimiter().Allow(clientIP) {
			logger.LogWarn("Rate limit exceeded for client", utils.GetRequestID(c), 0, clientIP, c.Request.URL.Path, c.Request.Method, map[string]interface{}{
				"operation": "rate_limit_exceeded",
				"option":    "block_request",
				"func_name": "middleware.ratelimit.GinRateLimitMiddleware",
			})

			status := m.securityConfig.RateLimit.StatusCode
			if status == 0 {
				status = http.StatusTooManyRequests
			}
			msg := m.securityConfig.RateLimit.Message
			if msg == "" {
				msg = msgTooManyRequests
			}
			c.AbortWithStatusJSON(status, model.Fail(status, msg))
			return
		}

		c.Next()
	}
}

// shouldSkipRateLimit 检查是否应该跳过限流
func (m *MiddlewareManager) shouldSkipRateLimit(c *gin.Context) bool {
	path := c.Request.URL.Path

	for _, skipPath := range m.securityConfig.RateLimit.SkipPaths {
		if path == skipPath {
			return true
		}
	}

	clientIP := utils.GetClientIP(c)
	for _, skipIP := range m.securityConfig.RateLimit.SkipIPs {
		if clientIP == skipIP {
			return true
		}
	}

	return false
}

// getRateLimiter 根据配置获取全局限流器，只创建一次
func (m *MiddlewareManager) getRateLimiter() RateLimiter {
	m.rateLimiterOnce.Do(func() {
		cfg := &m.securityConfig.RateLimit
		rate, burst := cfg.RequestsPerSecond, cfg.BurstSize
		if rate <= 0 {
			rate = defaultRequestsPerSecond
		}
		m.rateLimiter = NewTokenBucketLimiter(rate, burst, defaultBucketIdle)
	})
	return m.rateLimiter
}

// GinLoginRateLimitMiddleware 登录接口限流
func (m *MiddlewareManager) GinLoginRateLimitMiddleware() gin.HandlerFunc {
	limit := m.securityConfig.AuthRateLimit.LoginPerMinute
	if limit <= 0 {
		limit = defaultLoginPerMinute
	}
	return m.GinAuthRateLimitMiddleware(NewWindowLimiter(limit, time.Minute))
}

// GinRefreshRateLimitMiddleware 刷新令牌接口限流
func (m *MiddlewareManager) GinRefreshRateLimitMiddleware() gin.HandlerFunc {
	limit := m.securityConfig.AuthRateLimit.RefreshPerMinute
	if limit <= 0 {
		limit = defaultRefreshPerMinute
	}
	return m.GinAuthRateLimitMiddleware(NewWindowLimiter(limit, time.Minute))
}

// GinAuthRateLimitMiddleware 认证接口限流中间件
// 使用IP+路径作为限流key
func (m *MiddlewareManager) GinAuthRateLimitMiddleware(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.securityConfig.AuthRateLimit.Enabled {
			c.Next()
			return
		}

		clientIP := utils.GetClientIP(c)
		key := fmt.Sprintf("%s:%s", clientIP, c.Request.URL.Path)

		if !limiter.Allow(key) {
			logger.LogWarn("Authentication rate limit exceeded", utils.GetRequestID(c), 0, clientIP, c.Request.URL.Path, c.Request.Method, map[string]interface{}{
				"operation": "auth_rate_limit_exceeded",
				"option":    "block_auth_request",
				"func_name": "middleware.ratelimit.GinAuthRateLimitMiddleware",
			})
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.Fail(http.StatusTooManyRequests, msgTooManyRequests))
			return
		}

		c.Next()
	}
}
