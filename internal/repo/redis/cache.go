/**
 * 缓存仓库层:Redis缓存
 * @author: sun977
 * @date: 2025.09.16
 * @description: 基于Redis的通用缓存。初始化时连接失败则自动禁用，所有操作降级为空操作或未命中
 * @func:
 * 	1.BuildKey 生成 prefix:arg1:arg2:k=v 形式的key
 * 	2.Get / Set / Delete / DeletePattern 基础读写
 * 	3.GetOrLoad 未命中时调用加载函数并回写
 * 	4.ClearUserCache / ClearRoleCache 用户与角色相关缓存失效
 */
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"neoadmin/internal/config"
	"neoadmin/internal/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	defaultTTL    = 300 * time.Second
	pingTimeout   = 3 * time.Second
	scanBatchSize = 100
)

// CacheManager Redis缓存管理器
type CacheManager struct {
	client  *redis.Client
	prefix  string        // 全局key前缀
	ttl     time.Duration // 默认过期时间
	enabled bool
}

// NewCacheManager 创建缓存管理器
// client 为 nil 或 Ping 失败时返回禁用状态的管理器，不返回错误
func NewCacheManager(client *redis.Client, cfg *config.CacheConfig) *CacheManager {
	m := &CacheManager{client: client, ttl: defaultTTL}
	if cfg != nil {
		m.prefix = cfg.Prefix
		if cfg.TTL > 0 {
			m.ttl = cfg.TTL
		}
	}
	if client == nil {
		return m
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.LogSystemEvent("cache", "init", "redis unavailable, cache disabled", logrus.WarnLevel, map[string]interface{}{
			"error":     err.Error(),
			"timestamp": logger.NowFormatted(),
		})
		return m
	}
	m.enabled = true
	return m
}

// Enabled 缓存是否可用
func (m *CacheManager) Enabled() bool {
	return m != nil && m.enabled
}

// BuildKey 生成缓存key: prefix:arg1:...:k=v，kwargs 按key排序
func BuildKey(prefix string, args []interface{}, kwargs map[string]interface{}) string {
	parts := make([]string, 0, 1+len(args)+len(kwargs))
	parts = append(parts, prefix)
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	if len(kwargs) > 0 {
		keys := make([]string, 0, len(kwargs))
		for k := range kwargs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, kwargs[k]))
		}
	}
	return strings.Join(parts, ":")
}

// fullKey 加上全局前缀
func (m *CacheManager) fullKey(key string) string {
	if m.prefix == "" {
		return key
	}
	return m.prefix + ":" + key
}

// Get 读取缓存并反序列化到 dest，返回是否命中
func (m *CacheManager) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !m.Enabled() {
		return false, nil
	}
	data, err := m.client.Get(ctx, m.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache %s: %w", key, err)
	}
	return true, nil
}

// Set 写入缓存，ttl <= 0 时使用默认过期时间
func (m *CacheManager) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !m.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	if err := m.client.Set(ctx, m.fullKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache %s: %w", key, err)
	}
	return nil
}

// Delete 删除若干key
func (m *CacheManager) Delete(ctx context.Context, keys ...string) error {
	if !m.Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, m.fullKey(k))
	}
	if err := m.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// DeletePattern 按通配符删除，使用 SCAN 避免阻塞
func (m *CacheManager) DeletePattern(ctx context.Context, pattern string) error {
	if !m.Enabled() {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := m.client.Scan(ctx, cursor, m.fullKey(pattern), scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := m.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache %s: %w", pattern, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// GetOrLoad 命中时反序列化到 dest；未命中时调用 loader 填充 dest 并回写
// 缓存读写失败只记录日志，不影响 loader 的结果
func (m *CacheManager) GetOrLoad(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) error) error {
	hit, err := m.Get(ctx, key, dest)
	if err != nil {
		logger.LogWarn("cache read failed", "", 0, "", key, "CACHE", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if hit {
		return nil
	}
	if err := loader(ctx); err != nil {
		return err
	}
	if err := m.Set(ctx, key, dest, ttl); err != nil {
		logger.LogWarn("cache write failed", "", 0, "", key, "CACHE", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// UserDetailKey 用户详情缓存key
func UserDetailKey(userID uint) string {
	return BuildKey("user_detail", []interface{}{userID}, nil)
}

// ClearUserCache 清理用户相关缓存
func (m *CacheManager) ClearUserCache(ctx context.Context, userID uint) error {
	if !m.Enabled() {
		return nil
	}
	if err := m.DeletePattern(ctx, fmt.Sprintf("user:%d:*", userID)); err != nil {
		return err
	}
	return m.Delete(ctx,
		fmt.Sprintf("userinfo:%d", userID),
		fmt.Sprintf("user_roles:%d", userID),
		fmt.Sprintf("user_permissions:%d", userID),
		UserDetailKey(userID),
	)
}

// ClearPermissionCache 清理全部用户的授权缓存，接口记录变更后调用
func (m *CacheManager) ClearPermissionCache(ctx context.Context) error {
	return m.DeletePattern(ctx, "user_permissions:*")
}

// ClearRoleCache 清理角色相关缓存
func (m *CacheManager) ClearRoleCache(ctx context.Context, roleID uint) error {
	if !m.Enabled() {
		return nil
	}
	if err := m.DeletePattern(ctx, fmt.Sprintf("role:%d:*", roleID)); err != nil {
		return err
	}
	return m.Delete(ctx,
		fmt.Sprintf("role_permissions:%d", roleID),
		fmt.Sprintf("role_menus:%d", roleID),
	)
}
