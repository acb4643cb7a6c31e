package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/logger"
)

var (
	client *redis.Client
	prefix = "vs"
)

// InitRedis 初始化全局 Redis 客户端。
// 连接失败时降级为无缓存模式,不阻塞启动。
func InitRedis(cfg config.RedisConfig) error {
	if !cfg.Enabled {
		client = nil
		return nil
	}
	if cfg.Prefix != "" {
		prefix = cfg.Prefix
	}

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis_unavailable_cache_disabled", "error", err.Error())
		client = nil
		return err
	}
	client = c
	logger.Infow("redis_connected", "addr", c.Options().Addr, "db", cfg.DB)
	return nil
}

// Enabled 缓存是否可用
func Enabled() bool {
	return client != nil
}

// Client 返回底层客户端,缓存禁用时为 nil
func Client() *redis.Client {
	return client
}

// BuildKey 拼接带前缀的缓存键
func BuildKey(parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}

// GetJSON 读取并反序列化缓存值,未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化并写入缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// Del 删除缓存键
func Del(ctx context.Context, keys ...string) error {
	if !Enabled() || len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
