package redis

import (
	"context"
	"errors"
	"time"

	"mentor_chat_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

// SetKeyEx 设置键值对并指定过期时间
func SetKeyEx(ctx context.Context, key string, value string, timeout time.Duration) error {
	if err := redisClient.Set(ctx, key, value, timeout).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// GetKey 获取键对应的值
// 键不存在时返回空字符串和 nil（不视为错误）
func GetKey(ctx context.Context, key string) (string, error) {
	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// GetKeyNilIsErr 获取键对应的值（键不存在视为 CodeNotFound 错误）
func GetKeyNilIsErr(ctx context.Context, key string) (string, error) {
	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errorx.Wrapf(err, errorx.CodeNotFound, "redis key %s not found", key)
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// DelKeyIfExists 删除键（如果存在）
func DelKeyIfExists(ctx context.Context, key string) error {
	exists, err := redisClient.Exists(ctx, key).Result()
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis exists key %s", key)
	}
	if exists == 1 {
		if err := redisClient.Del(ctx, key).Err(); err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis delete key %s", key)
		}
	}
	return nil
}

// DelKeysWithPrefix 删除指定前缀的所有键
// 使用 SCAN 分批扫描，避免 KEYS 阻塞 Redis
func DelKeysWithPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		var keys []string
		var err error

		keys, cursor, err = redisClient.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis scan prefix %s", prefix)
		}

		if len(keys) > 0 {
			if err := redisClient.Del(ctx, keys...).Err(); err != nil {
				return errorx.Wrapf(err, errorx.CodeCacheError, "redis delete keys with prefix %s", prefix)
			}
		}

		if cursor == 0 {
			break
		}
	}
	return nil
}
