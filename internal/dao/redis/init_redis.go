// Package redis 提供 Redis 缓存操作的封装
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"strconv"

	"mentor_chat_server/internal/config"

	"github.com/redis/go-redis/v9"
)

// redisClient 全局 Redis 客户端实例
var redisClient *redis.Client

// Init 初始化 Redis 连接
// 从配置文件读取连接参数并创建客户端实例
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,

		// 连接池配置
		PoolSize:     50, // 最大连接数
		MinIdleConns: 15, // 最小空闲连接，与 Worker 数量匹配
	})

	// 缓存更新 Worker Pool：15 个 Worker，缓冲区 3000
	InitCacheWorker(15, 3000)
}

// InitWithClient 注入现成客户端（测试用，如 miniredis）
func InitWithClient(client *redis.Client) {
	redisClient = client
	if cacheTaskChan == nil {
		InitCacheWorker(2, 100)
	}
}
