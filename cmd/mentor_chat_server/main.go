package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mentor_chat_server/internal/config"
	dao "mentor_chat_server/internal/dao/mysql"
	myredis "mentor_chat_server/internal/dao/redis"
	"mentor_chat_server/internal/handler"
	"mentor_chat_server/internal/https_server"
	"mentor_chat_server/internal/infrastructure/logger"
	"mentor_chat_server/internal/service"
	"mentor_chat_server/internal/service/chat"
	"mentor_chat_server/pkg/util/jwt"
	"mentor_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT 和雪花节点
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 6. 初始化消息代理：kafka 分布式，channel 单机
	var kafkaClient *chat.KafkaClient
	if conf.KafkaConfig.MessageMode == "kafka" {
		kafkaClient = chat.NewKafkaClient()
		kafkaClient.KafkaInit()
		chat.GlobalBroker = chat.NewKafkaBroker(kafkaClient)
	} else {
		chat.GlobalBroker = chat.NewChannelBroker()
	}
	zap.L().Info("消息代理初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 7. 装配 Service 和 Handler
	services := service.NewServices(repos, chat.GlobalBroker)
	handlers := handler.NewHandlers(services)

	// 8. 初始化参数校验翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 9. 启动消息代理和 HTTP 服务器
	go chat.GlobalBroker.Start()

	engine := https_server.Init(handlers)
	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		zap.L().Info("server listening", zap.String("addr", addr))
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 10. 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	chat.GlobalBroker.Close()
	zap.L().Info("服务器已关闭")
}
