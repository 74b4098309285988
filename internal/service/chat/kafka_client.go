// kafka_client.go Kafka 基础设施封装
// 只包含连接管理和读写接口，不含聊天业务逻辑
package chat

import (
	"context"
	"time"

	myconfig "mentor_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaClient Kafka 读写客户端
type KafkaClient struct {
	Producer *kafka.Writer
	Consumer *kafka.Reader
}

// NewKafkaClient 创建未初始化的客户端
func NewKafkaClient() *KafkaClient {
	return &KafkaClient{}
}

// KafkaInit 按配置初始化生产者和消费者
func (k *KafkaClient) KafkaInit() {
	kafkaConfig := myconfig.GetConfig().KafkaConfig
	k.Producer = &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.HostPort),
		Topic:                  kafkaConfig.ChatTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           kafkaConfig.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	k.Consumer = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{kafkaConfig.HostPort},
		Topic:          kafkaConfig.ChatTopic,
		CommitInterval: kafkaConfig.Timeout * time.Second,
		GroupID:        "mentor_chat",
		StartOffset:    kafka.LastOffset,
	})
}

// KafkaClose 关闭读写端
func (k *KafkaClient) KafkaClose() {
	if k.Producer != nil {
		if err := k.Producer.Close(); err != nil {
			zap.L().Error("close kafka producer failed", zap.Error(err))
		}
	}
	if k.Consumer != nil {
		if err := k.Consumer.Close(); err != nil {
			zap.L().Error("close kafka consumer failed", zap.Error(err))
		}
	}
}

// WriteMessage 向聊天 Topic 写入一条消息
func (k *KafkaClient) WriteMessage(ctx context.Context, key, value []byte) error {
	return k.Producer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}
