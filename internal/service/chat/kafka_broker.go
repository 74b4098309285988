// kafka_broker.go 分布式模式的消息代理
// 上行消息经 Kafka 中转后再落库分发，在线连接管理与单机模式相同
package chat

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	myconfig "mentor_chat_server/internal/config"
	"mentor_chat_server/pkg/constants"

	"go.uber.org/zap"
)

// KafkaBroker 基于 Kafka 的消息代理
type KafkaBroker struct {
	Clients sync.Map
	Login   chan *UserConn
	Logout  chan *UserConn

	kafka  *KafkaClient
	append AppendHandler

	cancel context.CancelFunc
}

// NewKafkaBroker 创建 Kafka 消息代理
func NewKafkaBroker(client *KafkaClient) *KafkaBroker {
	return &KafkaBroker{
		Login:  make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout: make(chan *UserConn, constants.CHANNEL_SIZE),
		kafka:  client,
	}
}

// SetAppendHandler 实现 MessageBroker 接口
func (b *KafkaBroker) SetAppendHandler(fn AppendHandler) {
	b.append = fn
}

// Start 启动客户端管理循环和 Kafka 消费循环
func (b *KafkaBroker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.consumeLoop(ctx)

	for {
		select {
		case client, ok := <-b.Login:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			b.Clients.Store(client.Uuid, client)
			zap.L().Debug("client online", zap.String("userUuid", client.Uuid))

		case client, ok := <-b.Logout:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			b.Clients.Delete(client.Uuid)
			zap.L().Info("client offline", zap.String("userUuid", client.Uuid))
		}
	}
}

// consumeLoop 从 Kafka 拉取上行消息并交给落库回调
func (b *KafkaBroker) consumeLoop(ctx context.Context) {
	zap.L().Info("kafka consume loop start")
	for {
		kafkaMessage, err := b.kafka.Consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				zap.L().Info("kafka consume loop stopped")
				return
			}
			zap.L().Error("kafka read message failed", zap.Error(err))
			continue
		}

		var inbound InboundMessage
		if err := json.Unmarshal(kafkaMessage.Value, &inbound); err != nil {
			zap.L().Error("unmarshal inbound message failed", zap.Error(err))
			continue
		}
		if b.append == nil {
			zap.L().Error("append handler not wired, drop inbound message")
			continue
		}
		if err := b.append(ctx, &inbound); err != nil {
			zap.L().Error("append inbound message failed",
				zap.String("roomUuid", inbound.RoomUuid),
				zap.String("senderUuid", inbound.SenderUuid),
				zap.Error(err))
			// 发送者连在本实例上时把失败原因回推给它
			if sender := b.GetClient(inbound.SenderUuid); sender != nil {
				sender.sendAppendError(err)
			}
		}
	}
}

// Publish 实现 MessageBroker 接口：上行消息写入 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, msg []byte) error {
	key := []byte(strconv.Itoa(myconfig.GetConfig().KafkaConfig.Partition))
	return b.kafka.WriteMessage(ctx, key, msg)
}

// Deliver 实现 MessageBroker 接口：推送给本实例上的订阅者
// SendBack 满或连接已关闭时跳过，消息已持久化，重连后走历史加载补齐
func (b *KafkaBroker) Deliver(roomUuid string, messageUuid int64, payload []byte) {
	b.Clients.Range(func(_, value any) bool {
		client := value.(*UserConn)
		if !client.IsSubscribed(roomUuid) {
			return true
		}
		if !client.TrySend(&MessageBack{Message: payload, Uuid: messageUuid}) {
			zap.L().Warn("subscriber gone or send buffer full, skip push",
				zap.String("userUuid", client.Uuid),
				zap.String("roomUuid", roomUuid))
		}
		return true
	})
}

// RegisterClient 实现 MessageBroker 接口
func (b *KafkaBroker) RegisterClient(client *UserConn) {
	b.Login <- client
}

// UnregisterClient 实现 MessageBroker 接口
func (b *KafkaBroker) UnregisterClient(client *UserConn) {
	b.Logout <- client
}

// GetClient 实现 MessageBroker 接口
func (b *KafkaBroker) GetClient(userUuid string) *UserConn {
	value, ok := b.Clients.Load(userUuid)
	if !ok {
		return nil
	}
	return value.(*UserConn)
}

// Close 停止消费循环并关闭资源
func (b *KafkaBroker) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	b.kafka.KafkaClose()
	close(b.Login)
	close(b.Logout)
}
