// channel_broker.go 单机模式的消息代理
// 上行消息进程内通道直转，不依赖外部消息队列，适合开发环境和小规模部署
package chat

import (
	"context"
	"encoding/json"
	"sync"

	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// ChannelBroker 基于进程内通道的消息代理
type ChannelBroker struct {
	// Clients 在线客户端映射表，Key 为用户 UUID
	Clients sync.Map
	// Transmit 上行消息通道，Start 循环消费
	Transmit chan []byte
	// Login / Logout 客户端注册、注销通道
	Login  chan *UserConn
	Logout chan *UserConn

	append AppendHandler
}

// NewChannelBroker 创建单机消息代理
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		Transmit: make(chan []byte, constants.CHANNEL_SIZE),
		Login:    make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
	}
}

// SetAppendHandler 实现 MessageBroker 接口
func (b *ChannelBroker) SetAppendHandler(fn AppendHandler) {
	b.append = fn
}

// Start 主循环：处理注册、注销和上行消息
func (b *ChannelBroker) Start() {
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

		case data, ok := <-b.Transmit:
			if !ok {
				return
			}
			b.handleInbound(data)
		}
	}
}

// handleInbound 消费一条上行消息
// 落库和分发都在注入的 append 回调中完成
func (b *ChannelBroker) handleInbound(data []byte) {
	var inbound InboundMessage
	if err := json.Unmarshal(data, &inbound); err != nil {
		zap.L().Error("unmarshal inbound message failed", zap.Error(err))
		return
	}
	if b.append == nil {
		zap.L().Error("append handler not wired, drop inbound message")
		return
	}
	if err := b.append(context.Background(), &inbound); err != nil {
		zap.L().Error("append inbound message failed",
			zap.String("roomUuid", inbound.RoomUuid),
			zap.String("senderUuid", inbound.SenderUuid),
			zap.Error(err))
		// 校验类失败（空消息体、非房间参与者）回推给发送者
		if sender := b.GetClient(inbound.SenderUuid); sender != nil {
			sender.sendAppendError(err)
		}
	}
}

// Publish 实现 MessageBroker 接口：上行消息进通道
// 通道满时返回服务繁忙，调用方决定是否提示用户重试
func (b *ChannelBroker) Publish(_ context.Context, msg []byte) error {
	select {
	case b.Transmit <- msg:
		return nil
	default:
		return errorx.ErrServerBusy
	}
}

// Deliver 实现 MessageBroker 接口：把已落库的消息推给房间的所有订阅者
// SendBack 满或连接已关闭时跳过该订阅者：消息已持久化，重连后走历史加载补齐
func (b *ChannelBroker) Deliver(roomUuid string, messageUuid int64, payload []byte) {
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
func (b *ChannelBroker) RegisterClient(client *UserConn) {
	b.Login <- client
}

// UnregisterClient 实现 MessageBroker 接口
func (b *ChannelBroker) UnregisterClient(client *UserConn) {
	b.Logout <- client
}

// GetClient 实现 MessageBroker 接口
func (b *ChannelBroker) GetClient(userUuid string) *UserConn {
	value, ok := b.Clients.Load(userUuid)
	if !ok {
		return nil
	}
	return value.(*UserConn)
}

// Close 关闭全部通道
func (b *ChannelBroker) Close() {
	close(b.Login)
	close(b.Logout)
	close(b.Transmit)
}
