// Package chat 实现房间消息的实时分发
// broker.go 定义消息代理接口，抽象上行发布与在线连接管理，
// 支持 Kafka（分布式）和 Channel（单机）两种实现
package chat

import "context"

// InboundMessage WebSocket 上行的聊天消息信封
// 发送者身份取自认证后的连接，不信任报文自带的身份字段
type InboundMessage struct {
	RoomUuid   string `json:"roomUuid"`
	SenderUuid string `json:"senderUuid"`
	SenderRole string `json:"senderRole"`
	Content    string `json:"content"`
}

// AppendHandler 上行消息的落库回调
// 由消息服务注入：持久化 + 解析展示名 + 回调 Deliver 分发
// 回调注入避免了 chat 包反向依赖 message 包
type AppendHandler func(ctx context.Context, in *InboundMessage) error

// MessageBroker 消息代理接口
type MessageBroker interface {
	// Publish 发布一条上行消息（进入队列/通道，异步落库分发）
	Publish(ctx context.Context, msg []byte) error
	// Deliver 把一条已落库的消息推送给该房间的所有订阅者
	Deliver(roomUuid string, messageUuid int64, payload []byte)
	// RegisterClient 注册客户端连接
	RegisterClient(client *UserConn)
	// UnregisterClient 注销客户端连接
	UnregisterClient(client *UserConn)
	// GetClient 获取指定用户的连接
	GetClient(userUuid string) *UserConn
	// SetAppendHandler 注入上行消息的落库回调
	SetAppendHandler(fn AppendHandler)
	// Start 启动消费循环
	Start()
	// Close 关闭代理资源
	Close()
}

// GlobalBroker 全局消息代理实例
// 在 main.go 中根据配置初始化为 KafkaBroker 或 ChannelBroker
var GlobalBroker MessageBroker
