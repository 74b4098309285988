// conn.go WebSocket 连接生命周期管理
// 建立连接、维护读写协程、跟踪当前连接订阅了哪些房间
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageBack 推送给前端的消息包
type MessageBack struct {
	Message []byte
	Uuid    int64 // 消息雪花 ID，写成功后据此把状态改为已推送
}

// UserConn 一个在线用户的 WebSocket 连接
type UserConn struct {
	Conn     *websocket.Conn
	Uuid     string
	Role     string
	SendBack chan *MessageBack // 下行通道，Write 协程消费

	mu     sync.RWMutex
	rooms  map[string]bool // 当前订阅的房间集合
	closed bool            // 置位后拒绝投递，SendBack 已关闭

	closeOnce sync.Once
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// 装配层注入的回调
var (
	// authorizeRoom 校验用户是否为房间参与者，订阅前调用
	authorizeRoom func(ctx context.Context, roomUuid, userUuid string) error
	// markDelivered 推送成功后把消息状态改为已推送
	markDelivered func(messageUuid int64)
)

// SetRoomAuthorizer 注入房间参与者校验回调
func SetRoomAuthorizer(fn func(ctx context.Context, roomUuid, userUuid string) error) {
	authorizeRoom = fn
}

// SetDeliveryMarker 注入推送成功回调
func SetDeliveryMarker(fn func(messageUuid int64)) {
	markDelivered = fn
}

// NewUserConn 构造连接对象（测试可传 nil ws 连接，只用通道部分）
func NewUserConn(conn *websocket.Conn, uuid, role string) *UserConn {
	return &UserConn{
		Conn:     conn,
		Uuid:     uuid,
		Role:     role,
		SendBack: make(chan *MessageBack, constants.CHANNEL_SIZE),
		rooms:    make(map[string]bool),
	}
}

// Subscribe 订阅房间，之后该房间的新消息会推到本连接
func (c *UserConn) Subscribe(roomUuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomUuid] = true
}

// Unsubscribe 退订房间，立即停止投递
func (c *UserConn) Unsubscribe(roomUuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, roomUuid)
}

// IsSubscribed 判断是否订阅了某房间
func (c *UserConn) IsSubscribed(roomUuid string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[roomUuid]
}

// TrySend 非阻塞投递一条下行消息
// 连接已关闭或缓冲满时返回 false。读锁与 Close 的写锁互斥，
// 保证不会向已关闭的 SendBack 发送
func (c *UserConn) TrySend(messageBack *MessageBack) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.SendBack <- messageBack:
		return true
	default:
		return false
	}
}

// Read 读协程：接收上行报文并按类型分发
// subscribe/unsubscribe 在本协程直接处理，chat 消息交给 Broker
func (c *UserConn) Read() {
	zap.L().Info("ws read goroutine start", zap.String("userUuid", c.Uuid))
	for {
		_, jsonMessage, err := c.Conn.ReadMessage()
		if err != nil {
			zap.L().Info("ws read closed", zap.String("userUuid", c.Uuid), zap.Error(err))
			_ = ClientLogout(c.Uuid)
			return
		}

		var msg request.WsMessageRequest
		if err := json.Unmarshal(jsonMessage, &msg); err != nil {
			c.sendError("消息格式错误")
			continue
		}

		switch msg.Type {
		case request.WsTypeSubscribe:
			if authorizeRoom != nil {
				if err := authorizeRoom(ctx, msg.RoomUuid, c.Uuid); err != nil {
					c.sendError("无权订阅该房间")
					continue
				}
			}
			c.Subscribe(msg.RoomUuid)

		case request.WsTypeUnsubscribe:
			c.Unsubscribe(msg.RoomUuid)

		case request.WsTypeChat:
			inbound := InboundMessage{
				RoomUuid:   msg.RoomUuid,
				SenderUuid: c.Uuid,
				SenderRole: c.Role,
				Content:    msg.Content,
			}
			payload, err := json.Marshal(&inbound)
			if err != nil {
				zap.L().Error("marshal inbound message failed", zap.Error(err))
				continue
			}
			if err := GlobalBroker.Publish(ctx, payload); err != nil {
				zap.L().Error("publish inbound message failed", zap.Error(err))
				c.sendError("当前发送消息的用户过多，请稍后重试")
			}

		default:
			c.sendError("未知的消息类型")
		}
	}
}

// Write 写协程：从 SendBack 取消息写入 WebSocket
// 写成功后把消息状态改为已推送
func (c *UserConn) Write() {
	zap.L().Info("ws write goroutine start", zap.String("userUuid", c.Uuid))
	for messageBack := range c.SendBack {
		if err := c.Conn.WriteMessage(websocket.TextMessage, messageBack.Message); err != nil {
			zap.L().Error("ws write failed", zap.String("userUuid", c.Uuid), zap.Error(err))
			return
		}
		if messageBack.Uuid != 0 && markDelivered != nil {
			markDelivered(messageBack.Uuid)
		}
	}
}

func (c *UserConn) sendError(msg string) {
	payload, err := json.Marshal(&respond.WsMessageRespond{Type: "error", Error: msg})
	if err != nil {
		return
	}
	if !c.TrySend(&MessageBack{Message: payload}) {
		zap.L().Warn("ws send buffer full or closed, drop error notice", zap.String("userUuid", c.Uuid))
	}
}

// sendAppendError 把上行消息落库失败的原因回推给发送者
// 业务错误（空消息体、非房间参与者）带原始提示，其余统一为兜底提示
func (c *UserConn) sendAppendError(err error) {
	msg := "消息发送失败，请稍后重试"
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		msg = codeErr.Msg
	}
	c.sendError(msg)
}

var ctx = context.Background()

// NewClientInit 升级 WebSocket 连接并注册到 Broker
// 身份取自 JWT 中间件，不接受 query 声明的身份
func NewClientInit(c *gin.Context, userUuid, role string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}
	client := NewUserConn(conn, userUuid, role)
	GlobalBroker.RegisterClient(client)
	go client.Read()
	go client.Write()
	zap.L().Info("ws connected", zap.String("userUuid", userUuid), zap.String("role", role))
}

// Close 关闭底层连接和下行通道
// 读协程异常退出和主动登出都会走到这里，sync.Once 保证只执行一次。
// closed 置位和 close(SendBack) 持写锁完成，与 TrySend 的读锁互斥
func (c *UserConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.Conn != nil {
			err = c.Conn.Close()
		}
		c.mu.Lock()
		c.closed = true
		close(c.SendBack)
		c.mu.Unlock()
	})
	return err
}

// ClientLogout 断开并注销某用户的连接
func ClientLogout(userUuid string) error {
	client := GlobalBroker.GetClient(userUuid)
	if client == nil {
		return nil
	}
	GlobalBroker.UnregisterClient(client)
	if err := client.Close(); err != nil {
		zap.L().Error("ws close failed", zap.Error(err))
		return err
	}
	return nil
}
