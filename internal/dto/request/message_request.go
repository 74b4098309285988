package request

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	RoomUuid string `json:"roomUuid" binding:"required"`
	Content  string `json:"content" binding:"required,max=2000"`
}

// GetMessageListRequest 拉取会话消息请求
// AfterId 不为 0 时只返回该消息之后的增量（补齐订阅前的空档）
type GetMessageListRequest struct {
	RoomUuid string `form:"roomId" binding:"required"`
	AfterId  int64  `form:"afterId" binding:"omitempty,min=0"`
}

// WebSocket 消息类型
const (
	WsTypeSubscribe   = "subscribe"   // 订阅房间
	WsTypeUnsubscribe = "unsubscribe" // 退订房间
	WsTypeChat        = "chat"        // 发送聊天消息
)

// WsMessageRequest WebSocket 上行消息
type WsMessageRequest struct {
	Type     string `json:"type"`
	RoomUuid string `json:"roomUuid"`
	Content  string `json:"content"`
}
