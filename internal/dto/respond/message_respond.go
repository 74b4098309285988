package respond

// MessageRespond 消息响应
// Uuid 使用字符串避免前端 JSON 解析丢失 int64 精度
type MessageRespond struct {
	Uuid        string `json:"uuid"`
	RoomUuid    string `json:"roomUuid"`
	SenderUuid  string `json:"senderUuid"`
	SenderRole  string `json:"senderRole"`
	DisplayName string `json:"displayName"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
}

// WsMessageRespond WebSocket 下行消息
type WsMessageRespond struct {
	Type    string          `json:"type"`
	Message *MessageRespond `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}
