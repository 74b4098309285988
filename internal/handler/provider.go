// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"mentor_chat_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth       *AuthHandler
	Preference *PreferenceHandler
	Room       *RoomHandler
	Message    *MessageHandler
	User       *UserHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth),
		Preference: NewPreferenceHandler(svc.Preference),
		Room:       NewRoomHandler(svc.Room),
		Message:    NewMessageHandler(svc.Message),
		User:       NewUserHandler(svc.User),
	}
}
