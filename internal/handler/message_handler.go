// Package handler 提供 HTTP 请求处理器
// 本文件处理消息发送和历史拉取
package handler

import (
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/infrastructure/middleware"
	"mentor_chat_server/internal/service/message"
	"mentor_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息相关接口
type MessageHandler struct {
	svc *message.Service
}

// NewMessageHandler 创建消息 Handler
func NewMessageHandler(svc *message.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send 发送消息（HTTP 路径，WebSocket 之外的补充入口）
// POST /message/send
func (h *MessageHandler) Send(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}

	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.svc.Send(c.Request.Context(), req.RoomUuid, userUuid, role, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// List 拉取房间消息
// GET /message/list?roomId=xxx&afterId=0
// afterId > 0 时只返回该消息之后的增量，用于订阅后补齐空档
func (h *MessageHandler) List(c *gin.Context) {
	userUuid, _, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}

	var req request.GetMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	rsp, err := h.svc.GetMessageList(c.Request.Context(), req.RoomUuid, userUuid, req.AfterId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
