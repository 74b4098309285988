// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接的建立和登出
package handler

import (
	"mentor_chat_server/internal/infrastructure/middleware"
	"mentor_chat_server/internal/service/chat"
	"mentor_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// WsConnectHandler 建立 WebSocket 连接
// GET /ws
// 身份取自 JWT 中间件注入的上下文，不接受 query 声明的身份
func WsConnectHandler(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	chat.NewClientInit(c, userUuid, role)
}

// WsLogoutHandler 主动断开当前用户的 WebSocket 连接
// POST /ws/logout
func WsLogoutHandler(c *gin.Context) {
	userUuid, _, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if err := chat.ClientLogout(userUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
