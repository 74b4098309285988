// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"mentor_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 相关路由（需要认证）
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	// GET /ws - 升级为 WebSocket 连接，身份取自 JWT
	rg.GET("/ws", handler.WsConnectHandler)
	// POST /ws/logout - 主动断开当前用户的连接
	rg.POST("/ws/logout", handler.WsLogoutHandler)
}
