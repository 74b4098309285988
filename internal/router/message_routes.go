// Package router 提供 HTTP 路由注册
// 本文件定义消息相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/message")
	{
		// POST /message/send - 发送消息
		messageGroup.POST("/send", rt.handlers.Message.Send)
		// GET /message/list?roomId=&afterId= - 拉取房间消息（全量或增量）
		messageGroup.GET("/list", rt.handlers.Message.List)
	}
}
