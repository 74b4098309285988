// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"mentor_chat_server/internal/handler"
	"mentor_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合对象
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 认证路由公开，其余全部挂在 JWT 保护组下
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	rt.RegisterAuthRoutes(r)

	authed := r.Group("/", middleware.JWTAuth())
	rt.RegisterUserRoutes(authed)
	rt.RegisterPreferenceRoutes(authed)
	rt.RegisterRoomRoutes(authed)
	rt.RegisterMessageRoutes(authed)
	rt.RegisterWebSocketRoutes(authed)
}
