// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由（公开，不需要 Token）
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
func (rt *Router) RegisterAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		// POST /auth/register - 注册
		authGroup.POST("/register", rt.handlers.Auth.Register)
		// POST /auth/login - 登录，下发令牌对
		authGroup.POST("/login", rt.handlers.Auth.Login)
		// POST /auth/refreshToken - 用刷新令牌换新令牌对
		authGroup.POST("/refreshToken", rt.handlers.Auth.RefreshToken)
	}
}
