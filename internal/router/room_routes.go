// Package router 提供 HTTP 路由注册
// 本文件定义会话目录相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoomRoutes 注册会话相关路由（需要认证）
func (rt *Router) RegisterRoomRoutes(rg *gin.RouterGroup) {
	roomGroup := rg.Group("/room")
	{
		// POST /room/startOrResume - 学生发起或恢复与导师的会话
		roomGroup.POST("/startOrResume", rt.handlers.Room.StartOrResume)
		// GET /room/activeForMentor - 导师最近的活跃会话
		roomGroup.GET("/activeForMentor", rt.handlers.Room.ActiveForMentor)
		// GET /room/listForStudent - 学生参与的全部会话
		roomGroup.GET("/listForStudent", rt.handlers.Room.ListForStudent)
	}
}
