// 本文件定义用户目录相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户目录相关路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		// GET /user/mentors - 导师目录
		userGroup.GET("/mentors", rt.handlers.User.ListMentors)
		// GET /user/students - 学生目录（仅导师）
		userGroup.GET("/students", rt.handlers.User.ListStudents)
	}
}
