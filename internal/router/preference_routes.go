// Package router 提供 HTTP 路由注册
// 本文件定义身份展示偏好相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPreferenceRoutes 注册偏好相关路由（需要认证）
func (rt *Router) RegisterPreferenceRoutes(rg *gin.RouterGroup) {
	prefGroup := rg.Group("/preference")
	{
		// POST /preference/setDisplayMode - 学生切换展示模式
		prefGroup.POST("/setDisplayMode", rt.handlers.Preference.SetDisplayMode)
		// POST /preference/setMentorNickname - 导师设置一次性昵称
		prefGroup.POST("/setMentorNickname", rt.handlers.Preference.SetMentorNickname)
		// GET /preference/student - 查询当前学生的偏好
		prefGroup.GET("/student", rt.handlers.Preference.GetStudentPreference)
		// GET /preference/mentor - 查询当前导师的偏好
		prefGroup.GET("/mentor", rt.handlers.Preference.GetMentorPreference)
	}
}
