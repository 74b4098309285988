// Package handler 提供 HTTP 请求处理器
// 本文件处理身份展示偏好的读写
package handler

import (
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/infrastructure/middleware"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/preference"
	"mentor_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler 偏好相关接口
type PreferenceHandler struct {
	svc *preference.Service
}

// NewPreferenceHandler 创建偏好 Handler
func NewPreferenceHandler(svc *preference.Service) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

// SetDisplayMode 学生切换展示模式
// POST /preference/setDisplayMode
func (h *PreferenceHandler) SetDisplayMode(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if role != model.RoleStudent {
		HandleError(c, errorx.New(errorx.CodeForbidden, "只有学生可以设置展示模式"))
		return
	}

	var req request.SetDisplayModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.SetDisplayMode(c.Request.Context(), userUuid, req.Mode, req.Nickname); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetMentorNickname 导师设置一次性昵称
// POST /preference/setMentorNickname
func (h *PreferenceHandler) SetMentorNickname(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if role != model.RoleMentor {
		HandleError(c, errorx.New(errorx.CodeForbidden, "只有导师可以设置导师昵称"))
		return
	}

	var req request.SetMentorNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	if err := h.svc.SetMentorNickname(c.Request.Context(), userUuid, req.Nickname); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetStudentPreference 查询当前学生的偏好
// GET /preference/student
func (h *PreferenceHandler) GetStudentPreference(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if role != model.RoleStudent {
		HandleError(c, errorx.New(errorx.CodeForbidden, "只有学生可以查询学生偏好"))
		return
	}

	rsp, err := h.svc.GetStudentPreference(c.Request.Context(), userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// GetMentorPreference 查询当前导师的偏好
// GET /preference/mentor
func (h *PreferenceHandler) GetMentorPreference(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if role != model.RoleMentor {
		HandleError(c, errorx.New(errorx.CodeForbidden, "只有导师可以查询导师偏好"))
		return
	}

	rsp, err := h.svc.GetMentorPreference(c.Request.Context(), userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
