// Package handler 提供 HTTP 请求处理器
// 本文件处理会话目录：发起/恢复会话和会话查询
package handler

import (
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/infrastructure/middleware"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/room"
	"mentor_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// RoomHandler 会话相关接口
type RoomHandler struct {
	svc *room.Service
}

// NewRoomHandler 创建会话 Handler
func NewRoomHandler(svc *room.Service) *RoomHandler {
	return &RoomHandler{svc: svc}
}

// StartOrResume 发起（或恢复）会话，学生和导师都可以发起
// 学生请求里带 mentorUuid，导师请求里带 studentUuid
// POST /room/startOrResume
func (h *RoomHandler) StartOrResume(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}

	var req request.StartRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	var studentUuid, mentorUuid string
	switch role {
	case model.RoleStudent:
		if req.MentorUuid == "" {
			HandleError(c, errorx.New(errorx.CodeInvalidParam, "mentorUuid 不能为空"))
			return
		}
		studentUuid, mentorUuid = userUuid, req.MentorUuid
	case model.RoleMentor:
		if req.StudentUuid == "" {
			HandleError(c, errorx.New(errorx.CodeInvalidParam, "studentUuid 不能为空"))
			return
		}
		studentUuid, mentorUuid = req.StudentUuid, userUuid
	default:
		HandleError(c, errorx.New(errorx.CodeForbidden, "未知角色不能发起会话"))
		return
	}

	rsp, err := h.svc.StartOrResume(c.Request.Context(), studentUuid, mentorUuid, userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// ActiveForMentor 导师查询最近的活跃会话
// GET /room/activeForMentor
func (h *RoomHandler) ActiveForMentor(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if role != model.RoleMentor {
		HandleError(c, errorx.New(errorx.CodeForbidden, "只有导师可以查询导师会话"))
		return
	}

	rsp, err := h.svc.ActiveRoomForMentor(c.Request.Context(), userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// ListForStudent 学生查询自己参与的全部会话
// GET /room/listForStudent
func (h *RoomHandler) ListForStudent(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if role != model.RoleStudent {
		HandleError(c, errorx.New(errorx.CodeForbidden, "只有学生可以查询学生会话列表"))
		return
	}

	rsp, err := h.svc.RoomsForStudent(c.Request.Context(), userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
