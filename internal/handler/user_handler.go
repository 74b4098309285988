// 本文件处理用户目录：导师列表查询
package handler

import (
	"mentor_chat_server/internal/infrastructure/middleware"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/user"
	"mentor_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户目录相关接口
type UserHandler struct {
	svc *user.Service
}

// NewUserHandler 创建用户目录 Handler
func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListMentors 列出全部导师供学生选择
// GET /user/mentors
func (h *UserHandler) ListMentors(c *gin.Context) {
	rsp, err := h.svc.ListMentors(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// ListStudents 列出全部学生供导师发起会话，仅导师可用
// GET /user/students
func (h *UserHandler) ListStudents(c *gin.Context) {
	userUuid, role, ok := middleware.CurrentUser(c)
	if !ok {
		HandleError(c, errorx.ErrNotAuthenticated)
		return
	}
	if role != model.RoleMentor {
		HandleError(c, errorx.New(errorx.CodeForbidden, "只有导师可以查看学生目录"))
		return
	}

	rsp, err := h.svc.ListStudents(c.Request.Context(), userUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
