// Package room 实现会话目录
// 一个学生-导师对至多一个房间，创建对调用方幂等
package room

import (
	"context"
	"time"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/privacy"
	"mentor_chat_server/pkg/errorx"
	"mentor_chat_server/pkg/util/random"

	"go.uber.org/zap"
)

// Service 会话目录服务
type Service struct {
	users   mysql.UserRepository
	rooms   mysql.RoomRepository
	privacy *privacy.Service
}

// NewService 创建会话目录服务
func NewService(users mysql.UserRepository, rooms mysql.RoomRepository, privacySvc *privacy.Service) *Service {
	return &Service{users: users, rooms: rooms, privacy: privacySvc}
}

// StartOrResume 发起（或恢复）某学生-导师对的会话，学生和导师都可以发起
// 已有房间直接返回；没有则创建。并发创建靠 (student, mentor) 唯一索引裁决，
// 输掉插入的一方读回已有房间，两边拿到同一个房间。
// 返回值里对端展示名按 viewerUuid 的视角解析
func (s *Service) StartOrResume(ctx context.Context, studentUuid, mentorUuid, viewerUuid string) (*respond.RoomRespond, error) {
	if err := s.requireRole(ctx, studentUuid, model.RoleStudent, "学生"); err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, mentorUuid, model.RoleMentor, "导师"); err != nil {
		return nil, err
	}

	existing, err := s.rooms.FindByPair(ctx, studentUuid, mentorUuid)
	if err == nil {
		return s.toRespond(ctx, existing, viewerUuid)
	}
	if !errorx.IsNotFound(err) {
		return nil, err
	}

	fresh := &model.ChatRoom{
		Uuid:        "R" + random.GetNowAndLenRandomString(13),
		StudentUuid: studentUuid,
		MentorUuid:  mentorUuid,
		Status:      model.RoomStatusActive,
	}
	if err := s.rooms.Create(ctx, fresh); err != nil {
		if errorx.IsConflict(err) {
			winner, err := s.rooms.FindByPair(ctx, studentUuid, mentorUuid)
			if err != nil {
				return nil, err
			}
			return s.toRespond(ctx, winner, viewerUuid)
		}
		return nil, err
	}
	zap.L().Info("Chat room created",
		zap.String("roomUuid", fresh.Uuid),
		zap.String("studentUuid", studentUuid),
		zap.String("mentorUuid", mentorUuid))
	return s.toRespond(ctx, fresh, viewerUuid)
}

// requireRole 校验用户存在且角色匹配
func (s *Service) requireRole(ctx context.Context, userUuid, role, label string) error {
	user, err := s.users.FindByUuid(ctx, userUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeUserNotExist, "%s %s 不存在", label, userUuid)
		}
		return err
	}
	if user.Role != role {
		return errorx.Newf(errorx.CodeInvalidParam, "对方不是%s", label)
	}
	return nil
}

// ActiveRoomForMentor 导师最近的活跃房间
// 对端学生的展示名按其偏好解析；没有活跃房间时返回 nil，不视为错误
func (s *Service) ActiveRoomForMentor(ctx context.Context, mentorUuid string) (*respond.RoomRespond, error) {
	found, err := s.rooms.FindActiveByMentor(ctx, mentorUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return s.toRespond(ctx, found, mentorUuid)
}

// RoomsForStudent 学生参与的全部房间，按创建时间倒序
func (s *Service) RoomsForStudent(ctx context.Context, studentUuid string) ([]respond.RoomRespond, error) {
	found, err := s.rooms.FindByStudent(ctx, studentUuid)
	if err != nil {
		return nil, err
	}

	out := make([]respond.RoomRespond, 0, len(found))
	for i := range found {
		item, err := s.toRespond(ctx, &found[i], studentUuid)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}

// RoomForParticipant 按 UUID 查房间并校验调用者是参与者
// 消息收发入口用它做权限裁决
func (s *Service) RoomForParticipant(ctx context.Context, roomUuid, userUuid string) (*model.ChatRoom, error) {
	found, err := s.rooms.FindByUuid(ctx, roomUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "房间 %s 不存在", roomUuid)
		}
		return nil, err
	}
	if !found.HasParticipant(userUuid) {
		return nil, errorx.New(errorx.CodeForbidden, "无权访问该房间")
	}
	return found, nil
}

func (s *Service) toRespond(ctx context.Context, r *model.ChatRoom, viewerUuid string) (*respond.RoomRespond, error) {
	counterpartUuid := r.CounterpartOf(viewerUuid)
	counterpartRole := model.RoleMentor
	if counterpartUuid == r.StudentUuid {
		counterpartRole = model.RoleStudent
	}

	name, err := s.privacy.ResolveDisplayName(ctx, counterpartUuid, counterpartRole, viewerUuid)
	if err != nil {
		return nil, err
	}

	return &respond.RoomRespond{
		Uuid:            r.Uuid,
		CounterpartUuid: counterpartUuid,
		CounterpartName: name,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format(time.DateTime),
	}, nil
}
