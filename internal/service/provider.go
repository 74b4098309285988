// Package service 聚合各领域服务并完成相互装配
package service

import (
	"context"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/service/anonymity"
	"mentor_chat_server/internal/service/auth"
	"mentor_chat_server/internal/service/chat"
	"mentor_chat_server/internal/service/message"
	"mentor_chat_server/internal/service/preference"
	"mentor_chat_server/internal/service/privacy"
	"mentor_chat_server/internal/service/room"
	"mentor_chat_server/internal/service/user"
)

// Services 聚合所有领域服务实例
type Services struct {
	Auth       *auth.Service
	Preference *preference.Service
	Anonymity  *anonymity.Service
	Privacy    *privacy.Service
	Room       *room.Service
	Message    *message.Service
	User       *user.Service
}

// NewServices 创建并装配所有服务
// broker 非 nil 时同时接好三条回调：上行落库、订阅鉴权、推送回执
func NewServices(repos *mysql.Repositories, broker chat.MessageBroker) *Services {
	anonymitySvc := anonymity.NewService(repos.Assignment)
	privacySvc := privacy.NewService(repos.User, repos.MentorPref, repos.StudentPref, anonymitySvc)
	roomSvc := room.NewService(repos.User, repos.Room, privacySvc)
	messageSvc := message.NewService(repos.Message, roomSvc, privacySvc, broker)

	if broker != nil {
		broker.SetAppendHandler(messageSvc.AppendFromWire)
		chat.SetRoomAuthorizer(func(ctx context.Context, roomUuid, userUuid string) error {
			_, err := roomSvc.RoomForParticipant(ctx, roomUuid, userUuid)
			return err
		})
		chat.SetDeliveryMarker(messageSvc.MarkDelivered)
	}

	return &Services{
		Auth:       auth.NewService(repos.User, repos.StudentPref),
		Preference: preference.NewService(repos.MentorPref, repos.StudentPref),
		Anonymity:  anonymitySvc,
		Privacy:    privacySvc,
		Room:       roomSvc,
		Message:    messageSvc,
		User:       user.NewService(repos.User, privacySvc),
	}
}
