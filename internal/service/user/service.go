// Package user 实现用户目录查询
// 学生发起会话前需要先拿到导师列表
package user

import (
	"context"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/privacy"
)

// Service 用户目录服务
type Service struct {
	users   mysql.UserRepository
	privacy *privacy.Service
}

// NewService 创建用户目录服务
func NewService(users mysql.UserRepository, privacySvc *privacy.Service) *Service {
	return &Service{users: users, privacy: privacySvc}
}

// ListMentors 列出全部导师，展示名取导师昵称，未设置时为占位名
func (s *Service) ListMentors(ctx context.Context) ([]respond.MentorDirectoryRespond, error) {
	mentors, err := s.users.FindByRole(ctx, model.RoleMentor)
	if err != nil {
		return nil, err
	}
	list := make([]respond.MentorDirectoryRespond, 0, len(mentors))
	for _, mentor := range mentors {
		name, err := s.privacy.ResolveDisplayName(ctx, mentor.Uuid, model.RoleMentor, "")
		if err != nil {
			return nil, err
		}
		list = append(list, respond.MentorDirectoryRespond{
			Uuid:        mentor.Uuid,
			DisplayName: name,
		})
	}
	return list, nil
}

// ListStudents 列出全部学生供导师发起会话
// 展示名按学生偏好对该导师解析，匿名学生只暴露匿名编号
func (s *Service) ListStudents(ctx context.Context, mentorUuid string) ([]respond.StudentDirectoryRespond, error) {
	students, err := s.users.FindByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	list := make([]respond.StudentDirectoryRespond, 0, len(students))
	for _, student := range students {
		name, err := s.privacy.ResolveDisplayName(ctx, student.Uuid, model.RoleStudent, mentorUuid)
		if err != nil {
			return nil, err
		}
		list = append(list, respond.StudentDirectoryRespond{
			Uuid:        student.Uuid,
			DisplayName: name,
		})
	}
	return list, nil
}
