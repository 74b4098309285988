// Package privacy 实现展示名解析
// 发送消息时按角色和偏好算出展示名，结果冻结在消息上，之后的偏好切换不回溯
package privacy

import (
	"context"
	"strconv"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/anonymity"
	"mentor_chat_server/pkg/errorx"
)

// 偏好缺失时的兜底展示名
// 解析永远给出一个名字，不因偏好行尚未创建而失败
const (
	PlaceholderMentor  = "Mentor"
	PlaceholderStudent = "Student"
	AnonymousPrefix    = "Anonymous "
)

// Service 展示名解析服务
type Service struct {
	users        mysql.UserRepository
	mentorPrefs  mysql.MentorPreferenceRepository
	studentPrefs mysql.StudentPreferenceRepository
	anonymity    *anonymity.Service
}

// NewService 创建展示名解析服务
func NewService(
	users mysql.UserRepository,
	mentorPrefs mysql.MentorPreferenceRepository,
	studentPrefs mysql.StudentPreferenceRepository,
	anonymitySvc *anonymity.Service,
) *Service {
	return &Service{
		users:        users,
		mentorPrefs:  mentorPrefs,
		studentPrefs: studentPrefs,
		anonymity:    anonymitySvc,
	}
}

// ResolveDisplayName 解析发送者在某个对端面前的展示名
//   - 导师：一次性昵称，没设置时退回 "Mentor"
//   - 学生 anonymous 模式：按 (学生, 对端导师) 对解析匿名编号，展示 "Anonymous N"
//   - 学生 nickname 模式：已冻结的昵称（模式切换入口保证了非空）
//   - 学生 real_name 模式：档案真实姓名，缺失时退回 "Student"
func (s *Service) ResolveDisplayName(ctx context.Context, userUuid, role, counterpartUuid string) (string, error) {
	if role == model.RoleMentor {
		return s.resolveMentorName(ctx, userUuid)
	}
	return s.resolveStudentName(ctx, userUuid, counterpartUuid)
}

func (s *Service) resolveMentorName(ctx context.Context, mentorUuid string) (string, error) {
	pref, err := s.mentorPrefs.FindByUserUuid(ctx, mentorUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return PlaceholderMentor, nil
		}
		return "", err
	}
	if pref.Nickname == "" {
		return PlaceholderMentor, nil
	}
	return pref.Nickname, nil
}

func (s *Service) resolveStudentName(ctx context.Context, studentUuid, mentorUuid string) (string, error) {
	// 偏好行尚未创建等价于默认 anonymous 模式
	mode := model.DisplayModeAnonymous
	nickname := ""
	pref, err := s.studentPrefs.FindByUserUuid(ctx, studentUuid)
	if err == nil {
		mode = pref.DisplayMode
		nickname = pref.Nickname
	} else if !errorx.IsNotFound(err) {
		return "", err
	}

	switch mode {
	case model.DisplayModeRealName:
		user, err := s.users.FindByUuid(ctx, studentUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				return PlaceholderStudent, nil
			}
			return "", err
		}
		if user.RealName == "" {
			return PlaceholderStudent, nil
		}
		return user.RealName, nil

	case model.DisplayModeNickname:
		if nickname == "" {
			return PlaceholderStudent, nil
		}
		return nickname, nil

	default: // anonymous
		number, err := s.anonymity.ResolveNumber(ctx, studentUuid, mentorUuid)
		if err != nil {
			return "", err
		}
		return AnonymousPrefix + strconv.Itoa(number), nil
	}
}
