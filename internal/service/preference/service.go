// Package preference 实现学生/导师的隐私偏好管理
// 展示模式随时可切，昵称只接受一次写入
package preference

import (
	"context"
	"strings"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// Service 偏好服务
type Service struct {
	mentorPrefs  mysql.MentorPreferenceRepository
	studentPrefs mysql.StudentPreferenceRepository
}

// NewService 创建偏好服务
func NewService(mentorPrefs mysql.MentorPreferenceRepository, studentPrefs mysql.StudentPreferenceRepository) *Service {
	return &Service{mentorPrefs: mentorPrefs, studentPrefs: studentPrefs}
}

// SetDisplayMode 学生切换展示模式
//   - 切到 nickname 且尚无昵称时，同一次调用必须携带非空昵称，之后昵称冻结
//   - 已有昵称后再切 nickname 无需重新传昵称；传了不同的昵称则拒绝
//   - 切到 anonymous / real_name 不需要也不消费昵称
func (s *Service) SetDisplayMode(ctx context.Context, studentUuid, mode, nickname string) error {
	if !model.IsValidDisplayMode(mode) {
		return errorx.Newf(errorx.CodeInvalidParam, "非法的展示模式 %q", mode)
	}
	nickname = strings.TrimSpace(nickname)
	if len([]rune(nickname)) > constants.STUDENT_NICKNAME_MAX_LEN {
		return errorx.New(errorx.CodeInvalidParam, "昵称过长")
	}

	pref, err := s.ensureStudentRow(ctx, studentUuid)
	if err != nil {
		return err
	}

	if mode == model.DisplayModeNickname {
		switch {
		case pref.Nickname == "" && nickname == "":
			return errorx.New(errorx.CodeInvalidParam, "首次切换昵称模式必须提供昵称")
		case pref.Nickname == "":
			affected, err := s.studentPrefs.SetNicknameOnce(ctx, studentUuid, nickname)
			if err != nil {
				return err
			}
			if affected == 0 {
				// 并发写入抢先冻结了昵称，按已冻结的值重新裁决
				current, err := s.studentPrefs.FindByUserUuid(ctx, studentUuid)
				if err != nil {
					return err
				}
				if current.Nickname != nickname {
					return errorx.ErrPreferenceImmutable
				}
			}
			zap.L().Info("Student nickname frozen",
				zap.String("studentUuid", studentUuid), zap.String("nickname", nickname))
		case nickname != "" && nickname != pref.Nickname:
			return errorx.ErrPreferenceImmutable
		}
	} else if nickname != "" && pref.Nickname != "" && nickname != pref.Nickname {
		return errorx.ErrPreferenceImmutable
	}

	return s.studentPrefs.UpdateDisplayMode(ctx, studentUuid, mode)
}

// SetMentorNickname 导师设置一次性昵称
// 已设置后的再次写入被拒绝而不是覆盖
func (s *Service) SetMentorNickname(ctx context.Context, mentorUuid, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return errorx.New(errorx.CodeInvalidParam, "昵称不能为空")
	}
	if len([]rune(nickname)) > constants.MENTOR_NICKNAME_MAX_LEN {
		return errorx.New(errorx.CodeInvalidParam, "昵称过长")
	}

	if _, err := s.ensureMentorRow(ctx, mentorUuid); err != nil {
		return err
	}

	affected, err := s.mentorPrefs.SetNicknameOnce(ctx, mentorUuid, nickname)
	if err != nil {
		return err
	}
	if affected == 0 {
		// 幂等：重复提交同一个昵称视为成功
		current, err := s.mentorPrefs.FindByUserUuid(ctx, mentorUuid)
		if err != nil {
			return err
		}
		if current.Nickname != nickname {
			return errorx.ErrPreferenceImmutable
		}
		return nil
	}
	zap.L().Info("Mentor nickname frozen",
		zap.String("mentorUuid", mentorUuid), zap.String("nickname", nickname))
	return nil
}

// GetStudentPreference 查询学生偏好，行不存在时返回默认值（匿名模式，无昵称）
func (s *Service) GetStudentPreference(ctx context.Context, studentUuid string) (*respond.StudentPreferenceRespond, error) {
	pref, err := s.studentPrefs.FindByUserUuid(ctx, studentUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.StudentPreferenceRespond{DisplayMode: model.DisplayModeAnonymous}, nil
		}
		return nil, err
	}
	return &respond.StudentPreferenceRespond{DisplayMode: pref.DisplayMode, Nickname: pref.Nickname}, nil
}

// GetMentorPreference 查询导师偏好，行不存在时返回空昵称
func (s *Service) GetMentorPreference(ctx context.Context, mentorUuid string) (*respond.MentorPreferenceRespond, error) {
	pref, err := s.mentorPrefs.FindByUserUuid(ctx, mentorUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.MentorPreferenceRespond{}, nil
		}
		return nil, err
	}
	return &respond.MentorPreferenceRespond{Nickname: pref.Nickname}, nil
}

// ensureStudentRow 懒创建学生偏好行
// user_uuid 唯一索引兜底并发创建，冲突时读回已有行
func (s *Service) ensureStudentRow(ctx context.Context, studentUuid string) (*model.StudentPreference, error) {
	pref, err := s.studentPrefs.FindByUserUuid(ctx, studentUuid)
	if err == nil {
		return pref, nil
	}
	if !errorx.IsNotFound(err) {
		return nil, err
	}

	fresh := &model.StudentPreference{UserUuid: studentUuid, DisplayMode: model.DisplayModeAnonymous}
	if err := s.studentPrefs.Create(ctx, fresh); err != nil {
		if errorx.IsConflict(err) {
			return s.studentPrefs.FindByUserUuid(ctx, studentUuid)
		}
		return nil, err
	}
	return fresh, nil
}

// ensureMentorRow 懒创建导师偏好行
func (s *Service) ensureMentorRow(ctx context.Context, mentorUuid string) (*model.MentorPreference, error) {
	pref, err := s.mentorPrefs.FindByUserUuid(ctx, mentorUuid)
	if err == nil {
		return pref, nil
	}
	if !errorx.IsNotFound(err) {
		return nil, err
	}

	fresh := &model.MentorPreference{UserUuid: mentorUuid}
	if err := s.mentorPrefs.Create(ctx, fresh); err != nil {
		if errorx.IsConflict(err) {
			return s.mentorPrefs.FindByUserUuid(ctx, mentorUuid)
		}
		return nil, err
	}
	return fresh, nil
}
