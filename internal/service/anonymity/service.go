// Package anonymity 实现匿名编号台账
// 以 (学生, 导师) 对为键分配稳定的匿名编号，首次接触时懒创建，之后永不变更
package anonymity

import (
	"context"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// Service 匿名编号服务
type Service struct {
	assignments mysql.AssignmentRepository
}

// NewService 创建匿名编号服务
func NewService(assignments mysql.AssignmentRepository) *Service {
	return &Service{assignments: assignments}
}

// ResolveNumber 解析某学生在某导师处的匿名编号
// 已有分配直接返回；没有则分配"该导师名下下一个未用的编号"（从 1 开始）
//
// 分配本身不做读后写：插入靠两个唯一索引裁决
//   - (student, mentor) 撞车 → 同一对被并发首次分配，读回胜者的编号
//   - (mentor, number) 撞车 → 编号被另一个学生抢走，重取 MAX 重试
func (s *Service) ResolveNumber(ctx context.Context, studentUuid, mentorUuid string) (int, error) {
	assignment, err := s.assignments.FindByPair(ctx, studentUuid, mentorUuid)
	if err == nil {
		return assignment.Number, nil
	}
	if !errorx.IsNotFound(err) {
		return 0, err
	}

	for i := 0; i < constants.ASSIGN_MAX_RETRY; i++ {
		maxNumber, err := s.assignments.MaxNumberForMentor(ctx, mentorUuid)
		if err != nil {
			return 0, err
		}

		candidate := &model.AnonymityAssignment{
			StudentUuid: studentUuid,
			MentorUuid:  mentorUuid,
			Number:      maxNumber + 1,
		}
		err = s.assignments.Create(ctx, candidate)
		if err == nil {
			zap.L().Info("Anonymous number allocated",
				zap.String("studentUuid", studentUuid),
				zap.String("mentorUuid", mentorUuid),
				zap.Int("number", candidate.Number))
			return candidate.Number, nil
		}
		if !errorx.IsConflict(err) {
			return 0, err
		}

		// 撞车后先查同对分配：存在说明输给了同一对的并发调用，返回胜者编号
		existing, ferr := s.assignments.FindByPair(ctx, studentUuid, mentorUuid)
		if ferr == nil {
			return existing.Number, nil
		}
		if !errorx.IsNotFound(ferr) {
			return 0, ferr
		}
		// 同对无分配，说明是编号被其他学生抢走，换个编号重试
	}

	zap.L().Error("Anonymous number allocation retries exhausted",
		zap.String("studentUuid", studentUuid),
		zap.String("mentorUuid", mentorUuid))
	return 0, errorx.New(errorx.CodeServerBusy, "匿名编号分配冲突，请稍后重试")
}
