package mysql

import (
	"context"

	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
)

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建匿名编号分配 Repository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// FindByPair 查找某学生-导师对的分配
func (r *assignmentRepository) FindByPair(ctx context.Context, studentUuid, mentorUuid string) (*model.AnonymityAssignment, error) {
	var assignment model.AnonymityAssignment
	if err := r.db.WithContext(ctx).
		Where("student_uuid = ? AND mentor_uuid = ?", studentUuid, mentorUuid).
		First(&assignment).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询匿名编号 student=%s mentor=%s", studentUuid, mentorUuid)
	}
	return &assignment, nil
}

// MaxNumberForMentor 某导师名下已分配的最大编号
// COALESCE 把无分配的情况折算成 0，调用方加一即为下一个候选编号
func (r *assignmentRepository) MaxNumberForMentor(ctx context.Context, mentorUuid string) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).Model(&model.AnonymityAssignment{}).
		Where("mentor_uuid = ?", mentorUuid).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error; err != nil {
		return 0, wrapDBErrorf(err, "查询最大匿名编号 mentor=%s", mentorUuid)
	}
	return max, nil
}

// Create 插入分配
// 唯一索引（idx_pair / idx_mentor_number）冲突经 wrapDBError 转为 CodeConflict，
// 由服务层决定是重读胜出者还是换编号重试
func (r *assignmentRepository) Create(ctx context.Context, assignment *model.AnonymityAssignment) error {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return wrapDBErrorf(err, "创建匿名编号 student=%s mentor=%s", assignment.StudentUuid, assignment.MentorUuid)
	}
	return nil
}
