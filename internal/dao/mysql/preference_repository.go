package mysql

import (
	"context"

	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
)

// ==================== 导师偏好 ====================

type mentorPreferenceRepository struct {
	db *gorm.DB
}

// NewMentorPreferenceRepository 创建导师偏好 Repository
func NewMentorPreferenceRepository(db *gorm.DB) MentorPreferenceRepository {
	return &mentorPreferenceRepository{db: db}
}

// FindByUserUuid 根据导师 UUID 查找偏好
func (r *mentorPreferenceRepository) FindByUserUuid(ctx context.Context, userUuid string) (*model.MentorPreference, error) {
	var pref model.MentorPreference
	if err := r.db.WithContext(ctx).Where("user_uuid = ?", userUuid).First(&pref).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询导师偏好 user_uuid=%s", userUuid)
	}
	return &pref, nil
}

// Create 创建偏好行
func (r *mentorPreferenceRepository) Create(ctx context.Context, pref *model.MentorPreference) error {
	if err := r.db.WithContext(ctx).Create(pref).Error; err != nil {
		return wrapDBError(err, "创建导师偏好")
	}
	return nil
}

// SetNicknameOnce 仅当昵称仍为空时写入昵称
// 条件更新把"只接受一次写入"压到一条 SQL 上，避免读改写竞态
func (r *mentorPreferenceRepository) SetNicknameOnce(ctx context.Context, userUuid, nickname string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.MentorPreference{}).
		Where("user_uuid = ? AND (nickname = '' OR nickname IS NULL)", userUuid).
		Update("nickname", nickname)
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "设置导师昵称 user_uuid=%s", userUuid)
	}
	return res.RowsAffected, nil
}

// ==================== 学生偏好 ====================

type studentPreferenceRepository struct {
	db *gorm.DB
}

// NewStudentPreferenceRepository 创建学生偏好 Repository
func NewStudentPreferenceRepository(db *gorm.DB) StudentPreferenceRepository {
	return &studentPreferenceRepository{db: db}
}

// FindByUserUuid 根据学生 UUID 查找偏好
func (r *studentPreferenceRepository) FindByUserUuid(ctx context.Context, userUuid string) (*model.StudentPreference, error) {
	var pref model.StudentPreference
	if err := r.db.WithContext(ctx).Where("user_uuid = ?", userUuid).First(&pref).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询学生偏好 user_uuid=%s", userUuid)
	}
	return &pref, nil
}

// Create 创建偏好行
func (r *studentPreferenceRepository) Create(ctx context.Context, pref *model.StudentPreference) error {
	if err := r.db.WithContext(ctx).Create(pref).Error; err != nil {
		return wrapDBError(err, "创建学生偏好")
	}
	return nil
}

// UpdateDisplayMode 更新展示模式
func (r *studentPreferenceRepository) UpdateDisplayMode(ctx context.Context, userUuid, mode string) error {
	res := r.db.WithContext(ctx).Model(&model.StudentPreference{}).
		Where("user_uuid = ?", userUuid).
		Update("display_mode", mode)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新展示模式 user_uuid=%s", userUuid)
	}
	return nil
}

// SetNicknameOnce 仅当昵称仍为空时写入昵称
func (r *studentPreferenceRepository) SetNicknameOnce(ctx context.Context, userUuid, nickname string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.StudentPreference{}).
		Where("user_uuid = ? AND (nickname = '' OR nickname IS NULL)", userUuid).
		Update("nickname", nickname)
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "设置学生昵称 user_uuid=%s", userUuid)
	}
	return res.RowsAffected, nil
}
