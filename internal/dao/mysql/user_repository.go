package mysql

import (
	"context"

	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户档案 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 根据 UUID 查找用户
func (r *userRepository) FindByUuid(ctx context.Context, uuid string) (*model.UserProfile, error) {
	var user model.UserProfile
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	var user model.UserProfile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// FindByRole 按角色查找用户档案，按 uuid 排序保证分页稳定
func (r *userRepository) FindByRole(ctx context.Context, role string) ([]model.UserProfile, error) {
	var users []model.UserProfile
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("uuid ASC").Find(&users).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户列表 role=%s", role)
	}
	return users, nil
}

// Create 创建用户档案
func (r *userRepository) Create(ctx context.Context, user *model.UserProfile) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}
