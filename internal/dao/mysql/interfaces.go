// Package mysql 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package mysql

import (
	"context"

	"mentor_chat_server/internal/model"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户档案数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(ctx context.Context, uuid string) (*model.UserProfile, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	// FindByRole 按角色查找用户档案，按 uuid 升序
	FindByRole(ctx context.Context, role string) ([]model.UserProfile, error)
	// Create 创建用户档案
	Create(ctx context.Context, user *model.UserProfile) error
}

// MentorPreferenceRepository 导师偏好数据访问接口
type MentorPreferenceRepository interface {
	// FindByUserUuid 根据导师 UUID 查找偏好
	FindByUserUuid(ctx context.Context, userUuid string) (*model.MentorPreference, error)
	// Create 创建偏好行（user_uuid 唯一索引兜底并发）
	Create(ctx context.Context, pref *model.MentorPreference) error
	// SetNicknameOnce 仅当昵称仍为空时写入昵称，返回受影响行数
	// WHERE nickname = '' 使"只接受一次写入"落在存储层而不是读改写
	SetNicknameOnce(ctx context.Context, userUuid, nickname string) (int64, error)
}

// StudentPreferenceRepository 学生偏好数据访问接口
type StudentPreferenceRepository interface {
	// FindByUserUuid 根据学生 UUID 查找偏好
	FindByUserUuid(ctx context.Context, userUuid string) (*model.StudentPreference, error)
	// Create 创建偏好行
	Create(ctx context.Context, pref *model.StudentPreference) error
	// UpdateDisplayMode 更新展示模式
	UpdateDisplayMode(ctx context.Context, userUuid, mode string) error
	// SetNicknameOnce 仅当昵称仍为空时写入昵称，返回受影响行数
	SetNicknameOnce(ctx context.Context, userUuid, nickname string) (int64, error)
}

// AssignmentRepository 匿名编号分配数据访问接口
type AssignmentRepository interface {
	// FindByPair 查找某学生-导师对的分配
	FindByPair(ctx context.Context, studentUuid, mentorUuid string) (*model.AnonymityAssignment, error)
	// MaxNumberForMentor 某导师名下已分配的最大编号，无分配时为 0
	MaxNumberForMentor(ctx context.Context, mentorUuid string) (int, error)
	// Create 插入分配，唯一索引冲突时返回可被 errorx.IsConflict 识别的错误
	Create(ctx context.Context, assignment *model.AnonymityAssignment) error
}

// RoomRepository 聊天房间数据访问接口
type RoomRepository interface {
	// FindByUuid 根据房间 UUID 查找
	FindByUuid(ctx context.Context, uuid string) (*model.ChatRoom, error)
	// FindByPair 查找某学生-导师对的房间
	FindByPair(ctx context.Context, studentUuid, mentorUuid string) (*model.ChatRoom, error)
	// FindActiveByMentor 导师最近的活跃房间，没有时返回 NotFound
	FindActiveByMentor(ctx context.Context, mentorUuid string) (*model.ChatRoom, error)
	// FindByStudent 学生参与的全部房间，按创建时间倒序
	FindByStudent(ctx context.Context, studentUuid string) ([]model.ChatRoom, error)
	// Create 插入房间，唯一索引冲突时返回可被 errorx.IsConflict 识别的错误
	Create(ctx context.Context, room *model.ChatRoom) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// FindByRoomUuid 按房间查找全部消息，按 uuid 升序（即插入序）
	FindByRoomUuid(ctx context.Context, roomUuid string) ([]model.Message, error)
	// FindByRoomUuidAfter 按房间查找 uuid 大于 afterUuid 的消息，升序
	// 用于"先拉历史再订阅"之后补齐间隙
	FindByRoomUuidAfter(ctx context.Context, roomUuid string, afterUuid int64) ([]model.Message, error)
	// Create 创建消息
	Create(ctx context.Context, message *model.Message) error
	// UpdateStatus 更新消息状态
	UpdateStatus(ctx context.Context, uuid int64, status int8) error
}
