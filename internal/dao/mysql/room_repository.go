package mysql

import (
	"context"

	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
)

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建聊天房间 Repository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// FindByUuid 根据房间 UUID 查找
func (r *roomRepository) FindByUuid(ctx context.Context, uuid string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间 uuid=%s", uuid)
	}
	return &room, nil
}

// FindByPair 查找某学生-导师对的房间
func (r *roomRepository) FindByPair(ctx context.Context, studentUuid, mentorUuid string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.WithContext(ctx).
		Where("student_uuid = ? AND mentor_uuid = ?", studentUuid, mentorUuid).
		First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间 student=%s mentor=%s", studentUuid, mentorUuid)
	}
	return &room, nil
}

// FindActiveByMentor 导师最近的活跃房间
func (r *roomRepository) FindActiveByMentor(ctx context.Context, mentorUuid string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.WithContext(ctx).
		Where("mentor_uuid = ? AND status = ?", mentorUuid, model.RoomStatusActive).
		Order("created_at DESC").
		First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询导师活跃房间 mentor=%s", mentorUuid)
	}
	return &room, nil
}

// FindByStudent 学生参与的全部房间，按创建时间倒序
func (r *roomRepository) FindByStudent(ctx context.Context, studentUuid string) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	if err := r.db.WithContext(ctx).
		Where("student_uuid = ?", studentUuid).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询学生房间列表 student=%s", studentUuid)
	}
	return rooms, nil
}

// Create 插入房间
// idx_room_pair 唯一索引冲突经 wrapDBError 转为 CodeConflict，服务层读取已有行
func (r *roomRepository) Create(ctx context.Context, room *model.ChatRoom) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return wrapDBErrorf(err, "创建房间 student=%s mentor=%s", room.StudentUuid, room.MentorUuid)
	}
	return nil
}
