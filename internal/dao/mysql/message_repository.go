package mysql

import (
	"context"

	"mentor_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// FindByRoomUuid 按房间查找全部消息
// 按雪花 uuid 升序即插入序，排序结果落库后不再变化
func (r *messageRepository) FindByRoomUuid(ctx context.Context, roomUuid string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Where("room_uuid = ?", roomUuid).
		Order("uuid ASC").
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 room_uuid=%s", roomUuid)
	}
	return messages, nil
}

// FindByRoomUuidAfter 按房间查找 uuid 大于 afterUuid 的消息
func (r *messageRepository) FindByRoomUuidAfter(ctx context.Context, roomUuid string, afterUuid int64) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Where("room_uuid = ? AND uuid > ?", roomUuid, afterUuid).
		Order("uuid ASC").
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询增量消息 room_uuid=%s after=%d", roomUuid, afterUuid)
	}
	return messages, nil
}

// Create 创建消息
func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// UpdateStatus 更新消息状态
func (r *messageRepository) UpdateStatus(ctx context.Context, uuid int64, status int8) error {
	if err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("uuid = ?", uuid).
		Update("status", status).Error; err != nil {
		return wrapDBErrorf(err, "更新消息状态 uuid=%d", uuid)
	}
	return nil
}
