// Package model 定义数据库实体模型
// 本文件定义消息模型，追加写入，落库后不可变
package model

import (
	"gorm.io/gorm"
)

// 消息状态常量
const (
	MessageStatusUnsent int8 = 0 // 已落库，尚未推送成功
	MessageStatusSent   int8 = 1 // 已推送
)

// Message 消息模型
// 对应数据库 message 表
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 雪花算法生成的 int64，同节点单调递增，兼作房间内的插入序
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// RoomUuid 所属房间 UUID
	RoomUuid string `gorm:"column:room_uuid;index;type:char(20);not null;comment:房间uuid"`

	// SenderUuid 发送者 UUID
	SenderUuid string `gorm:"column:sender_uuid;index;type:char(20);not null;comment:发送者uuid"`

	// SenderRole 发送者角色：student 或 mentor
	SenderRole string `gorm:"column:sender_role;type:varchar(10);not null;comment:发送者角色"`

	// DisplayName 发送时刻解析好的展示名
	// 冗余存储：之后的偏好切换不回写历史消息
	DisplayName string `gorm:"column:display_name;type:varchar(30);not null;comment:展示名"`

	// Content 消息文本内容，trim 后非空
	Content string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`

	// Status 消息状态，0=未推送，1=已推送
	Status int8 `gorm:"column:status;not null;comment:状态，0.未推送，1.已推送"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
