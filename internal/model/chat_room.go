// Package model 定义数据库实体模型
// 本文件定义聊天房间模型，一个学生-导师对至多一个房间
package model

import (
	"gorm.io/gorm"
)

// 房间状态常量
// 房间创建后永久存在，关闭/归档流转不在核心范围内
const (
	RoomStatusActive = "active"
)

// ChatRoom 聊天房间模型
// 对应数据库 chat_room 表
// (student_uuid, mentor_uuid) 上的唯一索引保证并发"发起聊天"不会产生两个房间，
// 创建冲突由服务层读取已有行消化，对调用方表现为幂等创建
type ChatRoom struct {
	gorm.Model

	// Uuid 房间唯一标识
	// 格式：R + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:房间uuid"`

	// StudentUuid 学生 UUID
	StudentUuid string `gorm:"column:student_uuid;index;uniqueIndex:idx_room_pair;type:char(20);not null;comment:学生uuid"`

	// MentorUuid 导师 UUID
	MentorUuid string `gorm:"column:mentor_uuid;index;uniqueIndex:idx_room_pair;type:char(20);not null;comment:导师uuid"`

	// Status 房间状态，目前恒为 active
	Status string `gorm:"column:status;index;type:varchar(10);not null;default:active;comment:状态"`
}

// TableName 指定表名
func (ChatRoom) TableName() string {
	return "chat_room"
}

// HasParticipant 判断用户是否为房间参与者
func (r *ChatRoom) HasParticipant(userUuid string) bool {
	return r.StudentUuid == userUuid || r.MentorUuid == userUuid
}

// CounterpartOf 返回房间内给定用户的对端
// 学生的对端是导师，导师的对端是学生；非参与者返回空串
func (r *ChatRoom) CounterpartOf(userUuid string) string {
	switch userUuid {
	case r.StudentUuid:
		return r.MentorUuid
	case r.MentorUuid:
		return r.StudentUuid
	}
	return ""
}
