// Package model 定义数据库实体模型
// 本文件定义匿名编号分配模型
package model

import (
	"gorm.io/gorm"
)

// AnonymityAssignment 匿名编号分配模型
// 对应数据库 anonymity_assignment 表
// 以 (student_uuid, mentor_uuid) 为键，编号一经分配永不变更
//
// 两个唯一索引共同保证分配语义：
//   - idx_pair：同一对学生-导师至多一条分配，首个写入者胜出
//   - idx_mentor_number：同一导师名下编号不重复，两个学生并发首次分配
//     也不会拿到同一个编号
type AnonymityAssignment struct {
	gorm.Model

	// StudentUuid 学生 UUID
	StudentUuid string `gorm:"column:student_uuid;uniqueIndex:idx_pair;type:char(20);not null;comment:学生uuid"`

	// MentorUuid 导师 UUID
	MentorUuid string `gorm:"column:mentor_uuid;uniqueIndex:idx_pair;uniqueIndex:idx_mentor_number;type:char(20);not null;comment:导师uuid"`

	// Number 匿名编号，导师视角展示为 "Anonymous N"，从 1 开始
	Number int `gorm:"column:number;uniqueIndex:idx_mentor_number;not null;comment:匿名编号"`
}

// TableName 指定表名
func (AnonymityAssignment) TableName() string {
	return "anonymity_assignment"
}
