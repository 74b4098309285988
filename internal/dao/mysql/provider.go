// Package mysql 提供 Repository 层聚合与构造
package mysql

import (
	"gorm.io/gorm"
)

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	User        UserRepository              // 用户档案 Repository
	MentorPref  MentorPreferenceRepository  // 导师偏好 Repository
	StudentPref StudentPreferenceRepository // 学生偏好 Repository
	Assignment  AssignmentRepository        // 匿名编号 Repository
	Room        RoomRepository              // 房间 Repository
	Message     MessageRepository           // 消息 Repository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		User:        NewUserRepository(db),
		MentorPref:  NewMentorPreferenceRepository(db),
		StudentPref: NewStudentPreferenceRepository(db),
		Assignment:  NewAssignmentRepository(db),
		Room:        NewRoomRepository(db),
		Message:     NewMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
