// Package model 定义数据库实体模型
// 本文件定义学生/导师的隐私偏好模型
package model

import (
	"gorm.io/gorm"
)

// 学生展示模式常量
const (
	DisplayModeAnonymous = "anonymous" // 匿名（默认）
	DisplayModeNickname  = "nickname"  // 昵称
	DisplayModeRealName  = "real_name" // 真实姓名
)

// IsValidDisplayMode 校验展示模式取值
func IsValidDisplayMode(mode string) bool {
	switch mode {
	case DisplayModeAnonymous, DisplayModeNickname, DisplayModeRealName:
		return true
	}
	return false
}

// MentorPreference 导师偏好模型
// 对应数据库 mentor_preference 表，每个导师一行
// Nickname 只接受一次写入，已设置后的写入被拒绝而不是覆盖
type MentorPreference struct {
	gorm.Model

	// UserUuid 导师 UUID，唯一索引保证一人一行
	UserUuid string `gorm:"column:user_uuid;uniqueIndex;type:char(20);not null;comment:导师uuid"`

	// Nickname 对所有学生展示的一次性昵称
	Nickname string `gorm:"column:nickname;type:varchar(30);comment:昵称"`
}

// TableName 指定表名
func (MentorPreference) TableName() string {
	return "mentor_preference"
}

// StudentPreference 学生偏好模型
// 对应数据库 student_preference 表，每个学生一行
// DisplayMode 可随时切换；Nickname 首个非空值永久生效
type StudentPreference struct {
	gorm.Model

	// UserUuid 学生 UUID，唯一索引保证一人一行
	UserUuid string `gorm:"column:user_uuid;uniqueIndex;type:char(20);not null;comment:学生uuid"`

	// DisplayMode 展示模式：anonymous / nickname / real_name
	DisplayMode string `gorm:"column:display_mode;type:varchar(10);not null;default:anonymous;comment:展示模式"`

	// Nickname 昵称，首次写入后冻结
	Nickname string `gorm:"column:nickname;type:varchar(20);comment:昵称"`
}

// TableName 指定表名
func (StudentPreference) TableName() string {
	return "student_preference"
}
