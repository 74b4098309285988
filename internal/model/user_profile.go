// Package model 定义数据库实体模型
// 本文件定义用户档案模型，由身份提供方维护，核心逻辑只读
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 角色常量，对应身份提供方的角色声明
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

// UserProfile 用户档案模型
// 对应数据库 user_profile 表
type UserProfile struct {
	gorm.Model

	// Uuid 用户唯一标识
	// 格式：U + 13位时间戳随机字符串，如 "U2608294eF9kQ2mZ1x"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	// Role 角色声明：student 或 mentor
	Role string `gorm:"column:role;index;type:varchar(10);not null;comment:角色"`

	// RealName 真实姓名
	// 学生在 real_name 展示模式下使用；导师永不展示真实姓名
	RealName string `gorm:"column:real_name;type:varchar(50);not null;comment:真实姓名"`

	// Email 邮箱，用于登录
	Email string `gorm:"column:email;uniqueIndex;type:varchar(60);not null;comment:邮箱"`

	// Password 密码（bcrypt 哈希后存储，不存明文）
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// RawPassword 明文密码（不存入数据库）
	// 用于接收前端传来的明文密码，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserProfile) TableName() string {
	return "user_profile"
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 将 RawPassword 明文密码加密后存入 Password 字段
func (u *UserProfile) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验密码是否正确
func (u *UserProfile) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
