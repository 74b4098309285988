// Package mysql 提供数据访问层的初始化
// 负责建立 MySQL 连接、自动迁移表结构、初始化 Repository 层
package mysql

import (
	"fmt"

	"mentor_chat_server/internal/config"
	"mentor_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 初始化数据库连接并返回 Repository 层实例
// 执行步骤：
//  1. 从配置读取 MySQL 连接信息，构建 DSN
//  2. 使用 GORM 建立数据库连接（开启 TranslateError，唯一键冲突
//     统一表现为 gorm.ErrDuplicatedKey，幂等创建路径依赖它）
//  3. 执行 AutoMigrate 自动迁移表结构
//  4. 创建并返回 Repository 实例
func Init() *Repositories {
	conf := config.GetConfig()

	// 构建 MySQL DSN 连接字符串
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	// AutoMigrate 自动迁移表结构
	// 表不存在则创建，字段变更则更新结构，不删除已有字段或数据
	err = db.AutoMigrate(
		&model.UserProfile{},         // 用户档案表
		&model.MentorPreference{},    // 导师偏好表
		&model.StudentPreference{},   // 学生偏好表
		&model.AnonymityAssignment{}, // 匿名编号分配表
		&model.ChatRoom{},            // 聊天房间表
		&model.Message{},             // 消息表
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	return NewRepositories(db)
}
