package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	// machineID 由 Init 传入，未初始化时退回默认节点 1
	machineID int64 = 1
)

// Init 初始化雪花算法节点
// 应在程序启动时调用一次，id 取自配置（0-1023，分布式部署时每台机器需唯一）
func Init(id int64) {
	nodeOnce.Do(func() {
		if id < 0 || id > 1023 {
			id = 1
			zap.L().Warn("Invalid MachineID in config, using default value 1")
		}
		machineID = id
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("Failed to initialize snowflake node", zap.Error(err))
		}
		zap.L().Info("Snowflake node initialized", zap.Int64("machineID", machineID))
	})
}

// GenerateID 生成雪花 ID (int64)
// 同一节点上严格递增，消息表用它作为房间内的插入序
func GenerateID() int64 {
	if node == nil {
		Init(machineID)
	}
	return node.Generate().Int64()
}

// GenerateIDString 生成雪花 ID (string)
// 用于 JSON 序列化，避免 JavaScript 精度丢失
func GenerateIDString() string {
	if node == nil {
		Init(machineID)
	}
	return node.Generate().String()
}
