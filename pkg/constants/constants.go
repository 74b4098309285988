package constants

const (
	CHANNEL_SIZE  = 100 // 通道大小
	REDIS_TIMEOUT = 1   // redis timeout (分钟)

	// 匿名编号分配在 (mentor, number) 唯一索引上撞车时的最大重试次数
	ASSIGN_MAX_RETRY = 5

	// 昵称最大长度（学生端 20，导师端 30，与前端输入框限制一致）
	STUDENT_NICKNAME_MAX_LEN = 20
	MENTOR_NICKNAME_MAX_LEN  = 30
)
