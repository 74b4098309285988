package request

// StartRoomRequest 发起（或恢复）会话请求
// 学生侧填 mentorUuid，导师侧填 studentUuid，只声明对端身份
type StartRoomRequest struct {
	MentorUuid  string `json:"mentorUuid"`
	StudentUuid string `json:"studentUuid"`
}
