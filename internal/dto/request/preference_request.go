package request

// SetDisplayModeRequest 学生设置身份展示模式请求
// 模式为昵称展示时昵称只在首次设置时生效
type SetDisplayModeRequest struct {
	Mode     string `json:"mode" binding:"required,oneof=anonymous nickname real_name"`
	Nickname string `json:"nickname" binding:"omitempty,max=20"`
}

// SetMentorNicknameRequest 导师设置昵称请求（只能设置一次）
type SetMentorNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,max=30"`
}
