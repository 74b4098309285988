package respond

// StudentPreferenceRespond 学生身份展示偏好响应
type StudentPreferenceRespond struct {
	DisplayMode string `json:"displayMode"`
	Nickname    string `json:"nickname"`
}

// MentorPreferenceRespond 导师昵称偏好响应
type MentorPreferenceRespond struct {
	Nickname string `json:"nickname"`
}
