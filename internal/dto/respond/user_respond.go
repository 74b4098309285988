package respond

// MentorDirectoryRespond 导师目录条目
// DisplayName 是导师的一次性昵称，未设置时为占位名
type MentorDirectoryRespond struct {
	Uuid        string `json:"uuid"`
	DisplayName string `json:"displayName"`
}

// StudentDirectoryRespond 学生目录条目（导师视角）
// DisplayName 按学生偏好对该导师解析，默认是匿名编号
type StudentDirectoryRespond struct {
	Uuid        string `json:"uuid"`
	DisplayName string `json:"displayName"`
}
