package respond

// RoomRespond 会话响应
// CounterpartName 是按对方的展示偏好解析后的名字
type RoomRespond struct {
	Uuid            string `json:"uuid"`
	CounterpartUuid string `json:"counterpartUuid"`
	CounterpartName string `json:"counterpartName"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
}
