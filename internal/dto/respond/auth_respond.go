package respond

// RegisterRespond 注册响应
type RegisterRespond struct {
	Uuid     string `json:"uuid"`
	RealName string `json:"realName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginRespond 登录响应
type LoginRespond struct {
	Uuid         string `json:"uuid"`
	RealName     string `json:"realName"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenRespond 刷新令牌响应
type RefreshTokenRespond struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
