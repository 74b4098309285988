package middleware

import (
	"net/http"
	"strings"

	"mentor_chat_server/pkg/errorx"
	"mentor_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// 上下文键，供 Handler 层读取当前身份
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// JWTAuth JWT 认证中间件
// 验证 Access Token，把身份提供方给出的 {user_id, role} 一次性解析进上下文，
// 后续 Handler 直接取值比较，不再重复推导身份
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "请先登录",
			})
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "Token 格式错误，请使用 Bearer Token",
			})
			return
		}

		// 3. 验证 Token
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "Token 已过期或无效，请重新登录",
			})
			return
		}

		// 4. 验证是否为 Access Token
		if claims.Subject != "access_token" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "请使用 Access Token 访问此接口",
			})
			return
		}

		// 5. 将用户信息存入上下文，供后续 Handler 使用
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// CurrentUser 从上下文取当前身份，未认证时返回 false
func CurrentUser(c *gin.Context) (userID, role string, ok bool) {
	id, exists := c.Get(CtxUserID)
	if !exists {
		return "", "", false
	}
	r, _ := c.Get(CtxUserRole)
	userID, _ = id.(string)
	role, _ = r.(string)
	return userID, role, userID != ""
}
