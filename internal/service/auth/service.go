// Package auth 实现身份提供方：注册、登录、令牌刷新
// 核心聊天逻辑只消费它产出的 (用户UUID, 角色) 声明
package auth

import (
	"context"

	"mentor_chat_server/internal/dao/mysql"
	myredis "mentor_chat_server/internal/dao/redis"
	"mentor_chat_server/internal/dto/request"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/errorx"
	"mentor_chat_server/pkg/util/jwt"
	"mentor_chat_server/pkg/util/random"

	"go.uber.org/zap"
)

// Redis 中刷新令牌的键前缀，值为当前有效的 tokenID
// 一个用户同时只有一个有效刷新令牌，新登录会顶掉旧令牌
const refreshTokenKeyPrefix = "refresh_token_"

// Service 认证服务
type Service struct {
	users        mysql.UserRepository
	studentPrefs mysql.StudentPreferenceRepository
}

// NewService 创建认证服务
func NewService(users mysql.UserRepository, studentPrefs mysql.StudentPreferenceRepository) *Service {
	return &Service{users: users, studentPrefs: studentPrefs}
}

// Register 注册用户
// 学生注册时顺带创建默认偏好行（匿名模式），失败不阻断注册，
// 偏好读取路径对缺行有默认值兜底
func (s *Service) Register(ctx context.Context, req *request.RegisterRequest) (*respond.RegisterRespond, error) {
	user := &model.UserProfile{
		Uuid:        "U" + random.GetNowAndLenRandomString(13),
		Role:        req.Role,
		RealName:    req.RealName,
		Email:       req.Email,
		RawPassword: req.Password,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errorx.IsConflict(err) {
			return nil, errorx.New(errorx.CodeUserExist, "该邮箱已注册")
		}
		return nil, err
	}

	if req.Role == model.RoleStudent {
		pref := &model.StudentPreference{UserUuid: user.Uuid, DisplayMode: model.DisplayModeAnonymous}
		if err := s.studentPrefs.Create(ctx, pref); err != nil && !errorx.IsConflict(err) {
			zap.L().Warn("seed student preference failed", zap.String("userUuid", user.Uuid), zap.Error(err))
		}
	}

	zap.L().Info("user registered", zap.String("userUuid", user.Uuid), zap.String("role", user.Role))
	return &respond.RegisterRespond{
		Uuid:     user.Uuid,
		RealName: user.RealName,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

// Login 邮箱密码登录，下发一对访问/刷新令牌
func (s *Service) Login(ctx context.Context, email, password string) (*respond.LoginRespond, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码错误")
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user.Uuid, user.Role)
	if err != nil {
		return nil, err
	}

	return &respond.LoginRespond{
		Uuid:         user.Uuid,
		RealName:     user.RealName,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken 用刷新令牌换新的令牌对（旋转：旧刷新令牌立即失效）
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*respond.RefreshTokenRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh_token" {
		return nil, errorx.ErrNotAuthenticated
	}

	storedTokenID, err := myredis.GetKeyNilIsErr(ctx, refreshTokenKeyPrefix+claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrNotAuthenticated
		}
		return nil, err
	}
	if storedTokenID != claims.TokenID {
		// 已在别处登录或已旋转过
		return nil, errorx.ErrNotAuthenticated
	}

	accessToken, newRefreshToken, err := s.issueTokens(ctx, claims.UserID, claims.Role)
	if err != nil {
		return nil, err
	}
	return &respond.RefreshTokenRespond{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// issueTokens 生成令牌对并把刷新令牌的 tokenID 记入 Redis
func (s *Service) issueTokens(ctx context.Context, userUuid, role string) (string, string, error) {
	accessToken, err := jwt.GenerateAccessToken(userUuid, role)
	if err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "生成访问令牌失败")
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(userUuid, role)
	if err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "生成刷新令牌失败")
	}
	// TTL 与刷新令牌自身的过期时间同源，配置调整后两者保持一致
	if err := myredis.SetKeyEx(ctx, refreshTokenKeyPrefix+userUuid, tokenID, jwt.RefreshTokenExpiry()); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
