package utils

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	// AdminRole 管理员角色，目前只有这一种
	AdminRole = "admin"
	// AdminCookieName 管理员会话cookie
	AdminCookieName = "admin_auth"
	// DefaultSessionTTL 管理员会话有效期
	DefaultSessionTTL = 12 * time.Hour
)

// TokenIssuer 签发和校验管理员会话令牌
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer 创建令牌签发器，ttl<=0 时使用 DefaultSessionTTL
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL 会话有效期
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// VerifyPassword 与配置的管理员密码做定长比较。未配置密码时一律失败
func VerifyPassword(input, expected string) bool {
	if expected == "" {
		Logger.Warn().Msg("未配置管理员密码，拒绝登录")
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(expected)) == 1
}

// GenerateToken 生成JWT令牌，返回令牌和过期时间
func (t *TokenIssuer) GenerateToken(sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)

	// 创建JWT Claims
	claims := jwt.MapClaims{
		"sid":  sessionID,
		"role": AdminRole,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		Logger.Error().Err(err).Msg("生成token失败")
		return "", time.Time{}, err
	}

	Logger.Info().Str("sid", sessionID).Time("expiresAt", expiresAt).Msg("Token生成成功")
	return tokenString, expiresAt, nil
}

// ParseToken 解析和验证JWT令牌，只接受管理员角色
func (t *TokenIssuer) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("无效的token")
	}
	if role, _ := claims["role"].(string); role != AdminRole {
		return nil, fmt.Errorf("token角色无效")
	}
	return claims, nil
}
