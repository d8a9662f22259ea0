package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// AdminContextKey gin上下文中保存会话信息的key
const AdminContextKey = "admin"

// AdminSession 当前请求的管理员会话
type AdminSession struct {
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionFromClaims 从令牌负载构造会话
func SessionFromClaims(claims jwt.MapClaims) *AdminSession {
	session := &AdminSession{}
	session.SessionID, _ = claims["sid"].(string)
	session.Role, _ = claims["role"].(string)
	// JSON解码得到float64
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return session
}

// GetAdmin 获取中间件写入的管理员会话
func GetAdmin(c *gin.Context) (*AdminSession, error) {
	value, exists := c.Get(AdminContextKey)
	if !exists {
		return nil, fmt.Errorf("GetAdmin 未授权访问")
	}
	session, ok := value.(*AdminSession)
	if !ok {
		return nil, fmt.Errorf("无效的会话信息: %T", value)
	}
	return session, nil
}

// ListResponse 列表响应，附带总数
func ListResponse(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"total":   total,
	})
}
