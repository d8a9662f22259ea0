package middleware

import (
	"net/http"
	"strings"

	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gin-gonic/gin"
)

// AdminGate 管理端认证中间件，接受 admin_auth cookie 或 Bearer 令牌
func AdminGate(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.Logger.Info().
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("[管理认证] 缺少会话令牌")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		claims, err := issuer.ParseToken(token)
		if err != nil {
			utils.Logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("[管理认证] Token验证失败")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired session",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		// 将会话信息存储到上下文
		c.Set(utils.AdminContextKey, utils.SessionFromClaims(claims))
		c.Next()
	}
}

// extractToken cookie优先，其次Authorization头
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.AdminCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
