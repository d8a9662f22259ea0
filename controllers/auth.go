package controllers

import (
	"net/http"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthController 管理员登录、登出和会话查询
type AuthController struct {
	issuer   *utils.TokenIssuer
	password string
	secure   bool
}

// NewAuthController secure为true时cookie只通过HTTPS发送
func NewAuthController(issuer *utils.TokenIssuer, password string, secure bool) *AuthController {
	return &AuthController{issuer: issuer, password: password, secure: secure}
}

// Login 管理员登录
func (ctl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "Password is required", http.StatusBadRequest)
		return
	}

	if !utils.VerifyPassword(req.Password, ctl.password) {
		utils.Logger.Info().Str("ip", c.ClientIP()).Msg("[管理认证] 登录失败: 密码错误")
		utils.HandleError(c, utils.NewApiError("Invalid password", http.StatusUnauthorized, "INVALID_PASSWORD"))
		return
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := ctl.issuer.GenerateToken(sessionID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.AdminCookieName, token, int(ctl.issuer.TTL().Seconds()), "/", "", ctl.secure, true)

	utils.Logger.Info().Str("sid", sessionID).Str("ip", c.ClientIP()).Msg("[管理认证] 登录成功")
	utils.SuccessResponse(c, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
	}, "Login successful")
}

// Logout 清除会话cookie
func (ctl *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.AdminCookieName, "", -1, "/", "", ctl.secure, true)
	utils.SuccessResponse(c, nil, "Logged out")
}

// Session 返回当前会话，需经过 AdminGate
func (ctl *AuthController) Session(c *gin.Context) {
	session, err := utils.GetAdmin(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	utils.SuccessResponse(c, gin.H{
		"authenticated": true,
		"role":          session.Role,
		"expiresAt":     session.ExpiresAt,
	}, "")
}
