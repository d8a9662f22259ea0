package controllers

import (
	"context"
	"net/http"

	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gin-gonic/gin"
)

// DatabaseStatusFunc 返回各集合的统计信息
type DatabaseStatusFunc func(ctx context.Context) map[string]interface{}

// SystemController 健康检查与数据库状态
type SystemController struct {
	backend  string
	dbStatus DatabaseStatusFunc
}

// NewSystemController dbStatus为nil表示没有使用数据库
func NewSystemController(backend string, dbStatus DatabaseStatusFunc) *SystemController {
	return &SystemController{backend: backend, dbStatus: dbStatus}
}

// Health 健康检查
func (ctl *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": ctl.backend})
}

// DBStatus 数据库状态检查
func (ctl *SystemController) DBStatus(c *gin.Context) {
	if ctl.dbStatus == nil {
		utils.ErrorResponse(c, "Database backend is not enabled", http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, ctl.dbStatus(c.Request.Context()))
}
