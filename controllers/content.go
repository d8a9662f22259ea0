package controllers

import (
	"net/http"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/view"

	"github.com/gin-gonic/gin"
)

// ContentController 公开的内容集合接口
type ContentController struct {
	views *view.Registry
}

// NewContentController 创建内容接口
func NewContentController(views *view.Registry) *ContentController {
	return &ContentController{views: views}
}

// GetContent 返回某个集合当前的绑定状态，首次访问时触发加载
func (ctl *ContentController) GetContent(c *gin.Context) {
	h, ok := ctl.handle(c)
	if !ok {
		return
	}

	state, err := view.Load(c.Request.Context(), h)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if state.IsFallback {
		utils.Logger.Warn().Str("type", h.Name()).Str("error", state.Error).Msg("[内容加载] 返回占位数据")
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "type": h.Name(), "state": state})
}

// RetryContent 重新加载集合，仍然遵循缓存
func (ctl *ContentController) RetryContent(c *gin.Context) {
	h, ok := ctl.handle(c)
	if !ok {
		return
	}

	utils.Logger.Info().Str("type", h.Name()).Msg("[内容加载] 手动重试")
	state, err := view.Reload(c.Request.Context(), h)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "type": h.Name(), "state": state})
}

func (ctl *ContentController) handle(c *gin.Context) (view.Handle, bool) {
	t, ok := models.ParseContentType(c.Param("type"))
	if !ok {
		utils.HandleError(c, utils.CreateNotFoundError("content type "+c.Param("type")))
		return nil, false
	}
	h, _ := ctl.views.Get(t)
	return h, true
}
