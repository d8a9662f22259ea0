package controllers

import (
	"errors"
	"net/http"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/service"
	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gin-gonic/gin"
)

// SummarizeController 论文摘要接口
type SummarizeController struct {
	summarizer service.Summarizer
}

// NewSummarizeController summarizer为nil时接口返回503
func NewSummarizeController(summarizer service.Summarizer) *SummarizeController {
	return &SummarizeController{summarizer: summarizer}
}

// Summarize 生成论文摘要
func (ctl *SummarizeController) Summarize(c *gin.Context) {
	var req models.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := service.SummarizePaper(c.Request.Context(), ctl.summarizer, req)
	switch {
	case errors.Is(err, service.ErrEmptyPaper):
		utils.ErrorResponse(c, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrSummarizerDisabled):
		utils.ErrorResponse(c, err.Error(), http.StatusServiceUnavailable)
	case err != nil:
		utils.ErrorResponse(c, err.Error(), http.StatusBadGateway)
	default:
		utils.SuccessResponse(c, resp, "")
	}
}
