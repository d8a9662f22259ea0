package routes

import (
	"github.com/BerniceZTT/airlab_end/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterContentRoutes 公开内容、页面和论文摘要
func RegisterContentRoutes(router *gin.Engine, deps Dependencies) {
	content := controllers.NewContentController(deps.Views)
	contentGroup := router.Group("/api/content")
	// 获取集合状态
	contentGroup.GET("/:type", content.GetContent)
	// 重试加载
	contentGroup.POST("/:type/retry", content.RetryContent)

	pages := controllers.NewPageController(deps.Views, controllers.DefaultContact)
	router.GET("/api/pages/:page", pages.GetPage)

	summarize := controllers.NewSummarizeController(deps.Summarizer)
	router.POST("/api/summarize", summarize.Summarize)
}
