package routes

import (
	"github.com/BerniceZTT/airlab_end/controllers"
	"github.com/BerniceZTT/airlab_end/middleware"
	"github.com/BerniceZTT/airlab_end/models"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 管理端登录和内容维护
func RegisterAdminRoutes(router *gin.Engine, deps Dependencies) {
	auth := controllers.NewAuthController(deps.Issuer, deps.AdminPassword, deps.SecureCookies)
	router.POST("/api/admin/login", auth.Login)
	router.POST("/api/admin/logout", auth.Logout)

	adminGroup := router.Group("/api/admin")
	if deps.AuditSink != nil {
		adminGroup.Use(middleware.OperationLoggerMiddleware(deps.AuditSink))
	}
	adminGroup.Use(middleware.AdminGate(deps.Issuer))

	adminGroup.GET("/session", auth.Session)

	admin := controllers.NewAdminContentController(deps.Stores, deps.Invalidator)
	for _, t := range models.AllContentTypes {
		group := adminGroup.Group("/" + string(t))
		// 获取列表
		group.GET("", admin.List(t))
		// 获取单条
		group.GET("/:id", admin.Get(t))
		// 创建
		group.POST("", admin.Create(t))
		// 更新，兼容请求体中带主键
		group.PUT("", admin.Update(t))
		group.PUT("/:id", admin.Update(t))
		// 删除，兼容 ?id=
		group.DELETE("", admin.Delete(t))
		group.DELETE("/:id", admin.Delete(t))
	}

	upload := controllers.NewUploadController(deps.Uploader, deps.Stores[models.ContentResearch], deps.Invalidator)
	adminGroup.POST("/research/upload", upload.UploadResearch)
}
