package routes

import (
	"github.com/BerniceZTT/airlab_end/controllers"
	"github.com/BerniceZTT/airlab_end/middleware"
	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/repository"
	"github.com/BerniceZTT/airlab_end/service"
	"github.com/BerniceZTT/airlab_end/storage"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/view"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies 路由需要的全部组件，由 cmd 组装
type Dependencies struct {
	Backend     string
	Views       *view.Registry
	Stores      map[models.ContentType]repository.DocumentStore
	Invalidator service.ContentInvalidator
	Summarizer  service.Summarizer
	Uploader    storage.Uploader
	// UploadDir 本地上传目录，非空时以 /uploads 提供静态访问
	UploadDir string

	Issuer        *utils.TokenIssuer
	AdminPassword string
	SecureCookies bool
	AuditSink     middleware.AuditSink

	CORSOrigins []string
	Gatherer    prometheus.Gatherer
	DBStatus    controllers.DatabaseStatusFunc
}

// NewRouter 创建Gin实例并应用中间件
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	RegisterRoutes(router, deps)
	return router
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	RegisterContentRoutes(router, deps)
	RegisterAdminRoutes(router, deps)

	system := controllers.NewSystemController(deps.Backend, deps.DBStatus)
	// 健康检查路由
	router.GET("/api/health", system.Health)
	// 数据库状态检查路由
	router.GET("/api/db-status", system.DBStatus)

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}
}
