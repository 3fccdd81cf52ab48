package app

import (
	"studypact_backend/docs"
	"studypact_backend/internal/config"
	"studypact_backend/internal/middleware"
	"studypact_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/identity", c.identity.GetIdentity)

		enforcement := authGroup.Group("/enforcement")
		{
			enforcement.POST("/skip/evaluate", c.enforcement.EvaluateSkip)
			enforcement.POST("/skip", c.enforcement.RecordSkip)
			enforcement.POST("/attempts", c.enforcement.RecordAttempt)
			enforcement.POST("/completion/validate", c.enforcement.ValidateCompletion)
			enforcement.POST("/inactivity/check", c.enforcement.CheckInactivity)
			enforcement.GET("/actions", c.enforcement.PendingActions)
			enforcement.POST("/actions/:id/acknowledge", c.enforcement.AcknowledgeAction)
			enforcement.POST("/actions/:id/resolve", c.enforcement.ResolveAction)
		}

		debts := authGroup.Group("/debts")
		{
			debts.GET("", c.debt.GetDebt)
			debts.POST("", c.debt.AddDebt)
			debts.POST("/pay", c.debt.PayDebt)
		}

		remediation := authGroup.Group("/remediation")
		{
			remediation.GET("/required", c.remediation.CheckRequired)
			remediation.POST("/submit", c.remediation.Submit)
			remediation.POST("/attachments", c.remediation.UploadAttachment)
		}
	}
}
