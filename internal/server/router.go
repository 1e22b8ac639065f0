package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/tutorbridge-backend/internal/handlers"
	"github.com/yungbote/tutorbridge-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	ContentHandler *handlers.ContentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Content model
		api.GET("/content/model", cfg.ContentHandler.GetModel)
		api.POST("/content/refresh", cfg.ContentHandler.Refresh)
		// Single-file validation for authoring feedback
		api.POST("/content/validate/:kind", cfg.ContentHandler.Validate)
	}

	return router
}
