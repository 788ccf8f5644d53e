package routes

import (
	"github.com/gin-gonic/gin"

	"audio2pdf/internal/api/v1/handlers"
	"audio2pdf/internal/api/v1/services"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	documentHandler := handlers.NewDocumentHandler(container.DocumentService)
	documents := router.Group("/documents")
	{
		documents.POST("", documentHandler.Create)
		documents.GET("/:run_id/download", documentHandler.Download)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	DocumentService services.DocumentService
	HealthService   services.HealthService
}
