package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"audio2pdf/internal/api/v1/services"
)

// HealthHandler serves GET /health
type HealthHandler struct {
	service services.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service services.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health always answers 200 while the process is up; a failing provider
// shows as status "degraded".
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Check(c.Request.Context()))
}
