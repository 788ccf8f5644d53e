package services

import (
	"context"
	"time"

	"audio2pdf/internal/api/v1/dto"
	"audio2pdf/internal/app/api/provider"
)

const healthCheckTimeout = 5 * time.Second

// HealthServiceImpl checks the configured transcription provider
type HealthServiceImpl struct {
	provider provider.TranscriptionProvider
}

// NewHealthService creates a new health service
func NewHealthService(p provider.TranscriptionProvider) HealthService {
	return &HealthServiceImpl{provider: p}
}

// Check runs the provider health check with a short timeout
func (s *HealthServiceImpl) Check(ctx context.Context) *dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	return dto.NewHealthResponse(s.provider.Name(), s.provider.HealthCheck(ctx))
}
