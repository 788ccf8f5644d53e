package services

import (
	"context"

	"audio2pdf/internal/api/v1/dto"
	"audio2pdf/internal/app/audio"
)

// DocumentService defines the interface for transcript document operations
type DocumentService interface {
	CreateDocument(ctx context.Context, upload audio.Upload, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	DocumentPath(ctx context.Context, runID string) (string, error)
}

// HealthService reports on the transcription provider
type HealthService interface {
	Check(ctx context.Context) *dto.HealthResponse
}
