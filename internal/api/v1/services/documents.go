package services

import (
	"context"
	"os"

	"audio2pdf/internal/api/errors"
	"audio2pdf/internal/api/v1/dto"
	"audio2pdf/internal/app/api"
	"audio2pdf/internal/app/audio"
	apperrors "audio2pdf/internal/app/errors"
	"audio2pdf/internal/app/pipeline"
)

// DocumentServiceImpl implements DocumentService on top of the pipeline
type DocumentServiceImpl struct {
	pipeline *pipeline.Pipeline
}

// NewDocumentService creates a new document service
func NewDocumentService(p *pipeline.Pipeline) DocumentService {
	return &DocumentServiceImpl{pipeline: p}
}

// CreateDocument runs the pipeline for one upload. The request language, if
// any, overrides the provider's configured language for this run only.
func (s *DocumentServiceImpl) CreateDocument(ctx context.Context, upload audio.Upload, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if req != nil {
		ctx = api.WithLanguage(ctx, req.Language)
	}

	out, err := s.pipeline.Run(ctx, upload)
	if err != nil {
		return nil, err
	}
	return dto.ToDocumentResponse(out), nil
}

// DocumentPath resolves the stored PDF of a run
func (s *DocumentServiceImpl) DocumentPath(ctx context.Context, runID string) (string, error) {
	path, err := s.pipeline.OutputPath(runID)
	if err != nil {
		return "", errors.NewBadRequestError("Invalid run ID")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Mark(err, apperrors.ErrFileNotFound)
		}
		return "", errors.NewInternalError("Failed to access document")
	}
	if info.IsDir() {
		return "", apperrors.Wrap(apperrors.ErrFileNotFound, "document path is a directory")
	}
	return path, nil
}
