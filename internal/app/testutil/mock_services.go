package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"audio2pdf/internal/api/v1/dto"
	"audio2pdf/internal/app/audio"
)

// MockServices contains all mock services for testing
type MockServices struct {
	DocumentService *MockDocumentService
	HealthService   *MockHealthService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		DocumentService: NewMockDocumentService(t),
		HealthService:   NewMockHealthService(t),
	}
}

// MockDocumentService is a mock implementation of DocumentService.
// The upload body is drained into Received before the call is matched, so
// tests can assert on what the handler forwarded.
type MockDocumentService struct {
	mock.Mock
	Received []byte
}

func NewMockDocumentService(t *testing.T) *MockDocumentService {
	m := &MockDocumentService{}
	m.Test(t)
	return m
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, upload audio.Upload, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if upload.Data != nil {
		m.Received, _ = io.ReadAll(upload.Data)
	}
	args := m.Called(ctx, upload, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentResponse), args.Error(1)
}

func (m *MockDocumentService) DocumentPath(ctx context.Context, runID string) (string, error) {
	args := m.Called(ctx, runID)
	return args.String(0), args.Error(1)
}

// MockHealthService is a mock implementation of HealthService
type MockHealthService struct {
	mock.Mock
}

func NewMockHealthService(t *testing.T) *MockHealthService {
	m := &MockHealthService{}
	m.Test(t)
	return m
}

func (m *MockHealthService) Check(ctx context.Context) *dto.HealthResponse {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*dto.HealthResponse)
}
