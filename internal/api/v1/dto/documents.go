package dto

import (
	"strings"
	"time"

	"audio2pdf/internal/app/pipeline"
)

// CreateDocumentRequest holds the form fields sent along with the audio file
type CreateDocumentRequest struct {
	Language string `form:"language" binding:"omitempty,alpha,len=2"`
}

// Validate normalizes the language code
func (r *CreateDocumentRequest) Validate() error {
	r.Language = strings.ToLower(r.Language)
	return nil
}

// DocumentResponse describes a generated transcript document
type DocumentResponse struct {
	RunID        string `json:"run_id"`
	Outcome      string `json:"outcome"`
	ContentType  string `json:"content_type"`
	Transcript   string `json:"transcript"`
	Message      string `json:"message,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Paragraphs   int    `json:"paragraphs"`
	PDFSize      int64  `json:"pdf_size"`
	DownloadLink string `json:"download_link"`
	DownloadURL  string `json:"download_url"`
	DurationMS   int64  `json:"duration_ms"`
}

// DownloadURL returns the API path serving the PDF of runID
func DownloadURL(runID string) string {
	return "/api/v1/documents/" + runID + "/download"
}

// ToDocumentResponse converts a pipeline output to its API representation.
// Transcript holds the text rendered into the PDF, including "Error: ..."
// lines for failed transcriptions.
func ToDocumentResponse(out *pipeline.Output) *DocumentResponse {
	return &DocumentResponse{
		RunID:        out.RunID,
		Outcome:      string(out.Transcript.Kind),
		ContentType:  out.ContentType,
		Transcript:   out.Transcript.String(),
		Message:      out.Transcript.Message,
		Provider:     out.Transcript.Provider,
		Paragraphs:   out.Paragraphs,
		PDFSize:      out.PDFSize,
		DownloadLink: out.DownloadLink,
		DownloadURL:  DownloadURL(out.RunID),
		DurationMS:   out.Duration.Milliseconds(),
	}
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      int64  `json:"timestamp"`
	Provider       string `json:"provider"`
	ProviderStatus string `json:"provider_status"`
	ProviderError  string `json:"provider_error,omitempty"`
}

// NewHealthResponse builds a health response; a provider error degrades the status
func NewHealthResponse(provider string, providerErr error) *HealthResponse {
	resp := &HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().Unix(),
		Provider:       provider,
		ProviderStatus: "healthy",
	}
	if providerErr != nil {
		resp.Status = "degraded"
		resp.ProviderStatus = "unhealthy"
		resp.ProviderError = providerErr.Error()
	}
	return resp
}
