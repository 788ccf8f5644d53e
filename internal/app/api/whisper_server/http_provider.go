package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"audio2pdf/internal/app/api"
	apperrors "audio2pdf/internal/app/errors"
)

const providerName = "whisper_server"

// WhisperServerProvider implements transcription via HTTP to a whisper-server instance
type WhisperServerProvider struct {
	config WhisperServerConfig
	client *http.Client
}

// WhisperServerConfig represents configuration for whisper-server HTTP API
type WhisperServerConfig struct {
	BaseURL        string            `yaml:"base_url"`        // Base URL of whisper-server (e.g., "http://192.168.1.100:8080")
	InferencePath  string            `yaml:"inference_path"`  // Inference endpoint path (default: "/inference")
	Timeout        time.Duration     `yaml:"timeout"`         // Request timeout
	Language       string            `yaml:"language"`        // Default language code
	ResponseFormat string            `yaml:"response_format"` // json or text
	Temperature    float64           `yaml:"temperature"`     // Decoding temperature (0.0-1.0)
	CustomHeaders  map[string]string `yaml:"custom_headers"`  // Custom HTTP headers
}

// WhisperServerResponse represents the response from whisper-server
type WhisperServerResponse struct {
	Text     string  `json:"text,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(config WhisperServerConfig) *WhisperServerProvider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &WhisperServerProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Name returns the registry name of the provider.
func (wsp *WhisperServerProvider) Name() string {
	return providerName
}

// Transcript uploads the file to the inference endpoint in one request.
// Transport and server failures come back as a service-error result.
func (wsp *WhisperServerProvider) Transcript(ctx context.Context, inputFilePath string) (*api.Result, error) {
	body, contentType, err := wsp.createMultipartForm(inputFilePath, api.LanguageFrom(ctx, wsp.config.Language))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wsp.config.BaseURL+wsp.config.InferencePath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range wsp.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return wsp.failure(fmt.Sprintf("HTTP request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return wsp.failure(fmt.Sprintf("failed to read response: %v", err)), nil
	}

	if resp.StatusCode != http.StatusOK {
		return wsp.failure(fmt.Sprintf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseData)))), nil
	}

	text, err := wsp.parseResponse(responseData)
	if err != nil {
		return wsp.failure(err.Error()), nil
	}

	result := api.FromText(text)
	result.Provider = providerName
	return result, nil
}

func (wsp *WhisperServerProvider) failure(message string) *api.Result {
	result := api.ServiceError(message)
	result.Provider = providerName
	return result
}

// createMultipartForm creates the multipart form for the API request
func (wsp *WhisperServerProvider) createMultipartForm(inputFilePath, language string) (*bytes.Buffer, string, error) {
	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, "", apperrors.Mark(err, apperrors.ErrFileReadFailed)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, "", apperrors.Mark(err, apperrors.ErrFileReadFailed)
	}

	params := map[string]string{
		"response_format": wsp.config.ResponseFormat,
		"temperature":     fmt.Sprintf("%.2f", wsp.config.Temperature),
	}
	if language != "" {
		params["language"] = language
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// parseResponse parses the response based on the response format
func (wsp *WhisperServerProvider) parseResponse(data []byte) (string, error) {
	if wsp.config.ResponseFormat != "json" {
		return strings.TrimSpace(string(data)), nil
	}

	var resp WhisperServerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %v", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("server error: %s", resp.Error)
	}
	return resp.Text, nil
}

// ValidateConfiguration validates the provider configuration
func (wsp *WhisperServerProvider) ValidateConfiguration() error {
	if wsp.config.BaseURL == "" {
		return apperrors.RequiredField("base_url")
	}
	if !strings.HasPrefix(wsp.config.BaseURL, "http://") && !strings.HasPrefix(wsp.config.BaseURL, "https://") {
		return apperrors.InvalidField("base_url", "must start with http:// or https://")
	}
	if wsp.config.Temperature < 0.0 || wsp.config.Temperature > 1.0 {
		return apperrors.InvalidField("temperature", "must be between 0.0 and 1.0")
	}
	if wsp.config.ResponseFormat != "json" && wsp.config.ResponseFormat != "text" {
		return apperrors.InvalidField("response_format", "must be json or text")
	}
	return nil
}

// HealthCheck performs a health check on the provider
func (wsp *WhisperServerProvider) HealthCheck(ctx context.Context) error {
	if err := wsp.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wsp.config.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	for key, value := range wsp.config.CustomHeaders {
		req.Header.Set(key, value)
	}

	resp, err := wsp.client.Do(req)
	if err != nil {
		return fmt.Errorf("server connectivity test failed: %w", err)
	}
	defer resp.Body.Close()

	// 503 might be returned by a proxy while the server is actually running
	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("server returned error status: %d", resp.StatusCode)
	}

	return nil
}
