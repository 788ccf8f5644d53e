package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"

	"audio2pdf/internal/app/api"
	apperrors "audio2pdf/internal/app/errors"
)

const providerName = "openai"

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
// An empty model falls back to whisper-1; an empty language lets the service detect it.
func NewRemoteTranscriber(client *openai.Client, model, language string) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, model: model, language: language}
}

// Name returns the provider name.
func (rt *RemoteTranscriber) Name() string {
	return providerName
}

// Transcript reads the whole file and submits it in a single CreateTranscription call.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (*api.Result, error) {
	data, err := os.ReadFile(inputFilePath)
	if err != nil {
		return nil, apperrors.Mark(err, apperrors.ErrFileReadFailed)
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: filepath.Base(inputFilePath),
		Reader:   bytes.NewReader(data),
		Language: api.LanguageFrom(ctx, rt.language),
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result := api.ServiceError(describeError(err))
		result.Provider = providerName
		return result, nil
	}

	result := api.FromText(resp.Text)
	result.Provider = providerName
	return result, nil
}

// HealthCheck lists models as a lightweight connectivity check.
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	if _, err := rt.client.ListModels(ctx); err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}
	return nil
}

// describeError extracts the service's own message from an OpenAI client error.
func describeError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode != 0 {
			return fmt.Sprintf("%s (status %d)", apiErr.Message, apiErr.HTTPStatusCode)
		}
		return apiErr.Message
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("request failed with status %d: %v", reqErr.HTTPStatusCode, reqErr.Err)
	}

	return err.Error()
}
