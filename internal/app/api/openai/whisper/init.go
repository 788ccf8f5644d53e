package whisper

import (
	"audio2pdf/internal/app/api/openai"
	"audio2pdf/internal/app/api/provider"
	apperrors "audio2pdf/internal/app/errors"
)

func init() {
	// Register openai provider with the factory
	provider.RegisterProvider(providerName, createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper provider from configuration
func createOpenAIProvider(settings provider.Settings) (provider.TranscriptionProvider, error) {
	if settings.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "openai provider requires an api_key")
	}

	client := openai.NewClient(settings.APIKey, settings.BaseURL)
	return NewRemoteTranscriber(client, settings.Model, settings.Language), nil
}
