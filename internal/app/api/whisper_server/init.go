package whisper_server

import (
	"audio2pdf/internal/app/api/provider"
	apperrors "audio2pdf/internal/app/errors"
)

func init() {
	provider.RegisterProvider(providerName, createWhisperServerProvider)
}

func createWhisperServerProvider(settings provider.Settings) (provider.TranscriptionProvider, error) {
	if settings.BaseURL == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidConfig, "whisper_server provider requires a base URL")
	}

	p := NewWhisperServerProvider(WhisperServerConfig{
		BaseURL:  settings.BaseURL,
		Timeout:  settings.Timeout,
		Language: settings.Language,
	})
	if err := p.ValidateConfiguration(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
	}
	return p, nil
}
