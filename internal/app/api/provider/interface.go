package provider

import (
	"context"
	"time"

	"audio2pdf/internal/app/api"
)

// TranscriptionProvider is a named remote recognition service.
type TranscriptionProvider interface {
	api.Transcriber

	// Name returns the registry name of the provider
	Name() string

	// HealthCheck verifies the remote service is reachable
	HealthCheck(ctx context.Context) error
}

// Settings carries the configuration a provider is created from.
type Settings struct {
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}
