package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient creates an OpenAI client, optionally pointed at a compatible base URL.
func NewClient(apiKey, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}
