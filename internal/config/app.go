package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"audio2pdf/internal/app/api/provider"
	apperrors "audio2pdf/internal/app/errors"
)

// Defaults
const (
	DefaultScratchDir      = "temp_audio"
	DefaultOutputDir       = "output_pdf"
	DefaultOutputName      = "transcription.pdf"
	DefaultProvider        = "openai"
	DefaultHTTPHost        = "0.0.0.0"
	DefaultHTTPPort        = "8080"
	DefaultMaxUploadMB     = 25
	DefaultWhisperTimeout  = 60 * time.Second
	DefaultConfigFileName  = "a2p.yaml"
	configPathEnv          = "A2P_CONFIG"
	environmentProduction  = "production"
	environmentDevelopment = "development"
)

// AppConfig is the complete application configuration.
type AppConfig struct {
	ScratchDir               string `yaml:"scratch_dir"`
	OutputDir                string `yaml:"output_dir"`
	OutputName               string `yaml:"output_name"`
	IsolateRuns              bool   `yaml:"isolate_runs"`
	FailOnTranscriptionError bool   `yaml:"fail_on_transcription_error"`
	FontPath                 string `yaml:"font_path"`

	Provider string `yaml:"provider"`
	Language string `yaml:"language"`

	OpenAI        OpenAIConfig        `yaml:"openai"`
	WhisperServer WhisperServerConfig `yaml:"whisper_server"`
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// OpenAIConfig configures the openai provider
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// WhisperServerConfig configures the whisper_server provider
type WhisperServerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *AppConfig {
	return &AppConfig{
		ScratchDir:  DefaultScratchDir,
		OutputDir:   DefaultOutputDir,
		OutputName:  DefaultOutputName,
		IsolateRuns: true,
		Provider:    DefaultProvider,
		OpenAI: OpenAIConfig{
			APIKey: "${OPENAI_API_KEY}",
			Model:  "whisper-1",
		},
		WhisperServer: WhisperServerConfig{
			Timeout: DefaultWhisperTimeout,
		},
		Server: ServerConfig{
			Host:        DefaultHTTPHost,
			Port:        DefaultHTTPPort,
			Environment: environmentDevelopment,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// any) and environment overrides, then validates it. An empty path falls back
// to $A2P_CONFIG and then ./a2p.yaml; neither has to exist.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = GetDefaultConfigPath()
	}
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "failed to parse %s: %v", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// optional
	default:
		return nil, apperrors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
	}
	cfg.expandEnvironmentVariables()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *AppConfig) ApplyEnv() error {
	c.ScratchDir = getEnvOrDefault("A2P_SCRATCH_DIR", c.ScratchDir)
	c.OutputDir = getEnvOrDefault("A2P_OUTPUT_DIR", c.OutputDir)
	c.OutputName = getEnvOrDefault("A2P_OUTPUT_NAME", c.OutputName)
	c.Provider = getEnvOrDefault("A2P_PROVIDER", c.Provider)
	c.Language = getEnvOrDefault("A2P_LANGUAGE", c.Language)
	c.FontPath = getEnvOrDefault("A2P_FONT_PATH", c.FontPath)

	var err error
	if c.IsolateRuns, err = getEnvBool("A2P_ISOLATE_RUNS", c.IsolateRuns); err != nil {
		return err
	}
	if c.FailOnTranscriptionError, err = getEnvBool("A2P_FAIL_ON_TRANSCRIPTION_ERROR", c.FailOnTranscriptionError); err != nil {
		return err
	}

	c.OpenAI.APIKey = getEnvOrDefault("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.Model = getEnvOrDefault("OPENAI_MODEL", c.OpenAI.Model)
	c.OpenAI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.WhisperServer.BaseURL = getEnvOrDefault("WHISPER_SERVER_URL", c.WhisperServer.BaseURL)

	c.Server.Host = getEnvOrDefault("HTTP_HOST", c.Server.Host)
	c.Server.Port = getEnvOrDefault("HTTP_PORT", c.Server.Port)
	c.Server.Environment = getEnvOrDefault("A2P_ENV", c.Server.Environment)
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", c.Logging.Level)
	return nil
}

// expandEnvironmentVariables resolves ${VAR} placeholders in secret fields
func (c *AppConfig) expandEnvironmentVariables() {
	c.OpenAI.APIKey = expandPlaceholder(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = expandPlaceholder(c.OpenAI.BaseURL)
	c.WhisperServer.BaseURL = expandPlaceholder(c.WhisperServer.BaseURL)
}

func expandPlaceholder(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return os.Getenv(strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}"))
	}
	return value
}

// setDefaults fills zero values a partial YAML file may have left
func (c *AppConfig) setDefaults() {
	if c.WhisperServer.Timeout == 0 {
		c.WhisperServer.Timeout = DefaultWhisperTimeout
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = DefaultMaxUploadMB
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if err := ValidateDir(c.ScratchDir, "scratch"); err != nil {
		return err
	}
	if err := ValidateDir(c.OutputDir, "output"); err != nil {
		return err
	}
	if err := ValidateOutputName(c.OutputName); err != nil {
		return err
	}
	if err := ValidateScratchDir(c.ScratchDir, c.OutputDir); err != nil {
		return err
	}
	if err := ValidateFontPath(c.FontPath); err != nil {
		return err
	}
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if err := ValidatePort(c.Server.Port, "HTTP"); err != nil {
		return err
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb cannot be negative")
	}

	switch c.Provider {
	case "openai":
		if c.OpenAI.BaseURL != "" {
			if err := ValidateURL(c.OpenAI.BaseURL, "OpenAI base"); err != nil {
				return err
			}
		} else if c.OpenAI.APIKey != "" {
			if err := ValidateAPIKey(c.OpenAI.APIKey, "OpenAI"); err != nil {
				return err
			}
		}
	case "whisper_server":
		if err := ValidateURL(c.WhisperServer.BaseURL, "whisper-server"); err != nil {
			return err
		}
		if err := ValidateTimeout(c.WhisperServer.Timeout, "whisper-server"); err != nil {
			return err
		}
	}
	return nil
}

// ProviderSettings returns the settings for the selected provider.
func (c *AppConfig) ProviderSettings() provider.Settings {
	switch c.Provider {
	case "whisper_server":
		return provider.Settings{
			BaseURL:  c.WhisperServer.BaseURL,
			Timeout:  c.WhisperServer.Timeout,
			Language: c.Language,
		}
	default:
		return provider.Settings{
			APIKey:   c.OpenAI.APIKey,
			Model:    c.OpenAI.Model,
			BaseURL:  c.OpenAI.BaseURL,
			Language: c.Language,
		}
	}
}

// Development reports whether the app runs in development mode
func (c *AppConfig) Development() bool {
	return c.Server.Environment != environmentProduction
}

// MaxUploadBytes returns the upload limit in bytes
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// Address returns host:port for the HTTP server
func (c *AppConfig) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}
	return DefaultConfigFileName
}

// Save writes the configuration as YAML, creating parent directories.
func Save(cfg *AppConfig, path string) error {
	path = os.ExpandEnv(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
