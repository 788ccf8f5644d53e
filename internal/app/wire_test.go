package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "audio2pdf/internal/app/errors"
	"audio2pdf/internal/config"

	_ "audio2pdf/internal/app/api/openai/whisper"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.ScratchDir = filepath.Join(root, "temp_audio")
	cfg.OutputDir = filepath.Join(root, "output_pdf")
	cfg.OpenAI.APIKey = "sk-test"
	return cfg
}

func TestInitializePipeline(t *testing.T) {
	cfg := testConfig(t)

	p, err := InitializePipeline(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputName, p.Config().OutputName)
	assert.Equal(t, cfg.ScratchDir, p.Config().ScratchRoot)
	assert.True(t, p.Config().IsolateRuns)
}

func TestInitializePipeline_ProviderErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAI.APIKey = ""
	_, err := InitializePipeline(cfg, zap.NewNop(), nil)
	assert.ErrorIs(t, err, apperrors.ErrMissingAPIKey)

	cfg.Provider = "nope"
	_, err = InitializePipeline(cfg, zap.NewNop(), nil)
	assert.ErrorIs(t, err, apperrors.ErrProviderNotFound)
}

func TestInitializeServer(t *testing.T) {
	srv, err := InitializeServer(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// private registry carries the runtime collectors
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
