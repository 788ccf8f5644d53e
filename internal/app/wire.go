//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"audio2pdf/internal/api/server"
	v1routes "audio2pdf/internal/api/v1/routes"
	"audio2pdf/internal/api/v1/services"
	"audio2pdf/internal/app/api"
	"audio2pdf/internal/app/api/provider"
	"audio2pdf/internal/app/audio"
	"audio2pdf/internal/app/document"
	"audio2pdf/internal/app/pipeline"
	"audio2pdf/internal/config"
	"audio2pdf/internal/metrics"
)

// provideTranscriptionProvider creates the provider selected in the config.
// Providers must be registered by blank-importing their packages in main.
func provideTranscriptionProvider(cfg *config.AppConfig) (provider.TranscriptionProvider, error) {
	return provider.New(cfg.Provider, cfg.ProviderSettings())
}

func provideStager(cfg *config.AppConfig) *audio.Stager {
	return audio.NewStager(cfg.ScratchDir)
}

// provideWriter creates the document writer, with the configured font if any
func provideWriter(cfg *config.AppConfig) (*document.Writer, error) {
	return document.NewWriterWithFont(cfg.FontPath)
}

// provideRegistry creates the registry served on /metrics, with runtime collectors
func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideServiceContainer(p *pipeline.Pipeline, tp provider.TranscriptionProvider) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		DocumentService: services.NewDocumentService(p),
		HealthService:   services.NewHealthService(tp),
	}
}

var pipelineSet = wire.NewSet(
	pipeline.NewConfig,
	pipeline.New,
	provideStager,
	provideTranscriptionProvider,
	provideWriter,
	wire.Bind(new(pipeline.Stager), new(*audio.Stager)),
	wire.Bind(new(pipeline.DocumentWriter), new(*document.Writer)),
	wire.Bind(new(api.Transcriber), new(provider.TranscriptionProvider)),
)

// InitializePipeline builds a pipeline for one-off conversions. m may be nil.
func InitializePipeline(cfg *config.AppConfig, logger *zap.Logger, m *metrics.Metrics) (*pipeline.Pipeline, error) {
	wire.Build(pipelineSet)
	return &pipeline.Pipeline{}, nil
}

// InitializeServer builds the HTTP server with its own metrics registry.
func InitializeServer(cfg *config.AppConfig, logger *zap.Logger) (*server.Server, error) {
	wire.Build(
		pipelineSet,
		provideRegistry,
		metrics.NewMetrics,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		provideServiceContainer,
		server.NewConfig,
		server.NewServer,
	)
	return &server.Server{}, nil
}
