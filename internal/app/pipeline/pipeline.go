package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"audio2pdf/internal/app/api"
	"audio2pdf/internal/app/audio"
	apperrors "audio2pdf/internal/app/errors"
	"audio2pdf/internal/app/download"
	"audio2pdf/internal/app/util/files"
	"audio2pdf/internal/config"
	"audio2pdf/internal/metrics"
)

// State is a step of a run.
type State string

const (
	StateIdle            State = "idle"
	StateStaged          State = "staged"
	StateTranscribed     State = "transcribed"
	StateDocumentWritten State = "document_written"
	StateEncoded         State = "encoded"
	StateCleanedUp       State = "cleaned_up"
)

// States lists the states of a successful run in order.
var States = []State{
	StateIdle,
	StateStaged,
	StateTranscribed,
	StateDocumentWritten,
	StateEncoded,
	StateCleanedUp,
}

// Observer is notified every time a run enters a state. A failed run skips
// straight from its last reached state to StateCleanedUp.
type Observer func(runID string, state State)

// Config holds the directories a run works in.
type Config struct {
	ScratchRoot string
	OutputRoot  string
	OutputName  string

	// IsolateRuns gives every run its own scratch and output directory named
	// after the run id. When false all runs share <ScratchRoot> and
	// <OutputRoot>/<OutputName>, and overlapping runs clobber each other's
	// document. A shared scratch root only loses the run's staged file and is
	// removed once empty.
	IsolateRuns bool

	// FailOnTranscriptionError aborts the run when the service reports no
	// speech or an error, instead of rendering the error text into the PDF.
	FailOnTranscriptionError bool
}

// NewConfig extracts the pipeline settings from the application config.
func NewConfig(cfg *config.AppConfig) Config {
	return Config{
		ScratchRoot:              cfg.ScratchDir,
		OutputRoot:               cfg.OutputDir,
		OutputName:               cfg.OutputName,
		IsolateRuns:              cfg.IsolateRuns,
		FailOnTranscriptionError: cfg.FailOnTranscriptionError,
	}
}

// Stager persists uploads to a scratch directory.
type Stager interface {
	Stage(dir, filename string, r io.Reader) (string, error)
	Dir(dir string) string
}

// DocumentWriter renders transcript text to a file.
type DocumentWriter interface {
	Write(text, outputPath string) (int, error)
}

// glyphChecker is implemented by writers whose font may not cover every rune.
type glyphChecker interface {
	MissingGlyphs(text string) []rune
}

// Output describes a finished run.
type Output struct {
	RunID        string        `json:"run_id"`
	ContentType  string        `json:"content_type"`
	Transcript   *api.Result   `json:"transcript"`
	PDFPath      string        `json:"pdf_path"`
	PDFSize      int64         `json:"pdf_size"`
	Paragraphs   int           `json:"paragraphs"`
	DownloadLink string        `json:"download_link"`
	Duration     time.Duration `json:"duration"`
}

// Pipeline turns one uploaded audio clip into a PDF transcript.
type Pipeline struct {
	cfg         Config
	stager      Stager
	transcriber api.Transcriber
	writer      DocumentWriter
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// New creates a pipeline. logger and m may be nil.
func New(cfg Config, stager Stager, transcriber api.Transcriber, writer DocumentWriter, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OutputName == "" {
		cfg.OutputName = download.FileName
	}
	return &Pipeline{
		cfg:         cfg,
		stager:      stager,
		transcriber: transcriber,
		writer:      writer,
		logger:      logger,
		metrics:     m,
	}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run executes a run without an observer.
func (p *Pipeline) Run(ctx context.Context, upload audio.Upload) (*Output, error) {
	return p.RunObserved(ctx, upload, nil)
}

// RunObserved stages the upload, transcribes it, writes the PDF and encodes
// it as a download link. The scratch directory is removed on every exit path.
func (p *Pipeline) RunObserved(ctx context.Context, upload audio.Upload, observe Observer) (*Output, error) {
	if observe == nil {
		observe = func(string, State) {}
	}

	start := time.Now()
	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID), zap.String("filename", upload.Filename))

	p.metrics.RecordRunStarted()
	outcome := "failed"
	defer func() {
		p.metrics.RecordRunFinished(outcome, time.Since(start).Seconds())
	}()

	observe(runID, StateIdle)
	log.Info("run started", zap.String("format", string(upload.Format)), zap.Bool("isolated", p.cfg.IsolateRuns))

	if upload.Data == nil {
		return nil, apperrors.Wrapf(apperrors.ErrEmptyUpload, "%q has no content", upload.Filename)
	}

	scratchDir := p.scratchDir(runID)
	scratchPath := p.stager.Dir(scratchDir)
	stagedPath := filepath.Join(scratchPath, files.SafeBaseName(upload.Filename))
	defer func() {
		p.cleanup(log, scratchPath, stagedPath)
		observe(runID, StateCleanedUp)
	}()

	stageStart := time.Now()
	staged, err := p.stager.Stage(scratchDir, upload.Filename, upload.Data)
	if err != nil {
		log.Error("failed to stage audio", zap.Error(err))
		return nil, err
	}
	p.metrics.RecordStage("stage", time.Since(stageStart).Seconds())
	contentType := audio.Sniff(staged)
	log.Debug("audio staged", zap.String("path", staged), zap.String("content_type", contentType))
	observe(runID, StateStaged)

	stageStart = time.Now()
	result, err := p.transcriber.Transcript(ctx, staged)
	if err != nil {
		log.Error("transcription failed", zap.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Mark(err, apperrors.ErrTranscriptionFailed)
		}
		return nil, err
	}
	if result == nil {
		result = api.ServiceError("transcriber returned no result")
	}
	p.metrics.RecordStage("transcribe", time.Since(stageStart).Seconds())
	p.metrics.RecordTranscription(result.Provider, string(result.Kind))
	observe(runID, StateTranscribed)

	if !result.OK() {
		log.Warn("transcription produced no text",
			zap.String("kind", string(result.Kind)),
			zap.String("message", result.Message))
		if p.cfg.FailOnTranscriptionError {
			return nil, apperrors.Mark(apperrors.New(result.String()), apperrors.ErrTranscriptionFailed)
		}
	}

	text := result.String()
	if gc, ok := p.writer.(glyphChecker); ok {
		if missing := gc.MissingGlyphs(text); len(missing) > 0 {
			log.Warn("document font cannot render some characters, they are replaced with '?'",
				zap.Int("count", len(missing)),
				zap.String("sample", string(missing[:min(len(missing), 16)])))
		}
	}

	stageStart = time.Now()
	outputPath := p.outputPath(runID)
	if err := files.EnsureDir(filepath.Dir(outputPath)); err != nil {
		log.Error("failed to create output directory", zap.Error(err))
		return nil, apperrors.Mark(err, apperrors.ErrDirectoryFailed)
	}

	paragraphs, err := p.writer.Write(text, outputPath)
	if err != nil {
		log.Error("failed to write document", zap.String("path", outputPath), zap.Error(err))
		return nil, err
	}
	p.metrics.RecordStage("document", time.Since(stageStart).Seconds())
	observe(runID, StateDocumentWritten)

	stageStart = time.Now()
	link, err := download.Link(outputPath)
	if err != nil {
		log.Error("failed to encode document", zap.Error(err))
		return nil, err
	}
	size, err := files.FileSize(outputPath)
	if err != nil {
		return nil, apperrors.Mark(err, apperrors.ErrFileReadFailed)
	}
	p.metrics.RecordStage("encode", time.Since(stageStart).Seconds())
	p.metrics.RecordDocument(size, paragraphs)
	observe(runID, StateEncoded)

	outcome = string(result.Kind)
	out := &Output{
		RunID:        runID,
		ContentType:  contentType,
		Transcript:   result,
		PDFPath:      outputPath,
		PDFSize:      size,
		Paragraphs:   paragraphs,
		DownloadLink: link,
		Duration:     time.Since(start),
	}

	log.Info("run completed",
		zap.String("outcome", outcome),
		zap.String("pdf", outputPath),
		zap.Int64("pdf_size", size),
		zap.Int("paragraphs", paragraphs),
		zap.Duration("duration", out.Duration))
	return out, nil
}

// OutputPath returns where the document of runID is stored. Run ids must be
// UUIDs; with shared paths every id maps to the same file.
func (p *Pipeline) OutputPath(runID string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", apperrors.InvalidField("run_id", "must be a UUID")
	}
	return p.outputPath(runID), nil
}

// cleanup removes what a run left in the scratch area. An isolated run owns
// its whole directory; in shared mode only the staged file is removed and
// the root goes once nothing else is in it.
func (p *Pipeline) cleanup(log *zap.Logger, scratchPath, stagedPath string) {
	if p.cfg.IsolateRuns {
		if err := os.RemoveAll(scratchPath); err != nil {
			log.Warn("failed to remove scratch directory", zap.String("dir", scratchPath), zap.Error(err))
		}
		return
	}

	if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to remove staged file", zap.String("path", stagedPath), zap.Error(err))
	}
	if err := os.Remove(scratchPath); err != nil && !os.IsNotExist(err) {
		log.Debug("shared scratch directory still in use", zap.String("dir", scratchPath))
	}
}

func (p *Pipeline) scratchDir(runID string) string {
	if p.cfg.IsolateRuns {
		return runID
	}
	return ""
}

func (p *Pipeline) outputPath(runID string) string {
	if p.cfg.IsolateRuns {
		return filepath.Join(p.cfg.OutputRoot, runID, p.cfg.OutputName)
	}
	return filepath.Join(p.cfg.OutputRoot, p.cfg.OutputName)
}
