package pipeline_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"audio2pdf/internal/app/api"
	"audio2pdf/internal/app/audio"
	"audio2pdf/internal/app/document"
	"audio2pdf/internal/app/download"
	apperrors "audio2pdf/internal/app/errors"
	"audio2pdf/internal/app/pipeline"
	"audio2pdf/internal/app/testutil"
	"audio2pdf/internal/metrics"
)

type transcriberFunc func(ctx context.Context, path string) (*api.Result, error)

func (f transcriberFunc) Transcript(ctx context.Context, path string) (*api.Result, error) {
	return f(ctx, path)
}

type failingReader struct{}

func (*failingReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

type failingWriter struct{}

func (failingWriter) Write(string, string) (int, error) {
	return 0, apperrors.Wrap(apperrors.ErrDocumentFailed, "disk full")
}

type testEnv struct {
	scratch string
	output  string
	cfg     pipeline.Config
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		scratch: filepath.Join(root, "temp_audio"),
		output:  filepath.Join(root, "output_pdf"),
	}
	env.cfg = pipeline.Config{
		ScratchRoot: env.scratch,
		OutputRoot:  env.output,
		OutputName:  "transcription.pdf",
		IsolateRuns: true,
	}
	return env
}

func (e *testEnv) pipeline(tr api.Transcriber, w pipeline.DocumentWriter) *pipeline.Pipeline {
	return pipeline.New(e.cfg, audio.NewStager(e.scratch), tr, w, nil, nil)
}

func helloUpload(t *testing.T) audio.Upload {
	t.Helper()
	f, err := os.Open(testutil.HelloWAV(t))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	upload, err := audio.NewUpload("hello.wav", f)
	require.NoError(t, err)
	return upload
}

func bytesUpload(t *testing.T, name string, data []byte) audio.Upload {
	t.Helper()
	upload, err := audio.NewUpload(name, bytes.NewReader(data))
	require.NoError(t, err)
	return upload
}

func TestRun_HelloWorldEndToEnd(t *testing.T) {
	env := newEnv(t)
	tr := testutil.NewMockTranscriber()
	p := env.pipeline(tr, document.NewWriter())

	out, err := p.Run(context.Background(), helloUpload(t))
	require.NoError(t, err)

	assert.Equal(t, api.KindSuccess, out.Transcript.Kind)
	assert.Equal(t, "hello world", out.Transcript.Text)
	assert.Equal(t, "audio/wav", out.ContentType)
	assert.Equal(t, 1, out.Paragraphs)
	assert.Equal(t, filepath.Join(env.output, out.RunID, "transcription.pdf"), out.PDFPath)
	assert.FileExists(t, out.PDFPath)

	payload, err := download.Decode(out.DownloadLink)
	require.NoError(t, err)
	assert.Equal(t, out.PDFSize, int64(len(payload)))

	onDisk, err := os.ReadFile(out.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, onDisk, payload)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF-")))

	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "hello.wav", filepath.Base(calls[0].InputFilePath))
	assert.Equal(t, testutil.WAVBytes(16000, 250, 440), calls[0].Content)

	assert.NoDirExists(t, filepath.Join(env.scratch, out.RunID))
	assert.Greater(t, out.Duration, time.Duration(0))
}

func TestRun_StagedFileExistsDuringTranscription(t *testing.T) {
	env := newEnv(t)
	tr := testutil.NewMockTranscriber()
	tr.OnTranscript = func(path string) {
		assert.FileExists(t, path)
		assert.Equal(t, env.scratch, filepath.Dir(filepath.Dir(path)))
	}

	_, err := env.pipeline(tr, document.NewWriter()).Run(context.Background(), helloUpload(t))
	require.NoError(t, err)
	assert.Len(t, tr.Calls(), 1)
}

func TestRun_ScratchRemovedOnFailure(t *testing.T) {
	tests := []struct {
		name        string
		transcriber func() api.Transcriber
		writer      pipeline.DocumentWriter
		failOnError bool
		expectedErr error
	}{
		{
			name: "transcriber local error",
			transcriber: func() api.Transcriber {
				return testutil.NewMockTranscriber().WithDefaultError(apperrors.ErrFileReadFailed)
			},
			writer:      document.NewWriter(),
			expectedErr: apperrors.ErrFileReadFailed,
		},
		{
			name: "document writer error",
			transcriber: func() api.Transcriber {
				return testutil.NewMockTranscriber()
			},
			writer:      failingWriter{},
			expectedErr: apperrors.ErrDocumentFailed,
		},
		{
			name: "service error with fail on error",
			transcriber: func() api.Transcriber {
				return testutil.NewMockTranscriber().ServiceDown("quota exceeded")
			},
			writer:      document.NewWriter(),
			failOnError: true,
			expectedErr: apperrors.ErrTranscriptionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			env.cfg.FailOnTranscriptionError = tt.failOnError
			p := env.pipeline(tt.transcriber(), tt.writer)

			var runID string
			var states []pipeline.State
			out, err := p.RunObserved(context.Background(), helloUpload(t), func(id string, s pipeline.State) {
				runID = id
				states = append(states, s)
			})

			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.expectedErr)
			require.NotEmpty(t, runID)
			assert.NoDirExists(t, filepath.Join(env.scratch, runID))
			assert.Equal(t, pipeline.StateCleanedUp, states[len(states)-1])
		})
	}
}

func TestRun_StageFailure(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.scratch), 0755))
	require.NoError(t, os.WriteFile(env.scratch, []byte("not a directory"), 0644))

	tr := testutil.NewMockTranscriber()
	_, err := env.pipeline(tr, document.NewWriter()).Run(context.Background(), helloUpload(t))
	assert.ErrorIs(t, err, apperrors.ErrDirectoryFailed)
	assert.Empty(t, tr.Calls())
}

func TestRun_EmptyUpload(t *testing.T) {
	env := newEnv(t)
	tr := testutil.NewMockTranscriber()

	_, err := env.pipeline(tr, document.NewWriter()).Run(context.Background(), audio.Upload{Filename: "a.wav", Format: audio.FormatWAV})
	assert.ErrorIs(t, err, apperrors.ErrEmptyUpload)
	assert.Empty(t, tr.Calls())
}

func TestRun_ObserverOrder(t *testing.T) {
	env := newEnv(t)
	p := env.pipeline(testutil.NewMockTranscriber(), document.NewWriter())

	var states []pipeline.State
	ids := map[string]bool{}
	out, err := p.RunObserved(context.Background(), helloUpload(t), func(id string, s pipeline.State) {
		ids[id] = true
		states = append(states, s)
	})
	require.NoError(t, err)

	assert.Equal(t, pipeline.States, states)
	assert.Equal(t, map[string]bool{out.RunID: true}, ids)
}

func TestRun_FailureObserverSkipsToCleanup(t *testing.T) {
	env := newEnv(t)
	p := env.pipeline(testutil.NewMockTranscriber(), failingWriter{})

	var states []pipeline.State
	_, err := p.RunObserved(context.Background(), helloUpload(t), func(_ string, s pipeline.State) {
		states = append(states, s)
	})
	require.Error(t, err)
	assert.Equal(t, []pipeline.State{
		pipeline.StateIdle,
		pipeline.StateStaged,
		pipeline.StateTranscribed,
		pipeline.StateCleanedUp,
	}, states)
}

func TestRun_TranscriptionFailuresRenderedByDefault(t *testing.T) {
	tests := []struct {
		name     string
		result   *api.Result
		expected string
	}{
		{name: "no speech", result: api.NoSpeech(), expected: "Error: Could not understand the audio."},
		{name: "service error", result: api.ServiceError("quota exceeded"), expected: "Error: quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			tr := testutil.NewMockTranscriber().WithDefaultResult(tt.result)

			out, err := env.pipeline(tr, document.NewWriter()).Run(context.Background(), helloUpload(t))
			require.NoError(t, err)

			assert.Equal(t, tt.result.Kind, out.Transcript.Kind)
			assert.Equal(t, tt.expected, out.Transcript.String())
			assert.Equal(t, 1, out.Paragraphs)
			assert.FileExists(t, out.PDFPath)
		})
	}
}

func TestRun_FailOnTranscriptionErrorWritesNothing(t *testing.T) {
	env := newEnv(t)
	env.cfg.FailOnTranscriptionError = true
	tr := testutil.NewMockTranscriber().NoSpeech()

	_, err := env.pipeline(tr, document.NewWriter()).Run(context.Background(), helloUpload(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
	assert.Contains(t, err.Error(), api.NoSpeechText)
	assert.NoDirExists(t, env.output)
}

func TestRun_LocalTranscriberErrorIsNotAServiceFailure(t *testing.T) {
	env := newEnv(t)
	tr := testutil.NewMockTranscriber().WithDefaultError(apperrors.Mark(os.ErrPermission, apperrors.ErrFileReadFailed))

	_, err := env.pipeline(tr, document.NewWriter()).Run(context.Background(), helloUpload(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFileReadFailed)
	assert.NotErrorIs(t, err, apperrors.ErrTranscriptionFailed)
}

func TestRun_DeadlineExceededIsATranscriptionFailure(t *testing.T) {
	env := newEnv(t)
	tr := testutil.NewMockTranscriber().WithDefaultLatency(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := env.pipeline(tr, document.NewWriter()).Run(ctx, helloUpload(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
}

func TestRun_Cancelled(t *testing.T) {
	env := newEnv(t)
	tr := testutil.NewMockTranscriber().WithDefaultLatency(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.pipeline(tr, document.NewWriter()).Run(ctx, helloUpload(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
	entries, _ := os.ReadDir(env.scratch)
	assert.Empty(t, entries)
}

func TestRun_IsolatedRunsUseDistinctPaths(t *testing.T) {
	env := newEnv(t)
	p := env.pipeline(testutil.NewMockTranscriber(), document.NewWriter())

	first, err := p.Run(context.Background(), helloUpload(t))
	require.NoError(t, err)
	second, err := p.Run(context.Background(), helloUpload(t))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.NotEqual(t, first.PDFPath, second.PDFPath)
	assert.FileExists(t, first.PDFPath)
	assert.FileExists(t, second.PDFPath)

	// the scratch root survives, run directories do not
	entries, err := os.ReadDir(env.scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_SharedPathsSecondRunOverwritesFirst(t *testing.T) {
	env := newEnv(t)
	env.cfg.IsolateRuns = false
	tr := testutil.NewMockTranscriber().
		SetResultForFile("first.wav", api.Success("first run")).
		SetResultForFile("second.wav", api.Success("second run\nwith two lines"))
	p := env.pipeline(tr, document.NewWriter())

	wav := testutil.WAVBytes(8000, 100, 220)
	first, err := p.Run(context.Background(), bytesUpload(t, "first.wav", wav))
	require.NoError(t, err)
	second, err := p.Run(context.Background(), bytesUpload(t, "second.wav", wav))
	require.NoError(t, err)

	shared := filepath.Join(env.output, "transcription.pdf")
	assert.Equal(t, shared, first.PDFPath)
	assert.Equal(t, shared, second.PDFPath)

	onDisk, err := os.ReadFile(shared)
	require.NoError(t, err)
	secondPayload, err := download.Decode(second.DownloadLink)
	require.NoError(t, err)
	firstPayload, err := download.Decode(first.DownloadLink)
	require.NoError(t, err)

	assert.Equal(t, secondPayload, onDisk)
	assert.NotEqual(t, firstPayload, onDisk)
	assert.Equal(t, 2, second.Paragraphs)

	// an emptied shared scratch root is removed
	assert.NoDirExists(t, env.scratch)
}

func TestRun_SharedScratchKeepsForeignFiles(t *testing.T) {
	root := t.TempDir()
	unrelated := filepath.Join(root, "unrelated.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep me"), 0644))

	cfg := pipeline.Config{
		ScratchRoot: root,
		OutputRoot:  filepath.Join(root, "output_pdf"),
		OutputName:  "transcription.pdf",
	}
	p := pipeline.New(cfg, audio.NewStager(root), testutil.NewMockTranscriber(), document.NewWriter(), nil, nil)

	out, err := p.Run(context.Background(), helloUpload(t))
	require.NoError(t, err)

	assert.FileExists(t, out.PDFPath)
	assert.FileExists(t, unrelated)
	assert.NoFileExists(t, filepath.Join(root, "hello.wav"))
	assert.DirExists(t, root)
}

func TestRun_SharedScratchRemovesPartialStage(t *testing.T) {
	env := newEnv(t)
	env.cfg.IsolateRuns = false

	upload := audio.Upload{Filename: "broken.wav", Format: audio.FormatWAV, Data: &failingReader{}}
	_, err := env.pipeline(testutil.NewMockTranscriber(), document.NewWriter()).Run(context.Background(), upload)
	assert.ErrorIs(t, err, apperrors.ErrFileWriteFailed)
	assert.NoFileExists(t, filepath.Join(env.scratch, "broken.wav"))
	assert.NoDirExists(t, env.scratch)
}

func TestRun_SharedPathsOverlappingRuns(t *testing.T) {
	env := newEnv(t)
	env.cfg.IsolateRuns = false

	var p *pipeline.Pipeline
	var inner *pipeline.Output
	calls := 0
	tr := transcriberFunc(func(ctx context.Context, path string) (*api.Result, error) {
		calls++
		if calls > 1 {
			return api.Success("inner"), nil
		}

		// a second run starts and finishes while the first is still transcribing
		out, err := p.Run(ctx, bytesUpload(t, "b.wav", testutil.WAVBytes(8000, 50, 330)))
		require.NoError(t, err)
		inner = out

		assert.FileExists(t, path, "inner run's cleanup only removes its own staged file")
		return api.Success("outer"), nil
	})
	p = env.pipeline(tr, document.NewWriter())

	outer, err := p.Run(context.Background(), bytesUpload(t, "a.wav", testutil.WAVBytes(8000, 50, 220)))
	require.NoError(t, err)
	require.NotNil(t, inner)

	assert.Equal(t, inner.PDFPath, outer.PDFPath)
	onDisk, err := os.ReadFile(outer.PDFPath)
	require.NoError(t, err)
	outerPayload, err := download.Decode(outer.DownloadLink)
	require.NoError(t, err)
	assert.Equal(t, outerPayload, onDisk, "the run that writes last wins")
}

func TestRun_TranscriberExpectations(t *testing.T) {
	env := newEnv(t)
	tr := testutil.NewMockTranscriber()
	tr.On("Transcript", mock.Anything, mock.MatchedBy(func(path string) bool {
		return filepath.Base(path) == "hello.wav"
	})).Return(api.Success("first line\nsecond line"), nil).Once()

	out, err := env.pipeline(tr, document.NewWriter()).Run(context.Background(), helloUpload(t))
	require.NoError(t, err)

	tr.AssertExpectations(t)
	assert.Equal(t, 2, out.Paragraphs)
	require.Len(t, tr.Calls(), 1)
	assert.Equal(t, "first line\nsecond line", tr.Calls()[0].Result.Text)
}

func TestRun_WarnsAboutUnrenderableCharacters(t *testing.T) {
	env := newEnv(t)
	core, logs := observer.New(zap.WarnLevel)
	tr := testutil.NewMockTranscriber().WithDefaultResult(api.Success("Привет 你好"))
	p := pipeline.New(env.cfg, audio.NewStager(env.scratch), tr, document.NewWriter(), zap.New(core), nil)

	out, err := p.Run(context.Background(), helloUpload(t))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Paragraphs)

	entries := logs.FilterMessageSnippet("cannot render").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["count"])
	assert.Equal(t, "你好", entries[0].ContextMap()["sample"])
}

func TestRun_Metrics(t *testing.T) {
	env := newEnv(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	tr := testutil.NewMockTranscriber().
		SetResultForFile("quiet.wav", api.NoSpeech()).
		SetErrorForFile("broken.wav", apperrors.ErrFileReadFailed)
	p := pipeline.New(env.cfg, audio.NewStager(env.scratch), tr, document.NewWriter(), nil, m)

	wav := testutil.WAVBytes(8000, 50, 220)
	_, err := p.Run(context.Background(), bytesUpload(t, "speech.wav", wav))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), bytesUpload(t, "quiet.wav", wav))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), bytesUpload(t, "broken.wav", wav))
	require.Error(t, err)

	assert.Equal(t, 3.0, promtestutil.ToFloat64(m.RunsStarted))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(m.ActiveRuns))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RunsCompleted.WithLabelValues("success")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RunsCompleted.WithLabelValues("no_speech")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RunsCompleted.WithLabelValues("failed")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.TranscriptionOutcomes.WithLabelValues("unknown", "success")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.TranscriptionOutcomes.WithLabelValues("unknown", "no_speech")))
}

func TestRun_LogsRunLifecycle(t *testing.T) {
	env := newEnv(t)
	core, logs := observer.New(zap.InfoLevel)
	p := pipeline.New(env.cfg, audio.NewStager(env.scratch), testutil.NewMockTranscriber().NoSpeech(), document.NewWriter(), zap.New(core), nil)

	out, err := p.Run(context.Background(), helloUpload(t))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("run started").Len())
	assert.Equal(t, 1, logs.FilterMessage("transcription produced no text").Len())

	completed := logs.FilterMessage("run completed").All()
	require.Len(t, completed, 1)
	fields := completed[0].ContextMap()
	assert.Equal(t, out.RunID, fields["run_id"])
	assert.Equal(t, "no_speech", fields["outcome"])
}

func TestOutputPath(t *testing.T) {
	env := newEnv(t)
	id := "3f2c1a8e-9a5b-4c7d-8e6f-0a1b2c3d4e5f"

	isolated := env.pipeline(testutil.NewMockTranscriber(), document.NewWriter())
	path, err := isolated.OutputPath(id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.output, id, "transcription.pdf"), path)

	_, err = isolated.OutputPath("../../etc/passwd")
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	env.cfg.IsolateRuns = false
	shared := env.pipeline(testutil.NewMockTranscriber(), document.NewWriter())
	path, err = shared.OutputPath(id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.output, "transcription.pdf"), path)
}
