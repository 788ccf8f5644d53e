package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"audio2pdf/internal/app/api"
)

// MockTranscriber is a configurable api.Transcriber.
// Responses are keyed by the base name of the staged file, because staged
// paths contain a per-run directory.
type MockTranscriber struct {
	mock.Mock
	mu sync.RWMutex

	DefaultLatency time.Duration
	DefaultResult  *api.Result
	DefaultError   error

	CallHistory []TranscriptionCall
	ResultMap   map[string]*api.Result
	ErrorMap    map[string]error
	LatencyMap  map[string]time.Duration

	// OnTranscript runs before the result is returned, while the staged file still exists.
	OnTranscript func(inputFilePath string)
}

// TranscriptionCall represents a single transcription call for tracking
type TranscriptionCall struct {
	InputFilePath string
	Content       []byte
	Timestamp     time.Time
	Result        *api.Result
	Error         error
}

// NewMockTranscriber creates a MockTranscriber that answers "hello world".
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResult: api.Success("hello world"),
		ResultMap:     make(map[string]*api.Result),
		ErrorMap:      make(map[string]error),
		LatencyMap:    make(map[string]time.Duration),
	}
}

// Transcript implements the api.Transcriber interface
func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (*api.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := filepath.Base(inputFilePath)
	call := TranscriptionCall{InputFilePath: inputFilePath, Timestamp: time.Now()}
	call.Content, _ = os.ReadFile(inputFilePath)

	if m.OnTranscript != nil {
		m.OnTranscript(inputFilePath)
	}

	latency := m.DefaultLatency
	if l, ok := m.LatencyMap[name]; ok {
		latency = l
	}
	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			call.Error = ctx.Err()
			m.CallHistory = append(m.CallHistory, call)
			return nil, ctx.Err()
		}
	}

	if len(m.ExpectedCalls) > 0 {
		args := m.Called(ctx, inputFilePath)
		call.Error = args.Error(1)
		if r, ok := args.Get(0).(*api.Result); ok {
			call.Result = r
		}
		m.CallHistory = append(m.CallHistory, call)
		return call.Result, call.Error
	}

	switch {
	case m.ErrorMap[name] != nil:
		call.Error = m.ErrorMap[name]
	case m.DefaultError != nil:
		call.Error = m.DefaultError
	case m.ResultMap[name] != nil:
		call.Result = m.ResultMap[name]
	default:
		call.Result = m.DefaultResult
	}

	m.CallHistory = append(m.CallHistory, call)
	return call.Result, call.Error
}

// WithDefaultResult sets the result returned for files without an entry in ResultMap
func (m *MockTranscriber) WithDefaultResult(result *api.Result) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultResult = result
	return m
}

// WithDefaultError makes every call fail locally
func (m *MockTranscriber) WithDefaultError(err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultError = err
	return m
}

// WithDefaultLatency sets the default processing latency
func (m *MockTranscriber) WithDefaultLatency(latency time.Duration) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultLatency = latency
	return m
}

// SetResultForFile sets the result for a staged file name
func (m *MockTranscriber) SetResultForFile(name string, result *api.Result) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultMap[name] = result
	return m
}

// SetErrorForFile sets a local error for a staged file name
func (m *MockTranscriber) SetErrorForFile(name string, err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[name] = err
	return m
}

// SetLatencyForFile sets a specific latency for a staged file name
func (m *MockTranscriber) SetLatencyForFile(name string, latency time.Duration) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LatencyMap[name] = latency
	return m
}

// Calls returns a copy of the call history
func (m *MockTranscriber) Calls() []TranscriptionCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]TranscriptionCall, len(m.CallHistory))
	copy(history, m.CallHistory)
	return history
}

// Common Error Scenarios

// NoSpeech configures every call to return the no-speech result
func (m *MockTranscriber) NoSpeech() *MockTranscriber {
	return m.WithDefaultResult(api.NoSpeech())
}

// ServiceDown configures every call to return a service error
func (m *MockTranscriber) ServiceDown(message string) *MockTranscriber {
	return m.WithDefaultResult(api.ServiceError(message))
}
