package pipeline

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

type ProgressManager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

// ProgressBar follows a single run. The zero value is a disabled bar.
type ProgressBar struct {
	bar     *mpb.Bar
	enabled bool

	mu    sync.Mutex
	stage State
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)

	return &ProgressManager{
		container: container,
		enabled:   true,
	}
}

// CreateRunBar adds a bar with one step per state after idle.
func (pm *ProgressManager) CreateRunBar(description string) *ProgressBar {
	if !pm.enabled || pm.container == nil {
		return &ProgressBar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	pb := &ProgressBar{enabled: true, stage: StateIdle}
	pb.bar = pm.container.AddBar(int64(len(States)-1),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.Any(func(decor.Statistics) string {
				return string(pb.Stage())
			}, decor.WCSyncSpace),
		),
	)
	return pb
}

// Observe advances the bar; pass it to Pipeline.RunObserved.
func (pb *ProgressBar) Observe(_ string, state State) {
	if !pb.enabled || pb.bar == nil {
		return
	}
	pb.mu.Lock()
	pb.stage = state
	pb.mu.Unlock()

	if state != StateIdle {
		pb.bar.Increment()
	}
}

// Stage returns the last state observed.
func (pb *ProgressBar) Stage() State {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.stage
}

// Abort stops a bar whose run failed before reaching every state.
func (pb *ProgressBar) Abort() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Abort(false)
	}
}

func (pm *ProgressManager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr) || IsTTY(os.Stdout)
}
