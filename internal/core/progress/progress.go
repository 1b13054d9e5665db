package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress renders a single transfer bar. Downloads here run one at a
// time, so there is no bar group to coordinate.
type Progress struct {
	container *mpb.Progress
}

// WithOutput sets the output for the progress container.
func WithOutput(w io.Writer) func() mpb.ContainerOption {
	return func() mpb.ContainerOption {
		return mpb.WithOutput(w)
	}
}

// WithRefreshRate sets the refresh rate for the progress container.
func WithRefreshRate(refreshRate time.Duration) func() mpb.ContainerOption {
	return func() mpb.ContainerOption {
		return mpb.WithRefreshRate(refreshRate)
	}
}

// NewProgress creates a new progress container.
func NewProgress(opts ...func() mpb.ContainerOption) *Progress {
	containerOpts := DefaultContainerOptions()
	for _, opt := range opts {
		containerOpts = append(containerOpts, opt())
	}
	return &Progress{
		container: mpb.New(containerOpts...),
	}
}

// DefaultContainerOptions returns the default container options for the progress container.
func DefaultContainerOptions() []mpb.ContainerOption {
	return []mpb.ContainerOption{
		mpb.WithOutput(os.Stderr),
		mpb.WithRefreshRate(150 * time.Millisecond),
	}
}

// DefaultBarOptions returns the default bar options for a transfer bar.
func DefaultBarOptions(description string) []mpb.BarOption {
	return []mpb.BarOption{
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Spinner(spinner, decor.WCSyncSpaceR),
			decor.Name(description, decor.WCSyncSpaceR),
			decor.CountersKibiByte("%.2f/%.2f", decor.WCSyncSpace),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.EwmaSpeed(decor.SizeB1024(0), "%.2f", 30, decor.WCSyncSpace),
			decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncSpace),
		),
	}
}

// AddBar starts a bar for one transfer of the given total size.
func (p *Progress) AddBar(description string, size int64) *Bar {
	return &Bar{
		bar:  p.container.AddBar(size, DefaultBarOptions(description)...),
		last: time.Now(),
	}
}

// Wait blocks until all bars have completed or aborted.
func (p *Progress) Wait() {
	p.container.Wait()
}

// Bar tracks one transfer. Increment timing feeds the EWMA decorators.
type Bar struct {
	mu   sync.Mutex
	bar  *mpb.Bar
	last time.Time
}

// Inc advances the bar by n bytes.
func (b *Bar) Inc(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	b.bar.EwmaIncrInt64(n, now.Sub(b.last))
	b.last = now
}

// Done marks the bar complete regardless of the advertised total.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bar.SetTotal(-1, true)
}

// Abort removes the bar without completing it.
func (b *Bar) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bar.Abort(true)
}
