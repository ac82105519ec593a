package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sguter90/awspanel/pkg/device"
	"github.com/sguter90/awspanel/pkg/models"
)

// DefaultInterval between two telemetry polls
const DefaultInterval = 10 * time.Second

// TelemetrySource fetches one telemetry snapshot
type TelemetrySource interface {
	GetStationData(ctx context.Context) (models.Telemetry, error)
}

// SnapshotHook receives every snapshot the poller renders
type SnapshotHook func(models.Telemetry)

// Poller periodically fetches telemetry into a View while armed.
// At most one poll loop runs per Poller.
type Poller struct {
	source   TelemetrySource
	view     *View
	interval time.Duration
	logger   *slog.Logger
	hooks    []SnapshotHook

	// ctl serializes Arm, Disarm, Suspend and Resume
	ctl sync.Mutex

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	suspended bool
	closed    bool
}

// PollerOption configures a Poller
type PollerOption func(*Poller)

// WithInterval sets the period between polls
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger used for failed polls
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSnapshotHook registers a hook run after each rendered snapshot
func WithSnapshotHook(h SnapshotHook) PollerOption {
	return func(p *Poller) {
		if h != nil {
			p.hooks = append(p.hooks, h)
		}
	}
}

// NewPoller creates a stopped poller rendering into view
func NewPoller(source TelemetrySource, view *View, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		view:     view,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the period between polls
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Arm stops any running loop and starts a new one. The first poll happens immediately.
// A closed poller stays stopped.
func (p *Poller) Arm() {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	p.stop()
	p.suspended = false
	if p.isClosed() {
		return
	}
	p.start()
}

// Disarm stops the loop and waits for it to exit. Responses still in flight are discarded.
func (p *Poller) Disarm() {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	p.stop()
	p.suspended = false
}

// Suspend stops a running loop so that Resume can restart it.
// It reports whether a loop was running.
func (p *Poller) Suspend() bool {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	if !p.Armed() {
		return false
	}
	p.stop()
	p.suspended = true
	return true
}

// Resume restarts a loop stopped by Suspend, unless it was disarmed or re-armed since.
// It reports whether a loop was started.
func (p *Poller) Resume() bool {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	if !p.suspended || p.isClosed() {
		p.suspended = false
		return false
	}
	p.suspended = false
	p.start()
	return true
}

// Armed reports whether a poll loop is running
func (p *Poller) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Close stops the poller for good. Arm and Resume do nothing afterwards.
func (p *Poller) Close() {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.stop()
	p.suspended = false
}

// Closed reports whether Close was called
func (p *Poller) Closed() bool {
	return p.isClosed()
}

func (p *Poller) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// start launches a loop, p.ctl must be held
func (p *Poller) start() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go p.run(ctx, gen, done)
	p.logger.Debug("dashboard poller armed", "generation", gen, "interval", p.interval)
}

// stop cancels the running loop and waits for it, p.ctl must be held
func (p *Poller) stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.gen++
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Debug("dashboard poller disarmed")
}

func (p *Poller) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Poll immediately on arm
	p.poll(ctx, gen)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, gen)
		}
	}
}

func (p *Poller) poll(ctx context.Context, gen uint64) {
	snapshot, err := p.source.GetStationData(ctx)

	p.mu.Lock()
	if p.gen != gen || ctx.Err() != nil {
		p.mu.Unlock()
		p.logger.Debug("discarding telemetry of a disarmed poller", "generation", gen)
		return
	}

	switch {
	case err == nil:
		p.view.Render(Present(snapshot))
	case errors.Is(err, device.ErrStationNotReady):
		p.view.SetStatus(StatusNotReady)
	default:
		p.logger.Warn("telemetry poll failed", "error", err)
	}
	p.mu.Unlock()

	if err != nil {
		return
	}
	for _, h := range p.hooks {
		h(snapshot)
	}
}
