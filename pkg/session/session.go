// Package session ties the panel switcher, form, dashboard and sync client of one operator together.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sguter90/awspanel/pkg/configsync"
	"github.com/sguter90/awspanel/pkg/dashboard"
	"github.com/sguter90/awspanel/pkg/form"
	"github.com/sguter90/awspanel/pkg/models"
	"github.com/sguter90/awspanel/pkg/panel"
)

// ErrClosed is returned when a closed session is asked to switch panels
var ErrClosed = errors.New("session closed")

// Station is the device API a session needs
type Station interface {
	configsync.Station
	dashboard.TelemetrySource
}

// Options configures a session
type Options struct {
	Capabilities  form.Capabilities
	PollInterval  time.Duration
	SettleDelay   time.Duration
	Logger        *slog.Logger
	SnapshotHooks []dashboard.SnapshotHook
}

// Session is the state of one operator's control panel
type Session struct {
	switcher *panel.Switcher
	form     *form.StationForm
	view     *dashboard.View
	poller   *dashboard.Poller
	sync     *configsync.Client
	logger   *slog.Logger

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
}

// New creates a session showing the general panel. Call Load to fetch the configuration.
func New(station Station, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	view := dashboard.NewView()
	pollerOpts := []dashboard.PollerOption{
		dashboard.WithInterval(opts.PollInterval),
		dashboard.WithLogger(logger),
	}
	for _, h := range opts.SnapshotHooks {
		pollerOpts = append(pollerOpts, dashboard.WithSnapshotHook(h))
	}
	poller := dashboard.NewPoller(station, view, pollerOpts...)

	sf := form.NewStationForm(opts.Capabilities)
	syncOpts := []configsync.Option{
		configsync.WithPoller(poller),
		configsync.WithMessageSink(view),
		configsync.WithLogger(logger),
	}
	if opts.SettleDelay > 0 {
		syncOpts = append(syncOpts, configsync.WithSettleDelay(opts.SettleDelay))
	}

	// the panel set is fixed and general is part of it
	switcher, _ := panel.NewSwitcher(models.Panels, models.PanelGeneral)

	s := &Session{
		switcher: switcher,
		form:     sf,
		view:     view,
		poller:   poller,
		sync:     configsync.New(station, sf, syncOpts...),
		logger:   logger,
		lastSeen: time.Now(),
	}
	switcher.OnChange(s.couplePoller)
	return s
}

// couplePoller keeps the poller armed exactly while the dashboard is shown
func (s *Session) couplePoller(prev, next models.PanelID) {
	if s.Closed() {
		return
	}
	if next == models.PanelDashboard {
		s.poller.Arm()
		return
	}
	if prev == models.PanelDashboard || s.poller.Armed() {
		s.poller.Disarm()
	}
}

// Activate switches panels. Entering the general panel reloads the configuration;
// load failures are logged and leave the form as it was.
func (s *Session) Activate(ctx context.Context, id models.PanelID) error {
	if s.Closed() {
		return ErrClosed
	}
	s.Touch()
	if err := s.switcher.Activate(id); err != nil {
		return err
	}
	if id == models.PanelGeneral {
		_ = s.sync.Load(ctx)
	}
	return nil
}

// Load fetches the configuration into the form
func (s *Session) Load(ctx context.Context) error {
	s.Touch()
	return s.sync.Load(ctx)
}

// Edit writes operator input posted for one form section
func (s *Session) Edit(section string, values map[string]any) error {
	s.Touch()
	return s.form.Edit(section, values)
}

// Submit sends the form to the station
func (s *Session) Submit(ctx context.Context) error {
	s.Touch()
	return s.sync.Submit(ctx)
}

// TriggerUpdate asks the station to check for a firmware update
func (s *Session) TriggerUpdate(ctx context.Context) (string, error) {
	s.Touch()
	return s.sync.TriggerUpdate(ctx)
}

// TriggerReboot restarts the station
func (s *Session) TriggerReboot(ctx context.Context) {
	s.Touch()
	s.sync.TriggerReboot(ctx)
}

func (s *Session) Switcher() *panel.Switcher   { return s.switcher }
func (s *Session) Form() *form.StationForm     { return s.form }
func (s *Session) View() *dashboard.View       { return s.view }
func (s *Session) Poller() *dashboard.Poller   { return s.poller }
func (s *Session) ActivePanel() models.PanelID { return s.switcher.Active() }

// Touch records operator activity
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// LastSeen returns the time of the last operator activity
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops the poller for good. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.poller.Close()
}
