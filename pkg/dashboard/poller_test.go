package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sguter90/awspanel/pkg/device"
	"github.com/sguter90/awspanel/pkg/device/devicetest"
	"github.com/sguter90/awspanel/pkg/models"
)

// MockSource implements TelemetrySource for testing
type MockSource struct {
	mu        sync.Mutex
	fetchFunc func(ctx context.Context) (models.Telemetry, error)
	callCount int
	contexts  []context.Context
}

func (m *MockSource) GetStationData(ctx context.Context) (models.Telemetry, error) {
	m.mu.Lock()
	m.callCount++
	m.contexts = append(m.contexts, ctx)
	fn := m.fetchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return models.Telemetry{}, nil
}

func (m *MockSource) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockSource) liveContexts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := 0
	for _, ctx := range m.contexts {
		if ctx.Err() == nil {
			live++
		}
	}
	return live
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestPoller_ArmPollsImmediately(t *testing.T) {
	source := &MockSource{}
	p := NewPoller(source, NewView(), WithInterval(time.Hour), WithLogger(quietLogger()))
	defer p.Close()

	if p.Armed() {
		t.Fatal("Expected new poller to be stopped")
	}

	p.Arm()
	if !p.Armed() {
		t.Fatal("Expected poller to be armed")
	}
	waitFor(t, "first poll", func() bool { return source.calls() == 1 })

	p.Disarm()
	if p.Armed() {
		t.Error("Expected poller to be disarmed")
	}
}

func TestPoller_Interval(t *testing.T) {
	source := &MockSource{}
	p := NewPoller(source, NewView(), WithInterval(10*time.Millisecond), WithLogger(quietLogger()))

	p.Arm()
	waitFor(t, "repeated polls", func() bool { return source.calls() >= 3 })
	p.Disarm()

	calls := source.calls()
	time.Sleep(50 * time.Millisecond)
	if source.calls() != calls {
		t.Errorf("Expected no polls after disarm, got %d more", source.calls()-calls)
	}
}

func TestPoller_RearmKeepsSingleLoop(t *testing.T) {
	source := &MockSource{
		fetchFunc: func(ctx context.Context) (models.Telemetry, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	p := NewPoller(source, NewView(), WithInterval(time.Hour), WithLogger(quietLogger()))
	defer p.Close()

	for i := 1; i <= 3; i++ {
		p.Arm()
		waitFor(t, "poll of the new loop", func() bool { return source.calls() == i })
		if live := source.liveContexts(); live != 1 {
			t.Fatalf("After %d arms expected 1 live poll, got %d", i, live)
		}
	}

	p.Disarm()
	if live := source.liveContexts(); live != 0 {
		t.Errorf("Expected no live poll after disarm, got %d", live)
	}
}

func TestPoller_DiscardsLateResponse(t *testing.T) {
	release := make(chan struct{})
	source := &MockSource{
		fetchFunc: func(ctx context.Context) (models.Telemetry, error) {
			<-release
			return models.Telemetry{models.TelemetryTemperature: json.Number("20")}, nil
		},
	}
	view := NewView()
	hooked := 0
	p := NewPoller(source, view, WithInterval(time.Hour), WithLogger(quietLogger()),
		WithSnapshotHook(func(models.Telemetry) { hooked++ }))

	p.Arm()
	waitFor(t, "poll in flight", func() bool { return source.calls() == 1 })

	disarmed := make(chan struct{})
	go func() {
		p.Disarm()
		close(disarmed)
	}()
	waitFor(t, "disarm", func() bool { return !p.Armed() })

	close(release)
	<-disarmed

	if _, ok := view.Output("temperature"); ok {
		t.Error("Expected late response not to be rendered")
	}
	if hooked != 0 {
		t.Error("Expected hook not to run for a late response")
	}
}

func TestPoller_StationNotReady(t *testing.T) {
	station := devicetest.NewStation()
	defer station.Close()
	station.SetTelemetry(map[string]any{models.TelemetryTemperature: 20.5})

	view := NewView()
	p := NewPoller(device.NewClient(station.URL()), view, WithInterval(20*time.Millisecond), WithLogger(quietLogger()))
	defer p.Close()

	p.Arm()
	waitFor(t, "first render", func() bool {
		_, ok := view.Output("temperature")
		return ok
	})

	station.SetStatus("/get_station_data", http.StatusServiceUnavailable)
	calls := station.Calls("/get_station_data")
	waitFor(t, "not ready status", func() bool { return view.Status() == StatusNotReady })

	if o, _ := view.Output("temperature"); o.Text != "20.50" {
		t.Errorf("Expected previous temperature to stay, got %q", o.Text)
	}
	if !p.Armed() {
		t.Error("Expected poller to stay armed")
	}
	waitFor(t, "next tick", func() bool { return station.Calls("/get_station_data") > calls+1 })

	station.SetStatus("/get_station_data", http.StatusOK)
	station.SetTelemetry(map[string]any{models.TelemetryTemperature: 18})
	waitFor(t, "recovery", func() bool {
		o, _ := view.Output("temperature")
		return view.Status() == "" && o.Text == "18.00"
	})
}

func TestPoller_OtherErrorsKeepDisplay(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	source := &MockSource{
		fetchFunc: func(ctx context.Context) (models.Telemetry, error) {
			mu.Lock()
			defer mu.Unlock()
			if fail {
				return nil, &device.StatusError{Code: http.StatusInternalServerError}
			}
			return models.Telemetry{models.TelemetryRH: json.Number("45")}, nil
		},
	}
	view := NewView()
	p := NewPoller(source, view, WithInterval(10*time.Millisecond), WithLogger(quietLogger()))
	defer p.Close()

	p.Arm()
	waitFor(t, "first render", func() bool {
		_, ok := view.Output("rh")
		return ok
	})

	mu.Lock()
	fail = true
	mu.Unlock()
	calls := source.calls()
	waitFor(t, "failing polls", func() bool { return source.calls() > calls+2 })

	if o, _ := view.Output("rh"); o.Text != "45.00" {
		t.Errorf("Expected stale rh to persist, got %q", o.Text)
	}
	if view.Status() != "" {
		t.Errorf("Expected empty status, got %q", view.Status())
	}
}

func TestPoller_SuspendResume(t *testing.T) {
	source := &MockSource{}
	p := NewPoller(source, NewView(), WithInterval(time.Hour), WithLogger(quietLogger()))
	defer p.Close()

	if p.Suspend() {
		t.Error("Expected Suspend of a stopped poller to report false")
	}
	if p.Resume() {
		t.Error("Expected Resume without Suspend to report false")
	}

	p.Arm()
	if !p.Suspend() || p.Armed() {
		t.Fatal("Expected Suspend to stop a running poller")
	}
	if !p.Resume() || !p.Armed() {
		t.Fatal("Expected Resume to restart the poller")
	}

	p.Suspend()
	p.Disarm()
	if p.Resume() {
		t.Error("Expected Resume after Disarm to report false")
	}
	if p.Armed() {
		t.Error("Expected poller to stay stopped")
	}
}

func TestPoller_CloseIsFinal(t *testing.T) {
	source := &MockSource{}
	p := NewPoller(source, NewView(), WithInterval(time.Hour), WithLogger(quietLogger()))

	p.Arm()
	waitFor(t, "first poll", func() bool { return source.calls() == 1 })
	p.Suspend()
	p.Close()
	if !p.Closed() {
		t.Fatal("Expected Closed after Close")
	}

	if p.Resume() {
		t.Error("Expected Resume after Close to report false")
	}
	p.Arm()
	if p.Armed() {
		t.Error("Expected Arm after Close to leave the poller stopped")
	}
	time.Sleep(20 * time.Millisecond)
	if calls := source.calls(); calls != 1 {
		t.Errorf("Expected no polls after Close, got %d", calls)
	}
	p.Close()
}

func TestPoller_SnapshotHook(t *testing.T) {
	source := &MockSource{
		fetchFunc: func(ctx context.Context) (models.Telemetry, error) {
			return models.Telemetry{models.TelemetryUptime: json.Number("5")}, nil
		},
	}
	got := make(chan models.Telemetry, 1)
	p := NewPoller(source, NewView(), WithInterval(time.Hour), WithLogger(quietLogger()),
		WithSnapshotHook(func(s models.Telemetry) {
			select {
			case got <- s:
			default:
			}
		}))
	defer p.Close()

	p.Arm()
	select {
	case s := <-got:
		if v, _ := s.Int(models.TelemetryUptime); v != 5 {
			t.Errorf("Unexpected snapshot %v", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected hook to be called")
	}
}

func TestPoller_ErrorsAreValues(t *testing.T) {
	err := &device.StatusError{Code: http.StatusServiceUnavailable}
	if !errors.Is(err, device.ErrStationNotReady) {
		t.Fatal("Expected 503 to match ErrStationNotReady")
	}
}
