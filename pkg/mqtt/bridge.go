package mqtt

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sguter90/awspanel/pkg/dashboard"
	"github.com/sguter90/awspanel/pkg/models"
)

// Payload is the telemetry message published per snapshot
type Payload struct {
	StationID   string         `json:"station_id"`
	Timestamp   time.Time      `json:"timestamp"`
	Temperature *float64       `json:"temperature_c,omitempty"`
	Humidity    *float64       `json:"humidity_pct,omitempty"`
	Pressure    *float64       `json:"pressure_hpa,omitempty"`
	Battery     *float64       `json:"battery_pct,omitempty"`
	Uptime      *int64         `json:"uptime_s,omitempty"`
	Sensors     []string       `json:"sensors"`
	Telemetry   map[string]any `json:"telemetry"`
}

// Publisher sends a payload to a topic
type Publisher interface {
	Publish(topic string, payload any) error
}

// Topic returns the telemetry topic of a station
func Topic(stationID string) string {
	return fmt.Sprintf("stations/%s/telemetry", stationID)
}

// NewPayload builds the message for one snapshot. The station NTP time is used when
// present, now otherwise.
func NewPayload(stationID string, t models.Telemetry, now time.Time) Payload {
	p := Payload{
		StationID: stationID,
		Timestamp: now.UTC(),
		Sensors:   []string{},
		Telemetry: map[string]any(t),
	}
	if ts, ok := t.Time(models.TelemetryNTPTimeSec, models.TelemetryNTPTimeUsec); ok && ts.Unix() > 0 {
		p.Timestamp = ts
	}

	p.Temperature = floatPtr(t, models.TelemetryTemperature)
	p.Humidity = floatPtr(t, models.TelemetryRH)
	p.Pressure = floatPtr(t, models.TelemetryPressure)
	p.Battery = floatPtr(t, models.TelemetryBatteryLevel)
	if v, ok := t.Int(models.TelemetryUptime); ok {
		p.Uptime = &v
	}

	mask := t.Sensors()
	for _, name := range models.IndicatorOrder {
		if info, _ := models.GetIndicatorInfo(name); mask.Has(info.Sensor) {
			p.Sensors = append(p.Sensors, name)
		}
	}
	return p
}

func floatPtr(t models.Telemetry, key string) *float64 {
	if v, ok := t.Float(key); ok {
		return &v
	}
	return nil
}

// Bridge publishes snapshots from a background goroutine so the poller never waits on
// the broker. Snapshots arriving while the queue is full are dropped.
type Bridge struct {
	publisher Publisher
	stationID string
	logger    *slog.Logger
	now       func() time.Time

	queue chan models.Telemetry
	done  chan struct{}
	once  sync.Once

	mu        sync.Mutex
	published int
	dropped   int
}

// NewBridge starts a bridge publishing for stationID
func NewBridge(publisher Publisher, stationID string, logger *slog.Logger) *Bridge {
	b := &Bridge{
		publisher: publisher,
		stationID: stationID,
		logger:    logger,
		now:       time.Now,
		queue:     make(chan models.Telemetry, 8),
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

// Hook returns the snapshot hook to register on a dashboard poller
func (b *Bridge) Hook() dashboard.SnapshotHook {
	return func(t models.Telemetry) {
		select {
		case b.queue <- t:
		default:
			b.mu.Lock()
			b.dropped++
			b.mu.Unlock()
			b.logger.Warn("mqtt queue full, dropping snapshot")
		}
	}
}

func (b *Bridge) run() {
	defer close(b.done)
	topic := Topic(b.stationID)

	for t := range b.queue {
		if err := b.publisher.Publish(topic, NewPayload(b.stationID, t, b.now())); err != nil {
			b.logger.Warn("failed to publish telemetry", "topic", topic, "error", err)
			continue
		}
		b.mu.Lock()
		b.published++
		b.mu.Unlock()
	}
}

// Stats returns how many snapshots were published and dropped
func (b *Bridge) Stats() (published, dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published, b.dropped
}

// Close drains the queue and stops the bridge. The hook must not be called afterwards.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.queue) })
	<-b.done
}
