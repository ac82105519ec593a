// Package configsync moves the station configuration between the device and the form.
package configsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sguter90/awspanel/pkg/device"
	"github.com/sguter90/awspanel/pkg/form"
	"github.com/sguter90/awspanel/pkg/models"
)

// DefaultSettleDelay is waited before an OTA check so it does not contend with a poll
const DefaultSettleDelay = 3 * time.Second

// Station is the part of the device API used by the sync client
type Station interface {
	GetConfig(ctx context.Context) (models.ConfigRecord, error)
	GetRootCA(ctx context.Context) (string, error)
	SetConfig(ctx context.Context, record map[string]any) error
	OTAUpdate(ctx context.Context) (string, error)
	Reboot(ctx context.Context) error
}

// PollerControl pauses the dashboard poller around an OTA check
type PollerControl interface {
	Suspend() bool
	Resume() bool
}

// MessageSink displays the outcome of an OTA check
type MessageSink interface {
	SetOTAMessage(msg string)
}

// Client loads and submits the station configuration
type Client struct {
	station     Station
	form        *form.StationForm
	poller      PollerControl
	messages    MessageSink
	settleDelay time.Duration
	logger      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithPoller sets the poller suspended during an OTA check
func WithPoller(p PollerControl) Option {
	return func(c *Client) {
		c.poller = p
	}
}

// WithMessageSink sets where OTA messages are shown
func WithMessageSink(s MessageSink) Option {
	return func(c *Client) {
		c.messages = s
	}
}

// WithSettleDelay overrides DefaultSettleDelay
func WithSettleDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

// WithLogger sets the logger for swallowed failures
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a sync client filling f
func New(station Station, f *form.StationForm, opts ...Option) *Client {
	c := &Client{
		station:     station,
		form:        f,
		settleDelay: DefaultSettleDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Form returns the form the client fills
func (c *Client) Form() *form.StationForm {
	return c.form
}

// Load retrieves the configuration and the root certificate concurrently and fills the form.
// A failed retrieval leaves its part of the form untouched.
func (c *Client) Load(ctx context.Context) error {
	configCh := device.Async(ctx, c.station.GetConfig)
	caCh := device.Async(ctx, c.station.GetRootCA)

	var errs []error

	if record, err := (<-configCh).Unwrap(); err != nil {
		c.logger.Warn("failed to load station config", "error", err)
		errs = append(errs, fmt.Errorf("load config: %w", err))
	} else if err := c.form.Fill(record); err != nil {
		c.logger.Warn("station config did not fit the form", "error", err)
		errs = append(errs, fmt.Errorf("fill config: %w", err))
	}

	if ca, err := (<-caCh).Unwrap(); err != nil {
		c.logger.Warn("failed to load root certificate", "error", err)
		errs = append(errs, fmt.Errorf("load root CA: %w", err))
	} else {
		c.form.FillRootCA(ca)
	}

	return errors.Join(errs...)
}

// Submit sends the form to the station. Only transport success is checked.
func (c *Client) Submit(ctx context.Context) error {
	body := c.form.Encode(form.ScopeConfig)
	if err := c.station.SetConfig(ctx, body); err != nil {
		c.logger.Warn("failed to submit station config", "error", err)
		return fmt.Errorf("submit config: %w", err)
	}
	c.logger.Info("station config submitted", "keys", len(body))
	return nil
}

// TriggerUpdate asks the station to check for a firmware update and returns the message
// shown to the operator. The dashboard poller is paused for the duration.
func (c *Client) TriggerUpdate(ctx context.Context) (string, error) {
	if c.poller != nil && c.poller.Suspend() {
		defer c.poller.Resume()
	}

	if c.settleDelay > 0 {
		timer := time.NewTimer(c.settleDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return c.otaResult("", ctx.Err())
		case <-timer.C:
		}
	}

	return c.otaResult(c.station.OTAUpdate(ctx))
}

func (c *Client) otaResult(msg string, err error) (string, error) {
	if err != nil {
		c.logger.Warn("OTA update check failed", "error", err)
		msg = "Error: " + err.Error()
	}
	if c.messages != nil {
		c.messages.SetOTAMessage(msg)
	}
	return msg, err
}

// TriggerReboot restarts the station. Failures are only logged.
func (c *Client) TriggerReboot(ctx context.Context) {
	if err := c.station.Reboot(ctx); err != nil {
		c.logger.Warn("reboot request failed", "error", err)
		return
	}
	c.logger.Info("station reboot requested")
}
