package device

import (
	"context"
	"strings"

	"github.com/sguter90/awspanel/pkg/models"
)

const (
	pathStationData     = "/get_station_data"
	pathUptime          = "/get_uptime"
	pathActivateSensors = "/activate_sensors"
)

// GetStationData retrieves one telemetry snapshot.
// A station that is still starting answers 503, reported as ErrStationNotReady.
func (c *Client) GetStationData(ctx context.Context) (models.Telemetry, error) {
	var snapshot models.Telemetry
	if err := c.getJSON(ctx, pathStationData, &snapshot); err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = models.Telemetry{}
	}
	return snapshot, nil
}

// GetUptime retrieves the uptime as formatted by the station, e.g. "001d:02h:03m:04s"
func (c *Client) GetUptime(ctx context.Context) (string, error) {
	s, err := c.getText(ctx, pathUptime)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// ActivateSensors asks the station to probe its sensors again
func (c *Client) ActivateSensors(ctx context.Context) (string, error) {
	s, err := c.getText(ctx, pathActivateSensors)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
