package device

import (
	"context"
	"io"
	"net/http"
)

const (
	pathOTAUpdate = "/ota_update"
	pathReboot    = "/reboot"
)

// OTAUpdate asks the station to check for a firmware update and returns its status message
func (c *Client) OTAUpdate(ctx context.Context) (string, error) {
	return c.getText(ctx, pathOTAUpdate)
}

// Reboot restarts the station. The reply is discarded; the station often drops the
// connection before answering.
func (c *Client) Reboot(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, pathReboot, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
