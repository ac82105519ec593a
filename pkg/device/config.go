package device

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sguter90/awspanel/pkg/models"
)

const (
	pathGetConfig = "/get_config"
	pathGetRootCA = "/get_root_ca"
	pathSetConfig = "/set_config"
)

// GetConfig retrieves the station configuration record
func (c *Client) GetConfig(ctx context.Context) (models.ConfigRecord, error) {
	var record models.ConfigRecord
	if err := c.getJSON(ctx, pathGetConfig, &record); err != nil {
		return nil, err
	}
	if record == nil {
		record = models.ConfigRecord{}
	}
	return record, nil
}

// GetRootCA retrieves the root certificate used by the station for TLS
func (c *Client) GetRootCA(ctx context.Context) (string, error) {
	return c.getText(ctx, pathGetRootCA)
}

// SetConfig replaces the station configuration. The reply body is not interpreted.
func (c *Client) SetConfig(ctx context.Context, record map[string]any) error {
	if record == nil {
		return fmt.Errorf("config record is nil")
	}

	resp, err := c.doRequest(ctx, http.MethodPost, pathSetConfig, record)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
