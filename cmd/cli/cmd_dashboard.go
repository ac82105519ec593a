package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sguter90/awspanel/pkg/dashboard"
	"github.com/sguter90/awspanel/pkg/device"
	"github.com/sguter90/awspanel/pkg/models"
	"github.com/sguter90/awspanel/pkg/mqtt"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show live station telemetry in the terminal",
	Long: `Polls the station and redraws its telemetry until interrupted. With --mqtt
every snapshot is also published to the configured broker.`,
	RunE: runDashboard,
}

var (
	dashboardOnce bool
	dashboardMQTT bool
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().BoolVar(&dashboardOnce, "once", false, "print one snapshot and exit")
	dashboardCmd.Flags().BoolVar(&dashboardMQTT, "mqtt", false, "publish snapshots to MQTT (also enabled by MQTT_ENABLED)")
}

func terminalWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0, true
	}
	return w, true
}

// fetchOnce renders a single snapshot into view
func fetchOnce(ctx context.Context, station dashboard.TelemetrySource, view *dashboard.View) error {
	t, err := station.GetStationData(ctx)
	if errors.Is(err, device.ErrStationNotReady) {
		view.SetStatus(dashboard.StatusNotReady)
		return nil
	}
	if err != nil {
		return err
	}
	view.Render(dashboard.Present(t))
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)
	view := dashboard.NewView()

	if dashboardOnce {
		if err := fetchOnce(cmd.Context(), app.Station, view); err != nil {
			return fmt.Errorf("failed to read station data: %w", err)
		}
		width, _ := terminalWidth()
		fmt.Println(renderSnapshot(view.Snapshot(), width))
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redraw := make(chan struct{}, 1)
	opts := []dashboard.PollerOption{
		dashboard.WithInterval(app.Config.Device.PollInterval),
		dashboard.WithLogger(app.Logger),
		dashboard.WithSnapshotHook(func(models.Telemetry) {
			select {
			case redraw <- struct{}{}:
			default:
			}
		}),
	}

	if dashboardMQTT || app.Config.MQTT.Enabled {
		client := mqtt.NewClient(app.Config.MQTT, app.Logger)
		if err := client.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		defer client.Disconnect()

		bridge := mqtt.NewBridge(client, app.Config.MQTT.StationID, app.Logger)
		defer func() {
			bridge.Close()
			published, dropped := bridge.Stats()
			app.Logger.Info("mqtt bridge stopped", "published", published, "dropped", dropped)
		}()
		opts = append(opts, dashboard.WithSnapshotHook(bridge.Hook()))
		fmt.Printf("✓ Publishing telemetry to %s\n", mqtt.Topic(app.Config.MQTT.StationID))
	}

	poller := dashboard.NewPoller(app.Station, view, opts...)
	poller.Arm()
	defer poller.Close()

	// status changes such as "not ready" do not run hooks, so redraw on the poll interval too
	ticker := time.NewTicker(app.Config.Device.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
		case <-ticker.C:
		}

		width, isTerm := terminalWidth()
		if isTerm {
			fmt.Print("\033[H\033[2J")
		}
		fmt.Println(renderSnapshot(view.Snapshot(), width))
	}
}
