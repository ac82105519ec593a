package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sguter90/awspanel/pkg/dashboard"
	"github.com/sguter90/awspanel/pkg/mqtt"
	"github.com/sguter90/awspanel/pkg/session"
	"github.com/sguter90/awspanel/pkg/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web panel",
	Long:  `Serve the station control panel on the local network. Every browser gets its own session.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newSessionFactory builds sessions that talk to the configured station
func newSessionFactory(app *App, hooks ...dashboard.SnapshotHook) SessionFactory {
	return func() *session.Session {
		return session.New(app.Station, session.Options{
			Capabilities:  app.Capabilities(),
			PollInterval:  app.Config.Device.PollInterval,
			SettleDelay:   app.Config.Device.OTASettleDelay,
			Logger:        app.Logger,
			SnapshotHooks: hooks,
		})
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)

	if err := webui.LoadTemplates(); err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	var hooks []dashboard.SnapshotHook
	var bridge *mqtt.Bridge
	if app.Config.MQTT.Enabled {
		client := mqtt.NewClient(app.Config.MQTT, app.Logger)
		if err := client.Connect(cmd.Context()); err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		defer client.Disconnect()

		bridge = mqtt.NewBridge(client, app.Config.MQTT.StationID, app.Logger)
		hooks = append(hooks, bridge.Hook())
		app.Logger.Info("✓ MQTT bridge enabled", "topic", mqtt.Topic(app.Config.MQTT.StationID))
	}

	sessions := NewSessionRegistry(newSessionFactory(app, hooks...), app.Config.Server.SessionIdleTimeout, app.Logger)
	sessions.Start(time.Minute)

	routeManager := NewRouteManager(app, sessions)
	routeManager.Setup()

	addr := ":" + strconv.Itoa(app.Config.Server.Port)
	server := &http.Server{
		Handler:     routeManager.Router,
		Addr:        addr,
		ReadTimeout: 5 * time.Second,
		// OTA requests wait for the settle delay and the station
		WriteTimeout: app.Config.Device.OTASettleDelay + app.Config.Device.RequestTimeout + 5*time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		app.Logger.Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			app.Logger.Error("server shutdown error", "error", err)
		}
	}()

	app.Logger.Info("Starting awspanel web panel", "addr", addr, "device", app.Config.Device.URL)
	err := server.ListenAndServe()

	// pollers feed the bridge hook, so they stop first
	sessions.Stop()
	if bridge != nil {
		bridge.Close()
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
