package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sguter90/awspanel/pkg/config"
	"github.com/sguter90/awspanel/pkg/device"
	"github.com/sguter90/awspanel/pkg/form"
	"github.com/sguter90/awspanel/pkg/logging"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	deviceURL  string
)

type appKey struct{}

// App holds what every command needs once the configuration is loaded
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Station *device.Client
}

// Capabilities returns the optional hardware the form layout is built for
func (a *App) Capabilities() form.Capabilities {
	return form.Capabilities{Ethernet: a.Config.Device.Ethernet}
}

var rootCmd = &cobra.Command{
	Use:   "awspanel",
	Short: "awspanel - control panel for the AWS weather station",
	Long: `awspanel configures an AWS weather station over its local HTTP API and
shows its live telemetry, either in the terminal or as a local web panel.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: awspanel.yaml, configs/awspanel.yaml, /etc/awspanel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&deviceURL, "device", "", "station base URL, overrides AWS_DEVICE_URL")
}

func setupApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if deviceURL != "" {
		cfg.Device.URL = deviceURL
	}

	logger := logging.New(cfg, version, os.Stderr)
	slog.SetDefault(logger)
	if cfg.ConfigPath != "" {
		logger.Debug("config loaded", "path", cfg.ConfigPath)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Station: device.NewClient(cfg.Device.URL, device.WithTimeout(cfg.Device.RequestTimeout)),
	}
	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
	return nil
}

func appFrom(cmd *cobra.Command) *App {
	return cmd.Context().Value(appKey{}).(*App)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
