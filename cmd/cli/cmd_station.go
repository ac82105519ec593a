package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sguter90/awspanel/pkg/configsync"
	"github.com/sguter90/awspanel/pkg/form"
)

var otaCmd = &cobra.Command{
	Use:   "ota",
	Short: "Ask the station to check for a firmware update",
	RunE:  runOTA,
}

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Restart the station",
	RunE:  runReboot,
}

var uptimeCmd = &cobra.Command{
	Use:   "uptime",
	Short: "Show how long the station has been running",
	RunE:  runUptime,
}

var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "Station sensor commands",
}

var sensorsActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Make the station probe its sensors again",
	RunE:  runSensorsActivate,
}

func init() {
	rootCmd.AddCommand(otaCmd, rebootCmd, uptimeCmd, sensorsCmd)
	sensorsCmd.AddCommand(sensorsActivateCmd)
}

// maintenanceClient returns a sync client for one-shot commands. Nothing polls, so
// there is nothing to let settle before the update request.
func maintenanceClient(app *App) *configsync.Client {
	return configsync.New(app.Station, form.NewStationForm(app.Capabilities()),
		configsync.WithSettleDelay(0),
		configsync.WithLogger(app.Logger))
}

func runOTA(cmd *cobra.Command, args []string) error {
	msg, err := maintenanceClient(appFrom(cmd)).TriggerUpdate(cmd.Context())
	if err != nil {
		return fmt.Errorf("OTA update check failed: %w", err)
	}
	fmt.Printf("✓ %s\n", strings.TrimSpace(msg))
	return nil
}

func runReboot(cmd *cobra.Command, args []string) error {
	app := appFrom(cmd)
	if err := app.Station.Reboot(cmd.Context()); err != nil {
		return fmt.Errorf("reboot request failed: %w", err)
	}
	fmt.Println("✓ Station is rebooting")
	return nil
}

func runUptime(cmd *cobra.Command, args []string) error {
	uptime, err := appFrom(cmd).Station.GetUptime(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read uptime: %w", err)
	}
	fmt.Println(strings.TrimSpace(uptime))
	return nil
}

func runSensorsActivate(cmd *cobra.Command, args []string) error {
	reply, err := appFrom(cmd).Station.ActivateSensors(cmd.Context())
	if err != nil {
		return fmt.Errorf("sensor activation failed: %w", err)
	}
	fmt.Printf("✓ %s\n", strings.TrimSpace(reply))
	return nil
}
