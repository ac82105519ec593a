package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sguter90/awspanel/pkg/configsync"
	"github.com/sguter90/awspanel/pkg/form"
	"github.com/sguter90/awspanel/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change the station configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the station configuration",
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change configuration values and submit them to the station",
	Long: `Loads the current configuration, applies the given values and submits the
whole configuration. Checkboxes take true/false, radio groups take the stored value
or the option label (e.g. wifi_mode=AP).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfigSet,
}

var configPasswordCmd = &cobra.Command{
	Use:       "password sta|ap",
	Short:     "Change the Wi-Fi client or access point password",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"sta", "ap"},
	RunE:      runConfigPassword,
}

var configRootCACmd = &cobra.Command{
	Use:   "root-ca",
	Short: "Show the root certificate, or replace it with --file",
	RunE:  runConfigRootCA,
}

var (
	configJSON   bool
	rootCAFile   string
	passwordKeys = map[string]string{
		"sta": models.KeyWiFiStaPassword,
		"ap":  models.KeyWiFiAPPassword,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd, configPasswordCmd, configRootCACmd)

	configGetCmd.Flags().BoolVar(&configJSON, "json", false, "print the raw configuration record")
	configRootCACmd.Flags().StringVar(&rootCAFile, "file", "", "PEM file to upload as the new root certificate")
}

// loadForm fetches the configuration and root certificate into a fresh form
func loadForm(cmd *cobra.Command) (*configsync.Client, error) {
	app := appFrom(cmd)
	sync := configsync.New(app.Station, form.NewStationForm(app.Capabilities()),
		configsync.WithLogger(app.Logger))
	if err := sync.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return sync, nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	sync, err := loadForm(cmd)
	if err != nil {
		return err
	}
	sf := sync.Form()

	if configJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sf.Collect(form.ScopeAll))
	}

	for _, section := range sf.Sections() {
		fmt.Printf("\n[%s]\n", models.PanelTitles[models.PanelID(section)])
		for _, f := range sf.Fields(section) {
			if !f.Visible {
				continue
			}
			fmt.Printf("  %-26s %s\n", f.Name, displayValue(f))
		}
	}
	fmt.Println()
	return nil
}

func displayValue(f form.FieldView) string {
	switch f.Kind {
	case form.KindPassword:
		if f.Text == "" {
			return ""
		}
		return "********"
	case form.KindCheckbox:
		if f.Checked {
			return "yes"
		}
		return "no"
	case form.KindTextArea:
		if f.Text == "" {
			return ""
		}
		return fmt.Sprintf("(%d lines, see config root-ca)", strings.Count(strings.TrimRight(f.Text, "\n"), "\n")+1)
	}
	return f.Text
}

// parseAssignments splits key=value arguments
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", arg)
		}
		values[key] = value
	}
	return values, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	values, err := parseAssignments(args)
	if err != nil {
		return err
	}

	sync, err := loadForm(cmd)
	if err != nil {
		return err
	}

	var errs []error
	for key, value := range values {
		if err := sync.Form().Set(key, value); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := sync.Submit(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("✓ Submitted %d change(s) to the station\n", len(values))
	return nil
}

func runConfigPassword(cmd *cobra.Command, args []string) error {
	key := passwordKeys[args[0]]

	fmt.Print("Enter new password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	fmt.Println()

	if string(passwordBytes) != string(confirmBytes) {
		return fmt.Errorf("passwords do not match")
	}

	sync, err := loadForm(cmd)
	if err != nil {
		return err
	}
	if err := sync.Form().Set(key, string(passwordBytes)); err != nil {
		return err
	}
	if err := sync.Submit(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("✓ %s updated\n", key)
	return nil
}

func runConfigRootCA(cmd *cobra.Command, args []string) error {
	sync, err := loadForm(cmd)
	if err != nil {
		return err
	}

	if rootCAFile == "" {
		ca, _ := sync.Form().Value(models.KeyRootCA)
		fmt.Print(models.AsString(ca))
		return nil
	}

	pem, err := os.ReadFile(rootCAFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rootCAFile, err)
	}
	if !strings.Contains(string(pem), "BEGIN CERTIFICATE") {
		return fmt.Errorf("%s does not contain a PEM certificate", rootCAFile)
	}
	sync.Form().FillRootCA(string(pem))
	if err := sync.Submit(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("✓ Root certificate uploaded")
	return nil
}
