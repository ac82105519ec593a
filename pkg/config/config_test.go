package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "awspanel.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("Expected no config file, got %s", cfg.ConfigPath)
	}
	if cfg.Device.PollInterval != 10*time.Second {
		t.Errorf("Expected 10s poll interval, got %s", cfg.Device.PollInterval)
	}
	if cfg.Device.OTASettleDelay != 3*time.Second {
		t.Errorf("Expected 3s settle delay, got %s", cfg.Device.OTASettleDelay)
	}
	if cfg.Server.Port != 8059 {
		t.Errorf("Expected port 8059, got %d", cfg.Server.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info level, got %s", cfg.LogLevel)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
device:
  url: http://10.0.0.5
  poll_interval: 5s
  ethernet: true
server:
  port: 9000
  allowed_origins: [http://localhost:3000]
mqtt:
  enabled: true
  broker: broker.local
`)

	t.Setenv("AWS_POLL_INTERVAL", "2s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a, http://b")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.ConfigPath != path {
		t.Errorf("Expected config path %s, got %s", path, cfg.ConfigPath)
	}
	if cfg.Device.URL != "http://10.0.0.5" {
		t.Errorf("Expected device url from file, got %s", cfg.Device.URL)
	}
	if cfg.Device.PollInterval != 2*time.Second {
		t.Errorf("Expected env to override poll interval, got %s", cfg.Device.PollInterval)
	}
	if !cfg.Device.Ethernet {
		t.Error("Expected ethernet capability from file")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b" {
		t.Errorf("Unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker != "broker.local" || cfg.MQTT.Port != 1883 {
		t.Errorf("Unexpected mqtt config %+v", cfg.MQTT)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug level, got %s", cfg.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad duration", env: map[string]string{"AWS_POLL_INTERVAL": "often"}},
		{name: "bad port", env: map[string]string{"SERVER_PORT": "http"}},
		{name: "zero interval", env: map[string]string{"AWS_POLL_INTERVAL": "0s"}},
		{name: "bad env", env: map[string]string{"APP_ENV": "staging"}},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "bad yaml", file: "device: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			} else {
				chdir(t, t.TempDir())
			}
			if _, err := Load(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing explicit config file")
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir on Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
	})
}
