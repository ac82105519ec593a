// Package config loads the awspanel settings from a YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration
type Config struct {
	AppEnv      string       `yaml:"app_env"`
	LogLevelStr string       `yaml:"log_level"`
	Device      DeviceConfig `yaml:"device"`
	Server      ServerConfig `yaml:"server"`
	MQTT        MQTTConfig   `yaml:"mqtt"`

	LogLevel slog.Level `yaml:"-"`
	// ConfigPath is the file the configuration was read from, empty when none was found
	ConfigPath string `yaml:"-"`
}

// DeviceConfig describes how to reach the station
type DeviceConfig struct {
	URL            string        `yaml:"url"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	OTASettleDelay time.Duration `yaml:"ota_settle_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Ethernet       bool          `yaml:"ethernet"`
}

// ServerConfig configures the local web panel
type ServerConfig struct {
	Port               int           `yaml:"port"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
}

// MQTTConfig configures the optional telemetry bridge
type MQTTConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Broker    string `yaml:"broker"`
	Port      int    `yaml:"port"`
	ClientID  string `yaml:"client_id"`
	StationID string `yaml:"station_id"`
}

// SearchPaths are tried in order when no config file is given
var SearchPaths = []string{
	"awspanel.yaml",
	"configs/awspanel.yaml",
	"/etc/awspanel/config.yaml",
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		AppEnv:      "dev",
		LogLevelStr: "info",
		Device: DeviceConfig{
			URL:            "http://192.168.168.1",
			PollInterval:   10 * time.Second,
			OTASettleDelay: 3 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Port:               8059,
			SessionIdleTimeout: 30 * time.Minute,
		},
		MQTT: MQTTConfig{
			Broker:    "localhost",
			Port:      1883,
			ClientID:  "awspanel",
			StationID: "aws",
		},
		LogLevel: slog.LevelInfo,
	}
}

// Load builds the configuration from defaults, the YAML file at path (or the first of
// SearchPaths that exists), .env and the environment, in increasing precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	level, err := parseLogLevel(cfg.LogLevelStr)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	paths := SearchPaths
	if path != "" {
		paths = []string{path}
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) && path == "" {
			continue
		}
		if err != nil {
			return fmt.Errorf("read config %s: %w", p, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", p, err)
		}
		c.ConfigPath = p
		return nil
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error

	setString(&c.AppEnv, "APP_ENV")
	setString(&c.LogLevelStr, "LOG_LEVEL")

	setString(&c.Device.URL, "AWS_DEVICE_URL")
	errs = append(errs,
		setDuration(&c.Device.PollInterval, "AWS_POLL_INTERVAL"),
		setDuration(&c.Device.OTASettleDelay, "AWS_OTA_SETTLE_DELAY"),
		setDuration(&c.Device.RequestTimeout, "AWS_REQUEST_TIMEOUT"),
		setBool(&c.Device.Ethernet, "AWS_ETHERNET"),
	)

	errs = append(errs,
		setInt(&c.Server.Port, "SERVER_PORT"),
		setDuration(&c.Server.SessionIdleTimeout, "SESSION_IDLE_TIMEOUT"),
	)
	if v := strings.TrimSpace(os.Getenv("SERVER_ALLOWED_ORIGINS")); v != "" {
		c.Server.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, origin)
			}
		}
	}

	setString(&c.MQTT.Broker, "MQTT_BROKER")
	setString(&c.MQTT.ClientID, "MQTT_CLIENT_ID")
	setString(&c.MQTT.StationID, "MQTT_STATION_ID")
	errs = append(errs,
		setBool(&c.MQTT.Enabled, "MQTT_ENABLED"),
		setInt(&c.MQTT.Port, "MQTT_PORT"),
	)

	return errors.Join(errs...)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.AppEnv {
	case "dev", "prod":
	default:
		return fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", c.AppEnv)
	}
	if strings.TrimSpace(c.Device.URL) == "" {
		return fmt.Errorf("device url is required")
	}
	if c.Device.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Device.PollInterval)
	}
	if c.Device.OTASettleDelay < 0 {
		return fmt.Errorf("OTA settle delay must not be negative, got %s", c.Device.OTASettleDelay)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
