package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for outletctl.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Table   TableConfig   `yaml:"table"`
	Logging LoggingConfig `yaml:"logging"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
}

// DeviceConfig contains Tuya local protocol settings.
type DeviceConfig struct {
	// Port is the TCP port devices listen on. Default: 6668.
	Port int `yaml:"port"`

	// Version is the Tuya protocol version. Only "3.3" is supported.
	Version string `yaml:"version"`

	// SocketRetryLimit is the number of connection attempts per operation.
	// Default: 4.
	SocketRetryLimit int `yaml:"socket_retry_limit"`

	// SocketTimeout is the per-attempt socket timeout in seconds.
	// Default: 4.
	SocketTimeout int `yaml:"socket_timeout"`
}

// TableConfig contains device table settings.
type TableConfig struct {
	// Path is the location of the JSON device table.
	// The table maps canonical host names to [device_id, device_key] pairs.
	Path string `yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MQTTConfig contains optional state announcement settings.
//
// When enabled, successful state changes are published to the broker so
// home automation systems see outlet state without polling the device.
type MQTTConfig struct {
	Enabled     bool             `yaml:"enabled"`
	Broker      MQTTBrokerConfig `yaml:"broker"`
	Auth        MQTTAuthConfig   `yaml:"auth"`
	QoS         int              `yaml:"qos"`
	TopicPrefix string           `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: OUTLETCTL_SECTION_KEY
// For example: OUTLETCTL_TABLE_PATH, OUTLETCTL_MQTT_HOST
//
// A missing file is reported as an error wrapping fs.ErrNotExist; callers
// that treat the tool configuration as optional should fall back to
// Default() in that case.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
//
// Defaults keep stdout clean (text logging to stderr at warn level) so the
// state command output remains machine-readable.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Port:             6668,
			Version:          "3.3",
			SocketRetryLimit: 4,
			SocketTimeout:    4,
		},
		Table: TableConfig{
			Path: "/etc/outletctl/devices.json",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "outletctl",
			},
			QoS:         1,
			TopicPrefix: "outletctl",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: OUTLETCTL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device table
	if v := os.Getenv("OUTLETCTL_TABLE_PATH"); v != "" {
		cfg.Table.Path = v
	}

	// Logging
	if v := os.Getenv("OUTLETCTL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// MQTT
	if v := os.Getenv("OUTLETCTL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("OUTLETCTL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("OUTLETCTL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Device validation
	if c.Device.Port < 1 || c.Device.Port > 65535 {
		errs = append(errs, "device.port must be between 1 and 65535")
	}
	if c.Device.Version != "3.3" {
		errs = append(errs, fmt.Sprintf("device.version %q is not supported (only 3.3)", c.Device.Version))
	}
	if c.Device.SocketRetryLimit < 1 {
		errs = append(errs, "device.socket_retry_limit must be at least 1")
	}
	if c.Device.SocketTimeout < 1 {
		errs = append(errs, "device.socket_timeout must be at least 1 second")
	}

	// Table validation
	if c.Table.Path == "" {
		errs = append(errs, "table.path is required")
	}

	// MQTT validation (only when the announcer is enabled)
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.Broker.ClientID == "" {
			errs = append(errs, "mqtt.broker.client_id is required when mqtt is enabled")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetSocketTimeout returns the per-attempt socket timeout as a Duration.
func (c *Config) GetSocketTimeout() time.Duration {
	return time.Duration(c.Device.SocketTimeout) * time.Second
}
