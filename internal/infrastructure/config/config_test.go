package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
device:
  port: 6668
  version: "3.3"
  socket_retry_limit: 2
  socket_timeout: 8
table:
  path: "/tmp/devices.json"
logging:
  level: "debug"
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
    client_id: "outletctl-test"
  qos: 1
  topic_prefix: "outletctl"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.SocketRetryLimit != 2 {
		t.Errorf("Device.SocketRetryLimit = %d, want 2", cfg.Device.SocketRetryLimit)
	}
	if cfg.GetSocketTimeout() != 8*time.Second {
		t.Errorf("GetSocketTimeout() = %v, want 8s", cfg.GetSocketTimeout())
	}
	if cfg.Table.Path != "/tmp/devices.json" {
		t.Errorf("Table.Path = %q, want %q", cfg.Table.Path, "/tmp/devices.json")
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
}

func TestLoad_DefaultsApply(t *testing.T) {
	// A file that sets nothing device-related keeps the protocol defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("table:\n  path: /tmp/t.json\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.Port != 6668 {
		t.Errorf("Device.Port = %d, want 6668", cfg.Device.Port)
	}
	if cfg.Device.Version != "3.3" {
		t.Errorf("Device.Version = %q, want %q", cfg.Device.Version, "3.3")
	}
	if cfg.Device.SocketRetryLimit != 4 {
		t.Errorf("Device.SocketRetryLimit = %d, want 4", cfg.Device.SocketRetryLimit)
	}
	if cfg.GetSocketTimeout() != 4*time.Second {
		t.Errorf("GetSocketTimeout() = %v, want 4s", cfg.GetSocketTimeout())
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = true, want false by default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want wrapped fs.ErrNotExist", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("device: [not: a mapping"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OUTLETCTL_TABLE_PATH", "/override/devices.json")
	t.Setenv("OUTLETCTL_MQTT_HOST", "env-broker")
	t.Setenv("OUTLETCTL_MQTT_USERNAME", "env-user")
	t.Setenv("OUTLETCTL_LOG_LEVEL", "debug")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("table:\n  path: /file/devices.json\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Table.Path != "/override/devices.json" {
		t.Errorf("Table.Path = %q, want env override", cfg.Table.Path)
	}
	if cfg.MQTT.Broker.Host != "env-broker" {
		t.Errorf("MQTT.Broker.Host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Auth.Username != "env-user" {
		t.Errorf("MQTT.Auth.Username = %q, want env override", cfg.MQTT.Auth.Username)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want env override", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(_ *Config) {}, false},
		{"bad port", func(c *Config) { c.Device.Port = 0 }, true},
		{"unsupported version", func(c *Config) { c.Device.Version = "3.1" }, true},
		{"zero retry limit", func(c *Config) { c.Device.SocketRetryLimit = 0 }, true},
		{"zero timeout", func(c *Config) { c.Device.SocketTimeout = 0 }, true},
		{"empty table path", func(c *Config) { c.Table.Path = "" }, true},
		{"bad qos", func(c *Config) { c.MQTT.QoS = 3 }, true},
		{"mqtt enabled without host", func(c *Config) {
			c.MQTT.Enabled = true
			c.MQTT.Broker.Host = ""
		}, true},
		{"mqtt enabled fully configured", func(c *Config) { c.MQTT.Enabled = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
