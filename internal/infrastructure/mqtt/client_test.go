package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/outletctl/internal/infrastructure/config"
)

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "outletctl-test",
		},
		QoS:         1,
		TopicPrefix: "outletctl",
	}
}

func TestBuildClientOptions(t *testing.T) {
	t.Run("plain broker", func(t *testing.T) {
		opts := buildClientOptions(testMQTTConfig())

		if len(opts.Servers) != 1 {
			t.Fatalf("Servers = %d entries, want 1", len(opts.Servers))
		}
		if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
			t.Errorf("broker URL = %q, want tcp scheme", got)
		}
		if opts.ClientID != "outletctl-test" {
			t.Errorf("ClientID = %q", opts.ClientID)
		}
		if opts.AutoReconnect {
			t.Error("AutoReconnect enabled, want one-shot behaviour")
		}
		if opts.ConnectRetry {
			t.Error("ConnectRetry enabled, want one-shot behaviour")
		}
		if opts.Username != "" {
			t.Errorf("Username = %q, want empty without auth config", opts.Username)
		}
	})

	t.Run("tls broker with auth", func(t *testing.T) {
		cfg := testMQTTConfig()
		cfg.Broker.TLS = true
		cfg.Broker.Port = 8883
		cfg.Auth = config.MQTTAuthConfig{Username: "announcer", Password: "secret"}

		opts := buildClientOptions(cfg)

		if got := opts.Servers[0].String(); got != "ssl://broker.local:8883" {
			t.Errorf("broker URL = %q, want ssl scheme", got)
		}
		if opts.Username != "announcer" || opts.Password != "secret" {
			t.Error("credentials not applied")
		}
		if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
			t.Error("TLS config missing or minimum version too low")
		}
	})
}

func TestStateTopic(t *testing.T) {
	got := stateTopic("outletctl", "apb0.home.example")
	want := "outletctl/apb0.home.example/state"
	if got != want {
		t.Errorf("stateTopic() = %q, want %q", got, want)
	}
}

func TestStatePayload(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 15, 0, 0, time.UTC)
	payload := statePayload("apb0.home.example", 1, now)

	var msg stateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if msg.Host != "apb0.home.example" {
		t.Errorf("Host = %q", msg.Host)
	}
	if msg.State != 1 {
		t.Errorf("State = %d, want 1", msg.State)
	}
	if msg.Timestamp != "2026-08-23T10:15:00Z" {
		t.Errorf("Timestamp = %q, want RFC3339 UTC", msg.Timestamp)
	}
}

func TestPublishState_Validation(t *testing.T) {
	// A client that never connected exercises the guards without a broker.
	cfg := testMQTTConfig()
	c := &Client{
		client: pahomqtt.NewClient(buildClientOptions(cfg)),
		cfg:    cfg,
	}

	if err := c.PublishState("", 1); !errors.Is(err, ErrInvalidHost) {
		t.Errorf("PublishState(\"\") error = %v, want ErrInvalidHost", err)
	}
	if err := c.PublishState("apb0.home.example", 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishState() on disconnected client error = %v, want ErrNotConnected", err)
	}
}
