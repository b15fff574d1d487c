package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/outletctl/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for the connection.
	defaultConnectTimeout = 5 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for in-flight work on
	// disconnect (milliseconds).
	defaultDisconnectQuiesce = 250

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho MQTT options from the announce config.
//
// A one-shot publisher wants the opposite of a daemon's options: no
// auto-reconnect and no connect retry, so a dead broker fails fast
// instead of stalling the command.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))

	opts.SetClientID(cfg.Broker.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(defaultConnectTimeout)

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}

// stateTopic builds the retained state topic for a host.
func stateTopic(prefix, host string) string {
	return fmt.Sprintf("%s/%s/state", prefix, host)
}

// stateMessage is the JSON payload announced after a state change.
type stateMessage struct {
	Host      string `json:"host"`
	State     int    `json:"state"`
	Timestamp string `json:"timestamp"`
}

// statePayload builds the announcement payload.
func statePayload(host string, state int, now time.Time) []byte {
	payload, _ := json.Marshal(stateMessage{
		Host:      host,
		State:     state,
		Timestamp: now.UTC().Format(time.RFC3339),
	})
	return payload
}
