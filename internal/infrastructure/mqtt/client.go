package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/outletctl/internal/infrastructure/config"
)

// Client is a one-shot announcement publisher.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
}

// Connect establishes a connection to the MQTT broker.
//
// Parameters:
//   - cfg: MQTT configuration
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: ErrConnectionFailed if the broker cannot be reached within
//     the connect timeout
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		client: pahomqtt.NewClient(buildClientOptions(cfg)),
		cfg:    cfg,
	}

	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return c, nil
}

// PublishState announces the outlet's state, retained, at the configured QoS.
//
// Parameters:
//   - host: The host the state belongs to (topic segment)
//   - state: The new state, 0 or 1
//
// Returns:
//   - error: nil on success, or a wrapped error describing the failure
func (c *Client) PublishState(host string, state int) error {
	if host == "" {
		return ErrInvalidHost
	}
	if !c.client.IsConnected() {
		return ErrNotConnected
	}

	topic := stateTopic(c.cfg.TopicPrefix, host)
	payload := statePayload(host, state, time.Now())

	token := c.client.Publish(topic, byte(c.cfg.QoS), true, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// Close disconnects from the broker, allowing a short quiesce for
// in-flight acknowledgments.
func (c *Client) Close() {
	c.client.Disconnect(defaultDisconnectQuiesce)
}
