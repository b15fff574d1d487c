package outlet

import (
	"context"
	"fmt"

	"github.com/nerrad567/outletctl/internal/identity"
	"github.com/nerrad567/outletctl/internal/tuya"
)

// primaryDP is the data point index of the outlet's primary relay.
const primaryDP = "1"

// Transport is the device protocol capability the controller drives.
// The production implementation is *tuya.Client; tests inject fakes.
type Transport interface {
	// Status returns the device's current data points.
	Status(ctx context.Context) (map[string]any, error)

	// SetStatus switches the primary relay on or off.
	SetStatus(ctx context.Context, on bool) error
}

// Controller wraps the transport for one physical outlet.
type Controller struct {
	transport Transport
}

// New builds a controller for the device identified by id, over a Tuya
// v3.3 transport with the default bounded retry policy (4 attempts of
// 4 seconds). Construction performs no network I/O; the transport
// connects lazily on the first operation.
//
// Returns:
//   - *Controller: Ready controller
//   - error: ErrInvalidIdentity if id or key is empty, or a transport
//     construction error (e.g. a key of the wrong length)
func New(id identity.Identity) (*Controller, error) {
	if id.DeviceID == "" || id.DeviceKey == "" {
		return nil, ErrInvalidIdentity
	}

	client, err := tuya.NewClient(tuya.Config{
		DeviceID: id.DeviceID,
		Host:     id.Host,
		Key:      id.DeviceKey,
	})
	if err != nil {
		return nil, err
	}
	return &Controller{transport: client}, nil
}

// NewWithTransport builds a controller over an existing transport. The
// CLI uses this to apply configured socket parameters; tests use it to
// inject fakes.
func NewWithTransport(transport Transport) *Controller {
	return &Controller{transport: transport}
}

// GetState reads the outlet's current state.
//
// Returns:
//   - State: On or Off, from the primary relay data point
//   - error: *DeviceError on any transport failure or if the device
//     does not report the primary relay
func (c *Controller) GetState(ctx context.Context) (State, error) {
	dps, err := c.transport.Status(ctx)
	if err != nil {
		return Off, deviceError(err)
	}

	on, ok := dps[primaryDP].(bool)
	if !ok {
		return Off, &DeviceError{
			Code:    tuya.CodePayload,
			Message: fmt.Sprintf("device did not report data point %s", primaryDP),
		}
	}
	return stateOf(on), nil
}

// SetState drives the outlet to target.
//
// Returns:
//   - error: *DeviceError on any transport failure; nil means the
//     device acknowledged the command
func (c *Controller) SetState(ctx context.Context, target State) error {
	if err := c.transport.SetStatus(ctx, target.Bool()); err != nil {
		return deviceError(err)
	}
	return nil
}

// TurnOn drives the outlet to On.
func (c *Controller) TurnOn(ctx context.Context) error {
	return c.SetState(ctx, On)
}

// TurnOff drives the outlet to Off.
func (c *Controller) TurnOff(ctx context.Context) error {
	return c.SetState(ctx, Off)
}

// Toggle reads the current state, writes its complement and returns the
// new state.
//
// This is two separate round trips, not a compare-and-swap: an external
// actor changing the device between the read and the write makes the
// toggle act on a stale state. That window is an accepted limitation of
// the protocol-level design; callers wanting certainty should follow up
// with GetState.
//
// A failure in either round trip aborts the toggle; no retry happens at
// this layer beyond the transport's own bounded retry.
func (c *Controller) Toggle(ctx context.Context) (State, error) {
	current, err := c.GetState(ctx)
	if err != nil {
		return Off, err
	}

	next := current.Complement()
	if err := c.SetState(ctx, next); err != nil {
		return Off, err
	}
	return next, nil
}
