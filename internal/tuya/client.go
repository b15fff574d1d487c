package tuya

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

// Version33 is the only protocol version this client speaks.
const Version33 = "3.3"

// Connection defaults. These match the behaviour the CLI has always had:
// four attempts of four seconds each bounds any operation at 16 seconds.
const (
	// DefaultPort is the TCP port Tuya devices listen on.
	DefaultPort = 6668

	// DefaultRetryLimit is the number of connection attempts per operation.
	DefaultRetryLimit = 4

	// DefaultTimeout is the per-attempt socket timeout.
	DefaultTimeout = 4 * time.Second

	// switchDP is the data point set by SetStatus: the outlet's primary relay.
	switchDP = "1"
)

// Config holds the addressing and socket parameters for one device.
type Config struct {
	// DeviceID is the Tuya device identifier (gwId/devId).
	DeviceID string

	// Host is the device's host name or IP address.
	Host string

	// Key is the device's 16-byte local encryption key.
	Key string

	// Port is the device TCP port. Default: DefaultPort.
	Port int

	// Version is the protocol version. Default (and only supported): "3.3".
	Version string

	// RetryLimit is the number of attempts per operation. Default: 4.
	RetryLimit int

	// Timeout is the per-attempt socket timeout. Default: 4 seconds.
	Timeout time.Duration
}

// Client is a Tuya local protocol client for a single device.
//
// The client owns one TCP connection, established lazily on the first
// operation and reused until it drops. Operations are serialised: the
// CLI performs one device operation per invocation, and the protocol
// itself is strictly request/response.
//
// Every failure is reported as *Error; see the package documentation
// for the code taxonomy.
type Client struct {
	cfg Config
	key []byte

	mu   sync.Mutex
	conn net.Conn
	seq  uint32
}

// NewClient validates cfg, applies defaults and returns a client.
//
// No network I/O happens here: the connection is established lazily on
// the first operation, so construction never blocks.
func NewClient(cfg Config) (*Client, error) {
	if cfg.DeviceID == "" {
		return nil, ErrMissingDeviceID
	}
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	if len(cfg.Key) != 16 {
		return nil, newError(CodeKeyOrVersion, fmt.Errorf("local key must be 16 bytes, got %d", len(cfg.Key)))
	}
	if cfg.Version == "" {
		cfg.Version = Version33
	}
	if cfg.Version != Version33 {
		return nil, newError(CodeKeyOrVersion, fmt.Errorf("protocol version %q is not supported", cfg.Version))
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.RetryLimit == 0 {
		cfg.RetryLimit = DefaultRetryLimit
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{cfg: cfg, key: []byte(cfg.Key)}, nil
}

// statusRequest is the DP_QUERY payload.
type statusRequest struct {
	GwID  string `json:"gwId"`
	DevID string `json:"devId"`
	UID   string `json:"uid"`
	T     string `json:"t"`
}

// controlRequest is the CONTROL payload.
type controlRequest struct {
	DevID string          `json:"devId"`
	UID   string          `json:"uid"`
	T     string          `json:"t"`
	DPS   map[string]bool `json:"dps"`
}

// deviceResponse is the decrypted response payload.
type deviceResponse struct {
	DPS map[string]any `json:"dps"`
}

// Status queries the device's current data points.
//
// Returns:
//   - map[string]any: Data points by index; dp "1" is the outlet's
//     primary relay and decodes as a bool
//   - error: *Error on any transport failure
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	payload, err := json.Marshal(statusRequest{
		GwID:  c.cfg.DeviceID,
		DevID: c.cfg.DeviceID,
		UID:   c.cfg.DeviceID,
		T:     timestamp(),
	})
	if err != nil {
		return nil, newError(CodePayload, err)
	}

	// DP_QUERY payloads are encrypted without the version header.
	enc, err := encryptPayload(c.key, payload)
	if err != nil {
		return nil, newError(CodeKeyOrVersion, err)
	}

	msg, terr := c.roundTrip(ctx, CmdDPQuery, enc)
	if terr != nil {
		return nil, terr
	}

	dps, terr := c.decodeResponse(msg)
	if terr != nil {
		return nil, terr
	}
	if dps == nil {
		return nil, newError(CodePayload, errors.New("response carries no dps"))
	}
	return dps, nil
}

// SetStatus switches the outlet's primary relay on or off.
//
// Returns:
//   - error: *Error on any transport failure; nil means the device
//     acknowledged the command
func (c *Client) SetStatus(ctx context.Context, on bool) error {
	payload, err := json.Marshal(controlRequest{
		DevID: c.cfg.DeviceID,
		UID:   c.cfg.DeviceID,
		T:     timestamp(),
		DPS:   map[string]bool{switchDP: on},
	})
	if err != nil {
		return newError(CodePayload, err)
	}

	enc, err := encryptPayload(c.key, payload)
	if err != nil {
		return newError(CodeKeyOrVersion, err)
	}

	// CONTROL ciphertext carries the 3.3 version header.
	framed := make([]byte, 0, len(versionHeader)+len(enc))
	framed = append(framed, versionHeader...)
	framed = append(framed, enc...)

	msg, terr := c.roundTrip(ctx, CmdControl, framed)
	if terr != nil {
		return terr
	}

	// A zero return code is the acknowledgment; some firmware echoes the
	// new dps in the payload, which callers re-read explicitly if needed.
	_, terr = c.decodeResponse(msg)
	return errOrNil(terr)
}

// Close releases the connection, if one was established.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// roundTrip sends one command and reads its response, retrying up to the
// configured limit. Each attempt is bounded by the socket timeout; a
// failed attempt drops the connection so the next one redials.
func (c *Client) roundTrip(ctx context.Context, cmd uint32, payload []byte) (message, *Error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr *Error
	for attempt := 0; attempt < c.cfg.RetryLimit; attempt++ {
		if err := ctx.Err(); err != nil {
			return message{}, newError(CodeTimeout, err)
		}

		msg, terr := c.attempt(ctx, cmd, payload)
		if terr == nil {
			return msg, nil
		}
		lastErr = terr
		c.dropConn()
	}
	return message{}, lastErr
}

// attempt performs a single connect/send/receive cycle.
func (c *Client) attempt(ctx context.Context, cmd uint32, payload []byte) (message, *Error) {
	if c.conn == nil {
		if terr := c.dial(ctx); terr != nil {
			return message{}, terr
		}
	}

	deadline := time.Now().Add(c.cfg.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return message{}, newError(CodeOffline, err)
	}

	c.seq++
	frame := encodeMessage(c.seq, cmd, payload)
	if _, err := c.conn.Write(frame); err != nil {
		return message{}, classifyNetError(err, false)
	}

	// Devices interleave unsolicited status pushes and heartbeats with
	// the reply; skip frames until ours arrives or the deadline fires.
	for {
		msg, err := readMessage(c.conn)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) || errors.Is(err, net.ErrClosed) {
				return message{}, classifyNetError(err, false)
			}
			return message{}, newError(CodePayload, err)
		}

		if msg.Seq == c.seq || msg.Cmd == cmd {
			return msg, nil
		}
	}
}

// dial establishes the TCP connection, bounded by the socket timeout.
func (c *Client) dial(ctx context.Context) *Error {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var dialer net.Dialer
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return classifyNetError(err, true)
	}
	c.conn = conn
	return nil
}

// dropConn closes and forgets the connection after a failed attempt.
func (c *Client) dropConn() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// decodeResponse validates the return code, strips the version header
// and decrypts the payload into data points. An empty payload (a bare
// acknowledgment) yields a nil map.
func (c *Client) decodeResponse(msg message) (map[string]any, *Error) {
	if msg.RetCode != 0 {
		return nil, &Error{
			Code:    CodePayload,
			Message: fmt.Sprintf("device returned error code %d", msg.RetCode),
		}
	}

	payload := msg.Payload
	if len(payload) >= len(versionHeader) && bytes.HasPrefix(payload, []byte(Version33)) {
		payload = payload[len(versionHeader):]
	}
	if len(payload) == 0 {
		return nil, nil
	}

	plain, err := decryptPayload(c.key, payload)
	if err != nil {
		return nil, newError(CodeKeyOrVersion, err)
	}

	var resp deviceResponse
	if err := json.Unmarshal(plain, &resp); err != nil {
		return nil, newError(CodeJSON, err)
	}
	return resp.DPS, nil
}

// classifyNetError maps a socket error to the protocol error taxonomy.
func classifyNetError(err error, dialing bool) *Error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		if dialing {
			return newError(CodeOffline, err)
		}
		return newError(CodeTimeout, err)
	}
	if dialing {
		return newError(CodeConnect, err)
	}
	return newError(CodeOffline, err)
}

// timestamp renders the request time the way the protocol expects:
// whole seconds as a decimal string.
func timestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

// errOrNil converts a typed nil *Error into an untyped nil error.
func errOrNil(terr *Error) error {
	if terr == nil {
		return nil
	}
	return terr
}
