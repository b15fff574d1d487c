package tuya

import (
	"errors"
	"fmt"
)

// Numeric error codes for transport failures. The values and canonical
// messages match the tinytuya reference implementation, so tooling that
// already recognises those codes keeps working.
const (
	// CodeJSON indicates the device response decrypted but was not valid JSON.
	CodeJSON = 900

	// CodeConnect indicates the TCP connection could not be established.
	CodeConnect = 901

	// CodeTimeout indicates the device did not respond within the socket timeout.
	CodeTimeout = 902

	// CodePayload indicates a malformed frame or a device-reported error.
	CodePayload = 904

	// CodeOffline indicates the connection dropped or the device is unreachable.
	CodeOffline = 905

	// CodeKeyOrVersion indicates the payload could not be decrypted: the
	// local key is wrong or the device speaks a different protocol version.
	CodeKeyOrVersion = 914
)

// codeMessages holds the canonical human-readable message for each code.
var codeMessages = map[int]string{
	CodeJSON:         "Invalid JSON Response From Device",
	CodeConnect:      "Network Error: Unable to Connect",
	CodeTimeout:      "Timeout Waiting for Device",
	CodePayload:      "Unexpected Payload from Device",
	CodeOffline:      "Network Error: Device Unreachable",
	CodeKeyOrVersion: "Check Device Key or Version",
}

// Error is the typed failure for every transport operation.
//
// Code and Message are the machine/human halves of the error indicator;
// callers needing finer diagnosis than "the transport failed" inspect
// Code. The underlying cause, when one exists, is available via
// errors.Unwrap.
type Error struct {
	Code    int
	Message string
	cause   error
}

// Error implements the error interface in "code: message" form.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// newError builds an *Error with the canonical message for code.
func newError(code int, cause error) *Error {
	return &Error{Code: code, Message: codeMessages[code], cause: cause}
}

// Configuration errors, reported at construction rather than per operation.
var (
	// ErrMissingDeviceID is returned when a client is built without a device ID.
	ErrMissingDeviceID = errors.New("tuya: device id is required")

	// ErrMissingHost is returned when a client is built without a host.
	ErrMissingHost = errors.New("tuya: host is required")
)
