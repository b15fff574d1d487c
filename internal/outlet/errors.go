package outlet

import (
	"errors"
	"fmt"

	"github.com/nerrad567/outletctl/internal/tuya"
)

// ErrInvalidIdentity is returned when a controller is constructed
// without a device id or key.
var ErrInvalidIdentity = errors.New("outlet: device id and key are required")

// DeviceError is the single failure kind for all controller operations.
//
// Code and Message are carried verbatim from the transport's error
// indicator. The controller does not distinguish "unreachable" from
// "device rejected command"; callers needing finer diagnosis inspect
// Code (see the tuya package for the taxonomy).
type DeviceError struct {
	Code    int
	Message string
}

// Error implements the error interface in "code: message" form.
func (e *DeviceError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// deviceError normalizes any transport failure into a *DeviceError.
func deviceError(err error) *DeviceError {
	var terr *tuya.Error
	if errors.As(err, &terr) {
		return &DeviceError{Code: terr.Code, Message: terr.Message}
	}
	return &DeviceError{Message: err.Error()}
}
