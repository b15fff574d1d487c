package identity

// Identity is the resolved (host, id, key) triple sufficient to address
// one device. Immutable once constructed.
type Identity struct {
	// Host is the host name or IP literal the device is reached at.
	// This is the value the user supplied, not the canonical form: the
	// canonical form is a table lookup key, while the device itself is
	// dialled with whatever the user named.
	Host string

	// DeviceID is the Tuya device identifier (gwId/devId).
	DeviceID string

	// DeviceKey is the device's local encryption key.
	DeviceKey string
}
