package identity

import "errors"

// Domain errors for the identity package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, identity.ErrUnknownHost) {
//	    // handle missing table entry
//	}
var (
	// ErrTableNotFound is returned when the device table file does not exist.
	// LoadTable also wraps fs.ErrNotExist for this case.
	ErrTableNotFound = errors.New("identity: device table not found")

	// ErrTableSyntax is returned when the device table content is malformed:
	// invalid JSON, a non-array entry, or an entry with the wrong arity.
	ErrTableSyntax = errors.New("identity: device table syntax error")

	// ErrUnknownHost is returned when the canonical host has no table entry
	// and at least one credential is missing.
	ErrUnknownHost = errors.New("identity: no device table entry for host")

	// ErrEmptyHost is returned when the host argument is empty.
	ErrEmptyHost = errors.New("identity: host must not be empty")
)
