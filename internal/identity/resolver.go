package identity

import (
	"context"
	"fmt"
)

// TableLoader loads a device table from a path. Injectable so tests can
// supply tables without touching the filesystem.
type TableLoader func(path string) (Table, error)

// Resolver produces a usable Identity for a host, preferring explicit
// command-supplied credentials over device table lookup.
//
// Resolution is a pure function of its inputs plus the injected
// canonicalization and table-load capabilities; it has no side effects.
type Resolver struct {
	canon Canonicalizer
	load  TableLoader
}

// NewResolver creates a Resolver.
//
// Parameters:
//   - canon: Host canonicalizer; nil selects the DNS-backed default
//   - load: Table loader; nil selects LoadTable
func NewResolver(canon Canonicalizer, load TableLoader) *Resolver {
	if canon == nil {
		canon = NewDNSCanonicalizer()
	}
	if load == nil {
		load = LoadTable
	}
	return &Resolver{canon: canon, load: load}
}

// Resolve produces the effective Identity for host.
//
// Algorithm:
//  1. If both explicitID and explicitKey are given, return them directly.
//     The device table is not consulted and need not load successfully.
//  2. Otherwise load the table from tablePath, canonicalize host and look
//     the canonical name up.
//  3. A missing entry fails with ErrUnknownHost; otherwise the table entry
//     fills in whichever of id/key is still missing.
//
// Parameters:
//   - ctx: Context for the canonicalization lookup
//   - host: Host name or IP literal (must be non-empty)
//   - explicitID: Device ID from the command line, or ""
//   - explicitKey: Device key from the command line, or ""
//   - tablePath: Path to the JSON device table
//
// Returns:
//   - Identity: Fully populated identity
//   - error: ErrEmptyHost, ErrTableNotFound, ErrTableSyntax or ErrUnknownHost
func (r *Resolver) Resolve(ctx context.Context, host, explicitID, explicitKey, tablePath string) (Identity, error) {
	if host == "" {
		return Identity{}, ErrEmptyHost
	}

	if explicitID != "" && explicitKey != "" {
		return Identity{Host: host, DeviceID: explicitID, DeviceKey: explicitKey}, nil
	}

	table, err := r.load(tablePath)
	if err != nil {
		return Identity{}, err
	}

	canonical := r.canon.Canonical(ctx, host)
	entry, ok := table[canonical]
	if !ok {
		return Identity{}, fmt.Errorf("%w: %s", ErrUnknownHost, canonical)
	}

	id := explicitID
	if id == "" {
		id = entry.ID
	}
	key := explicitKey
	if key == "" {
		key = entry.Key
	}

	return Identity{Host: host, DeviceID: id, DeviceKey: key}, nil
}
