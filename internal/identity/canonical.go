package identity

import (
	"context"
	"net"
	"strings"
)

// Canonicalizer converts a user-supplied host into the canonical form
// used as the device table lookup key.
//
// Implementations must be best effort: when resolution is unavailable or
// fails, Canonical returns the input unchanged rather than failing the
// whole resolution.
type Canonicalizer interface {
	Canonical(ctx context.Context, host string) string
}

// DNSCanonicalizer resolves hosts to their fully-qualified form using
// the platform resolver: a forward lookup followed by a reverse lookup
// of the first address, taking the first PTR name.
type DNSCanonicalizer struct {
	resolver *net.Resolver
}

// NewDNSCanonicalizer creates a canonicalizer backed by the default
// platform resolver.
func NewDNSCanonicalizer() *DNSCanonicalizer {
	return &DNSCanonicalizer{resolver: net.DefaultResolver}
}

// Canonical implements Canonicalizer.
//
// Any lookup failure is a no-op: the input host is returned unchanged so
// that resolution can still proceed against the table as written. An IP
// literal with no PTR record therefore stays an IP literal, matching
// tables keyed by address.
func (c *DNSCanonicalizer) Canonical(ctx context.Context, host string) string {
	addrs, err := c.resolver.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		return host
	}

	names, err := c.resolver.LookupAddr(ctx, addrs[0])
	if err != nil || len(names) == 0 {
		return host
	}

	// PTR names carry a trailing dot; table keys do not.
	return strings.TrimSuffix(names[0], ".")
}
