// Package logging provides structured logging for outletctl.
//
// It wraps log/slog with configuration-driven level, format and output
// selection. Because outletctl's stdout is a machine-readable surface
// (the state command prints the device state there), the default output
// is stderr and the default level is warn, so a successful invocation
// stays silent.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Warn("mqtt announce failed", "error", err)
package logging
