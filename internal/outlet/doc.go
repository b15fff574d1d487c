// Package outlet presents a stable on/off/toggle/state interface over a
// smart outlet's transport.
//
// The controller is a two-state machine: the only observable device
// state is Off or On, read and written through the Transport. There is
// no "unknown" or "connecting" state: a failed read or write never
// updates believed state, it only returns a *DeviceError.
//
// Toggle is deliberately not atomic: it reads the current state and
// writes the complement in two separate network round trips. Between
// them another process, another controller or someone at the physical
// switch can change the device, in which case the toggle writes the
// complement of a stale read. For the intended use (one person driving
// one outlet from a shell) that window is accepted; see Toggle.
//
// A controller exclusively owns its transport for the lifetime of one
// command invocation. Nothing here is safe for concurrent use, and
// nothing needs to be.
package outlet
