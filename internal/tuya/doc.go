// Package tuya implements the Tuya local network protocol, version 3.3.
//
// This package provides direct LAN connectivity to Tuya-based smart
// outlets (Arlec Grid Connect and similar white-label hardware). It
// speaks the device's proprietary TCP protocol without any cloud
// dependency: commands are issued to port 6668 on the device itself,
// authenticated by the device's local key.
//
// # Wire Format
//
// Every message is framed the same way:
//
//	┌────────────┬───────┬───────┬────────┬─────────┬───────┬────────────┐
//	│ 0x000055AA │  seq  │  cmd  │ length │ payload │ CRC32 │ 0x0000AA55 │
//	│   4 bytes  │   4   │   4   │   4    │   ...   │   4   │   4 bytes  │
//	└────────────┴───────┴───────┴────────┴─────────┴───────┴────────────┘
//
// The length field covers everything after it (payload, CRC, suffix).
// Device → client frames carry an extra 4-byte return code in front of
// the payload. The CRC is IEEE CRC-32 over the frame up to the payload.
//
// # Encryption
//
// Protocol 3.3 encrypts every payload with AES-128-ECB under the 16-byte
// local key, PKCS#7 padded. CONTROL payloads additionally carry a 15-byte
// version header ("3.3" plus 12 zero bytes) in front of the ciphertext;
// DP_QUERY payloads do not. Received payloads may carry the same header,
// which is stripped before decryption.
//
// # Data Points
//
// Device state is a set of numbered data points (dps). For a single
// outlet, dp "1" is the primary relay: a boolean switch.
//
// # Failure Model
//
// Every failure is reported as *Error carrying a numeric code compatible
// with the tinytuya reference implementation (901 unable to connect,
// 902 timeout, 914 bad key, ...) and a human-readable message. The
// client retries connection attempts up to its configured retry limit
// with a fixed per-attempt timeout, and never retries beyond that.
//
// # References
//
//   - tinytuya: https://github.com/jasonacox/tinytuya
//   - Tuya local protocol notes: https://github.com/codetheweb/tuyapi/blob/master/docs/PROTOCOL.md
package tuya
