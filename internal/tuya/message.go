package tuya

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"net"
)

// Frame layout constants.
const (
	framePrefix uint32 = 0x000055AA
	frameSuffix uint32 = 0x0000AA55

	// headerSize is prefix(4) + seq(4) + cmd(4) + length(4).
	headerSize = 16

	// tailSize is crc(4) + suffix(4).
	tailSize = 8

	// retCodeSize is the return code devices prepend to response payloads.
	retCodeSize = 4

	// maxFramePayload bounds the length field of incoming frames. Outlet
	// status payloads are well under 1 KiB; anything larger means the
	// stream is desynchronised.
	maxFramePayload = 16 * 1024
)

// Tuya command words. Only CONTROL and DP_QUERY are issued by this
// client; the rest are listed for frame identification.
const (
	// CmdControl sets data points (set-status).
	CmdControl uint32 = 0x07

	// CmdStatus is the unsolicited state report devices push after a change.
	CmdStatus uint32 = 0x08

	// CmdHeartbeat is the keepalive exchange on long-lived connections.
	CmdHeartbeat uint32 = 0x09

	// CmdDPQuery queries current data points (status).
	CmdDPQuery uint32 = 0x0a
)

// message is a decoded device → client frame.
type message struct {
	Seq     uint32
	Cmd     uint32
	RetCode uint32
	Payload []byte
}

// encodeMessage frames a client → device message.
//
// Client frames carry no return code: the length field is the payload
// plus the 8-byte tail.
func encodeMessage(seq, cmd uint32, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload)+tailSize)
	binary.BigEndian.PutUint32(buf[0:4], framePrefix)
	binary.BigEndian.PutUint32(buf[4:8], seq)
	binary.BigEndian.PutUint32(buf[8:12], cmd)
	binary.BigEndian.PutUint32(buf[12:16], uint32(len(payload)+tailSize))
	copy(buf[headerSize:], payload)

	crc := crc32.ChecksumIEEE(buf[:headerSize+len(payload)])
	binary.BigEndian.PutUint32(buf[headerSize+len(payload):], crc)
	binary.BigEndian.PutUint32(buf[headerSize+len(payload)+4:], frameSuffix)
	return buf
}

// decodeMessage parses a complete device → client frame.
func decodeMessage(raw []byte) (message, error) {
	var msg message

	if len(raw) < headerSize+retCodeSize+tailSize {
		return msg, fmt.Errorf("frame too short: %d bytes", len(raw))
	}
	if binary.BigEndian.Uint32(raw[0:4]) != framePrefix {
		return msg, fmt.Errorf("bad frame prefix: %08X", binary.BigEndian.Uint32(raw[0:4]))
	}

	length := binary.BigEndian.Uint32(raw[12:16])
	if int(length) != len(raw)-headerSize {
		return msg, fmt.Errorf("length field %d does not match frame size %d", length, len(raw)-headerSize)
	}
	if binary.BigEndian.Uint32(raw[len(raw)-4:]) != frameSuffix {
		return msg, fmt.Errorf("bad frame suffix")
	}

	wantCRC := binary.BigEndian.Uint32(raw[len(raw)-tailSize : len(raw)-4])
	if gotCRC := crc32.ChecksumIEEE(raw[:len(raw)-tailSize]); gotCRC != wantCRC {
		return msg, fmt.Errorf("crc mismatch: got %08X, want %08X", gotCRC, wantCRC)
	}

	msg.Seq = binary.BigEndian.Uint32(raw[4:8])
	msg.Cmd = binary.BigEndian.Uint32(raw[8:12])
	msg.RetCode = binary.BigEndian.Uint32(raw[headerSize : headerSize+retCodeSize])
	msg.Payload = raw[headerSize+retCodeSize : len(raw)-tailSize]
	return msg, nil
}

// readMessage reads a single framed message from conn. The caller is
// responsible for setting the read deadline.
func readMessage(conn net.Conn) (message, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		return message{}, err
	}

	if binary.BigEndian.Uint32(header[0:4]) != framePrefix {
		return message{}, fmt.Errorf("bad frame prefix: %08X", binary.BigEndian.Uint32(header[0:4]))
	}

	length := binary.BigEndian.Uint32(header[12:16])
	if length < retCodeSize+tailSize || length > maxFramePayload {
		return message{}, fmt.Errorf("implausible frame length: %d", length)
	}

	raw := make([]byte, headerSize+int(length))
	copy(raw, header)
	if _, err := io.ReadFull(conn, raw[headerSize:]); err != nil {
		return message{}, err
	}

	return decodeMessage(raw)
}
