package aprs

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	controlUI   byte = 0x03
	pidNoLayer3 byte = 0xF0

	addrLen  = 7
	maxAddrs = 10 // dest, source and up to 8 digipeaters
)

// findPayload returns the source callsign and APRS payload of a frame.
// TNC2 text (CALL>DEST,PATH:payload) and raw AX.25 are both accepted.
func findPayload(frame []byte) (string, []byte, error) {
	if isTNC2(frame) {
		return findPayloadTNC2(frame)
	}
	return findPayloadAX25(frame)
}

// isTNC2 reports whether the bytes before the first ':' look like a text
// header. AX.25 addresses are shifted left one bit, so callsign letters
// are never printable ASCII there.
func isTNC2(frame []byte) bool {
	idx := bytes.IndexByte(frame, ':')
	if idx <= 0 {
		return false
	}
	header := frame[:idx]
	for _, b := range header {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return bytes.IndexByte(header, '>') > 0
}

func findPayloadTNC2(frame []byte) (string, []byte, error) {
	idx := bytes.IndexByte(frame, ':')
	header := string(frame[:idx])
	payload := frame[idx+1:]

	callEnd := strings.Index(header, ">")
	if callEnd == -1 {
		return "", nil, fmt.Errorf("no source callsign separator '>' found in header: %s", header)
	}
	src := header[:callEnd]
	// APRS callsigns can be up to 9 chars
	if len(src) == 0 || len(src) > 9 {
		return "", nil, fmt.Errorf("invalid source callsign format: %s", src)
	}
	return src, payload, nil
}

// findPayloadAX25 decodes a raw AX.25 UI frame (from KISS).
func findPayloadAX25(frame []byte) (string, []byte, error) {
	// Dest(7) + Src(7) + Ctrl(1) + PID(1)
	if len(frame) < 2*addrLen+2 {
		return "", nil, fmt.Errorf("frame too short for AX.25")
	}

	src, _, err := parseAddressBytes(frame[addrLen : 2*addrLen])
	if err != nil {
		return "", nil, fmt.Errorf("invalid AX.25 source address: %w", err)
	}

	// The last address has the extension bit (LSB of the SSID byte) set.
	end := -1
	for i := 1; i <= maxAddrs && i*addrLen <= len(frame); i++ {
		if frame[i*addrLen-1]&0x01 == 0x01 {
			end = i * addrLen
			break
		}
	}
	if end < 2*addrLen {
		return "", nil, fmt.Errorf("could not find end of AX.25 address path")
	}
	if end+2 > len(frame) {
		return "", nil, fmt.Errorf("could not find AX.25 control/PID fields after address path")
	}

	if frame[end] != controlUI {
		return "", nil, fmt.Errorf("not a UI frame (control: 0x%02X)", frame[end])
	}
	// The PID is not checked; some TNCs use values other than pidNoLayer3.

	payload := frame[end+2:]

	// Third-party traffic may carry a TNC2 header inside the payload.
	if isTNC2(payload) {
		payload = payload[bytes.IndexByte(payload, ':')+1:]
	}
	return src, payload, nil
}

// parseAddressBytes decodes a 7-byte AX.25 address field.
// Returns callsign string (with -SSID when non-zero), SSID byte, and error.
func parseAddressBytes(addr []byte) (string, byte, error) {
	if len(addr) != addrLen {
		return "", 0, fmt.Errorf("address length is not 7 bytes")
	}

	var call strings.Builder
	for i := 0; i < 6; i++ {
		c := addr[i] >> 1
		if c == 0 {
			break
		}
		// Lenient: skip padding and anything unprintable.
		if c <= ' ' || c > '~' {
			continue
		}
		call.WriteByte(c)
	}
	if call.Len() == 0 {
		return "", 0, fmt.Errorf("decoded callsign is empty")
	}

	ssidByte := addr[6]
	if ssid := (ssidByte >> 1) & 0x0F; ssid > 0 {
		return fmt.Sprintf("%s-%d", call.String(), ssid), ssidByte, nil
	}
	return call.String(), ssidByte, nil
}
