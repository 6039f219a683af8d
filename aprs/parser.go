// Package aprs decodes APRS traffic from APRS-IS text lines and raw AX.25
// frames into packet.Packet values.
package aprs

import (
	"bytes"
	"fmt"
	"strings"

	"qthmap/packet"
)

var telemetryKeywords = []string{
	"PARM",
	"UNIT",
	"EQNS",
	"BITS",
}

// isTelemetry checks if a message is likely an automated telemetry report
// based on keywords, being self-addressed, or coming from the NWS.
func isTelemetry(from, to, body string) bool {
	if from == to {
		return true
	}
	for _, kw := range telemetryKeywords {
		if strings.HasPrefix(body, kw) {
			return true
		}
	}
	return strings.Contains(from, "NWS")
}

// Parse takes a TNC2 text line or a raw AX.25 frame (payload from KISS)
// and returns a packet for positions, locator beacons, statuses and messages.
func Parse(rawFrame []byte) (*packet.Packet, error) {
	callsign, payload, err := findPayload(rawFrame)
	if err != nil {
		return nil, fmt.Errorf("AX.25 parse failed: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty APRS payload")
	}

	pkt := &packet.Packet{
		Callsign: callsign,
		Type:     packet.TypeUnknown,
	}

	// APRS Data Type Identifier
	switch payload[0] {
	case '!', '/', '=', '@':
		lat, lon, err := parseUncompressedPosition(payload)
		if err != nil {
			return nil, fmt.Errorf("uncompressed position parse failed: %w", err)
		}
		pkt.Type = packet.TypePosition
		pkt.Lat, pkt.Lon = lat, lon

	case ';':
		name, lat, lon, err := parseObjectPosition(payload)
		if err != nil {
			// Not a well-formed object; it may still carry a '!' report.
			if err := parseEmbedded(pkt, payload); err != nil {
				return nil, err
			}
			break
		}
		pkt.Type = packet.TypePosition
		pkt.Callsign = name
		pkt.Lat, pkt.Lon = lat, lon

	case ':':
		to, body, id, err := parseMessage(payload)
		if err != nil {
			return nil, fmt.Errorf("message parse failed: %w", err)
		}
		if isTelemetry(callsign, to, body) {
			// Callers drop packets that fail to parse.
			return nil, fmt.Errorf("ignoring telemetry/NWS packet: %s", body)
		}
		pkt.Type = packet.TypeMessage
		pkt.MsgTo = to
		pkt.MsgBody = body
		pkt.MsgID = id

	case '[':
		grid, point, err := parseLocatorBeacon(payload)
		if err != nil {
			return nil, fmt.Errorf("locator beacon parse failed: %w", err)
		}
		pkt.Type = packet.TypePosition
		pkt.Grid = grid
		pkt.Lat, pkt.Lon = point.Latitude(), point.Longitude()

	case '>':
		st := parseStatus(payload)
		pkt.Status = st.text
		if st.grid != "" {
			pkt.Type = packet.TypePosition
			pkt.Grid = st.grid
			pkt.Lat, pkt.Lon = st.point.Latitude(), st.point.Longitude()
		} else {
			pkt.Type = packet.TypeStatus
		}

	default:
		if err := parseEmbedded(pkt, payload); err != nil {
			return nil, err
		}
	}

	if pkt.Type == packet.TypeUnknown {
		return nil, fmt.Errorf("packet parsed but type is still unknown")
	}
	if pkt.Type == packet.TypePosition {
		if _, err := pkt.Point(); err != nil {
			return nil, fmt.Errorf("position out of range: %w", err)
		}
	}
	return pkt, nil
}

// parseEmbedded handles packets without a valid data type prefix that
// still carry a '!' position report within the first 40 bytes.
func parseEmbedded(pkt *packet.Packet, payload []byte) error {
	idx := bytes.IndexByte(payload, '!')
	if idx <= 0 || idx >= 40 {
		return fmt.Errorf("unsupported APRS data type: %c", payload[0])
	}
	lat, lon, err := parseUncompressedPosition(payload[idx:])
	if err != nil {
		return fmt.Errorf("uncompressed position parse failed: %w", err)
	}
	pkt.Type = packet.TypePosition
	pkt.Lat, pkt.Lon = lat, lon
	return nil
}
