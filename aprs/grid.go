package aprs

import (
	"bytes"
	"fmt"
	"strings"

	"qthmap/locator"
)

// parseLocatorBeacon handles '[' Maidenhead Locator Beacons.
// Format: [DN70ja]optional comment
func parseLocatorBeacon(payload []byte) (string, locator.GeoPoint, error) {
	end := bytes.IndexByte(payload, ']')
	if end == -1 {
		return "", locator.GeoPoint{}, fmt.Errorf("missing closing ']'")
	}
	return decodeGrid(string(payload[1:end]))
}

type status struct {
	grid  string
	point locator.GeoPoint
	text  string
}

// parseStatus handles '>' Status Reports. A report may start with a
// 4 or 6 character locator followed by a symbol table and code:
//
//	>IO91SX/G Station text
//	>IO91/G
func parseStatus(payload []byte) status {
	body := string(payload[1:])
	for _, n := range []int{6, 4} {
		if !hasLocatorPrefix(body, n) {
			continue
		}
		grid, point, err := decodeGrid(body[:n])
		if err != nil {
			continue
		}
		return status{grid: grid, point: point, text: strings.TrimSpace(body[n+2:])}
	}
	return status{text: strings.TrimSpace(body)}
}

func hasLocatorPrefix(s string, n int) bool {
	if len(s) < n+2 {
		return false
	}
	if locator.Validate(s[:n]) != nil {
		return false
	}
	if !isSymbolTable(s[n]) || s[n+1] < 0x21 || s[n+1] > 0x7e {
		return false
	}
	return len(s) == n+2 || s[n+2] == ' '
}

func isSymbolTable(c byte) bool {
	return c == '/' || c == '\\' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
}

func decodeGrid(s string) (string, locator.GeoPoint, error) {
	grid, err := locator.Canonical(s)
	if err != nil {
		return "", locator.GeoPoint{}, err
	}
	point, err := locator.Midpoint(grid)
	if err != nil {
		return "", locator.GeoPoint{}, err
	}
	return grid, point, nil
}
