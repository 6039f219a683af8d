package aprs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// normalPosRegex captures an uncompressed position:
// 1: lat_deg (dd)
// 2: lat_min (mm.mm)
// 3: lat_dir (N/S)
// 4: symbol_table (the separator, e.g., \ / S)
// 5: lon_deg (ddd)
// 6: lon_min (mm.mm)
// 7: lon_dir (E/W)
// 8: symbol (the icon)
// 9: body (comment)
var normalPosRegex = regexp.MustCompile(
	`^(\d{2})([0-9 ]{2}\.[0-9 ]{2})([NnSs])` + // Lat
		`([\/\\0-9A-Z])` + // Symbol Table (Separator)
		`(\d{3})([0-9 ]{2}\.[0-9 ]{2})([EeWw])` + // Lon
		`([\x21-\x7e])` + // Symbol
		`(.*)$`, // Comment
)

// parseDegMin converts APRS degrees and minutes to decimal degrees.
// Ambiguity spaces in the minutes are replaced with '5' to centre the position.
// neg is the hemisphere letter that makes the value negative.
func parseDegMin(degStr, minStr, dirStr string, pos, neg byte) (float64, error) {
	minStr = strings.ReplaceAll(minStr, " ", "5")

	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0, err
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, err
	}
	if min >= 60 {
		return 0, fmt.Errorf("minutes out of range: %s", minStr)
	}

	dec := deg + min/60.0
	switch strings.ToUpper(dirStr)[0] {
	case pos:
		return dec, nil
	case neg:
		return -dec, nil
	default:
		return 0, fmt.Errorf("invalid hemisphere: %s", dirStr)
	}
}

// parseNormal handles uncompressed position reports ('!', '=', '/', '@').
// payload includes the data type identifier.
func parseNormal(payload string) (float64, float64, error) {
	if len(payload) < 18 {
		return 0, 0, fmt.Errorf("packet too short")
	}

	body := payload[1:]
	switch payload[0] {
	case '/', '@':
		// Timestamp (DDHHMMz / HHMMSSh), not decoded.
		if len(body) < 7 {
			return 0, 0, fmt.Errorf("timestamped packet too short")
		}
		body = body[7:]
	}

	m := normalPosRegex.FindStringSubmatch(body)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid uncompressed position format")
	}

	lat, err := parseDegMin(m[1], m[2], m[3], 'N', 'S')
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lon, err := parseDegMin(m[5], m[6], m[7], 'E', 'W')
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse longitude: %w", err)
	}
	return lat, lon, nil
}

func parseUncompressedPosition(payload []byte) (float64, float64, error) {
	return parseNormal(string(payload))
}

// parseObjectPosition handles ';' Object Reports and returns the object name.
// Format: ;OBJECTNAME*HHMMSSzDDMM.hhN/DDDMM.hhW$...
func parseObjectPosition(payload []byte) (string, float64, float64, error) {
	s := string(payload)
	if len(s) == 0 || s[0] != ';' {
		return "", 0, 0, fmt.Errorf("not an object report")
	}
	// ; (1) + name (9) + marker (1) + time (7) + position
	if len(s) < 18 {
		return "", 0, 0, fmt.Errorf("object packet too short")
	}
	// '*' live, '_' killed
	if s[10] != '*' && s[10] != '_' {
		return "", 0, 0, fmt.Errorf("invalid object marker: %c", s[10])
	}
	name := strings.TrimSpace(s[1:10])
	if name == "" {
		return "", 0, 0, fmt.Errorf("object name is blank")
	}

	// The rest, from the timestamp on, reads like a '/' report.
	lat, lon, err := parseNormal("/" + s[11:])
	if err != nil {
		return "", 0, 0, err
	}
	return name, lat, lon, nil
}
