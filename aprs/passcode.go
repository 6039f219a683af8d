package aprs

import (
	"fmt"
	"strings"
)

// CalculatePasscode generates the APRS-IS passcode for a given callsign.
// The SSID is ignored.
func CalculatePasscode(callsign string) (int, error) {
	call := strings.ToUpper(strings.Split(callsign, "-")[0])
	if len(call) < 1 || len(call) > 6 {
		return 0, fmt.Errorf("invalid callsign format for passcode: %s", callsign)
	}

	hash := 0x73e2
	for i := 0; i < len(call); i++ {
		// Even positions go in the high byte.
		if i%2 == 0 {
			hash ^= int(call[i]) << 8
		} else {
			hash ^= int(call[i])
		}
	}
	return hash & 0x7fff, nil
}
