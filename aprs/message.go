package aprs

import (
	"fmt"
	"strings"
)

// parseMessage parses a message packet (data type ':').
// Format: :ADDRESSEE:message body{id
func parseMessage(payload []byte) (to, body, id string, err error) {
	s := string(payload[1:])

	// addressee (9, space padded) + ':' + at least one body char
	if len(s) < 11 {
		return "", "", "", fmt.Errorf("message packet too short")
	}

	to = strings.TrimSpace(s[:9])
	if to == "" {
		return "", "", "", fmt.Errorf("message recipient is blank")
	}
	if s[9] != ':' {
		return "", "", "", fmt.Errorf("missing message body separator ':'")
	}

	text := s[10:]
	if i := strings.LastIndex(text, "{"); i > 0 {
		body = strings.TrimSpace(text[:i])
		id = strings.TrimSpace(text[i+1:])
	} else {
		body = strings.TrimSpace(text)
	}

	if body == "" {
		return "", "", "", fmt.Errorf("message body is blank")
	}
	return to, body, id, nil
}
