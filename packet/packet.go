package packet

import "qthmap/locator"

// PacketType defines the type of APRS data.
type PacketType int

const (
	TypePosition PacketType = iota // A position report
	TypeMessage                    // A message
	TypeStatus                     // A status report without a locator
	TypeUnknown                    // Unknown or unparsed
)

func (t PacketType) String() string {
	switch t {
	case TypePosition:
		return "position"
	case TypeMessage:
		return "message"
	case TypeStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Packet holds the simplified APRS data we care about.
type Packet struct {
	Callsign string     // Source callsign (always present)
	Type     PacketType

	// Fields for TypePosition
	Lat float64
	Lon float64
	// Grid is set when the position came from a Maidenhead locator;
	// Lat/Lon then hold the square's midpoint.
	Grid string

	// Fields for TypeMessage
	MsgTo   string // Recipient
	MsgBody string // Message content
	MsgID   string // Message ID

	// Fields for TypeStatus
	Status string
}

// Point returns the packet position as a validated GeoPoint.
func (p *Packet) Point() (locator.GeoPoint, error) {
	return locator.NewGeoPoint(p.Lat, p.Lon)
}
