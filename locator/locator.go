// Package locator converts between coordinates and Maidenhead grid squares
// and computes great-circle distance and bearing on a spherical Earth.
//
// Grid squares are 4 characters (field + square, 2°x1°) or 6 characters
// (plus subsquare, 5'x2.5'). Input is case-insensitive; output always uses
// the canonical form "DN70ia": upper-case field, digits, lower-case subsquare.
//
// Everything here is a pure function over immutable values and is safe for
// concurrent use.
package locator

import (
	"math"
	"strings"
)

// EarthRadiusKm is the mean radius used for all distance calculations.
const EarthRadiusKm = 6371.0

const (
	fieldLon  = 20.0
	fieldLat  = 10.0
	squareLon = 2.0
	squareLat = 1.0
	subLon    = 1.0 / 12.0 // 5'
	subLat    = 1.0 / 24.0 // 2.5'

	fields     = 18 // A-R
	squares    = 10 // 0-9
	subsquares = 24 // A-X
)

var ordinals = [...]string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth"}

// Validate reports whether square is a well-formed 4 or 6 character locator.
func Validate(square string) error {
	return validate(strings.ToLower(square))
}

// validate expects an already lower-cased square.
func validate(sq string) error {
	if len(sq) != 4 && len(sq) != 6 {
		return invalid("Square can only be 4 or 6 characters")
	}
	for i := 0; i < len(sq); i++ {
		c := sq[i]
		switch i {
		case 0, 1:
			if c < 'a' || c > 'r' {
				return invalid(ordinals[i] + " character must be in [A-R]")
			}
		case 2, 3:
			if c < '0' || c > '9' {
				return invalid(ordinals[i] + " character must be in [0-9]")
			}
		default:
			if c < 'a' || c > 'x' {
				return invalid(ordinals[i] + " character must be in [A-X]")
			}
		}
	}
	return nil
}

// Midpoint returns the centre of a grid square.
func Midpoint(square string) (GeoPoint, error) {
	sq := strings.ToLower(square)
	if err := validate(sq); err != nil {
		return GeoPoint{}, err
	}

	// Field
	lon := -180.0 + fieldLon*float64(sq[0]-'a')
	lat := -90.0 + fieldLat*float64(sq[1]-'a')

	// Square
	lon += squareLon * float64(sq[2]-'0')
	lat += squareLat * float64(sq[3]-'0')

	if len(sq) == 6 {
		// Subsquare, then centre within it.
		lon += subLon*float64(sq[4]-'a') + subLon/2
		lat += subLat*float64(sq[5]-'a') + subLat/2
	} else {
		lon += squareLon / 2
		lat += squareLat / 2
	}

	return NewGeoPoint(lat, lon)
}

// Canonical returns square in its canonical case, e.g. "dn70JA" -> "DN70ja".
func Canonical(square string) (string, error) {
	sq := strings.ToLower(square)
	if err := validate(sq); err != nil {
		return "", err
	}
	b := []byte(sq)
	b[0] -= 'a' - 'A'
	b[1] -= 'a' - 'A'
	return string(b), nil
}

// EncodeLatLon is Encode for raw coordinates.
func EncodeLatLon(lat, lon float64, precision int) (string, error) {
	p, err := NewGeoPoint(lat, lon)
	if err != nil {
		return "", err
	}
	return Encode(p, precision)
}

// Encode returns the grid square containing p at precision 4 or 6.
func Encode(p GeoPoint, precision int) (string, error) {
	if precision != 4 && precision != 6 {
		return "", invalid("Precision can only be 4 or 6 characters")
	}

	lon := p.lon + 180.0
	lat := p.lat + 90.0

	// The upper edges (lon 180, lat 90) belong to the last cell.
	lonField := cell(lon/fieldLon, fields)
	latField := cell(lat/fieldLat, fields)
	lonSquare := cell((lon-fieldLon*float64(lonField))/squareLon, squares)
	latSquare := cell((lat-fieldLat*float64(latField))/squareLat, squares)

	out := make([]byte, 0, precision)
	out = append(out,
		byte('A'+lonField),
		byte('A'+latField),
		byte('0'+lonSquare),
		byte('0'+latSquare),
	)

	if precision == 6 {
		lonSub := cell((lon-fieldLon*float64(lonField)-squareLon*float64(lonSquare))/subLon, subsquares)
		latSub := cell((lat-fieldLat*float64(latField)-squareLat*float64(latSquare))/subLat, subsquares)
		out = append(out, byte('a'+lonSub), byte('a'+latSub))
	}

	return string(out), nil
}

// cell floors v into [0, n).
func cell(v float64, n int) int {
	i := int(math.Floor(v))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// DistanceKm is the Haversine great-circle distance between a and b.
func DistanceKm(a, b GeoPoint) float64 {
	theta1 := toRadians(a.lat)
	theta2 := toRadians(b.lat)
	deltaTheta := theta2 - theta1
	deltaLambda := toRadians(b.lon - a.lon)

	h := math.Sin(deltaTheta/2)*math.Sin(deltaTheta/2) +
		math.Cos(theta1)*math.Cos(theta2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(h, 1)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// BearingDeg is the initial bearing (forward azimuth) from a to b in [0, 360).
func BearingDeg(a, b GeoPoint) float64 {
	theta1 := toRadians(a.lat)
	theta2 := toRadians(b.lat)
	deltaLambda := toRadians(b.lon - a.lon)

	y := math.Sin(deltaLambda) * math.Cos(theta2)
	x := math.Cos(theta1)*math.Sin(theta2) -
		math.Sin(theta1)*math.Cos(theta2)*math.Cos(deltaLambda)

	deg := toDegrees(math.Atan2(y, x))
	return math.Mod(deg+360.0, 360.0)
}

// DistanceAndBearing measures from the midpoint of squareA to the midpoint of squareB.
func DistanceAndBearing(squareA, squareB string) (GridDistance, error) {
	a, err := Midpoint(squareA)
	if err != nil {
		return GridDistance{}, err
	}
	b, err := Midpoint(squareB)
	if err != nil {
		return GridDistance{}, err
	}
	return NewGridDistance(DistanceKm(a, b), BearingDeg(a, b))
}

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint names the 16-wind direction closest to bearing.
func CompassPoint(bearing float64) string {
	b := math.Mod(bearing, 360.0)
	if b < 0 {
		b += 360.0
	}
	i := int(math.Floor(b/22.5+0.5)) % len(compassPoints)
	return compassPoints[i]
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func toDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
