package locator

import "fmt"

// GeoPoint is a latitude/longitude pair in degrees.
// The zero value is the point (0, 0); use NewGeoPoint for anything else.
type GeoPoint struct {
	lat float64
	lon float64
}

// NewGeoPoint validates latitude in [-90, 90] and longitude in [-180, 180].
// Latitude is checked first.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	// Written as !(in range) so NaN is rejected too.
	if !(lat >= -90.0 && lat <= 90.0) {
		return GeoPoint{}, invalid("Latitude must be between -90 and 90")
	}
	if !(lon >= -180.0 && lon <= 180.0) {
		return GeoPoint{}, invalid("Longitude must be between -180 and 180")
	}
	return GeoPoint{lat: lat, lon: lon}, nil
}

// Latitude in degrees, [-90, 90].
func (p GeoPoint) Latitude() float64 { return p.lat }

// Longitude in degrees, [-180, 180].
func (p GeoPoint) Longitude() float64 { return p.lon }

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.lat, p.lon)
}
