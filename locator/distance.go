package locator

import "fmt"

// GridDistance is a great-circle distance (km) with an initial bearing (degrees).
type GridDistance struct {
	distance float64
	bearing  float64
}

// NewGridDistance validates distance >= 0 and bearing in [0, 360].
func NewGridDistance(distance, bearing float64) (GridDistance, error) {
	if !(distance >= 0.0) {
		return GridDistance{}, invalid("Distance cannot be negative")
	}
	if !(bearing >= 0.0 && bearing <= 360.0) {
		return GridDistance{}, invalid("Bearing must be in [0.0 - 360.0]")
	}
	return GridDistance{distance: distance, bearing: bearing}, nil
}

// Distance in kilometers.
func (d GridDistance) Distance() float64 { return d.distance }

// Bearing in degrees clockwise from true north.
func (d GridDistance) Bearing() float64 { return d.bearing }

func (d GridDistance) String() string {
	return fmt.Sprintf("%.1f km @ %.1f°", d.distance, d.bearing)
}
