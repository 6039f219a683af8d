package mapview

import (
	"math"

	"qthmap/locator"
)

// squareViewWidth is the widest view, in degrees of longitude, at which
// the overlay switches from fields to squares.
const squareViewWidth = 40.0

// gridStep returns the cell size of the overlay for the current view.
func (m Model) gridStep() (lonStep, latStep float64, precision int) {
	if m.viewBounds.MaxX-m.viewBounds.MinX <= squareViewWidth {
		return 2, 1, 4
	}
	return 20, 10, 2
}

// drawGrid marks cell corners with '+' and labels each visible cell with
// its locator.
func (m Model) drawGrid(c *canvas) {
	lonStep, latStep, precision := m.gridStep()

	minLon := math.Max(math.Floor(m.viewBounds.MinX/lonStep)*lonStep, -180)
	maxLon := math.Min(m.viewBounds.MaxX, 180)
	minLat := math.Max(math.Floor(m.viewBounds.MinY/latStep)*latStep, -90)
	maxLat := math.Min(m.viewBounds.MaxY, 90)

	for lon := minLon; lon <= maxLon; lon += lonStep {
		for lat := minLat; lat <= maxLat; lat += latStep {
			x, y := m.project(lon, lat, c.width, c.height)
			if c.inside(x, y) && c.cells[y][x] == ' ' {
				c.cells[y][x] = '+'
			}
			if lon+lonStep > 180 || lat+latStep > 90 {
				continue
			}
			name, ok := cellName(lat+latStep/2, lon+lonStep/2, precision)
			if !ok {
				continue
			}
			cx, cy := m.project(lon+lonStep/2, lat+latStep/2, c.width, c.height)
			c.label(cx, cy, name)
		}
	}
}

// cellName is the field (precision 2) or square (precision 4) containing
// lat, lon.
func cellName(lat, lon float64, precision int) (string, bool) {
	sq, err := locator.EncodeLatLon(lat, lon, 4)
	if err != nil {
		return "", false
	}
	return sq[:precision], true
}
