package mapview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonas-p/go-shp"
	"github.com/rs/zerolog/log"

	"qthmap/config"
	"qthmap/locator"
	"qthmap/station"
)

// Constants for Panning and Zooming
const (
	panFactor  = 0.1
	zoomFactor = 1.2
)

var worldBounds = shp.Box{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}

// Model holds the map's state
type Model struct {
	width  int
	height int

	mapPolygons    []*shp.Polygon
	originalBounds shp.Box
	viewBounds     shp.Box
	shapefile      string

	home     locator.GeoPoint
	hasHome  bool
	showGrid bool

	entries []station.Entry
}

// loadMapData reads the shapefile
func loadMapData(path string) ([]*shp.Polygon, shp.Box, error) {
	shapeFile, err := shp.Open(path)
	if err != nil {
		return nil, shp.Box{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shapeFile.Close()

	var polygons []*shp.Polygon
	bounds := shp.Box{MinX: 1e9, MinY: 1e9, MaxX: -1e9, MaxY: -1e9}

	for shapeFile.Next() {
		_, shape := shapeFile.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		polygons = append(polygons, polygon)
		bounds.Extend(polygon.BBox())
	}

	if len(polygons) == 0 {
		return nil, shp.Box{}, fmt.Errorf("no polygons found in shapefile")
	}
	return polygons, bounds, nil
}

// New creates a map model. Without a readable shapefile the map shows the
// whole world with only the grid overlay and stations.
func New(conf config.MapConfig, tracker *station.Tracker) Model {
	m := Model{
		originalBounds: worldBounds,
		viewBounds:     worldBounds,
		width:          80,
		height:         23,
		showGrid:       conf.GridLines,
	}

	if conf.Shapefile != "" {
		polygons, bounds, err := loadMapData(conf.Shapefile)
		if err != nil {
			log.Warn().Err(err).Str("path", conf.Shapefile).Msg("Map outline unavailable")
		} else {
			m.mapPolygons = polygons
			m.originalBounds = bounds
			m.viewBounds = bounds
			m.shapefile = conf.Shapefile
		}
	}

	if tracker != nil {
		m.home, m.hasHome = tracker.Home()
	}
	if m.hasHome && conf.DefaultZoom > 1.0 {
		m.setCenterAndZoom(m.home.Longitude(), m.home.Latitude(), conf.DefaultZoom)
	}
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// SetEntries replaces the plotted stations.
func (m *Model) SetEntries(entries []station.Entry) {
	m.entries = entries
}

// Shapefile is the outline in use, or "" for none.
func (m Model) Shapefile() string { return m.shapefile }

// GridVisible reports whether the Maidenhead overlay is drawn.
func (m Model) GridVisible() bool { return m.showGrid }

func (m *Model) setCenterAndZoom(lon, lat, zoomLevel float64) {
	newWidth := (m.originalBounds.MaxX - m.originalBounds.MinX) / zoomLevel
	newHeight := (m.originalBounds.MaxY - m.originalBounds.MinY) / zoomLevel
	m.viewBounds.MinX = lon - (newWidth / 2)
	m.viewBounds.MaxX = lon + (newWidth / 2)
	m.viewBounds.MinY = lat - (newHeight / 2)
	m.viewBounds.MaxY = lat + (newHeight / 2)
}

func (m *Model) zoomByFactor(factor float64) {
	centerX := (m.viewBounds.MinX + m.viewBounds.MaxX) / 2
	centerY := (m.viewBounds.MinY + m.viewBounds.MaxY) / 2
	newWidth := (m.viewBounds.MaxX - m.viewBounds.MinX) * factor
	newHeight := (m.viewBounds.MaxY - m.viewBounds.MinY) * factor
	if newWidth > (m.originalBounds.MaxX-m.originalBounds.MinX) || newHeight > (m.originalBounds.MaxY-m.originalBounds.MinY) {
		m.viewBounds = m.originalBounds
		return
	}
	m.viewBounds.MinX = centerX - (newWidth / 2)
	m.viewBounds.MaxX = centerX + (newWidth / 2)
	m.viewBounds.MinY = centerY - (newHeight / 2)
	m.viewBounds.MaxY = centerY + (newHeight / 2)
}

func (m *Model) pan(dx, dy float64) {
	panX := (m.viewBounds.MaxX - m.viewBounds.MinX) * dx
	panY := (m.viewBounds.MaxY - m.viewBounds.MinY) * dy
	m.viewBounds.MinX += panX
	m.viewBounds.MaxX += panX
	m.viewBounds.MinY += panY
	m.viewBounds.MaxY += panY
}

// GetZoomLevel is the ratio of the full map width to the visible width.
func (m Model) GetZoomLevel() float64 {
	if m.viewBounds.MaxX == m.viewBounds.MinX {
		return 1.0
	}
	return (m.originalBounds.MaxX - m.originalBounds.MinX) / (m.viewBounds.MaxX - m.viewBounds.MinX)
}

// Update function
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "k", "up":
			m.pan(0, panFactor)
		case "l", "down":
			m.pan(0, -panFactor)
		case "j", "left":
			m.pan(-panFactor, 0)
		case ";", "right":
			m.pan(panFactor, 0)
		case "K", "+":
			m.zoomByFactor(1 / zoomFactor)
		case "L", "-":
			m.zoomByFactor(zoomFactor)
		case "r":
			m.viewBounds = m.originalBounds
		case "h":
			if m.hasHome {
				m.setCenterAndZoom(m.home.Longitude(), m.home.Latitude(), m.GetZoomLevel())
			}
		case "g":
			m.showGrid = !m.showGrid
		}
	}
	return m, nil
}

// project converts lon/lat to terminal x/y coordinates
func (m Model) project(lon, lat float64, viewWidth, viewHeight int) (int, int) {
	w := m.viewBounds.MaxX - m.viewBounds.MinX
	h := m.viewBounds.MaxY - m.viewBounds.MinY
	if w == 0 {
		w = 1e-6
	}
	if h == 0 {
		h = 1e-6
	}
	x := (lon - m.viewBounds.MinX) / w
	y := (m.viewBounds.MaxY - lat) / h // screen y grows downwards
	return int(x * float64(viewWidth)), int(y * float64(viewHeight))
}

type canvas struct {
	cells  [][]rune
	width  int
	height int
}

func newCanvas(w, h int) *canvas {
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", w))
	}
	return &canvas{cells: cells, width: w, height: h}
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *canvas) set(x, y int, r rune) {
	if c.inside(x, y) {
		c.cells[y][x] = r
	}
}

// label writes s centred on x, only over blank cells.
func (c *canvas) label(x, y int, s string) {
	runes := []rune(s)
	start := x - len(runes)/2
	for i, r := range runes {
		if c.inside(start+i, y) && c.cells[y][start+i] == ' ' {
			c.cells[y][start+i] = r
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteRune('\n')
	}
	return b.String()
}

func (m Model) renderMapViewport(viewWidth, viewHeight int) string {
	if viewWidth <= 0 {
		viewWidth = 1
	}
	if viewHeight <= 0 {
		viewHeight = 1
	}
	c := newCanvas(viewWidth, viewHeight)

	// 1. Outline
	for _, polygon := range m.mapPolygons {
		pb := polygon.BBox()
		if pb.MaxX < m.viewBounds.MinX || pb.MinX > m.viewBounds.MaxX ||
			pb.MaxY < m.viewBounds.MinY || pb.MinY > m.viewBounds.MaxY {
			continue
		}
		for _, point := range polygon.Points {
			x, y := m.project(point.X, point.Y, viewWidth, viewHeight)
			c.set(x, y, '.')
		}
	}

	// 2. Maidenhead overlay
	if m.showGrid {
		m.drawGrid(c)
	}

	// 3. Home station
	if m.hasHome {
		x, y := m.project(m.home.Longitude(), m.home.Latitude(), viewWidth, viewHeight)
		c.set(x, y, 'H')
	}

	// 4. Stations, callsign underneath
	for _, e := range m.entries {
		x, y := m.project(e.Point.Longitude(), e.Point.Latitude(), viewWidth, viewHeight)
		if !c.inside(x, y) {
			continue
		}
		c.set(x, y, '*')
		c.label(x, y+1, e.Callsign)
	}

	return c.String()
}

// View function
func (m Model) View() string {
	mapStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2)

	w := mapStyle.GetWidth() - mapStyle.GetHorizontalPadding()
	h := mapStyle.GetHeight() - mapStyle.GetVerticalPadding()

	return mapStyle.Render(m.renderMapViewport(w, h))
}
