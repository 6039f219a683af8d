package footer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const keyHints = "arrows pan · +/- zoom · g grid · h home · r reset · q quit"

// Model holds the footer's state
type Model struct {
	width      int
	zoom       float64
	lastPacket string
	mapSource  string
	heard      int
}

// New creates a footer. mapSource names the outline in use, "" for none.
func New(mapSource string) Model {
	return Model{
		width:     80,
		zoom:      1.0,
		mapSource: mapSource,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) SetZoom(zoom float64) { m.zoom = zoom }

// SetLastPacket records the most recent callsign and the heard count.
func (m *Model) SetLastPacket(callsign string, heard int) {
	m.lastPacket = callsign
	m.heard = heard
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// Status is the footer text without styling.
func (m Model) Status() string {
	parts := []string{fmt.Sprintf("Zoom %.1fx", m.zoom)}
	if m.lastPacket != "" {
		parts = append(parts, fmt.Sprintf("Last %s (%d heard)", m.lastPacket, m.heard))
	}
	if m.mapSource == "" {
		parts = append(parts, "no outline")
	}
	parts = append(parts, keyHints)
	return strings.Join(parts, " | ")
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(lipgloss.Color("236")).
		Width(m.width).
		MaxHeight(1)

	return style.Render(m.Status())
}
