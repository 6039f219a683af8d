package header

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const appTitle = "QTHMap"

// Model holds the header's state
type Model struct {
	width    int
	callsign string
	grid     string
}

// New creates a header for the operator's station. Either value may be empty.
func New(callsign, grid string) Model {
	return Model{
		width:    80, // Default width, will be updated
		callsign: callsign,
		grid:     grid,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// Title is the header text without styling.
func (m Model) Title() string {
	parts := []string{appTitle}
	if m.callsign != "" {
		parts = append(parts, m.callsign)
	}
	if m.grid != "" {
		parts = append(parts, m.grid)
	}
	return strings.Join(parts, " · ")
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("63")).  // matches map border
		Foreground(lipgloss.Color("255")). // White text
		Width(m.width).
		Align(lipgloss.Center)

	return style.Render(m.Title())
}
