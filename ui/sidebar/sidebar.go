package sidebar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qthmap/locator"
	"qthmap/station"
)

// Model holds the sidebar's state
type Model struct {
	width   int
	height  int
	entries []station.Entry
}

// New creates a new sidebar model
func New() Model {
	return Model{
		width:  34, // Default
		height: 24, // Default
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetEntries replaces the heard list, newest first.
func (m *Model) SetEntries(entries []station.Entry) {
	m.entries = entries
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// FormatEntry renders one heard station as "CALL   GRID   123 km NE".
func FormatEntry(e station.Entry) string {
	line := fmt.Sprintf("%-9s %-6s", e.Callsign, e.Grid)
	if e.HasPath {
		line += fmt.Sprintf(" %6.0f km %-3s", e.Path.Distance(), locator.CompassPoint(e.Path.Bearing()))
	}
	return strings.TrimRight(line, " ")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func (m Model) content() string {
	innerWidth := m.width - 2 - 2 // -2 border, -2 padding

	header := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Width(innerWidth).
		Render(fmt.Sprintf("Heard (%d)", len(m.entries)))

	var b strings.Builder
	b.WriteString(header)

	// Inner height minus the header line
	contentHeight := (m.height - 2) - 1
	for i, e := range m.entries {
		if i >= contentHeight {
			break
		}
		b.WriteRune('\n')
		b.WriteString(truncate(FormatEntry(e), innerWidth))
	}
	return b.String()
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).   // -2 for border
		Height(m.height - 2). // -2 for border
		Padding(0, 1)

	return style.Render(m.content())
}
