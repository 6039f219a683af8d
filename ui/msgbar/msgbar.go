package msgbar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qthmap/packet"
)

const (
	// Height is the total height of the bar, border included.
	Height = 7
)

// Model holds the message bar's state
type Model struct {
	width    int
	height   int
	messages []string // newest first
}

// New creates a new message bar model
func New() Model {
	return Model{
		width:  80,
		height: Height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// FormatLine renders a message or status packet for the bar.
func FormatLine(pkt *packet.Packet) (string, bool) {
	switch pkt.Type {
	case packet.TypeMessage:
		return fmt.Sprintf("%s>%s: %s", pkt.Callsign, pkt.MsgTo, pkt.MsgBody), true
	case packet.TypeStatus, packet.TypePosition:
		if pkt.Status == "" {
			return "", false
		}
		if pkt.Grid != "" {
			return fmt.Sprintf("%s [%s] %s", pkt.Callsign, pkt.Grid, pkt.Status), true
		}
		return fmt.Sprintf("%s: %s", pkt.Callsign, pkt.Status), true
	}
	return "", false
}

func (m *Model) push(line string) {
	m.messages = append([]string{line}, m.messages...)
	maxMessages := Height - 2
	if len(m.messages) > maxMessages {
		m.messages = m.messages[:maxMessages]
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = Height

	case *packet.Packet:
		if line, ok := FormatLine(msg); ok {
			m.push(line)
		}
	}
	return m, nil
}

func (m Model) content() string {
	contentWidth := m.width - 2 - 2 // -border, -padding
	if contentWidth < 0 {
		contentWidth = 0
	}
	rows := m.height - 2
	if rows < 0 {
		rows = 0
	}

	var b strings.Builder
	for i := 0; i < rows; i++ {
		// Oldest at the top, in arrival order.
		if j := len(m.messages) - 1 - i; j >= 0 {
			line := []rune(m.messages[j])
			if len(line) > contentWidth {
				line = line[:contentWidth]
			}
			b.WriteString(string(line))
		}
		if i < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2).
		Padding(0, 1)

	return style.Render(m.content())
}
