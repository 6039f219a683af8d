package header

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTitle(t *testing.T) {
	cases := []struct {
		call, grid, want string
	}{
		{"", "", "QTHMap"},
		{"N0CALL", "", "QTHMap · N0CALL"},
		{"N0CALL", "DN70ja", "QTHMap · N0CALL · DN70ja"},
		{"", "DN70", "QTHMap · DN70"},
	}
	for _, tc := range cases {
		if got := New(tc.call, tc.grid).Title(); got != tc.want {
			t.Fatalf("Title()=%q want %q", got, tc.want)
		}
	}
}

func TestView_ContainsTitle(t *testing.T) {
	m, _ := New("N0CALL", "DN70ja").Update(tea.WindowSizeMsg{Width: 60, Height: 1})
	if !strings.Contains(m.View(), "N0CALL") {
		t.Fatalf("view missing callsign: %q", m.View())
	}
}
