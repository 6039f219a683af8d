package main

import (
	"errors"
	"fmt"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"qthmap/config"
	"qthmap/device/aprsis"
	"qthmap/device/kiss"
	"qthmap/packet"
	"qthmap/station"
	"qthmap/ui/footer"
	"qthmap/ui/header"
	mapview "qthmap/ui/map"
	"qthmap/ui/msgbar"
	"qthmap/ui/sidebar"
)

var errConnectionClosed = errors.New("connection closed")

// PacketClient defines the interface for TNC/network clients
type PacketClient interface {
	Start(chan<- *packet.Packet)
	Close()
}

// Layout
const (
	sidebarWidth = 34
	headerHeight = 1
	footerHeight = 1
)

// model holds the application's state
type model struct {
	width  int
	height int
	config config.Config

	tracker *station.Tracker
	now     func() time.Time

	headerModel  header.Model
	mapModel     mapview.Model
	msgbarModel  msgbar.Model
	footerModel  footer.Model
	sidebarModel sidebar.Model

	packetClient PacketClient
	packetChan   chan *packet.Packet

	err error
}

// initialModel creates the starting model
func initialModel(conf config.Config, client PacketClient, pChan chan *packet.Packet) (model, error) {
	tracker, err := station.NewTracker(conf.Station.GridSquare, station.DefaultMaxEntries)
	if err != nil {
		return model{}, err
	}

	mapMod := mapview.New(conf.Map, tracker)
	footerMod := footer.New(mapMod.Shapefile())
	footerMod.SetZoom(mapMod.GetZoomLevel())

	return model{
		width:        80,
		height:       60,
		config:       conf,
		tracker:      tracker,
		now:          time.Now,
		headerModel:  header.New(conf.Station.Callsign, tracker.HomeGrid()),
		mapModel:     mapMod,
		msgbarModel:  msgbar.New(),
		footerModel:  footerMod,
		sidebarModel: sidebar.New(),
		packetClient: client,
		packetChan:   pChan,
	}, nil
}

// listenForPackets is a tea.Cmd that waits for the next packet
func (m model) listenForPackets() tea.Cmd {
	return func() tea.Msg {
		pkt, ok := <-m.packetChan
		if !ok || pkt == nil {
			return errConnectionClosed
		}
		return pkt
	}
}

// speakMessageCmd runs 'say' without waiting for it to finish
func speakMessageCmd(msg string) tea.Cmd {
	return func() tea.Msg {
		cmd := exec.Command("say", msg)
		if err := cmd.Start(); err != nil {
			log.Warn().Err(err).Msg("Could not speak message")
			return nil
		}
		go cmd.Wait()
		return nil
	}
}

func (m model) Init() tea.Cmd {
	if m.packetClient != nil {
		go m.packetClient.Start(m.packetChan)
	}
	return m.listenForPackets()
}

// observe plots a position packet and refreshes the heard list.
func (m *model) observe(pkt *packet.Packet) {
	e, err := m.tracker.Observe(pkt, m.now())
	if err != nil {
		log.Debug().Err(err).Str("callsign", pkt.Callsign).Msg("Position not plotted")
		return
	}
	ev := log.Debug().Str("callsign", e.Callsign).Str("grid", e.Grid)
	if e.HasPath {
		ev = ev.Float64("km", e.Path.Distance()).Float64("bearing", e.Path.Bearing())
	}
	ev.Msg("Heard station")

	entries := m.tracker.Entries()
	m.mapModel.SetEntries(entries)
	m.sidebarModel.SetEntries(entries)
	m.footerModel.SetLastPacket(e.Callsign, len(entries))
}

func (m model) resize(width, height int) (model, []tea.Cmd) {
	m.width = width
	m.height = height

	mainHeight := m.height - headerHeight - msgbar.Height - footerHeight
	if mainHeight < 1 {
		mainHeight = 1
	}
	mapWidth := m.width - sidebarWidth
	if mapWidth < 1 {
		mapWidth = 1
	}

	var cmds [5]tea.Cmd
	m.headerModel, cmds[0] = m.headerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: headerHeight})
	m.sidebarModel, cmds[1] = m.sidebarModel.Update(tea.WindowSizeMsg{Width: sidebarWidth, Height: mainHeight})
	m.mapModel, cmds[2] = m.mapModel.Update(tea.WindowSizeMsg{Width: mapWidth, Height: mainHeight})
	m.msgbarModel, cmds[3] = m.msgbarModel.Update(tea.WindowSizeMsg{Width: m.width, Height: msgbar.Height})
	m.footerModel, cmds[4] = m.footerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: footerHeight})
	return m, cmds[:]
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case *packet.Packet:
		switch msg.Type {
		case packet.TypePosition:
			m.observe(msg)
			// Status reports that lead with a locator arrive as positions.
			if msg.Status != "" {
				var cmd tea.Cmd
				m.msgbarModel, cmd = m.msgbarModel.Update(msg)
				cmds = append(cmds, cmd)
			}

		case packet.TypeMessage:
			if m.config.Msgbar.Say {
				cmds = append(cmds, speakMessageCmd(fmt.Sprintf("Message from %s to %s: %s", msg.Callsign, msg.MsgTo, msg.MsgBody)))
			}
			var cmd tea.Cmd
			m.msgbarModel, cmd = m.msgbarModel.Update(msg)
			cmds = append(cmds, cmd)

		case packet.TypeStatus:
			var cmd tea.Cmd
			m.msgbarModel, cmd = m.msgbarModel.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.listenForPackets())

	case error:
		m.err = msg
		log.Error().Err(msg).Msg("Packet stream ended")
		return m, nil

	case tea.WindowSizeMsg:
		var sized []tea.Cmd
		m, sized = m.resize(msg.Width, msg.Height)
		cmds = append(cmds, sized...)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.mapModel, cmd = m.mapModel.Update(msg)
			cmds = append(cmds, cmd)
			m.footerModel.SetZoom(m.mapModel.GetZoomLevel())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Border(lipgloss.DoubleBorder(), true).
			BorderForeground(lipgloss.Color("9")).
			Padding(1).
			Align(lipgloss.Center, lipgloss.Center)
		return errorStyle.Render(
			"Error:\n\n" + m.err.Error() +
				"\n\nPress any key to quit.",
		)
	}

	middleStack := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebarModel.View(),
		m.mapModel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerModel.View(),
		middleStack,
		m.msgbarModel.View(),
		m.footerModel.View(),
	)
}

func connect(conf config.Config) (PacketClient, error) {
	switch conf.Interface.Type {
	case config.InterfaceKISS:
		return kiss.Connect(conf.Interface)
	case config.InterfaceAPRSIS:
		return aprsis.Connect(conf)
	}
	return nil, fmt.Errorf("unknown interface type in config: %s", conf.Interface.Type)
}

func runTUI(conf config.Config) error {
	client, err := connect(conf)
	if err != nil {
		return fmt.Errorf("failed to connect to interface: %w", err)
	}
	defer client.Close()

	m, err := initialModel(conf, client, make(chan *packet.Packet))
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
