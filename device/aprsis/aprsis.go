// Package aprsis reads APRS packets from an APRS-IS server.
package aprsis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"qthmap/aprs"
	"qthmap/config"
	"qthmap/locator"
	"qthmap/packet"
)

const (
	appName    = "qthmap"
	appVersion = "0.2"

	// fallbackGrid centres the range filter when the station has no
	// usable grid square; the radius is doubled in that case.
	fallbackGrid = "EN91"

	dialTimeout  = 15 * time.Second
	loginTimeout = 10 * time.Second
)

// Client represents an active connection to an APRS-IS server
type Client struct {
	conn       net.Conn
	reader     *bufio.Reader
	callsign   string
	filter     string
	IsVerified bool
}

// Filter builds an APRS-IS range filter ("r/lat/lon/km") centred on the
// midpoint of grid.
func Filter(grid string, radiusKm int) (string, error) {
	p, err := locator.Midpoint(grid)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("r/%.3f/%.3f/%d", p.Latitude(), p.Longitude(), radiusKm), nil
}

func stationFilter(grid string, radiusKm int) string {
	if grid != "" {
		f, err := Filter(grid, radiusKm)
		if err == nil {
			log.Info().Str("grid", grid).Str("filter", f).Msg("APRS-IS filter from station gridsquare")
			return f
		}
		log.Warn().Err(err).Str("grid", grid).Msg("Could not parse station gridsquare for APRS-IS filter, using default")
	} else {
		log.Warn().Msg("Station gridsquare not set, using default APRS-IS filter")
	}
	f, _ := Filter(fallbackGrid, radiusKm*2)
	return f
}

// resolvePasscode returns the passcode to send, -1 for read-only.
func resolvePasscode(callsign string, passcode int) int {
	if passcode <= 0 {
		log.Warn().Msg("APRS-IS passcode not provided, connecting read-only")
		return -1
	}
	want, err := aprs.CalculatePasscode(callsign)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot verify passcode, connecting read-only")
		return -1
	}
	if passcode != want {
		log.Warn().Str("callsign", callsign).Msg("Passcode does not match callsign, connecting read-only")
		return -1
	}
	return passcode
}

// Connect establishes a connection to an APRS-IS server
func Connect(conf config.Config) (*Client, error) {
	callsign := conf.Station.Callsign
	if callsign == "" {
		return nil, fmt.Errorf("callsign missing in config for APRS-IS")
	}
	passcode := resolvePasscode(callsign, conf.Station.Passcode)
	filter := stationFilter(conf.Station.GridSquare, conf.Interface.RadiusKm)

	server := conf.Interface.Server
	log.Info().Str("server", server).Msg("Connecting to APRS-IS")
	conn, err := net.DialTimeout("tcp", server, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to APRS-IS server %s: %w", server, err)
	}
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Connected to APRS-IS")

	client := newClient(conn, callsign, filter)
	if err := client.login(passcode); err != nil {
		client.Close()
		return nil, fmt.Errorf("APRS-IS login failed: %w", err)
	}
	log.Info().Bool("verified", client.IsVerified).Msg("APRS-IS login successful")
	return client, nil
}

func newClient(conn net.Conn, callsign, filter string) *Client {
	return &Client{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		callsign: callsign,
		filter:   filter,
	}
}

// login sends the login string and waits for the server's logresp.
func (c *Client) login(passcode int) error {
	loginStr := fmt.Sprintf("user %s pass %d vers %s %s filter %s\r\n",
		c.callsign, passcode, appName, appVersion, c.filter)
	log.Debug().Str("callsign", c.callsign).Str("filter", c.filter).Msg("Sending APRS-IS login")

	if _, err := c.conn.Write([]byte(loginStr)); err != nil {
		return fmt.Errorf("failed to send login string: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(loginTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return fmt.Errorf("timeout waiting for login response from server")
			}
			if err == io.EOF {
				return fmt.Errorf("connection closed unexpectedly during login")
			}
			return fmt.Errorf("error reading login response: %w", err)
		}
		line := strings.TrimSpace(string(lineBytes))
		log.Debug().Str("line", line).Msg("APRS-IS server")

		if !strings.HasPrefix(line, "#") {
			// Data before logresp; assume a read-only session.
			log.Warn().Str("line", line).Msg("Unexpected data before login confirmation")
			c.IsVerified = false
			return nil
		}
		if !strings.HasPrefix(line, "# logresp ") {
			continue
		}

		// # logresp <callsign> verified|unverified, server <serverid>
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		if !strings.EqualFold(parts[2], c.callsign) {
			return fmt.Errorf("login response callsign mismatch: expected %s, got %s", c.callsign, parts[2])
		}
		c.IsVerified = strings.HasPrefix(parts[3], "verified") && passcode != -1
		if !c.IsVerified {
			log.Info().Str("status", parts[3]).Msg("APRS-IS login unverified, continuing read-only")
		}
		return nil
	}
}

// Start begins the packet-reading loop for APRS-IS and closes packetChan
// when the stream ends.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)
	log.Info().Msg("Starting APRS-IS packet reader")

	for {
		lineBytes, err := c.reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				log.Error().Err(err).Msg("Error reading APRS-IS stream")
			} else {
				log.Info().Msg("APRS-IS connection closed")
			}
			return
		}

		line := strings.TrimSpace(string(lineBytes))
		// Ignore comments and empty lines
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		pkt, err := aprs.Parse([]byte(line))
		if err != nil {
			log.Trace().Err(err).Str("line", line).Msg("Dropping APRS-IS line")
			continue
		}
		packetChan <- pkt
	}
}

// Close disconnects the client
func (c *Client) Close() {
	if c.conn != nil {
		log.Info().Msg("Closing APRS-IS connection")
		c.conn.Close()
	}
}
