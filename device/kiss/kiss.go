// Package kiss reads APRS packets from a KISS TNC over TCP or a serial port.
package kiss

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"qthmap/aprs"
	"qthmap/config"
	"qthmap/packet"
)

// Client represents an active connection to a KISS TNC
type Client struct {
	conn io.ReadWriteCloser // TCP, serial, ...
}

// NewClient wraps an already-open TNC connection.
func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{conn: conn}
}

// Connect opens the TNC named by conf.Device: "host:port" dials TCP,
// anything else is treated as a serial port.
func Connect(conf config.InterfaceConfig) (*Client, error) {
	if !strings.EqualFold(conf.Type, config.InterfaceKISS) {
		return nil, fmt.Errorf("unknown interface type: %s", conf.Type)
	}

	if strings.Contains(conf.Device, ":") {
		log.Info().Str("addr", conf.Device).Msg("Connecting to KISS TNC over TCP")
		conn, err := connectTCP(conf.Device)
		if err != nil {
			return nil, err
		}
		return NewClient(conn), nil
	}

	log.Info().Str("device", conf.Device).Int("baud", conf.Baud).Msg("Connecting to KISS TNC over serial")
	port, err := connectSerial(conf.Device, conf.Baud)
	if err != nil {
		return nil, err
	}
	return NewClient(port), nil
}

// Start reads frames until the connection fails, sending every parsed
// packet on packetChan, then closes packetChan.
// This function should be run as a goroutine.
func (c *Client) Start(packetChan chan<- *packet.Packet) {
	defer close(packetChan)

	decoder := NewDecoder(c.conn)
	for {
		frame, err := decoder.ReadFrame()
		if err != nil {
			if err != io.EOF {
				log.Error().Err(err).Msg("KISS read failed")
			} else {
				log.Info().Msg("KISS connection closed")
			}
			return
		}

		// ReadFrame never returns an empty frame.
		if frame[0] != cmdData {
			log.Debug().Uint8("cmd", frame[0]).Msg("Ignoring non-data KISS frame")
			continue
		}

		pkt, err := aprs.Parse(frame[1:])
		if err != nil {
			log.Debug().Err(err).Msg("Dropping undecodable frame")
			continue
		}
		packetChan <- pkt
	}
}

// Close disconnects the client
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
