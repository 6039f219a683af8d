package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"qthmap/locator"
)

// Defaults applied by Load when a field is left empty.
const (
	DefaultPath     = "config.toml"
	DefaultBaud     = 9600
	DefaultServer   = "rotate.aprs.net:14580"
	DefaultRadiusKm = 200
	DefaultLogFile  = "qthmap.log"
	DefaultLogLevel = "info"
)

// Interface types
const (
	InterfaceKISS   = "KISS"
	InterfaceAPRSIS = "APRSIS"
)

// Config holds all application configuration
type Config struct {
	Station   StationConfig   `toml:"station"`
	Interface InterfaceConfig `toml:"interface"`
	Map       MapConfig       `toml:"map"`
	Msgbar    MsgbarConfig    `toml:"msgbar"`
	Log       LogConfig       `toml:"log"`
}

// StationConfig holds settings specific to the user's station
type StationConfig struct {
	Callsign   string `toml:"callsign"`
	Passcode   int    `toml:"passcode"`
	GridSquare string `toml:"gridsquare"`
}

// InterfaceConfig selects where packets come from.
// Device is "host:port" for KISS over TCP, or a serial port path.
type InterfaceConfig struct {
	Type     string `toml:"type"`
	Device   string `toml:"device"`
	Baud     int    `toml:"baud"`
	Server   string `toml:"server"`
	RadiusKm int    `toml:"radius_km"`
}

// MapConfig holds map-specific settings
type MapConfig struct {
	DefaultZoom float64 `toml:"defaultzoom"`
	Shapefile   string  `toml:"shapefile"`
	GridLines   bool    `toml:"gridlines"`
}

// MsgbarConfig controls the message bar.
type MsgbarConfig struct {
	Say bool `toml:"say"`
}

// LogConfig controls where structured logs go. The TUI owns the
// terminal, so logs are written to a file.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Load reads the configuration from the specified path
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes TOML, applies defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var conf Config
	if err := toml.Unmarshal(data, &conf); err != nil {
		return Config{}, err
	}

	conf.applyDefaults()
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (c *Config) applyDefaults() {
	c.Station.Callsign = strings.ToUpper(strings.TrimSpace(c.Station.Callsign))
	c.Station.GridSquare = strings.TrimSpace(c.Station.GridSquare)
	c.Interface.Type = strings.ToUpper(strings.TrimSpace(c.Interface.Type))

	if c.Interface.Baud <= 0 {
		c.Interface.Baud = DefaultBaud
	}
	if c.Interface.Server == "" {
		c.Interface.Server = DefaultServer
	}
	if c.Interface.RadiusKm <= 0 {
		c.Interface.RadiusKm = DefaultRadiusKm
	}
	if c.Map.DefaultZoom <= 0 {
		c.Map.DefaultZoom = 1
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// Validate checks fields that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Station.GridSquare != "" {
		grid, err := locator.Canonical(c.Station.GridSquare)
		if err != nil {
			return fmt.Errorf("station.gridsquare: %w", err)
		}
		c.Station.GridSquare = grid
	}

	switch c.Interface.Type {
	case InterfaceKISS:
		if c.Interface.Device == "" {
			return fmt.Errorf("interface.device is required when interface.type is KISS")
		}
	case InterfaceAPRSIS:
		if c.Station.Callsign == "" {
			return fmt.Errorf("station.callsign is required when interface.type is APRSIS")
		}
	case "":
		return fmt.Errorf("interface.type is required")
	default:
		return fmt.Errorf("unknown interface type in config: %s", c.Interface.Type)
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("log.level must be one of trace, debug, info, warn, error, disabled")
	}
	return nil
}
