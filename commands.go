package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"qthmap/locator"
)

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

type gridCommand struct {
	Lat       float64 `long:"lat" description:"Latitude in decimal degrees" required:"true"`
	Lon       float64 `long:"lon" description:"Longitude in decimal degrees" required:"true"`
	Precision int     `short:"p" long:"precision" description:"Locator length, 4 or 6" default:"6"`

	out io.Writer
}

func (c *gridCommand) Execute(args []string) error {
	sq, err := locator.EncodeLatLon(c.Lat, c.Lon, c.Precision)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writerOr(c.out), sq)
	return err
}

type locateCommand struct {
	Args struct {
		Square string `positional-arg-name:"SQUARE" description:"4 or 6 character grid square"`
	} `positional-args:"yes" required:"yes"`

	out io.Writer
}

func (c *locateCommand) Execute(args []string) error {
	sq, err := locator.Canonical(c.Args.Square)
	if err != nil {
		return err
	}
	p, err := locator.Midpoint(sq)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(writerOr(c.out), "%s %s\n", sq, p)
	return err
}

// pathReport is the machine-readable form of a distance query.
type pathReport struct {
	From       string  `json:"from" yaml:"from"`
	To         string  `json:"to" yaml:"to"`
	DistanceKm float64 `json:"distance_km" yaml:"distance_km"`
	BearingDeg float64 `json:"bearing_deg" yaml:"bearing_deg"`
	Compass    string  `json:"compass" yaml:"compass"`
}

type distanceCommand struct {
	Format string `short:"f" long:"format" description:"Output format" choice:"text" choice:"json" choice:"yaml" default:"text"`
	Args   struct {
		From string `positional-arg-name:"FROM" description:"Grid square of the first station"`
		To   string `positional-arg-name:"TO" description:"Grid square of the second station"`
	} `positional-args:"yes" required:"yes"`

	out io.Writer
}

func (c *distanceCommand) Execute(args []string) error {
	from, err := locator.Canonical(c.Args.From)
	if err != nil {
		return err
	}
	to, err := locator.Canonical(c.Args.To)
	if err != nil {
		return err
	}
	d, err := locator.DistanceAndBearing(from, to)
	if err != nil {
		return err
	}
	r := pathReport{
		From:       from,
		To:         to,
		DistanceKm: d.Distance(),
		BearingDeg: d.Bearing(),
		Compass:    locator.CompassPoint(d.Bearing()),
	}

	w := writerOr(c.out)
	switch c.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err = fmt.Fprintf(w, "%s -> %s: %s (%s)\n", r.From, r.To, d, r.Compass)
		return err
	}
}
