// Package station tracks heard stations and their path from home.
package station

import (
	"fmt"
	"time"

	"qthmap/locator"
	"qthmap/packet"
)

// DefaultMaxEntries bounds the heard list.
const DefaultMaxEntries = 200

// Entry is the latest position heard from one callsign.
type Entry struct {
	Callsign string
	Point    locator.GeoPoint
	Grid     string // 6-character unless the station reported a 4-character locator
	Heard    time.Time

	// Path from home; only meaningful when HasPath is set.
	Path    locator.GridDistance
	HasPath bool
}

// Tracker keeps the most recent entry per callsign, newest first.
// It is not safe for concurrent use; the UI owns it.
type Tracker struct {
	homeGrid string
	home     locator.GeoPoint
	hasHome  bool
	max      int
	entries  []Entry
}

// NewTracker creates a tracker centred on homeGrid, which may be empty.
func NewTracker(homeGrid string, max int) (*Tracker, error) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	t := &Tracker{max: max}
	if homeGrid == "" {
		return t, nil
	}

	grid, err := locator.Canonical(homeGrid)
	if err != nil {
		return nil, fmt.Errorf("home grid: %w", err)
	}
	home, err := locator.Midpoint(grid)
	if err != nil {
		return nil, fmt.Errorf("home grid: %w", err)
	}
	t.homeGrid, t.home, t.hasHome = grid, home, true
	return t, nil
}

// Home returns the midpoint of the home grid square.
func (t *Tracker) Home() (locator.GeoPoint, bool) {
	return t.home, t.hasHome
}

// HomeGrid returns the canonical home grid square, or "".
func (t *Tracker) HomeGrid() string {
	return t.homeGrid
}

// Observe records a position packet heard at now.
func (t *Tracker) Observe(pkt *packet.Packet, now time.Time) (Entry, error) {
	if pkt.Type != packet.TypePosition {
		return Entry{}, fmt.Errorf("not a position packet: %s", pkt.Type)
	}
	p, err := pkt.Point()
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Callsign: pkt.Callsign, Point: p, Heard: now}
	if pkt.Grid != "" {
		e.Grid = pkt.Grid
	} else if e.Grid, err = locator.Encode(p, 6); err != nil {
		return Entry{}, err
	}

	if t.hasHome {
		e.Path, err = t.pathTo(pkt, p)
		if err != nil {
			return Entry{}, err
		}
		e.HasPath = true
	}

	t.upsert(e)
	return e, nil
}

// pathTo measures grid-to-grid when the station only sent a locator,
// since its real position inside the square is unknown anyway.
func (t *Tracker) pathTo(pkt *packet.Packet, p locator.GeoPoint) (locator.GridDistance, error) {
	if pkt.Grid != "" {
		return locator.DistanceAndBearing(t.homeGrid, pkt.Grid)
	}
	return locator.NewGridDistance(locator.DistanceKm(t.home, p), locator.BearingDeg(t.home, p))
}

func (t *Tracker) upsert(e Entry) {
	for i, old := range t.entries {
		if old.Callsign == e.Callsign {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
	t.entries = append([]Entry{e}, t.entries...)
	if len(t.entries) > t.max {
		t.entries = t.entries[:t.max]
	}
}

// Entries returns a copy of the heard list, newest first.
func (t *Tracker) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len is the number of tracked callsigns.
func (t *Tracker) Len() int {
	return len(t.entries)
}
