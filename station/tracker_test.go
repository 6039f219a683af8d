package station

import (
	"errors"
	"math"
	"testing"
	"time"

	"qthmap/locator"
	"qthmap/packet"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func position(call string, lat, lon float64) *packet.Packet {
	return &packet.Packet{Callsign: call, Type: packet.TypePosition, Lat: lat, Lon: lon}
}

func beacon(t *testing.T, call, grid string) *packet.Packet {
	t.Helper()
	p, err := locator.Midpoint(grid)
	if err != nil {
		t.Fatalf("Midpoint(%q) error: %v", grid, err)
	}
	return &packet.Packet{Callsign: call, Type: packet.TypePosition, Lat: p.Latitude(), Lon: p.Longitude(), Grid: grid}
}

func TestNewTracker(t *testing.T) {
	tr, err := NewTracker("dn70JA", 0)
	if err != nil {
		t.Fatalf("NewTracker() error: %v", err)
	}
	if tr.HomeGrid() != "DN70ja" {
		t.Fatalf("home grid=%q want DN70ja", tr.HomeGrid())
	}
	home, ok := tr.Home()
	if !ok || math.Abs(home.Latitude()-40.0208) > 0.001 {
		t.Fatalf("home=%s ok=%v", home, ok)
	}
	if tr.max != DefaultMaxEntries {
		t.Fatalf("max=%d want %d", tr.max, DefaultMaxEntries)
	}

	_, err = NewTracker("DN7", 10)
	if !errors.Is(err, locator.ErrInvalidArgument) {
		t.Fatalf("err=%v want ErrInvalidArgument", err)
	}
}

func TestObserve_PositionGetsGridAndPath(t *testing.T) {
	tr, err := NewTracker("DN70ja", 10)
	if err != nil {
		t.Fatalf("NewTracker() error: %v", err)
	}

	e, err := tr.Observe(position("W1ABC", 40.0150, -105.271), t0)
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if e.Grid != "DN70ia" {
		t.Fatalf("grid=%q want DN70ia", e.Grid)
	}
	if !e.HasPath {
		t.Fatalf("expected path")
	}
	// DN70ia is the square west of DN70ja.
	if e.Path.Distance() <= 0 || e.Path.Distance() > 10 {
		t.Fatalf("distance=%v", e.Path.Distance())
	}
	if e.Path.Bearing() < 180 || e.Path.Bearing() > 360 {
		t.Fatalf("bearing=%v want westerly", e.Path.Bearing())
	}
	if !e.Heard.Equal(t0) {
		t.Fatalf("heard=%v want %v", e.Heard, t0)
	}
}

func TestObserve_GridPacketUsesGridToGrid(t *testing.T) {
	tr, err := NewTracker("DN70ja", 10)
	if err != nil {
		t.Fatalf("NewTracker() error: %v", err)
	}
	e, err := tr.Observe(beacon(t, "TF3XYZ", "HP94bc"), t0)
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	want, err := locator.DistanceAndBearing("DN70ja", "HP94bc")
	if err != nil {
		t.Fatalf("DistanceAndBearing() error: %v", err)
	}
	if e.Grid != "HP94bc" || e.Path != want {
		t.Fatalf("entry=%+v want path %s", e, want)
	}
	if math.Abs(e.Path.Distance()-5771) > 5 {
		t.Fatalf("distance=%v want ~5771", e.Path.Distance())
	}
}

func TestObserve_NoHomeNoPath(t *testing.T) {
	tr, err := NewTracker("", 10)
	if err != nil {
		t.Fatalf("NewTracker() error: %v", err)
	}
	if _, ok := tr.Home(); ok {
		t.Fatalf("expected no home")
	}
	e, err := tr.Observe(beacon(t, "W1ABC", "FN42"), t0)
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if e.HasPath {
		t.Fatalf("expected no path")
	}
	if e.Grid != "FN42" {
		t.Fatalf("grid=%q want FN42", e.Grid)
	}
}

func TestObserve_Rejects(t *testing.T) {
	tr, err := NewTracker("DN70ja", 10)
	if err != nil {
		t.Fatalf("NewTracker() error: %v", err)
	}
	if _, err := tr.Observe(&packet.Packet{Callsign: "W1ABC", Type: packet.TypeMessage}, t0); err == nil {
		t.Fatalf("expected error for message packet")
	}
	_, err = tr.Observe(position("W1ABC", 95, 0), t0)
	if !errors.Is(err, locator.ErrInvalidArgument) {
		t.Fatalf("err=%v want ErrInvalidArgument", err)
	}
	if tr.Len() != 0 {
		t.Fatalf("len=%d want 0", tr.Len())
	}
}

func TestEntries_NewestFirstDedupedAndBounded(t *testing.T) {
	tr, err := NewTracker("DN70ja", 3)
	if err != nil {
		t.Fatalf("NewTracker() error: %v", err)
	}
	calls := []string{"A1A", "B2B", "C3C", "A1A", "D4D"}
	for i, c := range calls {
		if _, err := tr.Observe(position(c, 40, -105), t0.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Observe(%s) error: %v", c, err)
		}
	}

	got := tr.Entries()
	want := []string{"D4D", "A1A", "C3C"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Callsign != want[i] {
			t.Fatalf("entries[%d]=%s want %s", i, got[i].Callsign, want[i])
		}
	}

	got[0].Callsign = "MUTATED"
	if tr.Entries()[0].Callsign != "D4D" {
		t.Fatalf("Entries() must return a copy")
	}
}
