package locator

import (
	"errors"
	"math"
	"testing"

	"github.com/umahmood/haversine"
)

func mustPoint(t *testing.T, lat, lon float64) GeoPoint {
	t.Helper()
	p, err := NewGeoPoint(lat, lon)
	if err != nil {
		t.Fatalf("NewGeoPoint(%v, %v) error: %v", lat, lon, err)
	}
	return p
}

func requireInvalid(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("error %v does not match ErrInvalidArgument", err)
	}
	if want != "" && err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func near(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestEncode_Boulder(t *testing.T) {
	got, err := Encode(mustPoint(t, 40.0150, -105.271), 6)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if got != "DN70ia" {
		t.Fatalf("grid=%q want %q", got, "DN70ia")
	}

	got, err = EncodeLatLon(40.0150, -105.271, 6)
	if err != nil {
		t.Fatalf("EncodeLatLon() error: %v", err)
	}
	if got != "DN70ia" {
		t.Fatalf("grid=%q want %q", got, "DN70ia")
	}

	got, err = EncodeLatLon(40.0150, -105.271, 4)
	if err != nil {
		t.Fatalf("EncodeLatLon() error: %v", err)
	}
	if got != "DN70" {
		t.Fatalf("grid=%q want %q", got, "DN70")
	}
}

func TestEncode_RejectsInvalidArguments(t *testing.T) {
	cases := []struct {
		name      string
		lat, lon  float64
		precision int
		want      string
	}{
		{"LatitudeHigh", 90.1, 100.0, 6, "Latitude must be between -90 and 90"},
		{"LatitudeLow", -90.1, 100.0, 6, "Latitude must be between -90 and 90"},
		{"LongitudeLow", 89.3, -180.1, 6, "Longitude must be between -180 and 180"},
		{"LongitudeHigh", 89.3, 180.1, 6, "Longitude must be between -180 and 180"},
		{"LatitudeCheckedFirst", 91, 181, 6, "Latitude must be between -90 and 90"},
		{"LatitudeNaN", math.NaN(), 0, 6, "Latitude must be between -90 and 90"},
		{"Precision5", 89.3, 100.1, 5, "Precision can only be 4 or 6 characters"},
		{"Precision8", 89.3, 100.1, 8, "Precision can only be 4 or 6 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeLatLon(tc.lat, tc.lon, tc.precision)
			requireInvalid(t, err, tc.want)
		})
	}
}

func TestEncode_UpperEdgesStayInAlphabet(t *testing.T) {
	got, err := EncodeLatLon(90, 180, 6)
	if err != nil {
		t.Fatalf("EncodeLatLon() error: %v", err)
	}
	if got != "RR99xx" {
		t.Fatalf("grid=%q want %q", got, "RR99xx")
	}
	got, err = EncodeLatLon(-90, -180, 6)
	if err != nil {
		t.Fatalf("EncodeLatLon() error: %v", err)
	}
	if got != "AA00aa" {
		t.Fatalf("grid=%q want %q", got, "AA00aa")
	}
}

func TestMidpoint(t *testing.T) {
	cases := []struct {
		square   string
		lat, lon float64
	}{
		{"DN70ja", 40.020, -105.208},
		{"dn70JA", 40.020, -105.208},
		{"AA00", -89.5, -179.0},
		{"RR99", 89.5, 179.0},
		{"aa00aa", -90 + 1.0/48, -180 + 1.0/24},
	}
	for _, tc := range cases {
		t.Run(tc.square, func(t *testing.T) {
			p, err := Midpoint(tc.square)
			if err != nil {
				t.Fatalf("Midpoint() error: %v", err)
			}
			if !near(p.Latitude(), tc.lat, 0.01) || !near(p.Longitude(), tc.lon, 0.01) {
				t.Fatalf("midpoint=%s want %.3f,%.3f", p, tc.lat, tc.lon)
			}
		})
	}
}

func TestMidpoint_RejectsMalformedSquares(t *testing.T) {
	cases := []struct {
		square string
		want   string
	}{
		{"", "Square can only be 4 or 6 characters"},
		{"AA", "Square can only be 4 or 6 characters"},
		{"AA00a", "Square can only be 4 or 6 characters"},
		{"AA00aaa", "Square can only be 4 or 6 characters"},
		{"7R70", "First character must be in [A-R]"},
		{"SR70", "First character must be in [A-R]"},
		{"AS70", "Second character must be in [A-R]"},
		{"ARA0", "Third character must be in [0-9]"},
		{"AR7Aii", "Fourth character must be in [0-9]"},
		{"AR70yi", "Fifth character must be in [A-X]"},
		{"AR70i9", "Sixth character must be in [A-X]"},
	}
	for _, tc := range cases {
		t.Run(tc.square, func(t *testing.T) {
			_, err := Midpoint(tc.square)
			requireInvalid(t, err, tc.want)
			requireInvalid(t, Validate(tc.square), tc.want)
		})
	}
}

func TestCanonical(t *testing.T) {
	got, err := Canonical("dn70JA")
	if err != nil {
		t.Fatalf("Canonical() error: %v", err)
	}
	if got != "DN70ja" {
		t.Fatalf("canonical=%q want %q", got, "DN70ja")
	}
	if _, err := Canonical("ZZ00"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRoundTrip_AllSquares(t *testing.T) {
	for f0 := byte(0); f0 < fields; f0++ {
		for f1 := byte(0); f1 < fields; f1++ {
			for s0 := byte(0); s0 < squares; s0++ {
				for s1 := byte(0); s1 < squares; s1++ {
					sq := string([]byte{'A' + f0, 'A' + f1, '0' + s0, '0' + s1})
					p, err := Midpoint(sq)
					if err != nil {
						t.Fatalf("Midpoint(%q) error: %v", sq, err)
					}
					got, err := Encode(p, 4)
					if err != nil {
						t.Fatalf("Encode(%s) error: %v", p, err)
					}
					if got != sq {
						t.Fatalf("round trip %q -> %s -> %q", sq, p, got)
					}
				}
			}
		}
	}
}

func TestRoundTrip_Subsquares(t *testing.T) {
	for f0 := byte(0); f0 < fields; f0++ {
		for f1 := byte(0); f1 < fields; f1++ {
			s0 := '0' + (f0+f1)%squares
			s1 := '0' + (f0*3+f1)%squares
			for u0 := byte(0); u0 < subsquares; u0++ {
				for u1 := byte(0); u1 < subsquares; u1++ {
					sq := string([]byte{'A' + f0, 'A' + f1, s0, s1, 'a' + u0, 'a' + u1})
					p, err := Midpoint(sq)
					if err != nil {
						t.Fatalf("Midpoint(%q) error: %v", sq, err)
					}
					got, err := Encode(p, 6)
					if err != nil {
						t.Fatalf("Encode(%s) error: %v", p, err)
					}
					if got != sq {
						t.Fatalf("round trip %q -> %s -> %q", sq, p, got)
					}
				}
			}
		}
	}
}

func TestDistanceKm_PoleToEquator(t *testing.T) {
	pole := mustPoint(t, 90, 0)
	equator := mustPoint(t, 0, 0)
	if d := DistanceKm(pole, equator); !near(d, 10000, 8) {
		t.Fatalf("distance=%.3f want ~10000", d)
	}
	if d := DistanceKm(equator, pole); !near(d, 10000, 8) {
		t.Fatalf("distance=%.3f want ~10000", d)
	}
}

func TestDistanceKm_SymmetricAndZero(t *testing.T) {
	pts := []GeoPoint{
		mustPoint(t, 40.0150, -105.271),
		mustPoint(t, 64.104, -21.875),
		mustPoint(t, -33.86, 151.21),
		mustPoint(t, 0, 0),
		mustPoint(t, -90, 180),
	}
	for _, a := range pts {
		if d := DistanceKm(a, a); d != 0 {
			t.Fatalf("distance(%s,%s)=%v want 0", a, a, d)
		}
		for _, b := range pts {
			if DistanceKm(a, b) != DistanceKm(b, a) {
				t.Fatalf("distance not symmetric for %s, %s", a, b)
			}
		}
	}
}

func TestDistanceKm_Antipodal(t *testing.T) {
	d := DistanceKm(mustPoint(t, 0, 0), mustPoint(t, 0, 180))
	if math.IsNaN(d) || !near(d, math.Pi*EarthRadiusKm, 1e-6) {
		t.Fatalf("distance=%v want %v", d, math.Pi*EarthRadiusKm)
	}
}

func TestDistanceKm_MatchesHaversinePackage(t *testing.T) {
	pairs := [][4]float64{
		{40.0150, -105.271, 64.104, -21.875},
		{51.45, 1.15, 45.04, 7.42},
		{-33.86, 151.21, 35.68, 139.69},
	}
	for _, p := range pairs {
		_, want := haversine.Distance(haversine.Coord{Lat: p[0], Lon: p[1]}, haversine.Coord{Lat: p[2], Lon: p[3]})
		got := DistanceKm(mustPoint(t, p[0], p[1]), mustPoint(t, p[2], p[3]))
		if !near(got, want, 1e-3) {
			t.Fatalf("distance=%.6f want %.6f", got, want)
		}
	}
}

func TestBearingDeg_CardinalDirections(t *testing.T) {
	cases := []struct {
		name string
		a, b GeoPoint
		want float64
	}{
		{"North", mustPoint(t, 0, 0), mustPoint(t, 90, 0), 0},
		{"South", mustPoint(t, 90, 0), mustPoint(t, 0, 0), 180},
		{"East", mustPoint(t, 0, -100), mustPoint(t, 0, 0), 90},
		{"West", mustPoint(t, 0, 0), mustPoint(t, 0, -100), 270},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BearingDeg(tc.a, tc.b); !near(got, tc.want, 0.0001) {
				t.Fatalf("bearing=%.6f want %.1f", got, tc.want)
			}
		})
	}
}

func TestBearingDeg_Range(t *testing.T) {
	a := mustPoint(t, 40.0150, -105.271)
	for lon := -180.0; lon <= 180.0; lon += 7.5 {
		for lat := -90.0; lat <= 90.0; lat += 7.5 {
			b := BearingDeg(a, mustPoint(t, lat, lon))
			if b < 0 || b >= 360 {
				t.Fatalf("bearing=%v out of [0,360) for %v,%v", b, lat, lon)
			}
		}
	}
}

func TestDistanceAndBearing_Neighbours(t *testing.T) {
	d, err := DistanceAndBearing("DN70ja", "DN70ka")
	if err != nil {
		t.Fatalf("DistanceAndBearing() error: %v", err)
	}
	if !near(d.Distance(), 7.0, 0.1) || !near(d.Bearing(), 90.0, 0.1) {
		t.Fatalf("got %s want 7.0 km @ 90", d)
	}

	d, err = DistanceAndBearing("DN70ka", "DN70ja")
	if err != nil {
		t.Fatalf("DistanceAndBearing() error: %v", err)
	}
	if !near(d.Distance(), 7.0, 0.1) || !near(d.Bearing(), 270.0, 0.1) {
		t.Fatalf("got %s want 7.0 km @ 270", d)
	}
}

func TestDistanceAndBearing_LongPath(t *testing.T) {
	d, err := DistanceAndBearing("DN70ja", "hp94bc")
	if err != nil {
		t.Fatalf("DistanceAndBearing() error: %v", err)
	}
	if !near(d.Distance(), 5771, 5) {
		t.Fatalf("distance=%.1f want ~5771", d.Distance())
	}
	if !near(d.Bearing(), 33.0, 1) {
		t.Fatalf("bearing=%.2f want ~33", d.Bearing())
	}
}

func TestDistanceAndBearing_PropagatesDecodeErrors(t *testing.T) {
	_, err := DistanceAndBearing("DN70ja", "DN7")
	requireInvalid(t, err, "Square can only be 4 or 6 characters")
	_, err = DistanceAndBearing("ZN70", "DN70")
	requireInvalid(t, err, "First character must be in [A-R]")
}

func TestNewGridDistance(t *testing.T) {
	if _, err := NewGridDistance(0, 0); err != nil {
		t.Fatalf("NewGridDistance(0, 0) error: %v", err)
	}
	if _, err := NewGridDistance(12.5, 360); err != nil {
		t.Fatalf("NewGridDistance(12.5, 360) error: %v", err)
	}

	_, err := NewGridDistance(-0.001, 0)
	requireInvalid(t, err, "Distance cannot be negative")
	_, err = NewGridDistance(-1, 400)
	requireInvalid(t, err, "Distance cannot be negative")
	_, err = NewGridDistance(1, -0.001)
	requireInvalid(t, err, "Bearing must be in [0.0 - 360.0]")
	_, err = NewGridDistance(1, 360.001)
	requireInvalid(t, err, "Bearing must be in [0.0 - 360.0]")
}

func TestNewGeoPoint_Bounds(t *testing.T) {
	for _, ll := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
		p := mustPoint(t, ll[0], ll[1])
		if p.Latitude() != ll[0] || p.Longitude() != ll[1] {
			t.Fatalf("accessors=%v,%v want %v,%v", p.Latitude(), p.Longitude(), ll[0], ll[1])
		}
	}
}

func TestCompassPoint(t *testing.T) {
	cases := map[float64]string{
		0:      "N",
		11.2:   "N",
		11.3:   "NNE",
		33.46:  "NNE",
		90:     "E",
		180:    "S",
		270:    "W",
		337.5:  "NNW",
		359.9:  "N",
		-90:    "W",
		360:    "N",
		719.99: "N",
	}
	for b, want := range cases {
		if got := CompassPoint(b); got != want {
			t.Fatalf("CompassPoint(%v)=%q want %q", b, got, want)
		}
	}
}
