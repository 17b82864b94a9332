package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		p1   Point
		p2   Point
		want float64
	}{
		{name: "Same Point", p1: Point{Lat: 0, Lon: 0}, p2: Point{Lat: 0, Lon: 0}, want: 0},
		{name: "London to Paris", p1: Point{Lat: 51.5074, Lon: 359.8722}, p2: Point{Lat: 48.8566, Lon: 2.3522}, want: 344000},
		{name: "Equator 1 degree", p1: Point{Lat: 0, Lon: 0}, p2: Point{Lat: 0, Lon: 1}, want: 111319},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.p1, tt.p2)
			margin := tt.want * 0.01
			if tt.want == 0 {
				assert.InDelta(t, tt.want, got, 1.0)
				return
			}
			assert.InDelta(t, tt.want, got, margin)
		})
	}
}

func TestAzimuth(t *testing.T) {
	tests := []struct {
		name string
		p1   Point
		p2   Point
		want float64
	}{
		{name: "North", p1: Point{Lat: 10, Lon: 20}, p2: Point{Lat: 11, Lon: 20}, want: 0},
		{name: "East", p1: Point{Lat: 10, Lon: 20}, p2: Point{Lat: 10, Lon: 21}, want: 90},
		{name: "South", p1: Point{Lat: 10, Lon: 20}, p2: Point{Lat: 9, Lon: 20}, want: 180},
		{name: "West", p1: Point{Lat: 10, Lon: 20}, p2: Point{Lat: 10, Lon: 19}, want: 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Azimuth(tt.p1, tt.p2)
			assert.InDelta(t, tt.want, got, 0.1)
		})
	}
}

// TestAzimuthRoundTrip verifies that reciprocal bearings differ by 180
// degrees: azimuth(a,b) - azimuth(b,a) ≡ 180 (mod 360) for
// non-antipodal pairs, within 0.01 degrees.
func TestAzimuthRoundTrip(t *testing.T) {
	pairs := []struct{ p1, p2 Point }{
		{Point{Lat: 40.0, Lon: 280.0}, Point{Lat: 51.0, Lon: 10.0}},
		{Point{Lat: -10.0, Lon: 5.0}, Point{Lat: 20.0, Lon: 355.0}},
		{Point{Lat: 0.0, Lon: 0.0}, Point{Lat: 0.0, Lon: 90.0}},
	}
	for _, pr := range pairs {
		fwd := Azimuth(pr.p1, pr.p2)
		back := Azimuth(pr.p2, pr.p1)
		sum := math.Mod(fwd-back+360.0, 360.0)
		assert.InDelta(t, 180.0, sum, 0.01)
	}
}

// TestLonDiffRoundTrip verifies spec.md §8: lon_diff(a,b) + lon_diff(b,a)
// ≡ 0 (mod 360) within floating point tolerance.
func TestLonDiffRoundTrip(t *testing.T) {
	pairs := [][2]float64{{10, 350}, {0, 180}, {359.9, 0.1}, {270, 90}}
	for _, pr := range pairs {
		ab := LonDiff(pr[0], pr[1])
		ba := LonDiff(pr[1], pr[0])
		sum := math.Mod(ab+ba+360.0, 360.0)
		if sum > 180 {
			sum -= 360
		}
		assert.InDelta(t, 0.0, sum, 1e-6)
	}
}

func TestLonDiffRange(t *testing.T) {
	assert.InDelta(t, -170.0, LonDiff(10, 180), 1e-9)
	assert.InDelta(t, 170.0, LonDiff(350, 180), 1e-9)
	assert.Equal(t, 180.0, LonDiff(180, 0))
}

func TestDestinationPoint(t *testing.T) {
	p1 := Point{Lat: 0, Lon: 0}
	p2 := DestinationPoint(p1, 111320, 90)
	assert.InDelta(t, 0.0, p2.Lat, 0.01)
	assert.InDelta(t, 1.0, p2.Lon, 0.01)
}
