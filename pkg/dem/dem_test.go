package dem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// flatPage builds a single square page of constant elevation, useful
// for the flat-DEM scenarios spec.md §8 describes (S1, S5).
func flatPage(minNorth, maxNorth, minWest, maxWest float64, ippd int, dpp float64, elevFt int16) Page {
	elev := make([]int16, ippd*ippd)
	for i := range elev {
		elev[i] = elevFt
	}
	return Page{
		MinNorth: minNorth, MaxNorth: maxNorth,
		MinWest: minWest, MaxWest: maxWest,
		IPPD: ippd, DPP: dpp, Elev: elev,
	}
}

func TestLocate_InsidePage(t *testing.T) {
	p := flatPage(0, 1, 0, 1, 101, 0.01, 0)
	d := &DEM{Pages: []Page{p}}

	page, x, y, ok := d.Locate(0.5, 0.5)
	assert.True(t, ok)
	assert.Equal(t, 0, page)
	assert.True(t, x >= 0 && x <= p.MPI())
	assert.True(t, y >= 0 && y <= p.MPI())
}

func TestLocate_OutsideAllPages(t *testing.T) {
	p := flatPage(0, 1, 0, 1, 101, 0.01, 0)
	d := &DEM{Pages: []Page{p}}

	_, _, _, ok := d.Locate(50, 50)
	assert.False(t, ok)
}

func TestLocate_FirstMatchingPageWins(t *testing.T) {
	// Two pages that (incorrectly, for the test) overlap; Locate must
	// return the first one in registration order per spec.md §4.2.
	p1 := flatPage(0, 1, 0, 1, 11, 0.1, 10)
	p2 := flatPage(0, 1, 0, 1, 11, 0.1, 20)
	d := &DEM{Pages: []Page{p1, p2}}

	page, _, _, ok := d.Locate(0.5, 0.5)
	assert.True(t, ok)
	assert.Equal(t, 0, page)
}

func TestElevation_DEMMissReturnsZero(t *testing.T) {
	p := flatPage(0, 1, 0, 1, 11, 0.1, 500)
	d := &DEM{Pages: []Page{p}}

	assert.Equal(t, 500.0, d.Elevation(0.5, 0.5))
	assert.Equal(t, 0.0, d.Elevation(80, 80)) // outside all pages: silent miss
}

func TestLocate_DeterministicAcrossRepeats(t *testing.T) {
	p := flatPage(10, 11, 20, 21, 1201, 1.0/1200.0, 0)
	d := &DEM{Pages: []Page{p}}

	page1, x1, y1, ok1 := d.Locate(10.3333, 20.6667)
	page2, x2, y2, ok2 := d.Locate(10.3333, 20.6667)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, page1, page2)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}
