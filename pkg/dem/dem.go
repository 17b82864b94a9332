// Package dem implements the paged digital elevation model grid (spec
// component C2): locating a lat/lon in the right page/pixel, and the
// raw elevation lookup the path sampler builds on. Grounded on
// phileasgo/pkg/terrain's ETOPO1 binary reader (fixed-resolution,
// row-major int16 raster, read via os.File.ReadAt), generalized here
// to an arbitrary number of non-overlapping pages instead of one
// global raster.
package dem

import (
	"math"

	"rfcoverage/pkg/geo"
)

// MaxPages bounds how many non-overlapping DEM pages one DEM may hold.
// Splat!-style tools typically keep this small (a handful of adjacent
// 1-degree-ish tiles around the transmitter); this module uses the same
// modest ceiling rather than an unbounded slice, matching spec.md §3's
// "ordered list of up to MAXPAGES pages".
const MaxPages = 16

// Site is a geographic point with an AGL altitude in feet. Immutable
// once constructed, per spec.md §3.
type Site struct {
	Lat, Lon, Alt float64
}

// Page covers a bounded lat/lon rectangle with an IPPD x IPPD grid of
// elevations in feet above mean sea level.
type Page struct {
	MinNorth, MaxNorth float64
	MinWest, MaxWest   float64
	IPPD               int
	DPP                float64 // degrees per pixel
	Elev               []int16 // row-major, IPPD*IPPD, feet AMSL
}

// PPD is pixels per degree for this page.
func (p *Page) PPD() float64 { return 1.0 / p.DPP }

// MPI is the max pixel index (ippd-1).
func (p *Page) MPI() int { return p.IPPD - 1 }

func (p *Page) at(x, y int) float64 {
	return float64(p.Elev[y*p.IPPD+x])
}

// DEM is an ordered, read-only-during-sweep list of pages. Pages do
// not overlap; a point lies in at most one page.
type DEM struct {
	Pages []Page
}

// Locate maps (lat, lon) to the (page, x, y) of the first page
// (registration order) containing it. Rounding uses math.Round
// (half-away-from-zero), applied uniformly so results are
// deterministic across runs and across goroutines — half-to-even
// would be equally acceptable per spec.md §4.2, but consistency across
// the whole module matters more than which tie-break rule is chosen.
func (d *DEM) Locate(lat, lon float64) (page, x, y int, ok bool) {
	for idx := range d.Pages {
		p := &d.Pages[idx]
		ppd := p.PPD()
		mpi := p.MPI()

		px := int(math.Round(ppd * (lat - p.MinNorth)))
		py := mpi - int(math.Round(ppd*geo.LonDiff(p.MaxWest, lon)))

		if px >= 0 && px <= mpi && py >= 0 && py <= mpi {
			return idx, px, py, true
		}
	}
	return 0, 0, 0, false
}

// Elevation returns the elevation in feet AMSL at (lat, lon), or 0 if
// the point lies outside every page (a DEM miss, per spec.md §7 — not
// an error, silently treated as sea level).
func (d *DEM) Elevation(lat, lon float64) float64 {
	page, x, y, ok := d.Locate(lat, lon)
	if !ok {
		return 0
	}
	return d.Pages[page].at(x, y)
}
