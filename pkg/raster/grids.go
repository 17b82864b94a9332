// Package raster implements the raster state (spec component C4): the
// mask/signal/processed grids that parallel a DEM's pages, and the
// concurrency-safe claim operation sweep workers use to deduplicate
// cell ownership within a pass. Grounded on original_source/models/los.cc's
// can_process/init_processed (a process-wide bool grid guarded by a
// single pthread_mutex_t with an unlocked fast-path read) and on the
// atomic.CompareAndSwap fast-path idiom in
// phileasgo/pkg/poi/scoring_job.go and phileasgo/pkg/core/scheduler.go's
// BaseJob, which use a CAS instead of a C double-checked lock; here the
// split is expressed as an atomic.Bool fast read plus a per-page mutex
// fallback, since a single CAS can't distinguish "I claimed it" from "it
// was already claimed" without the fallback lock's deterministic retry.
package raster

import (
	"sync"
	"sync/atomic"

	"rfcoverage/pkg/dem"
)

// Grids holds the three raster state arrays described in spec.md §3,
// one slice per DEM page, shaped ippd*ippd and indexed [x*ippd+y].
type Grids struct {
	d *dem.DEM

	mu        []sync.Mutex
	mask      [][]uint8
	signal    [][]uint8
	processed [][]atomic.Bool
}

// NewGrids allocates raster state parallel to d's pages. Allocated
// once per run, per spec.md §3's lifecycle.
func NewGrids(d *dem.DEM) *Grids {
	g := &Grids{
		d:         d,
		mu:        make([]sync.Mutex, len(d.Pages)),
		mask:      make([][]uint8, len(d.Pages)),
		signal:    make([][]uint8, len(d.Pages)),
		processed: make([][]atomic.Bool, len(d.Pages)),
	}
	for i, p := range d.Pages {
		n := p.IPPD * p.IPPD
		g.mask[i] = make([]uint8, n)
		g.signal[i] = make([]uint8, n)
		g.processed[i] = make([]atomic.Bool, n)
	}
	return g
}

func idx(p *dem.Page, x, y int) int { return x*p.IPPD + y }

// GetMask returns the mask byte at (lat, lon), or (0, false) if the
// point lies outside every page.
func (g *Grids) GetMask(lat, lon float64) (uint8, bool) {
	page, x, y, ok := g.d.Locate(lat, lon)
	if !ok {
		return 0, false
	}
	return g.mask[page][idx(&g.d.Pages[page], x, y)], true
}

// OrMask ORs bits into the mask byte at (lat, lon). A miss is a no-op.
func (g *Grids) OrMask(lat, lon float64, bits uint8) {
	page, x, y, ok := g.d.Locate(lat, lon)
	if !ok {
		return
	}
	i := idx(&g.d.Pages[page], x, y)
	g.mu[page].Lock()
	g.mask[page][i] |= bits
	g.mu[page].Unlock()
}

// PutMask overwrites the mask byte at (lat, lon). A miss is a no-op.
func (g *Grids) PutMask(lat, lon float64, value uint8) {
	page, x, y, ok := g.d.Locate(lat, lon)
	if !ok {
		return
	}
	i := idx(&g.d.Pages[page], x, y)
	g.mu[page].Lock()
	g.mask[page][i] = value
	g.mu[page].Unlock()
}

// GetSignal returns the signal byte at (lat, lon), or (0, false) if
// the point lies outside every page.
func (g *Grids) GetSignal(lat, lon float64) (uint8, bool) {
	page, x, y, ok := g.d.Locate(lat, lon)
	if !ok {
		return 0, false
	}
	return g.signal[page][idx(&g.d.Pages[page], x, y)], true
}

// PutSignal overwrites the signal byte at (lat, lon). A miss is a no-op.
func (g *Grids) PutSignal(lat, lon float64, value uint8) {
	page, x, y, ok := g.d.Locate(lat, lon)
	if !ok {
		return
	}
	i := idx(&g.d.Pages[page], x, y)
	g.mu[page].Lock()
	g.signal[page][i] = value
	g.mu[page].Unlock()
}

// Claim atomically transitions processed from false to true at (lat,
// lon), returning true iff the caller now owns the cell for this
// pass. Points outside every page return false.
//
// Fast path: an unlocked Load that sees true returns false
// immediately. A false read is rechecked under the page's mutex, then
// set true — correct because processed is monotone (spec.md §3,
// invariant 1): a racing false->true transition is resolved by
// whichever goroutine reaches the lock first, and the other sees
// true on recheck.
func (g *Grids) Claim(lat, lon float64) bool {
	page, x, y, ok := g.d.Locate(lat, lon)
	if !ok {
		return false
	}
	cell := &g.processed[page][idx(&g.d.Pages[page], x, y)]

	if cell.Load() {
		return false
	}

	g.mu[page].Lock()
	defer g.mu[page].Unlock()
	if cell.Load() {
		return false
	}
	cell.Store(true)
	return true
}

// Reset clears every grid back to its zero state. Not part of the
// production sweep lifecycle (processed is reset implicitly by the
// pass-generation scheme, spec.md §4.8) — this exists so tests can
// reuse one Grids across multiple independent scenarios.
func (g *Grids) Reset() {
	for page := range g.d.Pages {
		g.mu[page].Lock()
		for i := range g.mask[page] {
			g.mask[page][i] = 0
			g.signal[page][i] = 0
			g.processed[page][i].Store(false)
		}
		g.mu[page].Unlock()
	}
}
