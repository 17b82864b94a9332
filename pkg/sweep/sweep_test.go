package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rfcoverage/pkg/dem"
	"rfcoverage/pkg/pathsampler"
	"rfcoverage/pkg/propmodel"
	"rfcoverage/pkg/raster"
)

// testEarthRadiusFt is WGS-84 mean earth radius in feet, used
// throughout so flat-terrain scenarios behave as real-world distances
// rather than an arbitrary toy radius.
const testEarthRadiusFt = 20902231.0

func flatDEM(minNorth, maxNorth, minWest, maxWest float64, ippd int, dpp float64) *dem.DEM {
	return &dem.DEM{Pages: []dem.Page{{
		MinNorth: minNorth, MaxNorth: maxNorth,
		MinWest: minWest, MaxWest: maxWest,
		IPPD: ippd, DPP: dpp,
		Elev: make([]int16, ippd*ippd),
	}}}
}

func baseConfig() SweepConfig {
	return SweepConfig{
		MaxRange:    10,
		EarthRadius: testEarthRadiusFt,
		FreqMHz:     450,
	}
}

// TestPlotLOSMap_FlatTerrainAllCellsWithinRangeVisible is spec.md §8
// S1: on a flat DEM, every sample of every swept ray within max_range
// should see the transmitter. Walks the exact same section/destination
// geometry PlotLOSMap uses internally so every assertion lands on a
// cell the sweep actually wrote.
func TestPlotLOSMap_FlatTerrainAllCellsWithinRangeVisible(t *testing.T) {
	d := flatDEM(-1, 1, -1, 1, 201, 0.01)
	grids := raster.NewGrids(d)
	source := dem.Site{Lat: 0, Lon: 0, Alt: 100}
	cfg := baseConfig()

	assert.NoError(t, PlotLOSMap(cfg, grids, d, source, 10, nil, false))

	bb := computeBoundingBox(d)
	passBit := cfg.losPassBit()

	checked := 0
	for _, s := range buildSections(bb) {
		for _, dst := range sectionDestinations(s, bb.dpp) {
			path := pathsampler.ReadPath(source, dst, d)
			limit := path.Length() - 1
			for y := 0; y < limit && path.Distance[y] <= cfg.MaxRange; y++ {
				mask, ok := grids.GetMask(path.Lat[y], path.Lon[y])
				assert.True(t, ok)
				assert.NotEqual(t, uint8(0), mask&passBit, "expected LOS at sample (%v, %v)", path.Lat[y], path.Lon[y])
				checked++
			}
		}
	}
	assert.Greater(t, checked, 0, "test must actually exercise some in-range samples")
}

// TestPlotLOSMap_DeterministicAcrossWorkerCounts is spec.md §8 S5: a
// sequential sweep and a goroutine-parallel sweep over identical
// inputs must produce byte-identical mask and signal grids.
func TestPlotLOSMap_DeterministicAcrossWorkerCounts(t *testing.T) {
	d := flatDEM(-1, 1, -1, 1, 201, 0.01)
	source := dem.Site{Lat: 0, Lon: 0, Alt: 100}
	cfg := baseConfig()

	sequential := raster.NewGrids(d)
	assert.NoError(t, PlotLOSMap(cfg, sequential, d, source, 10, nil, false))

	parallel := raster.NewGrids(d)
	assert.NoError(t, PlotLOSMap(cfg, parallel, d, source, 10, nil, true))

	for _, lat := range []float64{-0.5, -0.2, 0, 0.2, 0.5} {
		for _, lon := range []float64{-0.5, -0.2, 0, 0.2, 0.5} {
			seqMask, _ := sequential.GetMask(lat, lon)
			parMask, _ := parallel.GetMask(lat, lon)
			assert.Equal(t, seqMask, parMask, "mask mismatch at (%v,%v)", lat, lon)

			seqSig, _ := sequential.GetSignal(lat, lon)
			parSig, _ := parallel.GetSignal(lat, lon)
			assert.Equal(t, seqSig, parSig, "signal mismatch at (%v,%v)", lat, lon)
		}
	}
}

// TestLosPass_PillarObstructsFarSideOfRay is spec.md §8 S2: a raised
// pillar partway along a ray blocks LOS for samples beyond it on that
// same ray, while an earlier sample on the same ray (in front of the
// pillar) remains visible. Exercises losPass directly against a path
// built from the very DEM the pillar was baked into, avoiding any
// guesswork about which arbitrary lat/lon a section ray would cross.
func TestLosPass_PillarObstructsFarSideOfRay(t *testing.T) {
	ippd := 401
	d := flatDEM(-1, 1, -1, 1, ippd, 0.005) // ~0.345 mi/pixel near the equator
	source := dem.Site{Lat: 0, Lon: 0, Alt: 10}
	dst := dem.Site{Lat: 0, Lon: 0.1} // due east, ~6.9 mi away

	probe := pathsampler.ReadPath(source, dst, d)
	assert.Greater(t, probe.Length(), 6)

	pillarIdx := 2
	page, x, y, ok := d.Locate(probe.Lat[pillarIdx], probe.Lon[pillarIdx])
	assert.True(t, ok, "pillar sample must resolve inside the test page")
	d.Pages[page].Elev[y*ippd+x] = 300

	// re-sample now that the DEM carries the pillar
	path := pathsampler.ReadPath(source, dst, d)

	cfg := baseConfig()
	cfg.MaxRange = 10
	grids := raster.NewGrids(d)
	passBit := cfg.losPassBit()

	losPass(cfg, grids, source, 5, path, passBit)

	lastIdx := path.Length() - 2
	farMask, _ := grids.GetMask(path.Lat[lastIdx], path.Lon[lastIdx])
	assert.Equal(t, uint8(0), farMask&passBit, "far side of the pillar should be obstructed")

	nearMask, _ := grids.GetMask(path.Lat[1], path.Lon[1])
	assert.NotEqual(t, uint8(0), nearMask&passBit, "sample in front of the pillar should remain visible")
}

// TestPlotPropagation_HalfSweepUnionEqualsFullSweep is spec.md §8 S4:
// running haf=1 then haf=2 on one shared grid reproduces a full sweep
// (haf=0) because the two halves cover disjoint sections and Claim is
// monotone.
func TestPlotPropagation_HalfSweepUnionEqualsFullSweep(t *testing.T) {
	d := flatDEM(-1, 1, -1, 1, 101, 0.02)
	source := dem.Site{Lat: 0, Lon: 0, Alt: 100}
	cfg := baseConfig()
	cfg.MaxRange = 5

	full := raster.NewGrids(d)
	assert.NoError(t, PlotPropagation(cfg, full, d, source, 10, nil, propmodel.FSPL, false, 0, propmodel.EnvRural, false))

	combined := raster.NewGrids(d)
	assert.NoError(t, PlotPropagation(cfg, combined, d, source, 10, nil, propmodel.FSPL, false, 1, propmodel.EnvRural, false))
	assert.NoError(t, PlotPropagation(cfg, combined, d, source, 10, nil, propmodel.FSPL, false, 2, propmodel.EnvRural, false))

	for _, lat := range []float64{-0.5, -0.2, 0, 0.2, 0.5} {
		for _, lon := range []float64{-0.5, -0.2, 0, 0.2, 0.5} {
			fullMask, _ := full.GetMask(lat, lon)
			combMask, _ := combined.GetMask(lat, lon)
			assert.Equal(t, fullMask&0xF8, combMask&0xF8, "mismatch at (%v,%v)", lat, lon)
		}
	}
}

func TestPlotLOSMap_NilGridsRejected(t *testing.T) {
	d := flatDEM(-1, 1, -1, 1, 11, 0.2)
	err := PlotLOSMap(baseConfig(), nil, d, dem.Site{}, 10, nil, false)
	assert.Error(t, err)
}
