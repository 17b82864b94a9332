package sweep

import (
	"rfcoverage/pkg/dem"
	"rfcoverage/pkg/geo"
	"rfcoverage/pkg/pathsampler"
	"rfcoverage/pkg/raster"
)

// losPass implements the LOS kernel (C6, spec.md §4.6): for each
// sample along path up to the max-range cutoff, test visibility from
// src (at altitude AGL of the destination candidate) back to the
// source, marking the pass bit on every unobstructed cell. Grounded
// on original_source/models/los.cc's PlotLOSPath; the obstruction
// scan's reversed cosine comparison is preserved exactly (cosine is
// monotonically decreasing over [0, pi], so a larger cosine means a
// smaller angle — "obstructed" when the terrain's angle from the
// receiver is not smaller than the transmitter's).
func losPass(cfg SweepConfig, grids *raster.Grids, src dem.Site, altitude float64, path pathsampler.Path, passBit uint8) {
	limit := path.Length() - 1
	for y := 0; y < limit && path.Distance[y] <= cfg.MaxRange; y++ {
		lat, lon := path.Lat[y], path.Lon[y]

		mask, _ := grids.GetMask(lat, lon)
		if mask&passBit != 0 {
			continue
		}
		if !grids.Claim(lat, lon) {
			continue
		}

		distance := geo.FeetPerMile * path.Distance[y]
		txAlt := cfg.EarthRadius + src.Alt + path.Elev[0]
		rxAlt := cfg.EarthRadius + altitude + path.Elev[y]

		cosXmtrAngle := (rxAlt*rxAlt + distance*distance - txAlt*txAlt) / (2.0 * rxAlt * distance)

		obstructed := false
		for x := y; x >= 0; x-- {
			testDist := geo.FeetPerMile * (path.Distance[y] - path.Distance[x])
			testAlt := cfg.EarthRadius + path.Elev[x]
			if path.Elev[x] != 0 {
				testAlt += cfg.Clutter
			}
			cosTestAngle := (rxAlt*rxAlt + testDist*testDist - testAlt*testAlt) / (2.0 * rxAlt * testDist)

			if cosXmtrAngle >= cosTestAngle {
				obstructed = true
				break
			}
		}

		if !obstructed {
			grids.OrMask(lat, lon, passBit)
		}
	}
}
