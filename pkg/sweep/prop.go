package sweep

import (
	"fmt"
	"io"
	"math"

	"rfcoverage/pkg/dem"
	"rfcoverage/pkg/geo"
	"rfcoverage/pkg/pathsampler"
	"rfcoverage/pkg/propmodel"
	"rfcoverage/pkg/raster"
)

const fourThirds = 4.0 / 3.0

// propPass implements the propagation kernel (C7, spec.md §4.7):
// dispatches a path-loss model at every sample from index 2 up to the
// max-range cutoff, applies the optional knife-edge correction and
// antenna-pattern integration, converts the result to a stored signal
// byte under one of three conversion modes, and advances the mask's
// generation bits. Grounded on original_source/models/los.cc's
// PlotPropPath.
func propPass(cfg SweepConfig, grids *raster.Grids, src dem.Site, altitude float64, path pathsampler.Path, model propmodel.ID, knifeEdge bool, env propmodel.Environment, trace io.Writer) {
	limit := path.Length() - 1
	if limit < 2 {
		return // spec.md §8 boundary: elev[0] (count-1) must be >= 1
	}

	earthRadius4_3 := fourThirds * cfg.EarthRadius
	genBits := cfg.propGeneration() << 3
	resolved := propmodel.Resolve(model)

	elevM := buildElevationProfileMeters(path, cfg.Clutter)
	srcPoint := geo.Point{Lat: src.Lat, Lon: src.Lon}

	for y := 2; y < limit && path.Distance[y] <= cfg.MaxRange; y++ {
		lat, lon := path.Lat[y], path.Lon[y]

		mask, _ := grids.GetMask(lat, lon)
		if mask&0xF8 == genBits {
			continue
		}
		if !grids.Claim(lat, lon) {
			continue
		}

		distance := geo.FeetPerMile * path.Distance[y]
		xmtrAlt := earthRadius4_3 + src.Alt + path.Elev[0]
		destAlt := earthRadius4_3 + altitude + path.Elev[y]
		xmtrAlt2 := xmtrAlt * xmtrAlt
		destAlt2 := destAlt * destAlt

		cosRcvrAngle := clampCos((xmtrAlt2 + distance*distance - destAlt2) / (2.0 * xmtrAlt * distance))

		var elevationAngle float64
		var obstructedEarly bool
		if cfg.GotElevationPattern || trace != nil {
			cosTestAngle := 0.0
			for x := 2; x < y; x++ {
				dx := geo.FeetPerMile * path.Distance[x]
				testAlt := earthRadius4_3 + path.Elev[x]
				if path.Elev[x] != 0 {
					testAlt += cfg.Clutter
				}
				cosTestAngle = clampCos((xmtrAlt2 + dx*dx - testAlt*testAlt) / (2.0 * xmtrAlt * dx))
				if cosRcvrAngle >= cosTestAngle {
					obstructedEarly = true
					break
				}
			}
			if obstructedEarly {
				elevationAngle = geo.RadToDeg(math.Acos(cosTestAngle)) - 90.0
			} else {
				elevationAngle = geo.RadToDeg(math.Acos(cosRcvrAngle)) - 90.0
			}
		}

		stepM := geo.MetersPerMile * (path.Distance[y] - path.Distance[y-1])
		count := float64(y - 1)
		dkm := stepM * count / 1000.0

		elevProfile := make([]float64, 0, y+3)
		elevProfile = append(elevProfile, count, stepM)
		elevProfile = append(elevProfile, elevM[:y]...)

		rxAltClosedForm := (path.Elev[y] + altitude) * geo.MetersPerFoot
		rxAltLR := altitude * geo.MetersPerFoot
		rxAltM := rxAltClosedForm
		if propmodel.IsLongleyRice(resolved) {
			rxAltM = rxAltLR
		}

		result := propmodel.Evaluate(resolved, cfg.FreqMHz, src.Alt*geo.MetersPerFoot, rxAltM, dkm, env, elevProfile, cfg.groundConstants())
		loss := result.LossDB
		if result.ErrNum != 0 && cfg.Debug {
			cfg.logger().Debug("propagation model reported non-zero error", "errnum", result.ErrNum, "mode", result.Mode, "model", resolved)
		}

		if knifeEdge && resolved != propmodel.ITM {
			loss += ked(cfg.FreqMHz, altitude*geo.MetersPerFoot, dkm, stepM, elevM)
		}

		preAntennaLoss := loss

		azimuth := geo.Azimuth(srcPoint, geo.Point{Lat: lat, Lon: lon})
		elIdx := int(math.Round(10.0 * (10.0 - elevationAngle)))
		if elIdx >= 0 && elIdx <= 1000 && cfg.AntennaPattern != nil {
			azIdx := int(math.Round(azimuth)) % 360
			if azIdx < 0 {
				azIdx += 360
			}
			pattern := cfg.AntennaPattern[azIdx][elIdx]
			if pattern != 0 {
				loss -= 20 * math.Log10(pattern)
			}
		}

		ifs, metricValue := convertSignal(cfg, grids, lat, lon, loss)
		grids.PutSignal(lat, lon, ifs)

		newMask, _ := grids.GetMask(lat, lon)
		grids.PutMask(lat, lon, (newMask&0x07)|genBits)

		if trace != nil {
			// Path-loss mode traces the pre-antenna-integration loss
			// (los.cc:577-579); field-strength/dBm modes trace the
			// post-integration metric, same as the stored signal byte.
			traceValue := metricValue
			if cfg.ERP == 0 {
				traceValue = preAntennaLoss
			}
			marker := ""
			if obstructedEarly {
				marker = " *"
			}
			if _, err := fmt.Fprintf(trace, "%.7f, %.7f, %.3f, %.3f, %.2f%s\n", lat, lon, azimuth, elevationAngle, traceValue, marker); err != nil {
				cfg.logger().Warn("writing trace line failed", "error", err)
			}
		}
	}
}

// buildElevationProfileMeters converts a path's elevations to meters
// once per ray, applying clutter to interior non-zero samples and
// leaving the endpoints (source and destination) bare — matching
// PlotPropPath's one-time elev[] fill before the per-sample loop
// truncates it via elev[0]/elev[1].
func buildElevationProfileMeters(path pathsampler.Path, clutter float64) []float64 {
	n := path.Length()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		e := path.Elev[i] * geo.MetersPerFoot
		if i != 0 && i != n-1 && path.Elev[i] != 0 {
			e += clutter * geo.MetersPerFoot
		}
		out[i] = e
	}
	return out
}

func clampCos(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}

// convertSignal applies the three-way signal conversion of spec.md
// §4.7 step 5, returning the byte to store and the human-readable
// metric value for the trace line.
func convertSignal(cfg SweepConfig, grids *raster.Grids, lat, lon, loss float64) (uint8, float64) {
	existing, _ := grids.GetSignal(lat, lon)

	switch {
	case cfg.ERP != 0 && cfg.Dbm:
		rxp := cfg.ERP / math.Pow(10.0, (loss-2.14)/10.0)
		dBm := 10.0 * math.Log10(rxp*1000.0)
		v := clampByte(200 + int(math.Round(dBm)))
		if existing > v {
			v = existing
		}
		return v, dBm

	case cfg.ERP != 0:
		fieldStrength := 139.4 + 20.0*math.Log10(cfg.FreqMHz) - loss + 10.0*math.Log10(cfg.ERP/1000.0)
		v := clampByte(100 + int(math.Round(fieldStrength)))
		if existing > v {
			v = existing
		}
		return v, fieldStrength

	default:
		v := clampByte(int(math.Round(loss)))
		if existing < v && existing != 0 {
			v = existing
		}
		return v, loss
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// incidenceAngle is the acute angle from the receiver to an obstacle
// of the given height (opp) and distance (adj) along the path.
func incidenceAngle(opp, adj float64) float64 {
	return geo.RadToDeg(math.Atan2(opp, adj))
}

// ked is the knife-edge diffraction correction (spec.md §4.7 step 3):
// walks the precomputed elevation profile tracking the tallest point
// seen so far, and reports the incidence angle at the last terrain
// dip found relative to it — a deliberate shortcut over a full
// multiple-knife-edge solution, inherited from the original model
// ("trades thoroughness for speed").
func ked(freqMHz, rxAltM, dkm, stepM float64, elevM []float64) float64 {
	if stepM <= 0 {
		return 1
	}
	dkmMeters := dkm * 1000.0
	limit := int(dkmMeters / stepM)

	// los.cc:198 walks elev[n] for n in [2, limit), and elev[2] is
	// elevation[0] (elev[0]/elev[1] hold count/step, not a sample) — so
	// it inspects elevation samples [0, limit-3]. elevM here already
	// drops that two-slot header, so the equivalent bound is limit-2.
	var obh, obd, rxobaoi float64
	for idx := 0; idx < limit-2 && idx < len(elevM); idx++ {
		d := float64(idx) * stepM
		if elevM[idx] < obh {
			rxobaoi = incidenceAngle(obh-(elevM[idx]+rxAltM), d-obd)
		} else {
			rxobaoi = 0
		}
		if elevM[idx] > obh {
			obh = elevM[idx]
			obd = d
		}
	}

	if rxobaoi >= 0 {
		return math.Max(rxobaoi/(300.0/freqMHz)+3, 1)
	}
	return 1
}
