// Package propmodel implements the propagation dispatch (spec
// component C5): a uniform call shape over a family of closed-form
// path-loss formulas, plus the two Longley-Rice-family models which
// additionally consume a terrain profile. Per spec.md §1 these model
// bodies are "external pure functions with a uniform signature — they
// are the domain, not the engineering"; the formulas below are the
// standard textbook closed forms for each named model, wired behind
// one dispatch table (spec.md §9 Design Notes, replacing the
// original's switch statement with a map, as aurel42-phileasgo's
// pkg/core job-type registries do for their own dispatch tables).
package propmodel

import "math"

// ID identifies a propagation model. Values match spec.md §4.5
// exactly: identifier 2 is reserved and unused.
type ID int

const (
	ITM        ID = 1
	Hata       ID = 3
	ECC33      ID = 4
	SUI        ID = 5
	COST231    ID = 6
	FSPL       ID = 7
	ITWOM      ID = 8
	Ericsson   ID = 9
	PlaneEarth ID = 10
	Egli       ID = 11
	Soil       ID = 12
)

// Environment selects the clutter/morphology correction a closed-form
// model applies (ignored by FSPL, Plane-Earth, and Egli, which have no
// environment term; Soil uses it only to pick a nominal dielectric
// constant).
type Environment int

const (
	EnvUrban Environment = iota
	EnvSuburban
	EnvRural
)

// GroundConstants are the ground-electrical parameters the
// Longley-Rice-family models need in addition to the terrain profile.
type GroundConstants struct {
	DielectricConst     float64 // eps_dielect
	Conductivity        float64 // sgm_conductivity, siemens/meter
	RefractivityNUnits  float64 // surface refractivity, N-units
	RadioClimate        int     // ITU/ITM climate code
	PolarizationVert    bool
}

// ClosedFormFunc is the uniform signature for the nine closed-form
// models: frequency in MHz, transmitter and receiver heights above
// ground in meters, path distance in km, and an environment
// classification. Returns path loss in dB.
type ClosedFormFunc func(freqMHz, txAltM, rxAltM, distKm float64, env Environment) float64

// LRResult is what a Longley-Rice-family model reports in addition to
// loss: an error code (0 = no error, matching the original's errnum
// convention) and a human-readable propagation mode.
type LRResult struct {
	LossDB float64
	ErrNum int
	Mode   string
}

// LRFunc is the signature shared by ITM and ITWOM: same frequency and
// height inputs, but an elevation profile and ground constants replace
// the plain distance. elevProfile[0] is the sample count minus one,
// elevProfile[1] is the step size in meters between samples, and
// elevProfile[2:] holds the per-sample terrain heights in meters —
// the same packing spec.md §4.7 describes for the kernel's own elev
// array.
type LRFunc func(txAltM, rxAltM float64, elevProfile []float64, gc GroundConstants, freqMHz float64) LRResult

var closedForm = map[ID]ClosedFormFunc{
	Hata:       hataPathLoss,
	ECC33:      ecc33PathLoss,
	SUI:        suiPathLoss,
	COST231:    cost231PathLoss,
	FSPL:       fsplClosedForm,
	Ericsson:   ericssonPathLoss,
	PlaneEarth: planeEarthPathLoss,
	Egli:       egliPathLoss,
	Soil:       soilPathLoss,
}

var lrModels = map[ID]LRFunc{
	ITM:   pointToPointITM,
	ITWOM: pointToPointITWOM,
}

// IsLongleyRice reports whether id resolves to one of the two
// Longley-Rice-family models (ITM, ITWOM), which consume an elevation
// profile instead of a plain receiver height.
func IsLongleyRice(id ID) bool {
	_, ok := lrModels[Resolve(id)]
	return ok
}

// AntennaPattern is a transmitter's elevation/azimuth radiation
// pattern, indexed [azimuth degrees 0..359][elevation bucket 0..1000]
// per spec.md §6's `antenna_pattern[360][1001]`.
type AntennaPattern [360][1001]float64

// Resolve maps an arbitrary identifier to the model that will
// actually run: unknown identifiers (including the reserved 2) fall
// back to ITM, per spec.md §4.5.
func Resolve(id ID) ID {
	if _, ok := lrModels[id]; ok {
		return id
	}
	if _, ok := closedForm[id]; ok {
		return id
	}
	return ITM
}

// Evaluate dispatches to the resolved model and returns loss in dB
// plus the Longley-Rice-style error code and mode string (zero value
// and empty string for closed-form models, which report neither).
func Evaluate(id ID, freqMHz, txAltM, rxAltM, distKm float64, env Environment, elevProfile []float64, gc GroundConstants) LRResult {
	id = Resolve(id)
	if fn, ok := lrModels[id]; ok {
		return fn(txAltM, rxAltM, elevProfile, gc, freqMHz)
	}
	// closedForm's uniform signature carries no gc: Soil derives its
	// dielectric constant from env instead of gc.DielectricConst (see
	// soilPathLoss) — the configured eps_dielect is intentionally not
	// threaded here.
	return LRResult{LossDB: closedForm[id](freqMHz, txAltM, rxAltM, distKm, env)}
}

func fsplClosedForm(freqMHz, _, _, distKm float64, _ Environment) float64 {
	return fsplPathLoss(freqMHz, distKm)
}

// fsplPathLoss is the free-space path loss formula, ITU-R P.525: loss
// in dB for frequency in MHz and distance in km.
func fsplPathLoss(freqMHz, distKm float64) float64 {
	if distKm <= 0 {
		distKm = 0.001
	}
	return 32.44 + 20*math.Log10(freqMHz) + 20*math.Log10(distKm)
}

// hataPathLoss is the Okumura-Hata model, valid nominally for
// 150-1500 MHz, medium/small city correction.
func hataPathLoss(freqMHz, txAltM, rxAltM, distKm float64, env Environment) float64 {
	logF := math.Log10(freqMHz)
	ahm := (1.1*logF - 0.7) * rxAltM
	ahm -= 1.56*logF - 0.8
	if env == EnvUrban {
		// large-city correction, >= 300 MHz form
		if freqMHz >= 300 {
			ahm = 3.2*math.Pow(math.Log10(11.75*rxAltM), 2) - 4.97
		} else {
			ahm = 8.29*math.Pow(math.Log10(1.54*rxAltM), 2) - 1.1
		}
	}

	l := 69.55 + 26.16*logF - 13.82*math.Log10(txAltM) - ahm +
		(44.9-6.55*math.Log10(txAltM))*math.Log10(distKm)

	switch env {
	case EnvSuburban:
		l -= 2*math.Pow(math.Log10(freqMHz/28), 2) + 5.4
	case EnvRural:
		l -= 4.78*math.Pow(logF, 2) - 18.33*logF + 40.94
	}
	return l
}

// ecc33PathLoss is the ECC Report 33 model (extends Okumura-Hata to
// higher frequencies via explicit free-space and basic-median-loss
// terms combined with height gain factors).
func ecc33PathLoss(freqMHz, txAltM, rxAltM, distKm float64, env Environment) float64 {
	freqGHz := freqMHz / 1000.0
	afs := 92.4 + 20*math.Log10(distKm) + 20*math.Log10(freqGHz)
	abm := 20.41 + 9.83*math.Log10(distKm) + 7.894*math.Log10(freqMHz) + 9.56*math.Pow(math.Log10(freqMHz), 2)
	gb := math.Log10(txAltM/200) * (13.958 + 5.8*math.Pow(math.Log10(distKm), 2))

	var gr float64
	switch env {
	case EnvUrban:
		gr = (42.57 + 13.7*math.Log10(freqGHz)) * (math.Log10(rxAltM) - 0.585)
	default:
		gr = (0.759*rxAltM - 1.862)
	}
	return afs + abm - gb - gr
}

// suiPathLoss is the Stanford University Interim model, terrain
// category B (suburban) parameters by default; urban tightens the
// path-loss exponent, rural relaxes it.
func suiPathLoss(freqMHz, txAltM, rxAltM, distKm float64, env Environment) float64 {
	const d0 = 100.0 // meters
	a, b, c := 4.0, 0.0065, 17.1
	switch env {
	case EnvUrban:
		a, b, c = 4.6, 0.0075, 12.6
	case EnvRural:
		a, b, c = 3.6, 0.005, 20.0
	}
	gamma := a - b*txAltM + c/txAltM
	distM := distKm * 1000.0
	lambda := 299.792458 / freqMHz // meters, c in Mm/s over MHz
	aTerm := 20 * math.Log10(4*math.Pi*d0/lambda)

	xf := 6 * math.Log10(freqMHz/2000)
	xh := -10.8 * math.Log10(rxAltM/2000)
	if env == EnvUrban {
		xh = -20 * math.Log10(rxAltM/2000)
	}

	return aTerm + 10*gamma*math.Log10(distM/d0) + xf + xh
}

// cost231PathLoss is the COST 231 extension of Hata to 1500-2000 MHz.
func cost231PathLoss(freqMHz, txAltM, rxAltM, distKm float64, env Environment) float64 {
	logF := math.Log10(freqMHz)
	ahm := (1.1*logF - 0.7) * rxAltM
	ahm -= 1.56*logF - 0.8

	c := 0.0
	if env == EnvUrban {
		c = 3.0
	}

	return 46.3 + 33.9*logF - 13.82*math.Log10(txAltM) - ahm +
		(44.9-6.55*math.Log10(txAltM))*math.Log10(distKm) + c
}

// ericssonPathLoss is the Ericsson 9999 model, environment-dependent
// polynomial in log10(distance).
func ericssonPathLoss(freqMHz, txAltM, rxAltM, distKm float64, env Environment) float64 {
	a0, a1, a2, a3 := 36.2, 30.2, 12.0, 0.1
	switch env {
	case EnvUrban:
		a0, a1, a2, a3 = 33.0, 25.0, 14.0, 0.1
	case EnvRural:
		a0, a1, a2, a3 = 39.0, 34.0, 9.0, 0.1
	}
	gf := 44.49*math.Log10(freqMHz) - 4.78*math.Pow(math.Log10(freqMHz), 2)

	l := a0 + a1*math.Log10(distKm) + a2*math.Log10(txAltM) +
		a3*math.Log10(txAltM)*math.Log10(distKm) -
		3.2*math.Pow(math.Log10(11.75*rxAltM), 2) + gf
	return l
}

// planeEarthPathLoss is the two-ray ground-reflection model, dominant
// in the far field where direct and ground-reflected rays combine.
func planeEarthPathLoss(_, txAltM, rxAltM, distKm float64, _ Environment) float64 {
	distM := math.Max(distKm*1000.0, 1.0)
	return 40*math.Log10(distM) - 20*math.Log10(txAltM) - 20*math.Log10(rxAltM)
}

// egliPathLoss is the Egli VHF/UHF model: free-space loss with a
// terrain/height-gain correction, no explicit environment term.
func egliPathLoss(freqMHz, txAltM, rxAltM, distKm float64, _ Environment) float64 {
	return 20*math.Log10(freqMHz) - 20*math.Log10(txAltM*rxAltM) + 40*math.Log10(distKm) + 85.9
}

// soilPathLoss approximates ground-wave propagation over lossy soil:
// free-space loss plus a surface-wave correction keyed off a nominal
// dielectric constant per environment (wet/rural soil conducts
// better than dry/urban fill), since the closed-form call shape
// carries no dedicated ground-constants argument.
func soilPathLoss(freqMHz, _, _, distKm float64, env Environment) float64 {
	epsDielect := 15.0 // average ground
	switch env {
	case EnvUrban:
		epsDielect = 5.0 // dry/urban fill
	case EnvRural:
		epsDielect = 25.0 // moist rural soil
	}
	return fsplPathLoss(freqMHz, distKm) + 10/epsDielect
}
