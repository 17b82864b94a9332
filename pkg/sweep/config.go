// Package sweep implements the LOS kernel (C6), propagation kernel
// (C7), and sweep orchestrator (C8): the four-quadrant perimeter
// decomposition that drives rays outward from a transmitter site,
// evaluating either line-of-sight visibility or a propagation model
// at every sample along each ray and writing the result into raster
// state. Grounded on original_source/models/los.cc's PlotLOSPath,
// PlotPropPath, PlotLOSMap, and PlotPropagation.
package sweep

import (
	"log/slog"

	"rfcoverage/pkg/propmodel"
)

// SweepConfig is the explicit, caller-owned record threading every
// value the original kept as process globals (max_range, clutter,
// earthradius, dbm, metric, debug, the LR ground-constants record)
// through sections and kernels instead (spec.md §9 Design Notes:
// "thread a SweepConfig record explicitly ... instead of process-wide
// state"). Workers hold a borrowed copy; SweepConfig carries no
// pointers into shared mutable state except the antenna pattern table,
// which is read-only for the duration of a sweep.
type SweepConfig struct {
	MaxRange    float64 // miles
	Clutter     float64 // feet
	EarthRadius float64 // feet, WGS-84 local
	Metric      bool
	Debug       bool

	// Signal conversion mode (spec.md §4.7 step 5).
	ERP float64 // watts; 0 selects path-loss mode
	Dbm bool    // when ERP != 0: dBm mode vs field-strength mode

	// LR-equivalent ground/model parameters (spec.md §6 `LR` record).
	FreqMHz             float64
	EpsDielect          float64
	SgmConductivity     float64
	EnoNsSurfref        float64
	RadioClimate        int
	Pol                 int
	Conf                float64
	Rel                 float64
	AntennaPattern      *propmodel.AntennaPattern
	GotElevationPattern bool

	// Pass-generation selectors (spec.md §4.8): the original advanced
	// a static, thread-local mask_value across successive calls to
	// PlotLOSMap/PlotPropagation; here the caller owns that state
	// explicitly and sets it before each call. LOSGeneration cycles
	// 0..3, selecting from {1, 8, 16, 32}; PropGeneration ranges 1..29
	// and is written into mask bits 3..7 as PropGeneration<<3.
	LOSGeneration  int
	PropGeneration int

	// Logger receives debug-level model-error reports and panic
	// recovery notices (spec.md §7). A nil Logger falls back to
	// slog.Default().
	Logger *slog.Logger
}

func (cfg SweepConfig) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// losGenerationSchedule is the fixed LOS pass-generation byte
// sequence spec.md §4.8 specifies; kept exactly as documented rather
// than redesigned (Design Notes §9 disposition: "kept as specified").
var losGenerationSchedule = [4]uint8{1, 8, 16, 32}

// losPassBit resolves cfg.LOSGeneration (clamped to the schedule's
// range) to the mask bit OR'd onto a cell's LOS visibility.
func (cfg SweepConfig) losPassBit() uint8 {
	i := cfg.LOSGeneration
	if i < 0 {
		i = 0
	}
	if i >= len(losGenerationSchedule) {
		i = len(losGenerationSchedule) - 1
	}
	return losGenerationSchedule[i]
}

// propGeneration resolves cfg.PropGeneration (clamped to 1..29) to
// the generation value written into mask bits 3..7.
func (cfg SweepConfig) propGeneration() uint8 {
	g := cfg.PropGeneration
	if g < 1 {
		g = 1
	}
	if g > 29 {
		g = 29
	}
	return uint8(g)
}

func (cfg SweepConfig) groundConstants() propmodel.GroundConstants {
	return propmodel.GroundConstants{
		DielectricConst:    cfg.EpsDielect,
		Conductivity:       cfg.SgmConductivity,
		RefractivityNUnits: cfg.EnoNsSurfref,
		RadioClimate:       cfg.RadioClimate,
		PolarizationVert:   cfg.Pol != 0,
	}
}
