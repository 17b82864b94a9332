// Package config implements the configuration loader (spec component
// C9): a YAML file for ground constants, model choice, and per-run
// defaults, with .env-style overrides for the values operators flip
// most often (trace path, worker count). Produces a sweep.SweepConfig
// — the explicit config record the sweep package threads through
// every kernel call instead of process globals. Grounded on
// phileasgo/pkg/config's Load/Save/DefaultConfig lifecycle and its
// Duration/Distance custom YAML unit types (kept here as Distance
// only; see DESIGN.md).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"rfcoverage/pkg/propmodel"
	"rfcoverage/pkg/sweep"
)

// Config is the on-disk shape of a sweep run's settings.
type Config struct {
	MaxRange    Distance `yaml:"max_range"`
	Clutter     Distance `yaml:"clutter"`
	EarthRadius Distance `yaml:"earth_radius"`
	Metric      bool     `yaml:"metric"`
	Debug       bool     `yaml:"debug"`

	Model     string `yaml:"model"`
	KnifeEdge bool   `yaml:"knife_edge"`

	Signal SignalConfig `yaml:"signal"`
	Ground GroundConfig `yaml:"ground"`

	// Run holds values normally supplied via .env overrides rather
	// than the YAML file (TracePath, Workers); see applyEnvOverrides.
	Run RunConfig `yaml:"-"`
}

// SignalConfig selects the three-way signal conversion spec.md §4.7
// step 5 describes.
type SignalConfig struct {
	ERPWatts float64 `yaml:"erp_watts"` // 0 selects path-loss mode
	Dbm      bool    `yaml:"dbm"`       // when ERPWatts != 0: dBm vs field strength
}

// GroundConfig mirrors the LR ground/model record of spec.md §6.
type GroundConfig struct {
	FreqMHz         float64 `yaml:"freq_mhz"`
	EpsDielect      float64 `yaml:"eps_dielect"`
	SgmConductivity float64 `yaml:"sgm_conductivity"`
	EnoNsSurfref    float64 `yaml:"eno_ns_surfref"`
	RadioClimate    int     `yaml:"radio_climate"`
	Polarization    int     `yaml:"polarization"`
	Confidence      float64 `yaml:"confidence"`
	Reliability     float64 `yaml:"reliability"`
}

// RunConfig holds the handful of settings operators tend to flip
// per invocation; sourced from the environment, not the YAML file.
type RunConfig struct {
	TracePath string
	Workers   int
}

// modelNames maps a YAML-friendly model identifier to its propmodel.ID.
var modelNames = map[string]propmodel.ID{
	"itm":         propmodel.ITM,
	"itwom":       propmodel.ITWOM,
	"hata":        propmodel.Hata,
	"ecc33":       propmodel.ECC33,
	"sui":         propmodel.SUI,
	"cost231":     propmodel.COST231,
	"fspl":        propmodel.FSPL,
	"ericsson":    propmodel.Ericsson,
	"plane-earth": propmodel.PlaneEarth,
	"egli":        propmodel.Egli,
	"soil":        propmodel.Soil,
}

// ModelID resolves the configured model name, falling back to ITM
// (via propmodel.Resolve) for an unrecognized or empty name.
func (c *Config) ModelID() propmodel.ID {
	if id, ok := modelNames[strings.ToLower(strings.TrimSpace(c.Model))]; ok {
		return propmodel.Resolve(id)
	}
	return propmodel.Resolve(0)
}

// DefaultConfig returns the configuration a fresh install gets.
func DefaultConfig() *Config {
	return &Config{
		MaxRange:    Distance(48280.3), // ~30 mi
		Clutter:     0,
		EarthRadius: Distance(6371000), // WGS-84 mean radius
		Metric:      false,
		Debug:       false,
		Model:       "itm",
		KnifeEdge:   false,
		Signal: SignalConfig{
			ERPWatts: 0,
			Dbm:      false,
		},
		Ground: GroundConfig{
			FreqMHz:         450,
			EpsDielect:      15,
			SgmConductivity: 0.005,
			EnoNsSurfref:    301,
			RadioClimate:    5, // continental temperate
			Polarization:    0, // horizontal
			Confidence:      0.50,
			Reliability:     0.90,
		},
		Run: RunConfig{
			TracePath: "",
			Workers:   4,
		},
	}
}

// Load reads the YAML config at path, writing out DefaultConfig if
// the file does not yet exist, then applies .env-style overrides for
// the run-specific fields. It does not save overrides back to disk.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("config: writing default: %w", err)
		}
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides loads .env.local/.env (ignoring a missing file —
// relying solely on process environment variables is valid) and
// copies RFCOVERAGE_TRACE_PATH / RFCOVERAGE_WORKERS into cfg.Run.
func applyEnvOverrides(cfg *Config) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if v := os.Getenv("RFCOVERAGE_TRACE_PATH"); v != "" {
		cfg.Run.TracePath = v
	}
	if v := os.Getenv("RFCOVERAGE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Run.Workers = n
		}
	}
}

// Save writes cfg as YAML to path, creating its parent directory if
// necessary.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: creating directory %s: %w", dir, err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}

	header := []byte("# rfcoverage sweep configuration\n" +
		"# Distances accept a bare number (meters) or a unit suffix: m, km, nm, ft, mi.\n" +
		"# model: itm, itwom, hata, ecc33, sui, cost231, fspl, ericsson, plane-earth, egli, soil\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// SweepConfig builds the sweep.SweepConfig this Config describes. The
// caller supplies the antenna pattern (parsing a vendor pattern file
// is an external collaborator's concern, per spec.md §1) and the
// logger; a nil logger falls back to slog.Default() inside package
// sweep itself.
func (c *Config) SweepConfig(pattern *propmodel.AntennaPattern, logger *slog.Logger) sweep.SweepConfig {
	return sweep.SweepConfig{
		MaxRange:    c.MaxRange.Miles(),
		Clutter:     c.Clutter.Feet(),
		EarthRadius: c.EarthRadius.Feet(),
		Metric:      c.Metric,
		Debug:       c.Debug,

		ERP: c.Signal.ERPWatts,
		Dbm: c.Signal.Dbm,

		FreqMHz:             c.Ground.FreqMHz,
		EpsDielect:          c.Ground.EpsDielect,
		SgmConductivity:     c.Ground.SgmConductivity,
		EnoNsSurfref:        c.Ground.EnoNsSurfref,
		RadioClimate:        c.Ground.RadioClimate,
		Pol:                 c.Ground.Polarization,
		Conf:                c.Ground.Confidence,
		Rel:                 c.Ground.Reliability,
		AntennaPattern:      pattern,
		GotElevationPattern: pattern != nil,

		Logger: logger,
	}
}
