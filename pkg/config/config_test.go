package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"rfcoverage/pkg/propmodel"
)

func TestLoad_WritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rfcoverage.yaml")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "Load must persist the default config file")
}

func TestLoad_RoundTripsCustomValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rfcoverage.yaml")

	written := DefaultConfig()
	written.MaxRange = Distance(16093.44) // 10 mi
	written.Model = "fspl"
	written.Ground.FreqMHz = 915
	assert.NoError(t, Save(path, written))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, loaded.MaxRange.Miles(), 1e-6)
	assert.Equal(t, "fspl", loaded.Model)
	assert.Equal(t, 915.0, loaded.Ground.FreqMHz)
}

func TestModelID_UnknownNameFallsBackToITM(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "not-a-real-model"
	assert.Equal(t, propmodel.ITM, cfg.ModelID())
}

func TestModelID_KnownNameResolves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "Hata"
	assert.Equal(t, propmodel.Hata, cfg.ModelID())
}

func TestApplyEnvOverrides_TracePathAndWorkers(t *testing.T) {
	t.Setenv("RFCOVERAGE_TRACE_PATH", "/tmp/trace.txt")
	t.Setenv("RFCOVERAGE_WORKERS", "8")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "/tmp/trace.txt", cfg.Run.TracePath)
	assert.Equal(t, 8, cfg.Run.Workers)
}

func TestApplyEnvOverrides_InvalidWorkersIgnored(t *testing.T) {
	t.Setenv("RFCOVERAGE_WORKERS", "not-a-number")

	cfg := DefaultConfig()
	before := cfg.Run.Workers
	applyEnvOverrides(cfg)

	assert.Equal(t, before, cfg.Run.Workers)
}

func TestSweepConfig_ConvertsUnitsCorrectly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRange = Distance(1609.344) // 1 mi
	cfg.Clutter = Distance(0.3048)    // 1 ft
	cfg.EarthRadius = Distance(0.3048 * 20902231)

	sc := cfg.SweepConfig(nil, nil)
	assert.InDelta(t, 1.0, sc.MaxRange, 1e-9)
	assert.InDelta(t, 1.0, sc.Clutter, 1e-9)
	assert.InDelta(t, 20902231.0, sc.EarthRadius, 1e-6)
	assert.False(t, sc.GotElevationPattern)
}
