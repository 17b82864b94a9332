package dem

import (
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PageManifest describes one DEM page on disk: its lat/lon bounds, its
// resolution, and the path to its raw row-major int16 elevation file
// (little-endian, feet AMSL). This is the simplest possible DEM
// ingestion format — production tiling/ingestion from real source
// rasters (SRTM, ETOPO1, ...) is an external collaborator per
// spec.md §1; this loader only needs to exist so C2-C8 have a DEM to
// run against.
type PageManifest struct {
	MinNorth float64 `yaml:"min_north"`
	MaxNorth float64 `yaml:"max_north"`
	MinWest  float64 `yaml:"min_west"`
	MaxWest  float64 `yaml:"max_west"`
	IPPD     int     `yaml:"ippd"`
	DPP      float64 `yaml:"dpp"`
	DataFile string  `yaml:"data_file"`
}

// Manifest is the on-disk list of pages making up a DEM.
type Manifest struct {
	Pages []PageManifest `yaml:"pages"`
}

// LoadManifest reads a YAML manifest file listing DEM pages.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read DEM manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse DEM manifest: %w", err)
	}
	if len(m.Pages) > MaxPages {
		return nil, fmt.Errorf("manifest has %d pages, exceeds MaxPages=%d", len(m.Pages), MaxPages)
	}
	return &m, nil
}

// Load reads a manifest and every page's raw elevation raster,
// returning an assembled DEM ready for sweeping.
func Load(manifestPath string) (*DEM, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	d := &DEM{Pages: make([]Page, len(m.Pages))}
	for i, pm := range m.Pages {
		page, err := loadPage(pm)
		if err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", i, pm.DataFile, err)
		}
		d.Pages[i] = page
	}
	return d, nil
}

func loadPage(pm PageManifest) (Page, error) {
	if pm.IPPD <= 0 {
		return Page{}, fmt.Errorf("invalid ippd %d", pm.IPPD)
	}

	f, err := os.Open(pm.DataFile)
	if err != nil {
		return Page{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Page{}, err
	}
	want := int64(pm.IPPD) * int64(pm.IPPD) * 2
	if info.Size() != want {
		return Page{}, fmt.Errorf("invalid elevation file size: expected %d, got %d", want, info.Size())
	}

	raw := make([]byte, want)
	if _, err := f.ReadAt(raw, 0); err != nil {
		return Page{}, err
	}

	elev := make([]int16, pm.IPPD*pm.IPPD)
	for i := range elev {
		elev[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}

	return Page{
		MinNorth: pm.MinNorth,
		MaxNorth: pm.MaxNorth,
		MinWest:  pm.MinWest,
		MaxWest:  pm.MaxWest,
		IPPD:     pm.IPPD,
		DPP:      pm.DPP,
		Elev:     elev,
	}, nil
}
