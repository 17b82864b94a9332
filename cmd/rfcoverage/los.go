package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rfcoverage/pkg/dem"
	"rfcoverage/pkg/raster"
	"rfcoverage/pkg/sweep"
)

// newLOSCommand builds the `rfcoverage los` subcommand: a full
// line-of-sight sweep around a source site, logging a summary of the
// source, altitude, and DEM page count when it finishes. Grounded on
// original_source/models/los.cc's PlotLOSMap entrypoint.
func newLOSCommand() *cobra.Command {
	var (
		manifestPath  string
		lat, lon, alt float64
		tracePath     string
		debug         bool
		parallel      bool
	)

	cmd := &cobra.Command{
		Use:   "los",
		Short: "Sweep line-of-sight visibility around a transmitter site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadRunContext(debug)
			if err != nil {
				return err
			}
			defer cleanup()

			d, err := dem.Load(manifestPath)
			if err != nil {
				return fmt.Errorf("loading DEM: %w", err)
			}
			grids := raster.NewGrids(d)

			var traceWriter io.Writer
			if tracePath != "" {
				trace, err := os.Create(tracePath)
				if err != nil {
					return fmt.Errorf("creating trace file: %w", err)
				}
				defer trace.Close()
				traceWriter = trace
			}

			sc := cfg.SweepConfig(nil, logger)
			source := dem.Site{Lat: lat, Lon: lon, Alt: alt}

			if err := sweep.PlotLOSMap(sc, grids, d, source, alt, traceWriter, parallel); err != nil {
				return fmt.Errorf("sweeping line of sight: %w", err)
			}

			logger.Info("los sweep complete",
				"source_lat", lat, "source_lon", lon, "altitude_ft", alt,
				"pages", len(d.Pages))
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "dem", "", "path to the DEM manifest YAML (required)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "source site latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "source site longitude")
	cmd.Flags().Float64Var(&alt, "altitude", 30, "antenna/receiver altitude above ground, feet")
	cmd.Flags().StringVar(&tracePath, "trace", "", "optional path to write a trace file (a LOS sweep writes only the header line)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "run the four sweep sections concurrently")
	cmd.MarkFlagRequired("dem")

	return cmd
}
