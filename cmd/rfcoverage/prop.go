package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rfcoverage/pkg/dem"
	"rfcoverage/pkg/propmodel"
	"rfcoverage/pkg/raster"
	"rfcoverage/pkg/sweep"
)

// envNames maps a command-line environment name to propmodel.Environment.
var envNames = map[string]propmodel.Environment{
	"urban":    propmodel.EnvUrban,
	"suburban": propmodel.EnvSuburban,
	"rural":    propmodel.EnvRural,
}

// newPropCommand builds the `rfcoverage prop` subcommand: a full or
// half (--haf) propagation-model sweep around a source site. Grounded
// on original_source/models/los.cc's PlotPropagation entrypoint.
func newPropCommand() *cobra.Command {
	var (
		manifestPath  string
		lat, lon, alt float64
		tracePath     string
		debug         bool
		parallel      bool
		modelName     string
		knifeEdge     bool
		haf           int
		envName       string
	)

	cmd := &cobra.Command{
		Use:   "prop",
		Short: "Sweep propagation-model signal coverage around a transmitter site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadRunContext(debug)
			if err != nil {
				return err
			}
			defer cleanup()

			if modelName != "" {
				cfg.Model = modelName
			}
			if cmd.Flags().Changed("knife-edge") {
				cfg.KnifeEdge = knifeEdge
			}

			env, ok := envNames[strings.ToLower(strings.TrimSpace(envName))]
			if !ok {
				env = propmodel.EnvRural
			}

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
			model := cfg.ModelID()

			if err := sweep.PlotPropagation(sc, grids, d, source, alt, traceWriter, model, cfg.KnifeEdge, haf, env, parallel); err != nil {
				return fmt.Errorf("sweeping propagation: %w", err)
			}

			logger.Info("propagation sweep complete",
				"source_lat", lat, "source_lon", lon, "altitude_ft", alt,
				"model", cfg.Model, "environment", envName, "haf", haf,
				"pages", len(d.Pages))
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "dem", "", "path to the DEM manifest YAML (required)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "source site latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "source site longitude")
	cmd.Flags().Float64Var(&alt, "altitude", 30, "antenna/receiver altitude above ground, feet")
	cmd.Flags().StringVar(&tracePath, "trace", "", "optional path to write a per-point trace file")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "run the sweep sections concurrently")
	cmd.Flags().StringVar(&modelName, "model", "", "propagation model (itm, itwom, hata, ecc33, sui, cost231, fspl, ericsson, plane-earth, egli, soil); defaults to the config file's model")
	cmd.Flags().BoolVar(&knifeEdge, "knife-edge", false, "apply the knife-edge diffraction correction")
	cmd.Flags().IntVar(&haf, "haf", 0, "half-sweep restriction: 0 full, 1 first two sections, 2 last two")
	cmd.Flags().StringVar(&envName, "environment", "rural", "clutter environment for closed-form models (urban, suburban, rural)")
	cmd.MarkFlagRequired("dem")

	return cmd
}
