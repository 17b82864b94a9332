// Command rfcoverage is the CLI entrypoint (spec component C10): it
// loads a DEM, builds a SweepConfig from a YAML+env config file, and
// runs either a line-of-sight sweep or a propagation-model sweep
// around a transmitter site, writing the resulting mask/signal grids'
// trace to a file. Grounded on phileasgo/cmd/phileasgo/main.go's
// config-load -> logging-init -> run shape, realized as a
// github.com/spf13/cobra command tree instead of a single long-running
// server process.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"rfcoverage/pkg/config"
	"rfcoverage/pkg/logging"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "rfcoverage",
		Short: "Sweep line-of-sight and propagation coverage around a transmitter site",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "rfcoverage.yaml", "path to the sweep config file")

	root.AddCommand(newLOSCommand())
	root.AddCommand(newPropCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rfcoverage: %v\n", err)
		os.Exit(1)
	}
}

// loadRunContext loads the config file and sets up logging, returning
// the config, the logger, and a cleanup function the caller must
// defer.
func loadRunContext(debugFlag bool) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if debugFlag {
		cfg.Debug = true
	}

	logPath := ""
	if cfg.Run.TracePath != "" {
		logPath = cfg.Run.TracePath + ".log"
	}
	logger, cleanup, err := logging.Init(logPath, cfg.Debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing logging: %w", err)
	}

	return cfg, logger, cleanup, nil
}
