// firesim runs wildfire spread and suppression simulations.
//
// Usage:
//
//	firesim run                 - Run one simulation, optionally rendering every step
//	firesim batch               - Run a sweep or plan file concurrently and summarize it
//	firesim results [batch-id]  - List stored batches or print one batch's summary
//
// Global flags:
//
//	--config <path>     - Config file (default: ./firesim.yaml if present)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/config"
)

var (
	// Global flags
	flagConfigPath string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "firesim",
	Short: "Wildfire spread and suppression simulator",
	Long: `firesim simulates fire spreading across a square grid under wind and rain,
with suppression agents that chase the nearest burning cell.

Available commands:
  run      - Run a single simulation
  batch    - Run many simulations concurrently and compare agent counts
  results  - Inspect batches stored in a results database

Examples:
  firesim run --agents 5 --render
  firesim batch --agents 5,10,15,20 --repetitions 100 --db results.db
  firesim batch --plan plan.yaml
  firesim results --db results.db`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(resultsCmd)
}

func initApp(cmd *cobra.Command, args []string) error {
	if err := config.Init(flagConfigPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := config.Get()

	level := flagLogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	setupLogging(level, cfg.Logging.Format)

	if path := config.ConfigFilePath(); path != "" {
		log.Debug().Str("path", path).Msg("Loaded config file")
	}
	return nil
}
