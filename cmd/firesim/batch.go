package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/batch"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/capture"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/config"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events/subscribers"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/monitoring"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/storage"
)

var (
	flagBatchPlan        string
	flagBatchAgents      []int
	flagBatchRepetitions int
	flagBatchSeed        int64
	flagBatchWorkers     int
	flagBatchDB          string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many simulations concurrently and compare agent counts",
	Long: `Run a sweep (every agent count against the same random ignition, repeated)
or the runs listed in a YAML plan file, then print per-agent-count statistics.

Interrupting the batch keeps the records of runs that already finished.

Examples:
  firesim batch --agents 5,10,15,20 --repetitions 100
  firesim batch --plan plan.yaml --workers 4
  firesim batch --db results.db`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&flagBatchPlan, "plan", "", "YAML plan file (overrides the configured sweep)")
	batchCmd.Flags().IntSliceVar(&flagBatchAgents, "agents", nil, "Agent counts to compare (empty to use config default)")
	batchCmd.Flags().IntVar(&flagBatchRepetitions, "repetitions", 0, "Repetitions per agent count (0 to use config default)")
	batchCmd.Flags().Int64Var(&flagBatchSeed, "seed", 0, "Sweep seed (0 to use config default)")
	batchCmd.Flags().IntVar(&flagBatchWorkers, "workers", -1, "Concurrent runs (-1 to use config default, 0 = GOMAXPROCS)")
	batchCmd.Flags().StringVar(&flagBatchDB, "db", "", "Store results in this SQLite file (empty to use config default)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	params, err := cfg.Simulation.Params()
	if err != nil {
		return err
	}

	specs, err := batchSpecs(cfg, params.GridSize)
	if err != nil {
		return err
	}

	workers := cfg.Batch.Workers
	if flagBatchWorkers >= 0 {
		workers = flagBatchWorkers
	}
	dbPath := cfg.Storage.Path
	if flagBatchDB != "" {
		dbPath = flagBatchDB
	}

	progress := monitoring.NewProgress(len(specs), cfg.Batch.ProgressInterval, log.Logger)
	runner := batch.NewRunner(params, log.Logger)
	runner.Workers = workers
	runner.Progress = progress

	var recorder *capture.Recorder
	if cfg.Capture.Enabled {
		recorder = capture.NewRecorder("frame-recorder", cfg.Capture.Capacity, log.Logger)
	}
	runner.Subscribers = func(index int, runID string, spec batch.RunSpec) []events.Subscriber {
		var subs []events.Subscriber
		if recorder != nil {
			subs = append(subs, recorder)
		}
		if cfg.Development.LogEvents {
			ls := subscribers.NewLoggerSubscriber("event-logger", log.Logger, zerolog.DebugLevel)
			ls.SetEventFilter([]string{events.TypeRunStarted, events.TypeRunEnded})
			ls.SetDevMode(cfg.Development.VerboseLogging)
			subs = append(subs, ls)
		}
		return subs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress.Start()
	results, runErr := runner.Run(ctx, specs)
	progress.Stop()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Batch interrupted: %d of %d runs completed\n", len(results), len(specs))
	}

	batchID := uuid.NewString()
	printSummary(batchID, batch.Summarize(results))

	if dbPath != "" && len(results) > 0 {
		if err := storeBatch(context.WithoutCancel(ctx), dbPath, batchID, params.GridSize, results, recorder); err != nil {
			return err
		}
	}
	return nil
}

func batchSpecs(cfg *config.Config, gridSize int) ([]batch.RunSpec, error) {
	if flagBatchPlan != "" {
		plan, err := batch.LoadPlan(flagBatchPlan)
		if err != nil {
			return nil, err
		}
		return plan.Specs(gridSize)
	}

	sweep := batch.Sweep{
		AgentCounts: cfg.Batch.AgentCounts,
		Repetitions: cfg.Batch.Repetitions,
		Seed:        cfg.Batch.Seed,
	}
	if len(flagBatchAgents) > 0 {
		sweep.AgentCounts = flagBatchAgents
	}
	if flagBatchRepetitions > 0 {
		sweep.Repetitions = flagBatchRepetitions
	}
	if flagBatchSeed != 0 {
		sweep.Seed = flagBatchSeed
	}
	return sweep.Specs(gridSize)
}

func storeBatch(ctx context.Context, dbPath, batchID string, gridSize int, results []fire.Result, recorder *capture.Recorder) error {
	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveBatch(ctx, batchID, gridSize, results); err != nil {
		return err
	}
	if recorder != nil {
		if err := store.SaveFrames(ctx, recorder.Drain()); err != nil {
			return err
		}
	}
	log.Info().Str("batch_id", batchID).Str("db", dbPath).Int("runs", len(results)).Msg("Saved batch results")
	return nil
}

func printSummary(batchID string, summary []batch.AgentSummary) {
	fmt.Printf("Batch %s\n\n", batchID)
	fmt.Printf("%-8s %6s %6s %6s %10s %12s %10s %12s %8s\n",
		"AGENTS", "RUNS", "FAILED", "CAPPED", "IGNITED", "EXTINGUISHED", "PERCENT", "STEPS/EXT", "STEPS")
	for _, s := range summary {
		fmt.Printf("%-8d %6d %6d %6d %10.1f %12.1f %9.1f%% %12.2f %8.1f\n",
			s.AgentCount, s.Runs, s.Failed, s.Capped, s.MeanIgnited, s.MeanExtinguished,
			s.MeanPercentExtinguished, s.MeanAvgStepsToExtinguish, s.MeanSteps)
	}
}
