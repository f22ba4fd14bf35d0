package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/capture"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/config"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events/subscribers"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/storage"
)

var (
	flagRunSeed      int64
	flagRunAgents    int
	flagRunIgnitionX int
	flagRunIgnitionY int
	flagRunRender    bool
	flagRunDelay     time.Duration
	flagRunMaxSteps  int
	flagRunDB        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation",
	Long: `Run one simulation with the configured parameters and print its result record.

Examples:
  firesim run --seed 7 --agents 10
  firesim run --render --delay 100ms
  firesim run --ignition-x 0 --ignition-y 0 --max-steps 50`,
	Args: cobra.NoArgs,
	RunE: runSingle,
}

func init() {
	runCmd.Flags().Int64Var(&flagRunSeed, "seed", 0, "RNG seed (0 = random based on time)")
	runCmd.Flags().IntVar(&flagRunAgents, "agents", 5, "Number of suppression agents")
	runCmd.Flags().IntVar(&flagRunIgnitionX, "ignition-x", -1, "Ignition column (-1 = grid centre)")
	runCmd.Flags().IntVar(&flagRunIgnitionY, "ignition-y", -1, "Ignition row (-1 = grid centre)")
	runCmd.Flags().BoolVar(&flagRunRender, "render", false, "Draw the grid after every step")
	runCmd.Flags().DurationVar(&flagRunDelay, "delay", 0, "Pause between rendered steps")
	runCmd.Flags().IntVar(&flagRunMaxSteps, "max-steps", -1, "Step cap (-1 to use config default, 0 = uncapped)")
	runCmd.Flags().StringVar(&flagRunDB, "db", "", "Store captured frames in this SQLite file (requires capture.enabled)")
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	params, err := cfg.Simulation.Params()
	if err != nil {
		return err
	}
	if flagRunMaxSteps >= 0 {
		params.MaxSteps = flagRunMaxSteps
	}

	seed := flagRunSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ignition := core.NewCoordinate(params.GridSize/2, params.GridSize/2)
	if flagRunIgnitionX >= 0 {
		ignition.X = flagRunIgnitionX
	}
	if flagRunIgnitionY >= 0 {
		ignition.Y = flagRunIgnitionY
	}

	opts := []fire.Option{fire.WithLogger(log.Logger)}
	if cfg.Development.LogEvents {
		ls := subscribers.NewLoggerSubscriber("event-logger", log.Logger, zerolog.DebugLevel)
		ls.SetDevMode(cfg.Development.VerboseLogging)
		opts = append(opts, fire.WithSubscriber(ls))
	}
	var recorder *capture.Recorder
	if cfg.Capture.Enabled {
		recorder = capture.NewRecorder("frame-recorder", cfg.Capture.Capacity, log.Logger)
		opts = append(opts, fire.WithSubscriber(recorder))
	}

	sim, err := fire.NewSimulation(fire.RunConfig{Seed: seed, AgentCount: flagRunAgents, Ignition: ignition}, params, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res fire.Result
	if flagRunRender {
		res, err = runRendered(ctx, sim)
	} else {
		res, err = sim.Run(ctx)
	}

	printResult(res)

	if recorder != nil {
		if saveErr := saveFrames(ctx, recorder); saveErr != nil {
			return saveErr
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runRendered steps sim by hand so each grid can be drawn.
func runRendered(ctx context.Context, sim *fire.Simulation) (fire.Result, error) {
	fmt.Print(fire.Render(sim.Grid(), sim.Agents()))
	for sim.Phase().CanStep() {
		if ctx.Err() != nil {
			// Let Run record the cancellation.
			return sim.Run(ctx)
		}
		report, err := sim.Step()
		if err != nil {
			return sim.Result(), err
		}
		fmt.Printf("\nStep %d: %d burning, %d ignited, %d extinguished\n",
			report.Step, report.Burning, len(report.Ignited), len(report.Extinguished))
		fmt.Print(fire.Render(sim.Grid(), sim.Agents()))
		if flagRunDelay > 0 {
			time.Sleep(flagRunDelay)
		}
	}
	return sim.Result(), nil
}

func saveFrames(ctx context.Context, recorder *capture.Recorder) error {
	frames := recorder.Drain()
	if flagRunDB == "" {
		log.Info().Int("frames", len(frames)).Msg("Frames captured; pass --db to keep them")
		return nil
	}
	store, err := storage.Open(flagRunDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveFrames(context.WithoutCancel(ctx), frames); err != nil {
		return err
	}
	log.Info().Int("frames", len(frames)).Str("db", flagRunDB).Msg("Saved captured frames")
	return nil
}

func printResult(r fire.Result) {
	fmt.Println()
	fmt.Printf("Run %s\n", r.RunID)
	fmt.Printf("  Outcome:              %s\n", r.Outcome)
	fmt.Printf("  Seed:                 %d\n", r.Seed)
	fmt.Printf("  Agents:               %d\n", r.AgentCount)
	fmt.Printf("  Ignition:             %s\n", r.Ignition)
	fmt.Printf("  Steps:                %d\n", r.Steps)
	fmt.Printf("  Cells ignited:        %d\n", r.Ignited)
	fmt.Printf("  Cells extinguished:   %d\n", r.Extinguished)
	fmt.Printf("  Cells burned out:     %d\n", r.BurnedOut)
	fmt.Printf("  Agent moves:          %d\n", r.AgentMoves)
	fmt.Printf("  Efficiency:           %.3f\n", r.Efficiency)
	fmt.Printf("  Percent extinguished: %.1f%%\n", r.PercentExtinguished)
	fmt.Printf("  Steps per extinguish: %.2f\n", r.AvgStepsToExtinguish)
	if r.Error != "" {
		fmt.Printf("  Error (%s):      %s\n", r.ErrorKind, r.Error)
	}
}
