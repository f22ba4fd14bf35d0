package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/batch"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/config"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/storage"
)

var flagResultsDB string

var resultsCmd = &cobra.Command{
	Use:   "results [batch-id]",
	Short: "Inspect batches stored in a results database",
	Long: `Without arguments, list the stored batches. With a batch ID, print that
batch's per-agent-count summary.

Examples:
  firesim results --db results.db
  firesim results --db results.db 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().StringVar(&flagResultsDB, "db", "", "Results database (empty to use config default)")
}

func runResults(cmd *cobra.Command, args []string) error {
	dbPath := config.Get().Storage.Path
	if flagResultsDB != "" {
		dbPath = flagResultsDB
	}
	if dbPath == "" {
		return fmt.Errorf("no results database: pass --db or set storage.path")
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if len(args) == 1 {
		results, err := store.Results(ctx, args[0])
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("batch %q not found", args[0])
		}
		printSummary(args[0], batch.Summarize(results))
		return nil
	}

	batches, err := store.Batches(ctx)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Println("No batches stored yet.")
		return nil
	}
	fmt.Printf("%-36s  %6s  %s\n", "BATCH", "RUNS", "CREATED")
	for _, b := range batches {
		fmt.Printf("%-36s  %6d  %s\n", b.ID, b.Runs, b.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
