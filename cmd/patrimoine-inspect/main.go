// patrimoine-inspect prints the current save file and, when the snapshot
// history is enabled, the most recent archived snapshots. Useful for checking
// what the dashboard would restore without starting the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"patrimoine/internal/cli"
	"patrimoine/internal/core"
	"patrimoine/internal/storage"
)

func main() {
	limit := flag.Int("n", 5, "number of history snapshots to print")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := storage.NewFileStore(cfg.SaveFilePath)
	rows, budget := store.Load()

	fmt.Printf("Save file: %s\n", store.Path())
	printState(rows, budget)

	if cfg.HistoryDBPath == "" || *limit <= 0 {
		return
	}

	history := cli.OpenHistory(logger, cfg.HistoryDBPath)
	defer func() { _ = history.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snaps, err := history.Recent(ctx, *limit)
	if err != nil {
		logger.Error("Failed to read snapshot history", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nHistory: %s (%d snapshots)\n", cfg.HistoryDBPath, len(snaps))
	for _, snap := range snaps {
		fmt.Printf("\n#%d saved_at=%s archived=%s\n",
			snap.ID, snap.SavedAt, snap.CreatedAt.Format(time.RFC3339))
		printState(snap.Salary, snap.Budget)
	}
}

func printState(rows []core.SalaryRow, b core.Budget) {
	defined := 0
	for _, r := range rows {
		if !r.IsEmpty() {
			defined++
		}
	}
	fmt.Printf("  salary rows: %d (%d filled)\n", len(rows), defined)
	fmt.Printf("  budget total: %.2f over %d categories\n", b.Total(), len(b.Categories))

	out, err := json.MarshalIndent(b, "  ", "  ")
	if err != nil {
		fmt.Printf("  budget: <unprintable: %v>\n", err)
		return
	}
	fmt.Printf("  budget: %s\n", out)
}
