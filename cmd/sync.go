package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vnstock-service/internal/dto"
	"vnstock-service/internal/repository"
	"vnstock-service/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var syncFlags struct {
	batchSize    int
	startIndex   int
	endIndex     int
	tickers      []string
	skipExisting bool
	concurrency  int
	maxRetries   int
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the bulk company sync pipeline once",
	Run:   Sync,
}

func init() {
	syncCmd.Flags().IntVar(&syncFlags.batchSize, "batch-size", 0, "tickers per batch (0 = one batch)")
	syncCmd.Flags().IntVar(&syncFlags.startIndex, "start", 0, "start index into the universe")
	syncCmd.Flags().IntVar(&syncFlags.endIndex, "end", 0, "end index into the universe (exclusive, 0 = all)")
	syncCmd.Flags().StringSliceVar(&syncFlags.tickers, "tickers", nil, "explicit ticker subset")
	syncCmd.Flags().BoolVar(&syncFlags.skipExisting, "skip-existing", false, "skip tickers already stored")
	syncCmd.Flags().IntVar(&syncFlags.concurrency, "concurrency", 0, "concurrent fetches per chunk")
	syncCmd.Flags().IntVar(&syncFlags.maxRetries, "max-retries", 0, "fetch attempts per ticker")
}

func Sync(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer func() {
		if err := appDep.Close(); err != nil {
			log.Printf("Failed to close app dependency: %v", err)
		}
	}()

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	if err := repo.CompanyRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache)

	stats, err := services.SyncService.Run(ctx, dto.SyncOptions{
		Tickers:      syncFlags.tickers,
		StartIndex:   syncFlags.startIndex,
		EndIndex:     syncFlags.endIndex,
		SkipExisting: syncFlags.skipExisting,
		BatchSize:    syncFlags.batchSize,
		Concurrency:  syncFlags.concurrency,
		MaxRetries:   syncFlags.maxRetries,
	})
	if err != nil {
		log.Fatalf("Sync run failed: %v", err)
	}

	renderSyncSummary(stats)
}

func renderSyncSummary(stats *dto.SyncStats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Total", "Success", "Failed", "Success Rate", "Items/min", "Elapsed"})
	t.AppendRow(table.Row{
		stats.Total,
		stats.SuccessCount,
		stats.FailedCount,
		fmt.Sprintf("%.1f%%", stats.SuccessRate()),
		fmt.Sprintf("%.1f", stats.Throughput()),
		stats.Elapsed.Round(time.Second).String(),
	})
	t.Render()
}
