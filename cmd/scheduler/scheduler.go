// Package scheduler implements the scheduler command, which runs the
// ingestion pipeline on a cron schedule until interrupted.
package scheduler

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	cmdcommon "blogharvest/cmd/common"
)

// defaultSchedule runs one ingestion pass every hour.
const defaultSchedule = "@hourly"

// Command returns the scheduler command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the ingestion pipeline on a schedule",
		Long: `Start the scheduler to run ingestion passes on the configured cron
schedule. The scheduler runs continuously until interrupted with Ctrl+C; a
pass already in flight is allowed to finish before shutdown completes.`,
		RunE: runScheduler,
	}
}

// runScheduler executes the scheduler command.
func runScheduler(cmd *cobra.Command, _ []string) error {
	cfgFile, debug := cmdcommon.RootFlags(cmd)
	deps, err := cmdcommon.Build(cfgFile, debug)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	schedule := deps.Config.Harvest.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SkipIfStillRunning: overlapping passes would race for the same
	// source and are never useful.
	runner := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	_, err = runner.AddFunc(schedule, func() {
		deps.Logger.Info("Scheduled harvest starting", "schedule", schedule)
		result, runErr := deps.Ingestor.Run(ctx)
		if runErr != nil {
			deps.Logger.Error("Scheduled harvest failed", "error", runErr)
			return
		}
		deps.Logger.Info("Scheduled harvest finished",
			"scraped", result.ScrapedCount,
			"saved", result.SavedCount,
			"duplicates", result.DuplicateCount,
			"errors", result.ErrorCount)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	deps.Logger.Info("Scheduler started", "schedule", schedule)
	runner.Start()

	<-ctx.Done()
	deps.Logger.Info("Shutdown signal received")

	// Stop returns a context that is done once in-flight jobs finish.
	<-runner.Stop().Done()
	return nil
}
