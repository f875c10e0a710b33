// Package harvest implements the harvest command, which runs one ingestion
// pass against the configured blog and prints a summary of the outcome.
package harvest

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cmdcommon "blogharvest/cmd/common"
	"blogharvest/internal/ingest"
)

// Command returns the harvest command for use in the root command.
func Command() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run one ingestion pass against the configured blog",
		Long: `Run the full ingestion pipeline once: open a browser session, resolve
the oldest listing page, extract the configured number of articles, and store
them. Articles already stored are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, debug := cmdcommon.RootFlags(cmd)
			deps, err := cmdcommon.Build(cfgFile, debug)
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, runErr := deps.Ingestor.Run(ctx)
			if result != nil {
				printResult(cmd, result, asJSON)
			}
			if runErr != nil {
				return fmt.Errorf("harvest failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run result as JSON")

	return cmd
}

// printResult writes the run summary to the command's output.
func printResult(cmd *cobra.Command, result *ingest.Result, asJSON bool) {
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to encode result: %v\n", err)
		}
		return
	}

	fmt.Fprintf(out, "Scraped:    %d\n", result.ScrapedCount)
	fmt.Fprintf(out, "Saved:      %d\n", result.SavedCount)
	fmt.Fprintf(out, "Duplicates: %d\n", result.DuplicateCount)
	fmt.Fprintf(out, "Errors:     %d\n", result.ErrorCount)
	for _, item := range result.Errors {
		fmt.Fprintf(out, "  %s: %s\n", item.URL, item.Message)
	}
}
