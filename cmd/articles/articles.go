// Package articles implements the command-line interface for inspecting
// stored articles. It contains the list and count subcommands.
package articles

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "blogharvest/cmd/common"
	"blogharvest/internal/domain"
)

const (
	defaultListLimit = 20
	titleColumnWidth = 60
)

// Command returns the articles command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Inspect stored articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newCountCommand())

	return cmd
}

// newListCommand creates the articles list subcommand.
func newListCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored articles, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, debug := cmdcommon.RootFlags(cmd)
			deps, err := cmdcommon.Build(cfgFile, debug)
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Close()

			articles, err := deps.Articles.List(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list articles: %w", err)
			}

			if len(articles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No articles stored")
				return nil
			}

			renderTable(cmd, articles)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultListLimit, "maximum number of articles to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of articles to skip")

	return cmd
}

// newCountCommand creates the articles count subcommand.
func newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, debug := cmdcommon.RootFlags(cmd)
			deps, err := cmdcommon.Build(cfgFile, debug)
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			defer deps.Close()

			count, err := deps.Articles.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to count articles: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		},
	}
}

// renderTable formats and displays articles in a table.
func renderTable(cmd *cobra.Command, articles []*domain.Article) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Scraped", "Title", "Words", "Minutes", "Tags", "URL"})

	for _, a := range articles {
		t.AppendRow(table.Row{
			a.ScrapedDate.Format(time.DateOnly),
			truncateTitle(a.Title),
			a.WordCount,
			a.ReadingTime,
			strings.Join(a.Tags, ", "),
			a.URL,
		})
	}

	t.Render()
}

// truncateTitle keeps table rows on one line for long titles.
func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= titleColumnWidth {
		return s
	}
	return string(runes[:titleColumnWidth-1]) + "…"
}
