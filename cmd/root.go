// Package cmd implements the command-line interface for blogharvest.
// It provides the root command and subcommands for running the ingestion
// pipeline, serving the HTTP API, and inspecting stored articles.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"blogharvest/cmd/articles"
	"blogharvest/cmd/harvest"
	"blogharvest/cmd/httpd"
	cmdscheduler "blogharvest/cmd/scheduler"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the blogharvest CLI.
	rootCmd = &cobra.Command{
		Use:   "blogharvest",
		Short: "A blog article ingestion pipeline",
		Long: `blogharvest scrapes JavaScript-rendered blog listings, extracts the
oldest unread articles, and stores them in PostgreSQL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("blogharvest version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(harvest.Command())
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
	rootCmd.AddCommand(articles.Command())
}
