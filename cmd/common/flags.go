package common

import "github.com/spf13/cobra"

// RootFlags reads the persistent --config and --debug flags inherited from
// the root command.
func RootFlags(cmd *cobra.Command) (cfgFile string, debug bool) {
	cfgFile, _ = cmd.Flags().GetString("config")
	debug, _ = cmd.Flags().GetBool("debug")
	return cfgFile, debug
}
