// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gudangku",
	Short: "gudangku is a JSON backend for small inventory systems",
	Long: `gudangku is a JSON backend for small inventory systems.
It serves authentication, user and item endpoints with role-based
access control backed by JWT bearer tokens and a Redis session registry.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
