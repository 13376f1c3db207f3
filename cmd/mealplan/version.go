package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set via -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version/build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mealplan %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
