package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "mealplan computes recipe and meal nutrition from your terminal",
	Long:  "mealplan is a local-first meal planning CLI that derives recipe and meal nutrition facts from USDA FoodData Central records.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
