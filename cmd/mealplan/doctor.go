package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"mealplan/internal/service"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Audit stored data for defects that break recalculation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSection := func(title string, items []string) {
				if len(items) == 0 {
					return
				}
				fmt.Fprintf(out, "%s:\n", title)
				for _, item := range items {
					fmt.Fprintf(out, "  - %s\n", item)
				}
			}
			printSection("Snapshots that no longer decode", report.InvalidSnapshots)
			printSection("Snapshots without usable portions", report.SnapshotsNoPortions)
			printSection("Recipe ingredients referencing missing snapshots", report.MissingIngredients)
			printSection("Recipe ingredients with unknown units", report.InvalidUnits)
			printSection("Recipes with stale or missing nutrition", report.StaleRecipes)
			printSection("Meals with stale or missing nutrition", report.StaleMeals)
			if report.Clean() {
				fmt.Fprintln(out, "No defects found")
			} else {
				fmt.Fprintln(out, "Fix the issues above, then run `mealplan recalc`")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
