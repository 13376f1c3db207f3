package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"mealplan/internal/service"
)

var recalcAssumeBase bool

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recalculate nutrition for every recipe and meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RecalculateAll(sqldb, service.ComputeOptions{AssumeBaseAmount: recalcAssumeBase})
			printWarnings(cmd, report.Warnings)
			for _, r := range report.RecipesUpdated {
				fmt.Fprintf(cmd.OutOrStdout(), "Recalculated recipe %q\n", r)
			}
			for _, m := range report.MealsUpdated {
				fmt.Fprintf(cmd.OutOrStdout(), "Recalculated meal %q\n", m)
			}
			for _, s := range report.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s: %s\n", s.Record, s.Reason)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recalculated %d recipes and %d meals (%d skipped)\n",
				len(report.RecipesUpdated), len(report.MealsUpdated), len(report.Skipped))
			return nil
		})
	},
}

func init() {
	recalcCmd.Flags().BoolVar(&recalcAssumeBase, "assume-base-amount", false, "Treat portions without a resolvable base amount as 1")
	rootCmd.AddCommand(recalcCmd)
}
