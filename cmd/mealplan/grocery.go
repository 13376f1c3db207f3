package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"mealplan/internal/service"
)

var groceryCmd = &cobra.Command{
	Use:   "grocery <recipe id|name> [recipe id|name ...]",
	Short: "Build a grocery list from recipes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.BuildGroceryList(sqldb, args)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No ingredients")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "NAME\tQUANTITY\tUNIT\tFDC_ID")
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\t%s\t%d\n", item.Name, item.Quantity, item.MeasureUnit, item.FDCID)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(groceryCmd)
}
