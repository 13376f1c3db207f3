package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"mealplan/internal/service"
)

var convertAssumeBase bool

var convertCmd = &cobra.Command{
	Use:   "convert <quantity> <unit> <fdc_id>",
	Short: "Convert a quantity of an ingredient to grams",
	Long:  "Convert resolves a quantity and unit to grams using the stored ingredient's portion data, the same matching the recipe calculator performs.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[0])
		}
		unit, err := parseUnitArg(args[1])
		if err != nil {
			return err
		}
		fdcID, err := parseInt64Arg("fdc id", args[2])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			record, err := service.LoadFoodRecord(sqldb, fdcID)
			if err != nil {
				return err
			}
			portion, grams, err := service.MatchPortion(quantity, unit, record.FoodPortions, service.MatchOptions{AssumeBaseAmount: convertAssumeBase})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%g %s of %s = %.2f g\n", quantity, unit, record.Description, grams)
			if portion.Modifier != "" || portion.PortionDescription != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "matched portion: modifier=%q description=%q grams=%g\n",
					portion.Modifier, portion.PortionDescription, portion.GramWeight)
			}
			return nil
		})
	},
}

func init() {
	convertCmd.Flags().BoolVar(&convertAssumeBase, "assume-base-amount", false, "Treat portions without a resolvable base amount as 1")
	rootCmd.AddCommand(convertCmd)
}
