package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mealplan/internal/provider/fdc"
	"mealplan/internal/service"
)

var ingredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "Manage USDA ingredient snapshots",
}

var (
	searchPageSize    int
	portionAmount     float64
	portionUnit       string
	portionGramWeight float64
)

func newFDCClient() *fdc.Client {
	return &fdc.Client{APIKey: os.Getenv("USDA_API_KEY")}
}

var ingredientFetchCmd = &cobra.Command{
	Use:   "fetch <fdc_id>",
	Short: "Fetch a food record from FoodData Central and store it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fdcID, err := parseInt64Arg("fdc id", args[0])
		if err != nil {
			return err
		}
		raw, err := newFDCClient().FoodDetail(cmd.Context(), fdcID)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			ing, err := service.SaveIngredient(sqldb, raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved ingredient %d: %s\n", ing.FDCID, ing.Description)
			return nil
		})
	},
}

var ingredientSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search FoodData Central for foods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		foods, err := newFDCClient().SearchFoods(cmd.Context(), args[0], searchPageSize)
		if err != nil {
			return err
		}
		if len(foods) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No foods found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "FDC_ID\tTYPE\tDESCRIPTION")
		for _, f := range foods {
			desc := f.Description
			if f.BrandOwner != "" {
				desc = fmt.Sprintf("%s (%s)", desc, f.BrandOwner)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", f.FDCID, f.DataType, desc)
		}
		return nil
	},
}

var ingredientImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a food record from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %q: %w", args[0], err)
		}
		return withDB(func(sqldb *sql.DB) error {
			ing, err := service.SaveIngredient(sqldb, raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved ingredient %d: %s\n", ing.FDCID, ing.Description)
			return nil
		})
	},
}

var ingredientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored ingredient snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListIngredients(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "FDC_ID\tDESCRIPTION")
			for _, ing := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", ing.FDCID, ing.Description)
			}
			return nil
		})
	},
}

var ingredientShowCmd = &cobra.Command{
	Use:   "show <fdc_id>",
	Short: "Show a stored ingredient's nutrients and portions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fdcID, err := parseInt64Arg("fdc id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			record, err := service.LoadFoodRecord(sqldb, fdcID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "FDC ID: %d\nDescription: %s\n", record.FDCID, record.Description)
			fmt.Fprintln(cmd.OutOrStdout(), "\nNutrients (per 100g):")
			for _, n := range record.FoodNutrients {
				if n.Name == "" {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f %s\n", n.Name, n.Amount, n.UnitName)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nPortions:")
			if len(record.FoodPortions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(none)")
				return nil
			}
			for _, p := range record.FoodPortions {
				fmt.Fprintf(cmd.OutOrStdout(), "amount=%g modifier=%q description=%q grams=%g\n",
					p.Amount, p.Modifier, p.PortionDescription, p.GramWeight)
			}
			return nil
		})
	},
}

var ingredientAddPortionCmd = &cobra.Command{
	Use:   "add-portion <fdc_id>",
	Short: "Add a manual portion to a stored ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fdcID, err := parseInt64Arg("fdc id", args[0])
		if err != nil {
			return err
		}
		unit, err := parseUnitArg(portionUnit)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			portion, err := service.AddIngredientPortion(sqldb, fdcID, portionAmount, unit, portionGramWeight)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added portion %q (%g g) to ingredient %d\n",
				portion.PortionDescription, portion.GramWeight, fdcID)
			return nil
		})
	},
}

var ingredientDeleteCmd = &cobra.Command{
	Use:   "delete <fdc_id>",
	Short: "Delete a stored ingredient snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fdcID, err := parseInt64Arg("fdc id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteIngredient(sqldb, fdcID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted ingredient %d\n", fdcID)
			return nil
		})
	},
}

func init() {
	ingredientSearchCmd.Flags().IntVar(&searchPageSize, "limit", 10, "Maximum number of results")

	ingredientAddPortionCmd.Flags().Float64Var(&portionAmount, "amount", 1, "Portion amount (e.g. 1 for one cup)")
	ingredientAddPortionCmd.Flags().StringVar(&portionUnit, "unit", "", "Measure unit (e.g. Cup)")
	ingredientAddPortionCmd.Flags().Float64Var(&portionGramWeight, "grams", 0, "Gram weight of the portion")
	_ = ingredientAddPortionCmd.MarkFlagRequired("unit")
	_ = ingredientAddPortionCmd.MarkFlagRequired("grams")

	rootCmd.AddCommand(ingredientCmd)
	ingredientCmd.AddCommand(ingredientFetchCmd, ingredientSearchCmd, ingredientImportCmd,
		ingredientListCmd, ingredientShowCmd, ingredientAddPortionCmd, ingredientDeleteCmd)
}
