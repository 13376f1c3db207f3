package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"mealplan/internal/service"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Manage meals composed of recipes",
}

var (
	mealName       string
	mealNotes      string
	mealServings   float64
	mealAssumeBase bool
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.MealInput{Name: mealName, Notes: mealNotes}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateMeal(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created meal %d\n", id)
			return nil
		})
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			meals, err := service.ListMeals(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tNOTES")
			for _, m := range meals {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", m.ID, m.Name, m.Notes)
			}
			return nil
		})
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show meal recipes and computed nutrition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			m, err := service.ResolveMeal(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %d\nName: %s\nNotes: %s\n", m.ID, m.Name, m.Notes)

			items, err := service.ListMealRecipes(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nRecipes:")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%.2f servings\n", it.ID, it.RecipeName, it.Servings)
			}

			facts, err := service.DecodeNutrientSet(m.NutritionFactsJSON)
			if err != nil {
				return err
			}
			if len(facts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "\nNutrition not computed yet; run `mealplan meal recalc`")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nTotal:")
			printNutrientSet(cmd, facts)
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteMeal(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %q\n", args[0])
			return nil
		})
	},
}

var mealRecalcCmd = &cobra.Command{
	Use:   "recalc <id|name>",
	Short: "Recalculate meal nutrition from its recipes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			result, err := service.RecalculateMealNutrition(sqldb, args[0], service.ComputeOptions{AssumeBaseAmount: mealAssumeBase})
			if err != nil {
				return err
			}
			printWarnings(cmd, result.Warnings)
			fmt.Fprintf(cmd.OutOrStdout(), "Recalculated meal %q\n\nTotal:\n", args[0])
			printNutrientSet(cmd, result.Total)
			fmt.Fprintln(cmd.OutOrStdout())
			printMacros(cmd, result.Macros)
			return nil
		})
	},
}

var mealRecipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Manage recipes in a meal",
}

var mealRecipeAddCmd = &cobra.Command{
	Use:   "add <meal id|name> <recipe id|name>",
	Short: "Add a recipe to a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddMealRecipe(sqldb, args[0], args[1], mealServings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added recipe %q to meal %q (%d)\n", args[1], args[0], id)
			return nil
		})
	},
}

var mealRecipeRemoveCmd = &cobra.Command{
	Use:   "remove <meal recipe id>",
	Short: "Remove a recipe from a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal recipe id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.RemoveMealRecipe(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed meal recipe %d\n", id)
			return nil
		})
	},
}

func init() {
	mealAddCmd.Flags().StringVar(&mealName, "name", "", "Meal name")
	mealAddCmd.Flags().StringVar(&mealNotes, "notes", "", "Meal notes")
	_ = mealAddCmd.MarkFlagRequired("name")

	mealRecipeAddCmd.Flags().Float64Var(&mealServings, "servings", 1, "Recipe servings in this meal")

	mealRecalcCmd.Flags().BoolVar(&mealAssumeBase, "assume-base-amount", false, "Treat portions without a resolvable base amount as 1")

	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealAddCmd, mealListCmd, mealShowCmd, mealDeleteCmd, mealRecalcCmd, mealRecipeCmd)
	mealRecipeCmd.AddCommand(mealRecipeAddCmd, mealRecipeRemoveCmd)
}
