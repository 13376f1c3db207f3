package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"mealplan/internal/service"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Manage recipes",
}

var (
	recipeName        string
	recipeServingSize float64
	recipeNotes       string

	recipeIngFDCID    int64
	recipeIngName     string
	recipeIngQuantity float64
	recipeIngUnit     string

	recipeAssumeBase bool
)

var recipeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a recipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.RecipeInput{
			Name:        recipeName,
			ServingSize: recipeServingSize,
			Notes:       recipeNotes,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateRecipe(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created recipe %d\n", id)
			return nil
		})
	},
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			recipes, err := service.ListRecipes(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tSERVINGS\tNOTES")
			for _, r := range recipes {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%.2f\t%s\n", r.ID, r.Name, r.ServingSize, r.Notes)
			}
			return nil
		})
	},
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show recipe details and computed nutrition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			r, err := service.ResolveRecipe(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %d\nName: %s\nServings: %.2f\nNotes: %s\n", r.ID, r.Name, r.ServingSize, r.Notes)

			ingredients, err := service.ListRecipeIngredients(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nIngredients:")
			for _, ing := range ingredients {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%g %s\t(FDC %d)\n", ing.ID, ing.Name, ing.Quantity, ing.MeasureUnit, ing.FDCID)
			}

			facts, err := service.DecodeNutrientSet(r.NutritionFactsJSON)
			if err != nil {
				return err
			}
			if len(facts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "\nNutrition not computed yet; run `mealplan recipe recalc`")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nPer serving:")
			printNutrientSet(cmd, facts)
			return nil
		})
	},
}

var recipeUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Update a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.RecipeInput{
			Name:        recipeName,
			ServingSize: recipeServingSize,
			Notes:       recipeNotes,
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateRecipe(sqldb, args[0], in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated recipe %q\n", args[0])
			return nil
		})
	},
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteRecipe(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %q\n", args[0])
			return nil
		})
	},
}

var recipeRecalcCmd = &cobra.Command{
	Use:   "recalc <id|name>",
	Short: "Recalculate recipe nutrition from its ingredients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			result, err := service.RecalculateRecipeNutrition(sqldb, args[0], service.ComputeOptions{AssumeBaseAmount: recipeAssumeBase})
			if err != nil {
				return err
			}
			printWarnings(cmd, result.Warnings)
			fmt.Fprintf(cmd.OutOrStdout(), "Recalculated recipe %q\n\nPer serving:\n", args[0])
			printNutrientSet(cmd, result.PerServing)
			fmt.Fprintln(cmd.OutOrStdout())
			printMacros(cmd, result.Macros)
			return nil
		})
	},
}

var recipeIngredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "Manage recipe ingredients",
}

var recipeIngredientAddCmd = &cobra.Command{
	Use:   "add <recipe id|name>",
	Short: "Add an ingredient to a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.RecipeIngredientInput{
			FDCID:       recipeIngFDCID,
			Name:        recipeIngName,
			Quantity:    recipeIngQuantity,
			MeasureUnit: recipeIngUnit,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AddRecipeIngredient(sqldb, args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added ingredient %d to recipe %q\n", id, args[0])
			return nil
		})
	},
}

var recipeIngredientListCmd = &cobra.Command{
	Use:   "list <recipe id|name>",
	Short: "List a recipe's ingredients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListRecipeIngredients(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tQUANTITY\tUNIT\tFDC_ID")
			for _, ing := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%g\t%s\t%d\n", ing.ID, ing.Name, ing.Quantity, ing.MeasureUnit, ing.FDCID)
			}
			return nil
		})
	},
}

var recipeIngredientUpdateCmd = &cobra.Command{
	Use:   "update <ingredient id>",
	Short: "Update a recipe ingredient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("ingredient id", args[0])
		if err != nil {
			return err
		}
		in := service.RecipeIngredientInput{
			FDCID:       recipeIngFDCID,
			Name:        recipeIngName,
			Quantity:    recipeIngQuantity,
			MeasureUnit: recipeIngUnit,
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateRecipeIngredient(sqldb, id, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated ingredient %d\n", id)
			return nil
		})
	},
}

var recipeIngredientDeleteCmd = &cobra.Command{
	Use:   "delete <ingredient id>",
	Short: "Remove an ingredient from its recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("ingredient id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteRecipeIngredient(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted ingredient %d\n", id)
			return nil
		})
	},
}

func addRecipeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&recipeName, "name", "", "Recipe name")
	cmd.Flags().Float64Var(&recipeServingSize, "servings", 0, "Number of servings the recipe yields")
	cmd.Flags().StringVar(&recipeNotes, "notes", "", "Recipe notes")
}

func addRecipeIngredientFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&recipeIngFDCID, "fdc-id", 0, "FoodData Central id of the ingredient")
	cmd.Flags().StringVar(&recipeIngName, "name", "", "Display name")
	cmd.Flags().Float64Var(&recipeIngQuantity, "quantity", 0, "Quantity in the given unit")
	cmd.Flags().StringVar(&recipeIngUnit, "unit", "", "Measure unit (e.g. Cup, Gram)")
}

func init() {
	addRecipeFlags(recipeAddCmd)
	addRecipeFlags(recipeUpdateCmd)
	_ = recipeAddCmd.MarkFlagRequired("name")
	_ = recipeAddCmd.MarkFlagRequired("servings")

	addRecipeIngredientFlags(recipeIngredientAddCmd)
	addRecipeIngredientFlags(recipeIngredientUpdateCmd)
	_ = recipeIngredientAddCmd.MarkFlagRequired("fdc-id")
	_ = recipeIngredientAddCmd.MarkFlagRequired("quantity")
	_ = recipeIngredientAddCmd.MarkFlagRequired("unit")

	recipeRecalcCmd.Flags().BoolVar(&recipeAssumeBase, "assume-base-amount", false, "Treat portions without a resolvable base amount as 1")

	rootCmd.AddCommand(recipeCmd)
	recipeCmd.AddCommand(recipeAddCmd, recipeListCmd, recipeShowCmd, recipeUpdateCmd, recipeDeleteCmd, recipeRecalcCmd, recipeIngredientCmd)
	recipeIngredientCmd.AddCommand(recipeIngredientAddCmd, recipeIngredientListCmd, recipeIngredientUpdateCmd, recipeIngredientDeleteCmd)
}
