package service

import (
	"database/sql"
	"fmt"
	"strings"

	"mealplan/internal/model"
)

type ComputeOptions struct {
	AssumeBaseAmount bool
}

type RecipeNutrition struct {
	PerServing NutrientSet
	Macros     MacroBreakdown
	Warnings   []string
}

// energyTolerance is the fraction of macro-derived calories below which the
// computed Energy (kcal) is treated as incomplete source data.
const energyTolerance = 0.7

// ComputeRecipeNutrition derives a recipe's per-serving nutrition facts and
// macro breakdown from its ingredients and the given nutrient-database
// snapshots. It is a pure function: identical inputs always yield identical
// outputs, and nothing is written back.
func ComputeRecipeNutrition(recipe model.Recipe, ingredients []model.RecipeIngredient, records map[int64]FoodRecord, opts ComputeOptions) (RecipeNutrition, error) {
	out := RecipeNutrition{PerServing: NutrientSet{}}
	if len(ingredients) == 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("recipe %q has no ingredients", recipe.Name))
		out.Macros = CalculateMacros(out.PerServing)
		return out, nil
	}

	contributions := make([]NutrientSet, 0, len(ingredients))
	missingEnergy := make([]string, 0)

	for _, ing := range ingredients {
		display := ingredientDisplayName(ing)
		if ing.Quantity <= 0 {
			return RecipeNutrition{}, &ValidationError{
				Record: "ingredient " + display,
				Reason: fmt.Sprintf("quantity must be > 0, got %g", ing.Quantity),
			}
		}
		unit, ok := ParseMeasureUnit(strings.TrimSpace(ing.MeasureUnit))
		if !ok {
			return RecipeNutrition{}, &ValidationError{
				Record: "ingredient " + display,
				Reason: fmt.Sprintf("invalid measure unit %q; valid units: %s", ing.MeasureUnit, joinUnits(MeasureUnits())),
			}
		}
		record, ok := records[ing.FDCID]
		if !ok {
			return RecipeNutrition{}, &LookupError{Kind: "ingredient", Ref: display}
		}
		if len(record.FoodPortions) == 0 {
			return RecipeNutrition{}, &MeasureMatchError{
				Ingredient: display,
				Quantity:   ing.Quantity,
				Unit:       unit,
				Reason:     "ingredient has no foodPortions data",
			}
		}

		_, gramWeight, err := MatchPortion(ing.Quantity, unit, record.FoodPortions, MatchOptions{AssumeBaseAmount: opts.AssumeBaseAmount})
		if err != nil {
			if matchErr, ok := err.(*MeasureMatchError); ok {
				matchErr.Ingredient = display
				return RecipeNutrition{}, matchErr
			}
			return RecipeNutrition{}, fmt.Errorf("ingredient %s: %w", display, err)
		}

		scaled := ScaleNutrients(record.FoodNutrients, gramWeight)
		if _, ok := scaled[EnergyKey]; !ok {
			missingEnergy = append(missingEnergy, display)
		}
		contributions = append(contributions, scaled)
	}

	total := SumNutrients(contributions)

	servingSize := recipe.ServingSize
	if servingSize <= 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("recipe %q has invalid serving_size %g; using 1.0", recipe.Name, recipe.ServingSize))
		servingSize = 1.0
	}
	out.PerServing = ScaleNutrientSet(total, 1/servingSize)
	out.Macros = CalculateMacros(out.PerServing)

	energy := out.PerServing[EnergyKey]
	macroCals := MacroCalories(out.PerServing)
	if macroCals > 0 && energy < energyTolerance*macroCals {
		return RecipeNutrition{}, &ConsistencyError{
			Record:        fmt.Sprintf("recipe %q", recipe.Name),
			EnergyKcal:    energy,
			MacroKcal:     macroCals,
			MissingEnergy: missingEnergy,
		}
	}

	return out, nil
}

// RecalculateRecipeNutrition recomputes a recipe's nutrition facts and macros
// from its ingredients and writes them back. On any failure nothing is
// written.
func RecalculateRecipeNutrition(db *sql.DB, idOrName string, opts ComputeOptions) (RecipeNutrition, error) {
	recipe, err := ResolveRecipe(db, idOrName)
	if err != nil {
		return RecipeNutrition{}, err
	}
	ingredients, err := listRecipeIngredientsByID(db, recipe.ID)
	if err != nil {
		return RecipeNutrition{}, err
	}

	records := make(map[int64]FoodRecord, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := records[ing.FDCID]; ok {
			continue
		}
		record, err := LoadFoodRecord(db, ing.FDCID)
		if err != nil {
			if lookupErr, ok := err.(*LookupError); ok {
				lookupErr.Ref = ingredientDisplayName(ing)
				return RecipeNutrition{}, lookupErr
			}
			return RecipeNutrition{}, err
		}
		records[ing.FDCID] = record
	}

	result, err := ComputeRecipeNutrition(*recipe, ingredients, records, opts)
	if err != nil {
		return RecipeNutrition{}, err
	}

	factsJSON, err := EncodeNutrientSet(result.PerServing)
	if err != nil {
		return RecipeNutrition{}, err
	}
	macrosJSON, err := EncodeMacros(result.Macros)
	if err != nil {
		return RecipeNutrition{}, err
	}
	if _, err := db.Exec(`
UPDATE recipes SET nutrition_facts_json = ?, macros_json = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, factsJSON, macrosJSON, recipe.ID); err != nil {
		return RecipeNutrition{}, fmt.Errorf("write recipe %q nutrition: %w", recipe.Name, err)
	}
	return result, nil
}

func ingredientDisplayName(ing model.RecipeIngredient) string {
	name := strings.TrimSpace(ing.Name)
	if name == "" {
		return fmt.Sprintf("FDC %d", ing.FDCID)
	}
	return fmt.Sprintf("%s (FDC %d)", name, ing.FDCID)
}
