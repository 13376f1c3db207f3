package service

import (
	"database/sql"
	"fmt"
)

type MealRecipePortion struct {
	RecipeName string
	Servings   float64
	PerServing NutrientSet
}

type MealNutrition struct {
	Total    NutrientSet
	Macros   MacroBreakdown
	Warnings []string
}

// ComputeMealNutrition scales each recipe's per-serving nutrition by its
// servings and sums the contributions.
func ComputeMealNutrition(mealName string, portions []MealRecipePortion) (MealNutrition, error) {
	out := MealNutrition{Total: NutrientSet{}}
	if len(portions) == 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("meal %q has no recipes", mealName))
		out.Macros = CalculateMacros(out.Total)
		return out, nil
	}

	contributions := make([]NutrientSet, 0, len(portions))
	for _, p := range portions {
		if p.Servings <= 0 {
			return MealNutrition{}, &ValidationError{
				Record: fmt.Sprintf("meal recipe %q", p.RecipeName),
				Reason: fmt.Sprintf("servings must be > 0, got %g", p.Servings),
			}
		}
		contributions = append(contributions, ScaleNutrientSet(p.PerServing, p.Servings))
	}
	out.Total = SumNutrients(contributions)
	out.Macros = CalculateMacros(out.Total)
	return out, nil
}

// RecalculateMealNutrition recomputes every referenced recipe first, then
// derives the meal totals from the fresh per-serving figures and writes them
// back. Stale recipe nutrition is never trusted.
func RecalculateMealNutrition(db *sql.DB, idOrName string, opts ComputeOptions) (MealNutrition, error) {
	meal, err := ResolveMeal(db, idOrName)
	if err != nil {
		return MealNutrition{}, err
	}
	mealRecipes, err := listMealRecipesByID(db, meal.ID)
	if err != nil {
		return MealNutrition{}, err
	}

	warnings := make([]string, 0)
	portions := make([]MealRecipePortion, 0, len(mealRecipes))
	for _, mr := range mealRecipes {
		recipeResult, err := RecalculateRecipeNutrition(db, fmt.Sprintf("%d", mr.RecipeID), opts)
		if err != nil {
			return MealNutrition{}, fmt.Errorf("meal %q: %w", meal.Name, err)
		}
		warnings = append(warnings, recipeResult.Warnings...)
		portions = append(portions, MealRecipePortion{
			RecipeName: mr.RecipeName,
			Servings:   mr.Servings,
			PerServing: recipeResult.PerServing,
		})
	}

	result, err := ComputeMealNutrition(meal.Name, portions)
	if err != nil {
		return MealNutrition{}, err
	}
	result.Warnings = append(warnings, result.Warnings...)

	factsJSON, err := EncodeNutrientSet(result.Total)
	if err != nil {
		return MealNutrition{}, err
	}
	macrosJSON, err := EncodeMacros(result.Macros)
	if err != nil {
		return MealNutrition{}, err
	}
	if _, err := db.Exec(`
UPDATE meals SET nutrition_facts_json = ?, macros_json = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, factsJSON, macrosJSON, meal.ID); err != nil {
		return MealNutrition{}, fmt.Errorf("write meal %q nutrition: %w", meal.Name, err)
	}
	return result, nil
}
