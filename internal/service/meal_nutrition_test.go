package service_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"mealplan/internal/service"
)

func TestComputeMealNutritionScalesAndSums(t *testing.T) {
	t.Parallel()
	portions := []service.MealRecipePortion{
		{RecipeName: "Rice bowl", Servings: 2, PerServing: service.NutrientSet{
			service.EnergyKey: 300, "Protein (g)": 15,
		}},
		{RecipeName: "Side salad", Servings: 1, PerServing: service.NutrientSet{
			service.EnergyKey: 150, "Protein (g)": 3, "Fiber, total dietary (g)": 4,
		}},
	}
	result, err := service.ComputeMealNutrition("Lunch", portions)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got := result.Total[service.EnergyKey]; math.Abs(got-750) > 1e-9 {
		t.Fatalf("expected 750 kcal total, got %g", got)
	}
	if got := result.Total["Protein (g)"]; math.Abs(got-33) > 1e-9 {
		t.Fatalf("expected 33 g protein, got %g", got)
	}
	if got := result.Total["Fiber, total dietary (g)"]; math.Abs(got-4) > 1e-9 {
		t.Fatalf("expected 4 g fiber, got %g", got)
	}
}

func TestComputeMealNutritionEmptyAndInvalid(t *testing.T) {
	t.Parallel()
	result, err := service.ComputeMealNutrition("Empty meal", nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "no recipes") {
		t.Fatalf("expected no-recipes warning, got %v", result.Warnings)
	}

	var validationErr *service.ValidationError
	_, err = service.ComputeMealNutrition("Bad meal", []service.MealRecipePortion{
		{RecipeName: "Soup", Servings: 0, PerServing: service.NutrientSet{}},
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for zero servings, got %v", err)
	}
}

func TestRecalculateMealNutritionRefreshesRecipes(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	mustSaveIngredient(t, db, simpleFoodRecord(301, "Rice", 2.5, 70, 0.5, 294.5))
	if _, err := service.CreateRecipe(db, service.RecipeInput{Name: "Rice bowl", ServingSize: 1}); err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if _, err := service.AddRecipeIngredient(db, "Rice bowl", service.RecipeIngredientInput{
		FDCID: 301, Name: "Rice", Quantity: 100, MeasureUnit: "Gram",
	}); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}
	if _, err := service.CreateMeal(db, service.MealInput{Name: "Lunch"}); err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if _, err := service.AddMealRecipe(db, "Lunch", "Rice bowl", 2); err != nil {
		t.Fatalf("add meal recipe: %v", err)
	}

	result, err := service.RecalculateMealNutrition(db, "Lunch", service.ComputeOptions{})
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if got := result.Total[service.EnergyKey]; math.Abs(got-589) > 1e-9 {
		t.Fatalf("expected 589 kcal, got %g", got)
	}

	// A refreshed snapshot changes the meal on the next recalculation;
	// nothing stale survives.
	mustSaveIngredient(t, db, simpleFoodRecord(301, "Rice", 2.5, 35, 0.5, 154.5))
	result, err = service.RecalculateMealNutrition(db, "Lunch", service.ComputeOptions{})
	if err != nil {
		t.Fatalf("second recalculate: %v", err)
	}
	if got := result.Total[service.EnergyKey]; math.Abs(got-309) > 1e-9 {
		t.Fatalf("expected 309 kcal after snapshot refresh, got %g", got)
	}

	meal, err := service.ResolveMeal(db, "Lunch")
	if err != nil {
		t.Fatalf("resolve meal: %v", err)
	}
	stored, err := service.DecodeNutrientSet(meal.NutritionFactsJSON)
	if err != nil {
		t.Fatalf("decode stored facts: %v", err)
	}
	if math.Abs(stored[service.EnergyKey]-309) > 1e-9 {
		t.Fatalf("expected stored meal energy 309, got %g", stored[service.EnergyKey])
	}
	recipe, err := service.ResolveRecipe(db, "Rice bowl")
	if err != nil {
		t.Fatalf("resolve recipe: %v", err)
	}
	if recipe.NutritionFactsJSON == "" {
		t.Fatalf("expected recipe nutrition written during meal recalculation")
	}
}

func TestRecalculateMealNutritionPropagatesRecipeFailure(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.CreateRecipe(db, service.RecipeInput{Name: "Ghost", ServingSize: 1}); err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if _, err := service.AddRecipeIngredient(db, "Ghost", service.RecipeIngredientInput{
		FDCID: 5555, Quantity: 1, MeasureUnit: "Gram",
	}); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}
	if _, err := service.CreateMeal(db, service.MealInput{Name: "Haunted"}); err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if _, err := service.AddMealRecipe(db, "Haunted", "Ghost", 1); err != nil {
		t.Fatalf("add meal recipe: %v", err)
	}

	_, err := service.RecalculateMealNutrition(db, "Haunted", service.ComputeOptions{})
	var lookupErr *service.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}

	meal, err := service.ResolveMeal(db, "Haunted")
	if err != nil {
		t.Fatalf("resolve meal: %v", err)
	}
	if meal.NutritionFactsJSON != "" {
		t.Fatalf("failed recalculation must not write, got %q", meal.NutritionFactsJSON)
	}
}
