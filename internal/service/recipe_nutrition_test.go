package service_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"mealplan/internal/model"
	"mealplan/internal/service"
)

// twoServingRecipe carries 100 g each of two foods that together total
// 40 g protein, 60 g carbs, 20 g fat and 580 kcal, split across 2 servings.
func twoServingRecipe() (model.Recipe, []model.RecipeIngredient, map[int64]service.FoodRecord) {
	recipe := model.Recipe{ID: 1, Name: "Test bowl", ServingSize: 2}
	ingredients := []model.RecipeIngredient{
		{RecipeID: 1, FDCID: 101, Name: "Food A", Quantity: 100, MeasureUnit: "Gram"},
		{RecipeID: 1, FDCID: 102, Name: "Food B", Quantity: 100, MeasureUnit: "Gram"},
	}
	servingPortion := []service.FoodPortion{
		{ID: 1, SequenceNumber: 1, Amount: 1, PortionDescription: "1 serving", GramWeight: 100},
	}
	records := map[int64]service.FoodRecord{
		101: {FDCID: 101, Description: "Food A", FoodPortions: servingPortion, FoodNutrients: []service.NutrientEntry{
			{Name: "Protein", UnitName: "g", Amount: 30},
			{Name: "Carbohydrate, by difference", UnitName: "g", Amount: 10},
			{Name: "Total lipid (fat)", UnitName: "g", Amount: 0},
			{Name: "Energy", UnitName: "kcal", Amount: 160},
		}},
		102: {FDCID: 102, Description: "Food B", FoodPortions: servingPortion, FoodNutrients: []service.NutrientEntry{
			{Name: "Protein", UnitName: "g", Amount: 10},
			{Name: "Carbohydrate, by difference", UnitName: "g", Amount: 50},
			{Name: "Total lipid (fat)", UnitName: "g", Amount: 20},
			{Name: "Energy", UnitName: "kcal", Amount: 420},
		}},
	}
	return recipe, ingredients, records
}

func TestComputeRecipeNutritionPerServing(t *testing.T) {
	t.Parallel()
	recipe, ingredients, records := twoServingRecipe()

	result, err := service.ComputeRecipeNutrition(recipe, ingredients, records, service.ComputeOptions{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got := result.PerServing["Protein (g)"]; math.Abs(got-20) > 1e-9 {
		t.Fatalf("expected 20 g protein per serving, got %g", got)
	}
	if got := result.PerServing["Carbohydrate, by difference (g)"]; math.Abs(got-30) > 1e-9 {
		t.Fatalf("expected 30 g carbs per serving, got %g", got)
	}
	if got := result.PerServing["Total lipid (fat) (g)"]; math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected 10 g fat per serving, got %g", got)
	}
	if got := result.PerServing[service.EnergyKey]; math.Abs(got-290) > 1e-9 {
		t.Fatalf("expected 290 kcal per serving, got %g", got)
	}
	if result.Macros.Protein.Grams != 20 || result.Macros.Fat.Grams != 10 {
		t.Fatalf("unexpected macros: %+v", result.Macros)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestComputeRecipeNutritionEnergyConsistency(t *testing.T) {
	t.Parallel()
	recipe, ingredients, records := twoServingRecipe()

	// Drop Food B's energy: reported energy falls to 80 kcal per serving
	// against 290 macro-derived, well under the acceptance threshold.
	rec := records[102]
	rec.FoodNutrients = rec.FoodNutrients[:3]
	records[102] = rec

	_, err := service.ComputeRecipeNutrition(recipe, ingredients, records, service.ComputeOptions{})
	var consistencyErr *service.ConsistencyError
	if !errors.As(err, &consistencyErr) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	if len(consistencyErr.MissingEnergy) != 1 || !strings.Contains(consistencyErr.MissingEnergy[0], "Food B") {
		t.Fatalf("expected Food B flagged as missing energy, got %v", consistencyErr.MissingEnergy)
	}
	if !strings.Contains(err.Error(), "inconsistent") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestComputeRecipeNutritionEmptyRecipe(t *testing.T) {
	t.Parallel()
	recipe := model.Recipe{ID: 7, Name: "Empty", ServingSize: 2}

	result, err := service.ComputeRecipeNutrition(recipe, nil, nil, service.ComputeOptions{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(result.PerServing) != 0 {
		t.Fatalf("expected empty nutrient set, got %+v", result.PerServing)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "no ingredients") {
		t.Fatalf("expected no-ingredients warning, got %v", result.Warnings)
	}
}

func TestComputeRecipeNutritionServingSizeFallback(t *testing.T) {
	t.Parallel()
	recipe, ingredients, records := twoServingRecipe()
	recipe.ServingSize = 0

	result, err := service.ComputeRecipeNutrition(recipe, ingredients, records, service.ComputeOptions{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got := result.PerServing["Protein (g)"]; math.Abs(got-40) > 1e-9 {
		t.Fatalf("expected totals treated as one serving, got %g g protein", got)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "serving_size") {
		t.Fatalf("expected serving_size warning, got %v", result.Warnings)
	}
}

func TestComputeRecipeNutritionErrors(t *testing.T) {
	t.Parallel()
	recipe, ingredients, records := twoServingRecipe()

	bad := make([]model.RecipeIngredient, len(ingredients))
	copy(bad, ingredients)
	bad[0].Quantity = -1
	var validationErr *service.ValidationError
	if _, err := service.ComputeRecipeNutrition(recipe, bad, records, service.ComputeOptions{}); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for negative quantity, got %v", err)
	}

	copy(bad, ingredients)
	bad[0].MeasureUnit = "handful"
	if _, err := service.ComputeRecipeNutrition(recipe, bad, records, service.ComputeOptions{}); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for unknown unit, got %v", err)
	}

	copy(bad, ingredients)
	bad[0].FDCID = 999
	var lookupErr *service.LookupError
	if _, err := service.ComputeRecipeNutrition(recipe, bad, records, service.ComputeOptions{}); !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError for missing record, got %v", err)
	}

	copy(bad, ingredients)
	bad[0].MeasureUnit = "Cup"
	var matchErr *service.MeasureMatchError
	_, err := service.ComputeRecipeNutrition(recipe, bad, records, service.ComputeOptions{})
	if !errors.As(err, &matchErr) {
		t.Fatalf("expected MeasureMatchError for volume unit without matching portion, got %v", err)
	}
	if !strings.Contains(matchErr.Ingredient, "Food A") {
		t.Fatalf("expected error to name the ingredient, got %q", matchErr.Ingredient)
	}
}

func TestComputeRecipeNutritionRequiresPortionData(t *testing.T) {
	t.Parallel()
	recipe, ingredients, records := twoServingRecipe()

	// Strip Food A's declared portions: even a weight measure must fail.
	rec := records[101]
	rec.FoodPortions = nil
	records[101] = rec

	_, err := service.ComputeRecipeNutrition(recipe, ingredients, records, service.ComputeOptions{})
	var matchErr *service.MeasureMatchError
	if !errors.As(err, &matchErr) {
		t.Fatalf("expected MeasureMatchError for record without portion data, got %v", err)
	}
	if !strings.Contains(matchErr.Ingredient, "Food A") {
		t.Fatalf("expected error to name the ingredient, got %q", matchErr.Ingredient)
	}
	if !strings.Contains(err.Error(), "no foodPortions") {
		t.Fatalf("expected error to name the missing portion data, got %q", err.Error())
	}
}

func TestRecalculateRecipeNutritionWritesBack(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	mustSaveIngredient(t, db, simpleFoodRecord(101, "Food A", 30, 10, 0, 160))
	mustSaveIngredient(t, db, simpleFoodRecord(102, "Food B", 10, 50, 20, 420))
	if _, err := service.CreateRecipe(db, service.RecipeInput{Name: "Test bowl", ServingSize: 2}); err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	for _, fdcID := range []int64{101, 102} {
		if _, err := service.AddRecipeIngredient(db, "Test bowl", service.RecipeIngredientInput{
			FDCID: fdcID, Quantity: 100, MeasureUnit: "Gram",
		}); err != nil {
			t.Fatalf("add ingredient %d: %v", fdcID, err)
		}
	}

	result, err := service.RecalculateRecipeNutrition(db, "Test bowl", service.ComputeOptions{})
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if got := result.PerServing[service.EnergyKey]; math.Abs(got-290) > 1e-9 {
		t.Fatalf("expected 290 kcal per serving, got %g", got)
	}

	recipe, err := service.ResolveRecipe(db, "Test bowl")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	stored, err := service.DecodeNutrientSet(recipe.NutritionFactsJSON)
	if err != nil {
		t.Fatalf("decode stored facts: %v", err)
	}
	if math.Abs(stored[service.EnergyKey]-290) > 1e-9 {
		t.Fatalf("expected stored energy 290, got %g", stored[service.EnergyKey])
	}
	if !strings.Contains(recipe.MacrosJSON, `"protein"`) {
		t.Fatalf("expected macros json written, got %q", recipe.MacrosJSON)
	}

	// Recomputing unchanged inputs stores byte-identical output.
	if _, err := service.RecalculateRecipeNutrition(db, "Test bowl", service.ComputeOptions{}); err != nil {
		t.Fatalf("second recalculate: %v", err)
	}
	again, err := service.ResolveRecipe(db, "Test bowl")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again.NutritionFactsJSON != recipe.NutritionFactsJSON {
		t.Fatalf("expected identical facts json, got %q vs %q", again.NutritionFactsJSON, recipe.NutritionFactsJSON)
	}
	if again.MacrosJSON != recipe.MacrosJSON {
		t.Fatalf("expected identical macros json, got %q vs %q", again.MacrosJSON, recipe.MacrosJSON)
	}
}

func TestRecalculateRecipeNutritionMissingSnapshot(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.CreateRecipe(db, service.RecipeInput{Name: "Mystery", ServingSize: 1}); err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if _, err := service.AddRecipeIngredient(db, "Mystery", service.RecipeIngredientInput{
		FDCID: 424242, Name: "Unobtainium", Quantity: 1, MeasureUnit: "Gram",
	}); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	_, err := service.RecalculateRecipeNutrition(db, "Mystery", service.ComputeOptions{})
	var lookupErr *service.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if !strings.Contains(lookupErr.Ref, "Unobtainium") {
		t.Fatalf("expected error to name the ingredient, got %q", lookupErr.Ref)
	}

	recipe, err := service.ResolveRecipe(db, "Mystery")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if recipe.NutritionFactsJSON != "" {
		t.Fatalf("failed recalculation must not write, got %q", recipe.NutritionFactsJSON)
	}
}
