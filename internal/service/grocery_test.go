package service_test

import (
	"testing"

	"mealplan/internal/service"
)

func TestBuildGroceryListMergesByIngredientAndUnit(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	for name, serving := range map[string]float64{"Fried rice": 4, "Rice pudding": 6} {
		if _, err := service.CreateRecipe(db, service.RecipeInput{Name: name, ServingSize: serving}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	add := func(recipe string, in service.RecipeIngredientInput) {
		t.Helper()
		if _, err := service.AddRecipeIngredient(db, recipe, in); err != nil {
			t.Fatalf("add ingredient to %s: %v", recipe, err)
		}
	}
	add("Fried rice", service.RecipeIngredientInput{FDCID: 301, Name: "Rice", Quantity: 2, MeasureUnit: "Cup"})
	add("Rice pudding", service.RecipeIngredientInput{FDCID: 301, Name: "Rice", Quantity: 1, MeasureUnit: "Cup"})
	add("Rice pudding", service.RecipeIngredientInput{FDCID: 301, Name: "Rice", Quantity: 50, MeasureUnit: "Gram"})
	add("Fried rice", service.RecipeIngredientInput{FDCID: 748967, Name: "Eggs", Quantity: 3, MeasureUnit: "Piece"})

	items, err := service.BuildGroceryList(db, []string{"Fried rice", "Rice pudding"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 grocery lines, got %d: %+v", len(items), items)
	}
	// Sorted by name, then unit.
	if items[0].Name != "Eggs" || items[0].Quantity != 3 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Name != "Rice" || items[1].MeasureUnit != "Cup" || items[1].Quantity != 3 {
		t.Fatalf("expected merged 3 Cup of rice, got %+v", items[1])
	}
	if items[2].Name != "Rice" || items[2].MeasureUnit != "Gram" || items[2].Quantity != 50 {
		t.Fatalf("expected separate gram line, got %+v", items[2])
	}
}

func TestBuildGroceryListFallsBackToSnapshotDescription(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	mustSaveIngredient(t, db, simpleFoodRecord(171077, "Chicken, broiler, breast", 31, 0, 3.6, 156.4))
	if _, err := service.CreateRecipe(db, service.RecipeInput{Name: "Grill night", ServingSize: 2}); err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if _, err := service.AddRecipeIngredient(db, "Grill night", service.RecipeIngredientInput{
		FDCID: 171077, Quantity: 500, MeasureUnit: "Gram",
	}); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	items, err := service.BuildGroceryList(db, []string{"Grill night"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Chicken, broiler, breast" {
		t.Fatalf("expected snapshot description as name, got %+v", items)
	}
}
