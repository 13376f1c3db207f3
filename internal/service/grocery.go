package service

import (
	"database/sql"
	"sort"
	"strings"

	"mealplan/internal/model"
)

type GroceryItem struct {
	FDCID       int64
	Name        string
	Quantity    float64
	MeasureUnit string
}

// BuildGroceryList combines ingredient quantities across the given recipes.
// Quantities merge only when both the ingredient and its unit agree; the same
// ingredient measured two ways stays as two lines.
func BuildGroceryList(db *sql.DB, recipeIdentifiers []string) ([]GroceryItem, error) {
	type groceryKey struct {
		fdcID int64
		unit  string
	}
	merged := map[groceryKey]*GroceryItem{}

	for _, identifier := range recipeIdentifiers {
		ingredients, err := ListRecipeIngredients(db, identifier)
		if err != nil {
			return nil, err
		}
		for _, ing := range ingredients {
			key := groceryKey{fdcID: ing.FDCID, unit: ing.MeasureUnit}
			if item, ok := merged[key]; ok {
				item.Quantity += ing.Quantity
				continue
			}
			merged[key] = &GroceryItem{
				FDCID:       ing.FDCID,
				Name:        groceryDisplayName(db, ing),
				Quantity:    ing.Quantity,
				MeasureUnit: ing.MeasureUnit,
			}
		}
	}

	out := make([]GroceryItem, 0, len(merged))
	for _, item := range merged {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].MeasureUnit < out[j].MeasureUnit
	})
	return out, nil
}

func groceryDisplayName(db *sql.DB, ing model.RecipeIngredient) string {
	if name := strings.TrimSpace(ing.Name); name != "" {
		return name
	}
	if snapshot, err := ResolveIngredient(db, ing.FDCID); err == nil {
		return snapshot.Description
	}
	return ingredientDisplayName(ing)
}
