package service_test

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"mealplan/internal/db"
	"mealplan/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mealplan.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func mustSaveIngredient(t *testing.T, sqldb *sql.DB, raw string) {
	t.Helper()
	if _, err := service.SaveIngredient(sqldb, []byte(raw)); err != nil {
		t.Fatalf("save ingredient: %v", err)
	}
}

// simpleFoodRecord builds a snapshot with per-100g macro amounts and a kcal
// energy value. A single 100 g serving portion keeps the record usable; the
// "serving" description matches no measure unit alias, so recipes still have
// to measure it by weight.
func simpleFoodRecord(fdcID int64, description string, protein, carbs, fat, energyKcal float64) string {
	return fmt.Sprintf(`{
		"fdcId": %d,
		"description": %q,
		"foodNutrients": [
			{"nutrient": {"name": "Protein", "unitName": "g"}, "amount": %g},
			{"nutrient": {"name": "Carbohydrate, by difference", "unitName": "g"}, "amount": %g},
			{"nutrient": {"name": "Total lipid (fat)", "unitName": "g"}, "amount": %g},
			{"nutrient": {"name": "Energy", "unitName": "kcal"}, "amount": %g}
		],
		"foodPortions": [
			{"id": 1, "sequenceNumber": 1, "amount": 1, "portionDescription": "1 serving", "gramWeight": 100}
		]
	}`, fdcID, description, protein, carbs, fat, energyKcal)
}

// portionlessFoodRecord is simpleFoodRecord without any declared portion.
// Such a snapshot cannot be measured at all, not even by weight.
func portionlessFoodRecord(fdcID int64, description string, protein, carbs, fat, energyKcal float64) string {
	return fmt.Sprintf(`{
		"fdcId": %d,
		"description": %q,
		"foodNutrients": [
			{"nutrient": {"name": "Protein", "unitName": "g"}, "amount": %g},
			{"nutrient": {"name": "Carbohydrate, by difference", "unitName": "g"}, "amount": %g},
			{"nutrient": {"name": "Total lipid (fat)", "unitName": "g"}, "amount": %g},
			{"nutrient": {"name": "Energy", "unitName": "kcal"}, "amount": %g}
		],
		"foodPortions": []
	}`, fdcID, description, protein, carbs, fat, energyKcal)
}
