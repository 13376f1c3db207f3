package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type DoctorReport struct {
	InvalidSnapshots    []string `json:"invalid_snapshots,omitempty"`
	SnapshotsNoPortions []string `json:"snapshots_without_portions,omitempty"`
	MissingIngredients  []string `json:"missing_ingredients,omitempty"`
	InvalidUnits        []string `json:"invalid_units,omitempty"`
	StaleRecipes        []string `json:"stale_recipes,omitempty"`
	StaleMeals          []string `json:"stale_meals,omitempty"`
}

func (r DoctorReport) Clean() bool {
	return len(r.InvalidSnapshots) == 0 &&
		len(r.SnapshotsNoPortions) == 0 &&
		len(r.MissingIngredients) == 0 &&
		len(r.InvalidUnits) == 0 &&
		len(r.StaleRecipes) == 0 &&
		len(r.StaleMeals) == 0
}

// RunDoctor audits stored data for the defects that make recomputation fail:
// snapshots that no longer decode, snapshots without any portion, recipe
// ingredients pointing at missing snapshots or carrying non-canonical units,
// and recipes/meals whose derived nutrition has never been computed.
func RunDoctor(db *sql.DB) (DoctorReport, error) {
	report := DoctorReport{}

	ingredients, err := ListIngredients(db)
	if err != nil {
		return report, err
	}
	for _, ing := range ingredients {
		record, err := DecodeFoodRecord([]byte(ing.RawJSON))
		if err != nil {
			report.InvalidSnapshots = append(report.InvalidSnapshots, fmt.Sprintf("%d (%s)", ing.FDCID, ing.Description))
			continue
		}
		usable := 0
		for _, p := range record.FoodPortions {
			if p.GramWeight > 0 {
				usable++
			}
		}
		if usable == 0 {
			report.SnapshotsNoPortions = append(report.SnapshotsNoPortions, fmt.Sprintf("%d (%s)", ing.FDCID, ing.Description))
		}
	}

	rows, err := db.Query(`
SELECT r.name, ri.fdc_id, ri.name, ri.measure_unit
FROM recipe_ingredients ri
JOIN recipes r ON r.id = ri.recipe_id
LEFT JOIN ingredients i ON i.fdc_id = ri.fdc_id
WHERE i.fdc_id IS NULL
`)
	if err != nil {
		return report, fmt.Errorf("doctor missing ingredient query: %w", err)
	}
	for rows.Next() {
		var recipeName, ingName, unit string
		var fdcID int64
		if err := rows.Scan(&recipeName, &fdcID, &ingName, &unit); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor missing ingredient scan: %w", err)
		}
		report.MissingIngredients = append(report.MissingIngredients, fmt.Sprintf("recipe %q references FDC %d", recipeName, fdcID))
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor missing ingredient iterate: %w", err)
	}
	_ = rows.Close()

	unitRows, err := db.Query(`
SELECT r.name, ri.fdc_id, ri.measure_unit
FROM recipe_ingredients ri
JOIN recipes r ON r.id = ri.recipe_id
`)
	if err != nil {
		return report, fmt.Errorf("doctor unit query: %w", err)
	}
	for unitRows.Next() {
		var recipeName, unit string
		var fdcID int64
		if err := unitRows.Scan(&recipeName, &fdcID, &unit); err != nil {
			_ = unitRows.Close()
			return report, fmt.Errorf("doctor unit scan: %w", err)
		}
		if _, ok := ParseMeasureUnit(strings.TrimSpace(unit)); !ok {
			report.InvalidUnits = append(report.InvalidUnits, fmt.Sprintf("recipe %q FDC %d unit %q", recipeName, fdcID, unit))
		}
	}
	if err := unitRows.Err(); err != nil {
		_ = unitRows.Close()
		return report, fmt.Errorf("doctor unit iterate: %w", err)
	}
	_ = unitRows.Close()

	recipes, err := ListRecipes(db)
	if err != nil {
		return report, err
	}
	for _, r := range recipes {
		if !validDerivedJSON(r.NutritionFactsJSON) || !validDerivedJSON(r.MacrosJSON) {
			report.StaleRecipes = append(report.StaleRecipes, r.Name)
		}
	}
	meals, err := ListMeals(db)
	if err != nil {
		return report, err
	}
	for _, m := range meals {
		if !validDerivedJSON(m.NutritionFactsJSON) || !validDerivedJSON(m.MacrosJSON) {
			report.StaleMeals = append(report.StaleMeals, m.Name)
		}
	}

	return report, nil
}

func validDerivedJSON(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && json.Valid([]byte(value))
}
