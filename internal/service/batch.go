package service

import (
	"database/sql"
	"errors"
	"fmt"
)

type BatchSkip struct {
	Record string
	Reason string
}

type BatchReport struct {
	RecipesUpdated []string
	MealsUpdated   []string
	Skipped        []BatchSkip
	Warnings       []string
}

// RecalculateAll recomputes nutrition for every recipe, then every meal.
// Malformed records are skipped and reported; lookup, measure-match and
// energy-consistency failures are data-integrity defects and abort the whole
// batch. The partial report accompanies any error.
func RecalculateAll(db *sql.DB, opts ComputeOptions) (BatchReport, error) {
	report := BatchReport{}

	recipes, err := ListRecipes(db)
	if err != nil {
		return report, err
	}
	for _, r := range recipes {
		result, err := RecalculateRecipeNutrition(db, fmt.Sprintf("%d", r.ID), opts)
		if err != nil {
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				report.Skipped = append(report.Skipped, BatchSkip{Record: fmt.Sprintf("recipe %q", r.Name), Reason: err.Error()})
				continue
			}
			return report, fmt.Errorf("recipe %q: %w", r.Name, err)
		}
		report.Warnings = append(report.Warnings, result.Warnings...)
		report.RecipesUpdated = append(report.RecipesUpdated, r.Name)
	}

	meals, err := ListMeals(db)
	if err != nil {
		return report, err
	}
	for _, m := range meals {
		result, err := RecalculateMealNutrition(db, fmt.Sprintf("%d", m.ID), opts)
		if err != nil {
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				report.Skipped = append(report.Skipped, BatchSkip{Record: fmt.Sprintf("meal %q", m.Name), Reason: err.Error()})
				continue
			}
			return report, fmt.Errorf("meal %q: %w", m.Name, err)
		}
		report.Warnings = append(report.Warnings, result.Warnings...)
		report.MealsUpdated = append(report.MealsUpdated, m.Name)
	}

	return report, nil
}
