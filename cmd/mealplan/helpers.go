package main

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"mealplan/internal/app"
	"mealplan/internal/db"
	"mealplan/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseUnitArg(value string) (service.MeasureUnit, error) {
	unit, ok := service.ParseMeasureUnit(strings.TrimSpace(value))
	if !ok {
		units := service.MeasureUnits()
		parts := make([]string, len(units))
		for i, u := range units {
			parts[i] = string(u)
		}
		return "", fmt.Errorf("invalid measure unit %q; valid units: %s", value, strings.Join(parts, ", "))
	}
	return unit, nil
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}

func printNutrientSet(cmd *cobra.Command, set service.NutrientSet) {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", key, set[key])
	}
}

func printMacros(cmd *cobra.Command, m service.MacroBreakdown) {
	fmt.Fprintf(cmd.OutOrStdout(), "Protein: %.1fg (%.1f%%)\nCarbs: %.1fg (%.1f%%)\nFat: %.1fg (%.1f%%)\n",
		m.Protein.Grams, m.Protein.Percent, m.Carbs.Grams, m.Carbs.Percent, m.Fat.Grams, m.Fat.Percent)
}
