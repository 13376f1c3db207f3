package service_test

import (
	"math"
	"sort"
	"testing"

	"mealplan/internal/service"
)

func TestParseMeasureUnitCanonicalOnly(t *testing.T) {
	t.Parallel()
	if u, ok := service.ParseMeasureUnit("Cup"); !ok || u != service.UnitCup {
		t.Fatalf("expected Cup to parse, got %q ok=%v", u, ok)
	}
	if u, ok := service.ParseMeasureUnit("Fl Oz"); !ok || u != service.UnitFlOz {
		t.Fatalf("expected Fl Oz to parse, got %q ok=%v", u, ok)
	}
	for _, token := range []string{"cup", "CUP", "cups", "tbsp", "fl oz", ""} {
		if _, ok := service.ParseMeasureUnit(token); ok {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}

func TestWeightUnitGrams(t *testing.T) {
	t.Parallel()
	cases := []struct {
		unit  service.MeasureUnit
		grams float64
	}{
		{service.UnitGram, 1},
		{service.UnitKg, 1000},
		{service.UnitOz, 28.3495},
		{service.UnitLb, 453.592},
	}
	for _, tc := range cases {
		grams, ok := service.WeightUnitGrams(tc.unit)
		if !ok {
			t.Fatalf("expected %s to be a weight unit", tc.unit)
		}
		if math.Abs(grams-tc.grams) > 1e-9 {
			t.Fatalf("%s: expected %g grams, got %g", tc.unit, tc.grams, grams)
		}
		if !service.IsWeightUnit(tc.unit) {
			t.Fatalf("expected IsWeightUnit(%s) true", tc.unit)
		}
	}
	if _, ok := service.WeightUnitGrams(service.UnitCup); ok {
		t.Fatalf("Cup must not report a gram weight")
	}
	if service.IsWeightUnit(service.UnitPiece) {
		t.Fatalf("Piece is not a weight unit")
	}
}

func TestMeasureUnitsSorted(t *testing.T) {
	t.Parallel()
	units := service.MeasureUnits()
	if len(units) == 0 {
		t.Fatalf("expected unit catalog to be non-empty")
	}
	if !sort.SliceIsSorted(units, func(i, j int) bool { return units[i] < units[j] }) {
		t.Fatalf("expected units sorted, got %v", units)
	}
}

func TestUnitAliasesReturnsCopy(t *testing.T) {
	t.Parallel()
	aliases := service.UnitAliases(service.UnitTbsp)
	if len(aliases) == 0 {
		t.Fatalf("expected Tbsp aliases")
	}
	aliases[0] = "mutated"
	fresh := service.UnitAliases(service.UnitTbsp)
	if fresh[0] == "mutated" {
		t.Fatalf("UnitAliases must not share backing storage")
	}
	if service.UnitAliases(service.MeasureUnit("Nope")) != nil {
		t.Fatalf("unknown unit must have no aliases")
	}
}
