package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type NutrientEntry struct {
	Name     string
	UnitName string
	Amount   float64
}

// NutrientSet maps "{name} ({unit})" keys to amounts. It carries at most one
// energy key, always spelled EnergyKey.
type NutrientSet map[string]float64

const EnergyKey = "Energy (kcal)"

const (
	proteinKey = "Protein (g)"
	carbsKey   = "Carbohydrate, by difference (g)"
	fatKey     = "Total lipid (fat) (g)"
)

// energySources are the accepted energy fields, consulted in order. The first
// kcal-unit entry by this priority wins; the rest are dropped.
var energySources = []string{
	"Energy",
	"Energy (Atwater General Factors)",
	"Energy (Atwater Specific Factors)",
}

// ScaleNutrients converts a per-100g nutrient list to amounts for gramWeight.
func ScaleNutrients(entries []NutrientEntry, gramWeight float64) NutrientSet {
	out := NutrientSet{}
	energy := map[string]float64{}
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		scaled := (gramWeight / 100.0) * e.Amount
		if isEnergySource(e.Name) {
			if strings.EqualFold(strings.TrimSpace(e.UnitName), "kcal") {
				if _, seen := energy[e.Name]; !seen {
					energy[e.Name] = scaled
				}
			}
			// kJ renditions of the same sources are dropped outright
			continue
		}
		out[fmt.Sprintf("%s (%s)", e.Name, e.UnitName)] = scaled
	}
	for _, source := range energySources {
		if v, ok := energy[source]; ok {
			out[EnergyKey] = v
			break
		}
	}
	return out
}

func isEnergySource(name string) bool {
	for _, source := range energySources {
		if name == source {
			return true
		}
	}
	return false
}

// SumNutrients sums per-key values across the given sets; a set missing a key
// contributes 0.
func SumNutrients(sets []NutrientSet) NutrientSet {
	out := NutrientSet{}
	for _, set := range sets {
		for key, amount := range set {
			out[key] += amount
		}
	}
	return out
}

func ScaleNutrientSet(set NutrientSet, factor float64) NutrientSet {
	out := NutrientSet{}
	for key, amount := range set {
		out[key] = amount * factor
	}
	return out
}

type MacroEntry struct {
	Grams   float64 `json:"grams"`
	Percent float64 `json:"percent"`
}

type MacroBreakdown struct {
	Protein MacroEntry `json:"protein"`
	Carbs   MacroEntry `json:"carbs"`
	Fat     MacroEntry `json:"fat"`
}

// CalculateMacros derives the macro breakdown from a nutrient set using
// 4 kcal/g for protein and carbs, 9 kcal/g for fat.
func CalculateMacros(set NutrientSet) MacroBreakdown {
	proteinG := set[proteinKey]
	carbsG := set[carbsKey]
	fatG := set[fatKey]

	proteinCals := proteinG * 4
	carbsCals := carbsG * 4
	fatCals := fatG * 9
	totalCals := proteinCals + carbsCals + fatCals

	var proteinPct, carbsPct, fatPct float64
	if totalCals > 0 {
		proteinPct = roundTo1(proteinCals / totalCals * 100)
		carbsPct = roundTo1(carbsCals / totalCals * 100)
		fatPct = roundTo1(fatCals / totalCals * 100)
	}

	return MacroBreakdown{
		Protein: MacroEntry{Grams: roundTo1(proteinG), Percent: proteinPct},
		Carbs:   MacroEntry{Grams: roundTo1(carbsG), Percent: carbsPct},
		Fat:     MacroEntry{Grams: roundTo1(fatG), Percent: fatPct},
	}
}

// MacroCalories returns the unrounded calories implied by a set's macro grams.
func MacroCalories(set NutrientSet) float64 {
	return set[proteinKey]*4 + set[carbsKey]*4 + set[fatKey]*9
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func EncodeNutrientSet(set NutrientSet) (string, error) {
	b, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("marshal nutrition facts: %w", err)
	}
	return string(b), nil
}

func DecodeNutrientSet(value string) (NutrientSet, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return NutrientSet{}, nil
	}
	var out NutrientSet
	if err := json.Unmarshal([]byte(value), &out); err != nil {
		return nil, fmt.Errorf("nutrition facts must be a valid JSON object: %w", err)
	}
	return out, nil
}

func EncodeMacros(m MacroBreakdown) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal macros: %w", err)
	}
	return string(b), nil
}
