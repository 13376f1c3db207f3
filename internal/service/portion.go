package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type FoodPortion struct {
	ID                 int64   `json:"id"`
	SequenceNumber     int     `json:"sequenceNumber"`
	Amount             float64 `json:"amount"`
	Modifier           string  `json:"modifier"`
	PortionDescription string  `json:"portionDescription"`
	GramWeight         float64 `json:"gramWeight"`
}

type MatchOptions struct {
	// AssumeBaseAmount falls back to a base amount of 1 when the matched
	// portion has neither a leading numeral in its description nor a
	// positive amount field. Off by default.
	AssumeBaseAmount bool
}

var (
	leadingNumberPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
	leadingNumberStrip   = regexp.MustCompile(`^\d+\s*`)
)

// MatchPortion resolves quantity and unit to a gram weight against the
// nutrient database's declared portions. An ingredient without any declared
// portion fails regardless of unit. For weight units the conversion itself
// uses fixed constants rather than the portion list; per-100g nutrient tables
// make mass conversion exact.
func MatchPortion(quantity float64, unit MeasureUnit, portions []FoodPortion, opts MatchOptions) (FoodPortion, float64, error) {
	if quantity <= 0 {
		return FoodPortion{}, 0, &ValidationError{Record: "portion request", Reason: fmt.Sprintf("quantity must be > 0, got %g", quantity)}
	}
	if _, ok := unitTable[unit]; !ok {
		return FoodPortion{}, 0, &ValidationError{Record: "portion request", Reason: fmt.Sprintf("unknown measure unit %q", string(unit))}
	}
	if len(portions) == 0 {
		return FoodPortion{}, 0, &MeasureMatchError{
			Quantity: quantity,
			Unit:     unit,
			Reason:   "no foodPortions available in ingredient data",
		}
	}

	if grams, ok := WeightUnitGrams(unit); ok {
		weight := quantity * grams
		synthetic := FoodPortion{
			PortionDescription: fmt.Sprintf("%g %s", quantity, unit),
			GramWeight:         weight,
		}
		return synthetic, weight, nil
	}

	aliases := UnitAliases(unit)
	var best *FoodPortion
	bestScore := 0
	for i := range portions {
		p := &portions[i]
		if p.GramWeight <= 0 {
			continue
		}
		if score := scorePortion(p, aliases); score > bestScore {
			bestScore = score
			best = p
		}
	}

	if best == nil || bestScore == 0 {
		return FoodPortion{}, 0, &MeasureMatchError{
			Quantity:   quantity,
			Unit:       unit,
			Candidates: portions,
			Reason:     "no foodPortion with matching modifier or description; use a weight unit (Gram, Oz, Lb, Kg) or add a portion with `mealplan ingredient add-portion`",
		}
	}

	baseAmount, err := extractBaseAmount(best)
	if err != nil {
		if !opts.AssumeBaseAmount {
			return FoodPortion{}, 0, &MeasureMatchError{
				Quantity:   quantity,
				Unit:       unit,
				Candidates: []FoodPortion{*best},
				Reason:     err.Error(),
			}
		}
		baseAmount = 1
	}

	weight := (quantity / baseAmount) * best.GramWeight
	return *best, weight, nil
}

// Scoring: 100 when the modifier equals or contains an alias, 80 when the
// description (leading numeral stripped) starts with an alias, 50 when an
// alias appears anywhere inside the description. Ties keep the first
// candidate encountered.
func scorePortion(p *FoodPortion, aliases []string) int {
	if modifier := normalizeMatchText(p.Modifier); modifier != "" {
		for _, alias := range aliases {
			if modifier == alias || strings.Contains(modifier, alias) {
				return 100
			}
		}
	}
	if desc := normalizeDescription(p.PortionDescription); desc != "" {
		contains := false
		for _, alias := range aliases {
			if strings.HasPrefix(desc, alias) {
				return 80
			}
			if strings.Contains(desc, alias) {
				contains = true
			}
		}
		if contains {
			return 50
		}
	}
	return 0
}

func normalizeMatchText(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func normalizeDescription(desc string) string {
	if desc == "" {
		return ""
	}
	return strings.TrimSpace(leadingNumberStrip.ReplaceAllString(strings.ToLower(desc), ""))
}

func extractBaseAmount(p *FoodPortion) (float64, error) {
	if desc := strings.TrimSpace(p.PortionDescription); desc != "" && desc != "(none)" {
		if m := leadingNumberPattern.FindString(desc); m != "" {
			v, err := strconv.ParseFloat(m, 64)
			if err == nil && v > 0 {
				return v, nil
			}
		}
	}
	if p.Amount > 0 {
		return p.Amount, nil
	}
	return 0, fmt.Errorf("cannot determine base amount: portionDescription %q has no leading numeral and amount field is %g",
		p.PortionDescription, p.Amount)
}
