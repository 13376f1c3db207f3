package service

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed or missing field on a locally-authored
// record. It identifies the offending record and is never worth retrying.
type ValidationError struct {
	Record string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Record, e.Reason)
}

// LookupError reports an unresolvable reference (FDC id, recipe name).
type LookupError struct {
	Kind string
	Ref  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

// MeasureMatchError reports that no food portion matches the requested unit.
// It carries every candidate so an operator can see what the nutrient
// database actually has for the ingredient.
type MeasureMatchError struct {
	Ingredient string
	Quantity   float64
	Unit       MeasureUnit
	Candidates []FoodPortion
	Reason     string
}

func (e *MeasureMatchError) Error() string {
	var b strings.Builder
	if e.Ingredient != "" {
		fmt.Fprintf(&b, "ingredient %s: ", e.Ingredient)
	}
	fmt.Fprintf(&b, "no foodPortion matches %g %s", e.Quantity, e.Unit)
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	b.WriteString(formatPortionCandidates(e.Candidates))
	return b.String()
}

func formatPortionCandidates(portions []FoodPortion) string {
	lines := make([]string, 0, len(portions))
	for _, p := range portions {
		if p.GramWeight <= 0 {
			continue
		}
		parts := make([]string, 0, 2)
		if p.Modifier != "" {
			parts = append(parts, fmt.Sprintf("modifier=%q", p.Modifier))
		}
		if p.PortionDescription != "" {
			parts = append(parts, fmt.Sprintf("description=%q", p.PortionDescription))
		}
		if len(parts) > 0 {
			lines = append(lines, "  - "+strings.Join(parts, ", "))
		}
	}
	if len(lines) == 0 {
		return "\navailable foodPortions: (none with valid gramWeight)"
	}
	return "\navailable foodPortions:\n" + strings.Join(lines, "\n")
}

// ConsistencyError reports that computed energy materially disagrees with the
// calories derived from macros, naming the ingredients without usable energy
// data.
type ConsistencyError struct {
	Record        string
	EnergyKcal    float64
	MacroKcal     float64
	MissingEnergy []string
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("%s: Energy (kcal) %.1f is inconsistent with macro-derived calories %.1f",
		e.Record, e.EnergyKcal, e.MacroKcal)
	if len(e.MissingEnergy) > 0 {
		msg += "; ingredients without usable energy data: " + strings.Join(e.MissingEnergy, ", ")
	}
	return msg
}
