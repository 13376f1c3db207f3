package service

import "sort"

type MeasureUnit string

const (
	UnitCup    MeasureUnit = "Cup"
	UnitTbsp   MeasureUnit = "Tbsp"
	UnitTsp    MeasureUnit = "Tsp"
	UnitFlOz   MeasureUnit = "Fl Oz"
	UnitPint   MeasureUnit = "Pint"
	UnitQuart  MeasureUnit = "Quart"
	UnitGallon MeasureUnit = "Gallon"
	UnitMl     MeasureUnit = "Ml"
	UnitLiter  MeasureUnit = "Liter"
	UnitOz     MeasureUnit = "Oz"
	UnitLb     MeasureUnit = "Lb"
	UnitGram   MeasureUnit = "Gram"
	UnitKg     MeasureUnit = "Kg"
	UnitPiece  MeasureUnit = "Piece"
	UnitWhole  MeasureUnit = "Whole"
	UnitSlice  MeasureUnit = "Slice"
	UnitClove  MeasureUnit = "Clove"
	UnitHead   MeasureUnit = "Head"
	UnitStalk  MeasureUnit = "Stalk"
	UnitBunch  MeasureUnit = "Bunch"
)

type unitKind string

const (
	unitKindVolume unitKind = "volume"
	unitKindWeight unitKind = "weight"
	unitKindCount  unitKind = "count"
)

type unitDef struct {
	kind unitKind
	// aliases are lowercase synonyms used only when matching free text from
	// the nutrient database, never when parsing a recipe's own unit field.
	aliases []string
	// grams per one unit, weight units only
	gramsPerUnit float64
}

var unitTable = map[MeasureUnit]unitDef{
	UnitCup:    {kind: unitKindVolume, aliases: []string{"cup", "cups"}},
	UnitTbsp:   {kind: unitKindVolume, aliases: []string{"tablespoon", "tablespoons", "tbsp", "tbs"}},
	UnitTsp:    {kind: unitKindVolume, aliases: []string{"teaspoon", "teaspoons", "tsp"}},
	UnitFlOz:   {kind: unitKindVolume, aliases: []string{"fluid ounce", "fluid ounces", "fl oz", "floz", "fl. oz."}},
	UnitPint:   {kind: unitKindVolume, aliases: []string{"pint", "pints", "pt"}},
	UnitQuart:  {kind: unitKindVolume, aliases: []string{"quart", "quarts", "qt"}},
	UnitGallon: {kind: unitKindVolume, aliases: []string{"gallon", "gallons", "gal"}},
	UnitMl:     {kind: unitKindVolume, aliases: []string{"milliliter", "milliliters", "ml"}},
	UnitLiter:  {kind: unitKindVolume, aliases: []string{"liter", "liters", "litres"}},

	UnitOz:   {kind: unitKindWeight, aliases: []string{"ounce", "ounces", "oz"}, gramsPerUnit: 28.3495},
	UnitLb:   {kind: unitKindWeight, aliases: []string{"pound", "pounds", "lb", "lbs"}, gramsPerUnit: 453.592},
	UnitGram: {kind: unitKindWeight, aliases: []string{"gram", "grams"}, gramsPerUnit: 1},
	UnitKg:   {kind: unitKindWeight, aliases: []string{"kilogram", "kilograms", "kg"}, gramsPerUnit: 1000},

	UnitPiece: {kind: unitKindCount, aliases: []string{"piece", "pieces", "pc", "pcs"}},
	UnitWhole: {kind: unitKindCount, aliases: []string{"whole", "item", "items"}},
	UnitSlice: {kind: unitKindCount, aliases: []string{"slice", "slices"}},
	UnitClove: {kind: unitKindCount, aliases: []string{"clove", "cloves"}},
	UnitHead:  {kind: unitKindCount, aliases: []string{"head", "heads"}},
	UnitStalk: {kind: unitKindCount, aliases: []string{"stalk", "stalks"}},
	UnitBunch: {kind: unitKindCount, aliases: []string{"bunch", "bunches"}},
}

// ParseMeasureUnit accepts exact canonical tokens only ("Cup", "Fl Oz", ...).
// Free-text matching is reserved for nutrient-database portion text.
func ParseMeasureUnit(token string) (MeasureUnit, bool) {
	u := MeasureUnit(token)
	_, ok := unitTable[u]
	return u, ok
}

func UnitAliases(u MeasureUnit) []string {
	def, ok := unitTable[u]
	if !ok {
		return nil
	}
	out := make([]string, len(def.aliases))
	copy(out, def.aliases)
	return out
}

func IsWeightUnit(u MeasureUnit) bool {
	def, ok := unitTable[u]
	return ok && def.kind == unitKindWeight
}

func WeightUnitGrams(u MeasureUnit) (float64, bool) {
	def, ok := unitTable[u]
	if !ok || def.kind != unitKindWeight {
		return 0, false
	}
	return def.gramsPerUnit, true
}

func MeasureUnits() []MeasureUnit {
	out := make([]MeasureUnit, 0, len(unitTable))
	for u := range unitTable {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
