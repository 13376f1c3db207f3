package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"mealplan/internal/model"
)

// FoodRecord is the parsed view of a stored nutrient-database snapshot.
type FoodRecord struct {
	FDCID         int64
	Description   string
	FoodNutrients []NutrientEntry
	FoodPortions  []FoodPortion
}

type foodRecordJSON struct {
	FDCID         int64  `json:"fdcId"`
	Description   string `json:"description"`
	FoodNutrients []struct {
		Nutrient struct {
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
	FoodPortions []FoodPortion `json:"foodPortions"`
}

func DecodeFoodRecord(raw []byte) (FoodRecord, error) {
	var parsed foodRecordJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return FoodRecord{}, fmt.Errorf("decode food record: %w", err)
	}
	out := FoodRecord{
		FDCID:       parsed.FDCID,
		Description: strings.TrimSpace(parsed.Description),
	}
	for _, n := range parsed.FoodNutrients {
		out.FoodNutrients = append(out.FoodNutrients, NutrientEntry{
			Name:     strings.TrimSpace(n.Nutrient.Name),
			UnitName: strings.TrimSpace(n.Nutrient.UnitName),
			Amount:   n.Amount,
		})
	}
	out.FoodPortions = parsed.FoodPortions
	return out, nil
}

// SaveIngredient stores a raw nutrient-database food record, replacing any
// existing snapshot for the same FDC id.
func SaveIngredient(db *sql.DB, raw []byte) (model.Ingredient, error) {
	record, err := DecodeFoodRecord(raw)
	if err != nil {
		return model.Ingredient{}, err
	}
	if record.FDCID <= 0 {
		return model.Ingredient{}, &ValidationError{Record: "food record", Reason: "missing fdcId"}
	}
	if record.Description == "" {
		record.Description = fmt.Sprintf("FDC %d", record.FDCID)
	}
	_, err = db.Exec(`
INSERT INTO ingredients(fdc_id, description, raw_json)
VALUES(?, ?, ?)
ON CONFLICT(fdc_id) DO UPDATE SET
  description = excluded.description,
  raw_json = excluded.raw_json,
  updated_at = CURRENT_TIMESTAMP
`, record.FDCID, record.Description, string(raw))
	if err != nil {
		return model.Ingredient{}, fmt.Errorf("save ingredient %d: %w", record.FDCID, err)
	}
	return ResolveIngredient(db, record.FDCID)
}

func ResolveIngredient(db *sql.DB, fdcID int64) (model.Ingredient, error) {
	var ing model.Ingredient
	err := db.QueryRow(`
SELECT fdc_id, description, raw_json, created_at, updated_at
FROM ingredients WHERE fdc_id = ?
`, fdcID).Scan(&ing.FDCID, &ing.Description, &ing.RawJSON, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Ingredient{}, &LookupError{Kind: "ingredient", Ref: fmt.Sprintf("%d", fdcID)}
		}
		return model.Ingredient{}, fmt.Errorf("resolve ingredient %d: %w", fdcID, err)
	}
	return ing, nil
}

func LoadFoodRecord(db *sql.DB, fdcID int64) (FoodRecord, error) {
	ing, err := ResolveIngredient(db, fdcID)
	if err != nil {
		return FoodRecord{}, err
	}
	record, err := DecodeFoodRecord([]byte(ing.RawJSON))
	if err != nil {
		return FoodRecord{}, fmt.Errorf("ingredient %d: %w", fdcID, err)
	}
	if record.Description == "" {
		record.Description = ing.Description
	}
	return record, nil
}

func ListIngredients(db *sql.DB) ([]model.Ingredient, error) {
	rows, err := db.Query(`
SELECT fdc_id, description, raw_json, created_at, updated_at
FROM ingredients
ORDER BY description
`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	items := make([]model.Ingredient, 0)
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.FDCID, &ing.Description, &ing.RawJSON, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		items = append(items, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return items, nil
}

func DeleteIngredient(db *sql.DB, fdcID int64) error {
	res, err := db.Exec(`DELETE FROM ingredients WHERE fdc_id = ?`, fdcID)
	if err != nil {
		return fmt.Errorf("delete ingredient %d: %w", fdcID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return &LookupError{Kind: "ingredient", Ref: fmt.Sprintf("%d", fdcID)}
	}
	return nil
}

// AddIngredientPortion appends an operator-supplied portion to a stored
// snapshot. This is the remediation path the portion matcher's error message
// points at when the database lacks a usable serving size.
func AddIngredientPortion(db *sql.DB, fdcID int64, amount float64, unit MeasureUnit, grams float64) (FoodPortion, error) {
	if amount <= 0 {
		return FoodPortion{}, &ValidationError{Record: "portion", Reason: fmt.Sprintf("amount must be > 0, got %g", amount)}
	}
	if grams <= 0 {
		return FoodPortion{}, &ValidationError{Record: "portion", Reason: fmt.Sprintf("gram weight must be > 0, got %g", grams)}
	}
	if _, ok := unitTable[unit]; !ok {
		return FoodPortion{}, &ValidationError{Record: "portion", Reason: fmt.Sprintf("unknown measure unit %q", string(unit))}
	}

	ing, err := ResolveIngredient(db, fdcID)
	if err != nil {
		return FoodPortion{}, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(ing.RawJSON), &doc); err != nil {
		return FoodPortion{}, fmt.Errorf("ingredient %d: decode food record: %w", fdcID, err)
	}
	var portions []FoodPortion
	if rawPortions, ok := doc["foodPortions"]; ok {
		if err := json.Unmarshal(rawPortions, &portions); err != nil {
			return FoodPortion{}, fmt.Errorf("ingredient %d: decode foodPortions: %w", fdcID, err)
		}
	}

	var maxID int64
	maxSeq := 0
	for _, p := range portions {
		if p.ID > maxID {
			maxID = p.ID
		}
		if p.SequenceNumber > maxSeq {
			maxSeq = p.SequenceNumber
		}
	}

	portion := FoodPortion{
		ID:                 maxID + 1,
		SequenceNumber:     maxSeq + 1,
		Amount:             amount,
		Modifier:           primaryAlias(unit),
		PortionDescription: formatPortionDescription(amount, unit),
		GramWeight:         grams,
	}
	portions = append(portions, portion)
	sort.SliceStable(portions, func(i, j int) bool {
		return portions[i].SequenceNumber < portions[j].SequenceNumber
	})

	encodedPortions, err := json.Marshal(portions)
	if err != nil {
		return FoodPortion{}, fmt.Errorf("marshal foodPortions: %w", err)
	}
	doc["foodPortions"] = encodedPortions
	encodedDoc, err := json.Marshal(doc)
	if err != nil {
		return FoodPortion{}, fmt.Errorf("marshal food record: %w", err)
	}

	if _, err := db.Exec(`
UPDATE ingredients SET raw_json = ?, updated_at = CURRENT_TIMESTAMP WHERE fdc_id = ?
`, string(encodedDoc), fdcID); err != nil {
		return FoodPortion{}, fmt.Errorf("update ingredient %d: %w", fdcID, err)
	}
	return portion, nil
}

func primaryAlias(unit MeasureUnit) string {
	def, ok := unitTable[unit]
	if !ok || len(def.aliases) == 0 {
		return strings.ToLower(string(unit))
	}
	return def.aliases[0]
}

func formatPortionDescription(amount float64, unit MeasureUnit) string {
	name := primaryAlias(unit)
	if amount != 1 {
		def := unitTable[unit]
		if len(def.aliases) > 1 {
			name = def.aliases[1]
		}
	}
	return fmt.Sprintf("%g %s", amount, name)
}
