package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"mealplan/internal/model"
)

type RecipeInput struct {
	Name        string
	ServingSize float64
	Notes       string
}

func CreateRecipe(db *sql.DB, in RecipeInput) (int64, error) {
	if err := validateRecipeInput(in); err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO recipes(name, serving_size, notes)
VALUES(?, ?, ?)
`, strings.TrimSpace(in.Name), in.ServingSize, strings.TrimSpace(in.Notes))
	if err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve recipe id: %w", err)
	}
	return id, nil
}

func ListRecipes(db *sql.DB) ([]model.Recipe, error) {
	rows, err := db.Query(`
SELECT id, name, serving_size, IFNULL(notes,''), nutrition_facts_json, macros_json, created_at, updated_at
FROM recipes
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Recipe, 0)
	for rows.Next() {
		var r model.Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.ServingSize, &r.Notes, &r.NutritionFactsJSON, &r.MacrosJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return items, nil
}

func ResolveRecipe(db *sql.DB, idOrName string) (*model.Recipe, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, &ValidationError{Record: "recipe", Reason: "identifier is required"}
	}
	var row *sql.Row
	if id, err := parseIDLoose(idOrName); err == nil {
		row = db.QueryRow(`
SELECT id, name, serving_size, IFNULL(notes,''), nutrition_facts_json, macros_json, created_at, updated_at
FROM recipes WHERE id = ?
`, id)
	} else {
		row = db.QueryRow(`
SELECT id, name, serving_size, IFNULL(notes,''), nutrition_facts_json, macros_json, created_at, updated_at
FROM recipes WHERE LOWER(name) = ?
`, strings.ToLower(idOrName))
	}
	var r model.Recipe
	if err := row.Scan(&r.ID, &r.Name, &r.ServingSize, &r.Notes, &r.NutritionFactsJSON, &r.MacrosJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &LookupError{Kind: "recipe", Ref: fmt.Sprintf("%q", idOrName)}
		}
		return nil, fmt.Errorf("resolve recipe %q: %w", idOrName, err)
	}
	return &r, nil
}

func UpdateRecipe(db *sql.DB, idOrName string, in RecipeInput) error {
	if err := validateRecipeInput(in); err != nil {
		return err
	}
	recipe, err := ResolveRecipe(db, idOrName)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
UPDATE recipes SET
  name = ?, serving_size = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, strings.TrimSpace(in.Name), in.ServingSize, strings.TrimSpace(in.Notes), recipe.ID)
	if err != nil {
		return fmt.Errorf("update recipe %q: %w", idOrName, err)
	}
	return nil
}

func DeleteRecipe(db *sql.DB, idOrName string) error {
	recipe, err := ResolveRecipe(db, idOrName)
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM recipes WHERE id = ?`, recipe.ID)
	if err != nil {
		return fmt.Errorf("delete recipe %q: %w", idOrName, err)
	}
	return nil
}

type RecipeIngredientInput struct {
	FDCID       int64
	Name        string
	Quantity    float64
	MeasureUnit string
}

func AddRecipeIngredient(db *sql.DB, recipeIdentifier string, in RecipeIngredientInput) (int64, error) {
	recipe, err := ResolveRecipe(db, recipeIdentifier)
	if err != nil {
		return 0, err
	}
	if err := validateRecipeIngredientInput(in); err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO recipe_ingredients(recipe_id, fdc_id, name, quantity, measure_unit)
VALUES(?, ?, ?, ?, ?)
`, recipe.ID, in.FDCID, strings.TrimSpace(in.Name), in.Quantity, strings.TrimSpace(in.MeasureUnit))
	if err != nil {
		return 0, fmt.Errorf("add recipe ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve recipe ingredient id: %w", err)
	}
	return id, nil
}

func ListRecipeIngredients(db *sql.DB, recipeIdentifier string) ([]model.RecipeIngredient, error) {
	recipe, err := ResolveRecipe(db, recipeIdentifier)
	if err != nil {
		return nil, err
	}
	return listRecipeIngredientsByID(db, recipe.ID)
}

func listRecipeIngredientsByID(db *sql.DB, recipeID int64) ([]model.RecipeIngredient, error) {
	rows, err := db.Query(`
SELECT id, recipe_id, fdc_id, name, quantity, measure_unit, created_at, updated_at
FROM recipe_ingredients
WHERE recipe_id = ?
ORDER BY id ASC
`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe ingredients: %w", err)
	}
	defer rows.Close()
	items := make([]model.RecipeIngredient, 0)
	for rows.Next() {
		var it model.RecipeIngredient
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.FDCID, &it.Name, &it.Quantity, &it.MeasureUnit, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe ingredients: %w", err)
	}
	return items, nil
}

func UpdateRecipeIngredient(db *sql.DB, ingredientID int64, in RecipeIngredientInput) error {
	if ingredientID <= 0 {
		return &ValidationError{Record: "recipe ingredient", Reason: "id must be > 0"}
	}
	if err := validateRecipeIngredientInput(in); err != nil {
		return err
	}
	res, err := db.Exec(`
UPDATE recipe_ingredients
SET fdc_id = ?, name = ?, quantity = ?, measure_unit = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.FDCID, strings.TrimSpace(in.Name), in.Quantity, strings.TrimSpace(in.MeasureUnit), ingredientID)
	if err != nil {
		return fmt.Errorf("update recipe ingredient %d: %w", ingredientID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return &LookupError{Kind: "recipe ingredient", Ref: fmt.Sprintf("%d", ingredientID)}
	}
	return nil
}

func DeleteRecipeIngredient(db *sql.DB, ingredientID int64) error {
	if ingredientID <= 0 {
		return &ValidationError{Record: "recipe ingredient", Reason: "id must be > 0"}
	}
	res, err := db.Exec(`DELETE FROM recipe_ingredients WHERE id = ?`, ingredientID)
	if err != nil {
		return fmt.Errorf("delete recipe ingredient %d: %w", ingredientID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return &LookupError{Kind: "recipe ingredient", Ref: fmt.Sprintf("%d", ingredientID)}
	}
	return nil
}

func validateRecipeInput(in RecipeInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Record: "recipe", Reason: "name is required"}
	}
	if in.ServingSize <= 0 {
		return &ValidationError{Record: "recipe", Reason: "serving size must be > 0"}
	}
	return nil
}

func validateRecipeIngredientInput(in RecipeIngredientInput) error {
	if in.FDCID <= 0 {
		return &ValidationError{Record: "recipe ingredient", Reason: "fdc id must be > 0"}
	}
	if in.Quantity <= 0 {
		return &ValidationError{Record: "recipe ingredient", Reason: "quantity must be > 0"}
	}
	unit := strings.TrimSpace(in.MeasureUnit)
	if unit == "" {
		return &ValidationError{Record: "recipe ingredient", Reason: "measure unit is required"}
	}
	if _, ok := ParseMeasureUnit(unit); !ok {
		return &ValidationError{
			Record: "recipe ingredient",
			Reason: fmt.Sprintf("invalid measure unit %q; valid units: %s", unit, joinUnits(MeasureUnits())),
		}
	}
	return nil
}

func joinUnits(units []MeasureUnit) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = string(u)
	}
	return strings.Join(parts, ", ")
}

func parseIDLoose(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not numeric")
	}
	return id, nil
}
