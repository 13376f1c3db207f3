package service

import (
	"database/sql"
	"fmt"
	"strings"

	"mealplan/internal/model"
)

type MealInput struct {
	Name  string
	Notes string
}

func CreateMeal(db *sql.DB, in MealInput) (int64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, &ValidationError{Record: "meal", Reason: "name is required"}
	}
	res, err := db.Exec(`
INSERT INTO meals(name, notes)
VALUES(?, ?)
`, strings.TrimSpace(in.Name), strings.TrimSpace(in.Notes))
	if err != nil {
		return 0, fmt.Errorf("create meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve meal id: %w", err)
	}
	return id, nil
}

func ListMeals(db *sql.DB) ([]model.Meal, error) {
	rows, err := db.Query(`
SELECT id, name, IFNULL(notes,''), nutrition_facts_json, macros_json, created_at, updated_at
FROM meals
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	items := make([]model.Meal, 0)
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.Name, &m.Notes, &m.NutritionFactsJSON, &m.MacrosJSON, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return items, nil
}

func ResolveMeal(db *sql.DB, idOrName string) (*model.Meal, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, &ValidationError{Record: "meal", Reason: "identifier is required"}
	}
	var row *sql.Row
	if id, err := parseIDLoose(idOrName); err == nil {
		row = db.QueryRow(`
SELECT id, name, IFNULL(notes,''), nutrition_facts_json, macros_json, created_at, updated_at
FROM meals WHERE id = ?
`, id)
	} else {
		row = db.QueryRow(`
SELECT id, name, IFNULL(notes,''), nutrition_facts_json, macros_json, created_at, updated_at
FROM meals WHERE LOWER(name) = ?
`, strings.ToLower(idOrName))
	}
	var m model.Meal
	if err := row.Scan(&m.ID, &m.Name, &m.Notes, &m.NutritionFactsJSON, &m.MacrosJSON, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &LookupError{Kind: "meal", Ref: fmt.Sprintf("%q", idOrName)}
		}
		return nil, fmt.Errorf("resolve meal %q: %w", idOrName, err)
	}
	return &m, nil
}

func DeleteMeal(db *sql.DB, idOrName string) error {
	meal, err := ResolveMeal(db, idOrName)
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM meals WHERE id = ?`, meal.ID)
	if err != nil {
		return fmt.Errorf("delete meal %q: %w", idOrName, err)
	}
	return nil
}

func AddMealRecipe(db *sql.DB, mealIdentifier, recipeIdentifier string, servings float64) (int64, error) {
	if servings <= 0 {
		return 0, &ValidationError{Record: "meal recipe", Reason: "servings must be > 0"}
	}
	meal, err := ResolveMeal(db, mealIdentifier)
	if err != nil {
		return 0, err
	}
	recipe, err := ResolveRecipe(db, recipeIdentifier)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO meal_recipes(meal_id, recipe_id, servings)
VALUES(?, ?, ?)
`, meal.ID, recipe.ID, servings)
	if err != nil {
		return 0, fmt.Errorf("add meal recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve meal recipe id: %w", err)
	}
	return id, nil
}

func RemoveMealRecipe(db *sql.DB, mealRecipeID int64) error {
	if mealRecipeID <= 0 {
		return &ValidationError{Record: "meal recipe", Reason: "id must be > 0"}
	}
	res, err := db.Exec(`DELETE FROM meal_recipes WHERE id = ?`, mealRecipeID)
	if err != nil {
		return fmt.Errorf("remove meal recipe %d: %w", mealRecipeID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return &LookupError{Kind: "meal recipe", Ref: fmt.Sprintf("%d", mealRecipeID)}
	}
	return nil
}

func ListMealRecipes(db *sql.DB, mealIdentifier string) ([]model.MealRecipe, error) {
	meal, err := ResolveMeal(db, mealIdentifier)
	if err != nil {
		return nil, err
	}
	return listMealRecipesByID(db, meal.ID)
}

func listMealRecipesByID(db *sql.DB, mealID int64) ([]model.MealRecipe, error) {
	rows, err := db.Query(`
SELECT mr.id, mr.meal_id, mr.recipe_id, r.name, mr.servings, mr.created_at, mr.updated_at
FROM meal_recipes mr
JOIN recipes r ON r.id = mr.recipe_id
WHERE mr.meal_id = ?
ORDER BY mr.id ASC
`, mealID)
	if err != nil {
		return nil, fmt.Errorf("list meal recipes: %w", err)
	}
	defer rows.Close()
	items := make([]model.MealRecipe, 0)
	for rows.Next() {
		var it model.MealRecipe
		if err := rows.Scan(&it.ID, &it.MealID, &it.RecipeID, &it.RecipeName, &it.Servings, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meal recipe: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal recipes: %w", err)
	}
	return items, nil
}
