package model

import "time"

type Ingredient struct {
	FDCID       int64
	Description string
	RawJSON     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Recipe struct {
	ID                 int64
	Name               string
	ServingSize        float64
	Notes              string
	NutritionFactsJSON string
	MacrosJSON         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type RecipeIngredient struct {
	ID          int64
	RecipeID    int64
	FDCID       int64
	Name        string
	Quantity    float64
	MeasureUnit string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Meal struct {
	ID                 int64
	Name               string
	Notes              string
	NutritionFactsJSON string
	MacrosJSON         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type MealRecipe struct {
	ID         int64
	MealID     int64
	RecipeID   int64
	RecipeName string
	Servings   float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
