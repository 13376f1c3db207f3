package fdc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFoodDetailReturnsRawRecord(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/fdc/v1/food/746782") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "fdcId": 746782,
  "description": "Milk, whole",
  "foodNutrients": [
    {"nutrient": {"name": "Energy", "unitName": "kcal"}, "amount": 61}
  ],
  "foodPortions": [
    {"id": 1, "sequenceNumber": 1, "amount": 1, "modifier": "cup", "portionDescription": "1 cup", "gramWeight": 244}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}

	raw, err := c.FoodDetail(context.Background(), 746782)
	if err != nil {
		t.Fatalf("food detail: %v", err)
	}
	if !strings.Contains(string(raw), `"Milk, whole"`) {
		t.Fatalf("expected raw record to carry the description, got %s", raw)
	}
}

func TestFoodDetailNotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.FoodDetail(context.Background(), 999); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestFoodDetailRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if _, err := c.FoodDetail(context.Background(), 1); err == nil {
		t.Fatalf("expected missing api key error")
	}
}

func TestSearchFoodsParsesResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "foods": [
    {"fdcId": 746782, "description": "Milk, whole", "dataType": "Foundation"},
    {"fdcId": 171265, "description": "Milk, lowfat", "dataType": "SR Legacy"}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}

	foods, err := c.SearchFoods(context.Background(), "milk", 10)
	if err != nil {
		t.Fatalf("search foods: %v", err)
	}
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(foods))
	}
	if foods[0].FDCID != 746782 || foods[0].Description != "Milk, whole" {
		t.Fatalf("unexpected first food: %+v", foods[0])
	}
}
