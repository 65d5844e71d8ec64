package usda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestSearchFoodsParsesUSDAResponse(t *testing.T) {
	t.Parallel()

	var gotQuery string
	var gotPageSize float64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "demo" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotQuery, _ = body["query"].(string)
		gotPageSize, _ = body["pageSize"].(float64)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "foods": [
    {
      "fdcId": 171477,
      "description": "Chicken breast, raw",
      "dataType": "SR Legacy",
      "foodNutrients": [
        {"nutrientName": "Energy", "unitName": "KCAL", "value": 165},
        {"nutrientName": "Energy", "unitName": "kJ", "value": 690},
        {"nutrientName": "Protein", "unitName": "G", "value": 31},
        {"nutrientName": "Carbohydrate, by difference", "unitName": "G", "value": 0},
        {"nutrientName": "Total lipid (fat)", "unitName": "G", "value": 3.6}
      ]
    },
    {"fdcId": 2, "description": "chicken breast, RAW", "foodNutrients": []},
    {"fdcId": 3, "description": "  ", "foodNutrients": []},
    {
      "fdcId": 4,
      "description": "Whole milk",
      "dataType": "Branded",
      "brandOwner": "Fazenda",
      "servingSizeUnit": "MLT",
      "foodNutrients": [{"nutrientName": "Energy", "value": 61}]
    }
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}
	foods, err := c.SearchFoods(context.Background(), " chicken ", 0)
	if err != nil {
		t.Fatalf("search foods: %v", err)
	}
	if gotQuery != "chicken" || gotPageSize != defaultPageSize {
		t.Fatalf("unexpected request query=%q pageSize=%v", gotQuery, gotPageSize)
	}
	if len(foods) != 2 {
		t.Fatalf("expected duplicates and blanks dropped, got %+v", foods)
	}
	chicken := foods[0]
	if chicken.FDCID != 171477 || chicken.BaseUnit != "g" || chicken.Per100.Calories != 165 || chicken.Per100.Protein != 31 || chicken.Per100.Fat != 3.6 {
		t.Fatalf("unexpected chicken %+v", chicken)
	}
	if foods[1].BaseUnit != "ml" || foods[1].Brand != "Fazenda" {
		t.Fatalf("unexpected milk %+v", foods[1])
	}
	if ref := chicken.Reference(); ref.Name != "Chicken breast, raw" || ref.Per100 != chicken.Per100 {
		t.Fatalf("unexpected reference %+v", ref)
	}
}

func TestSearchFoodsErrors(t *testing.T) {
	t.Parallel()

	if _, err := (&Client{}).SearchFoods(context.Background(), "rice", 5); err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if _, err := (&Client{APIKey: "k"}).SearchFoods(context.Background(), " ", 5); err == nil {
		t.Fatalf("expected empty query error")
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()
	c := &Client{APIKey: "k", BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.SearchFoods(context.Background(), "rice", 5); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSearchFoodsHonorsLimiter(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"foods": []}`))
	}))
	defer ts.Close()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	c := &Client{APIKey: "k", BaseURL: ts.URL, HTTPClient: ts.Client(), Limiter: limiter}
	if _, err := c.SearchFoods(context.Background(), "rice", 5); err != nil {
		t.Fatalf("first search: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.SearchFoods(ctx, "beans", 5); err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("expected limiter wait to fail, got %v", err)
	}
}
