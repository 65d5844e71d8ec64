// Package usda searches FoodData Central for ingredient reference data.
package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

const (
	defaultBaseURL  = "https://api.nal.usda.gov"
	defaultPageSize = 10
	maxPageSize     = 50
)

// DefaultLimiter keeps a bulk import inside the public key quota.
func DefaultLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Second), 2)
}

// Food is one search hit. Macros are per 100 base units, the way FoodData
// Central reports foodNutrients in search results.
type Food struct {
	FDCID       int64        `json:"fdc_id"`
	Description string       `json:"description"`
	DataType    string       `json:"data_type"`
	Brand       string       `json:"brand,omitempty"`
	BaseUnit    string       `json:"base_unit"`
	Per100      model.Macros `json:"per100"`
}

func (f Food) Reference() model.IngredientReference {
	return model.IngredientReference{Name: f.Description, BaseUnit: f.BaseUnit, Per100: f.Per100}
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	// Limiter throttles outgoing requests when set.
	Limiter *rate.Limiter
}

func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]Food, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing USDA API key")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for USDA rate limit: %w", err)
		}
	}

	payload, err := json.Marshal(map[string]any{
		"query":    query,
		"dataType": []string{"Foundation", "SR Legacy", "Branded"},
		"pageSize": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal USDA search payload: %w", err)
	}

	url := fmt.Sprintf("%s/fdc/v1/foods/search?api_key=%s", baseURL, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create USDA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute USDA request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read USDA response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("USDA request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode USDA response: %w", err)
	}

	out := make([]Food, 0, len(parsed.Foods))
	seen := map[string]bool{}
	for _, f := range parsed.Foods {
		food, ok := toFood(f)
		if !ok {
			continue
		}
		key := strings.ToLower(food.Description)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, food)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func toFood(f usdaFood) (Food, bool) {
	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		return Food{}, false
	}
	out := Food{
		FDCID:       f.FDCID,
		Description: desc,
		DataType:    strings.TrimSpace(f.DataType),
		Brand:       strings.TrimSpace(f.BrandOwner),
		BaseUnit:    baseUnit(f.ServingSizeUnit),
	}
	for _, n := range f.FoodNutrients {
		switch strings.ToLower(strings.TrimSpace(n.NutrientName)) {
		case "energy":
			// Foundation foods list energy in both kcal and kJ.
			if unit := strings.ToLower(n.UnitName); unit == "" || unit == "kcal" {
				out.Per100.Calories = n.Value
			}
		case "protein":
			out.Per100.Protein = n.Value
		case "carbohydrate, by difference":
			out.Per100.Carbs = n.Value
		case "total lipid (fat)":
			out.Per100.Fat = n.Value
		}
	}
	if out.Per100.Calories < 0 || out.Per100.Protein < 0 || out.Per100.Carbs < 0 || out.Per100.Fat < 0 {
		return Food{}, false
	}
	return out, true
}

func baseUnit(servingUnit string) string {
	switch strings.ToLower(strings.TrimSpace(servingUnit)) {
	case "ml", "mlt", "l":
		return "ml"
	}
	if unit, ok := nutrition.NormalizeUnit(servingUnit); ok && unit == "ml" {
		return unit
	}
	return nutrition.DefaultUnit
}

type searchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID           int64          `json:"fdcId"`
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	BrandOwner      string         `json:"brandOwner"`
	ServingSizeUnit string         `json:"servingSizeUnit"`
	FoodNutrients   []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}
