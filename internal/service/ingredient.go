package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/catalog"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

const (
	SourceManual = "manual"
	SourceSeed   = "seed"
	SourceUSDA   = "usda"
)

// IngredientInput describes one catalog ingredient. Macros are per 100 base
// units.
type IngredientInput struct {
	Name      string  `validate:"required,max=120"`
	BaseUnit  string  `validate:"required"`
	Calories  float64 `validate:"gte=0"`
	ProteinG  float64 `validate:"gte=0"`
	CarbsG    float64 `validate:"gte=0"`
	FatG      float64 `validate:"gte=0"`
	Source    string
	SourceRef string
}

func AddIngredient(db *sql.DB, in IngredientInput) (int64, error) {
	in, err := prepareIngredientInput(in)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO ingredients(name, name_norm, base_unit, calories, protein_g, carbs_g, fat_g, source, source_ref)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, in.Name, normalizeName(in.Name), in.BaseUnit, in.Calories, in.ProteinG, in.CarbsG, in.FatG, in.Source, in.SourceRef)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("ingredient %q already exists", in.Name)
		}
		return 0, fmt.Errorf("add ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve ingredient id: %w", err)
	}
	return id, nil
}

// UpsertIngredient inserts or refreshes an ingredient by normalized name.
// It reports whether a new row was created.
func UpsertIngredient(db *sql.DB, in IngredientInput) (bool, error) {
	in, err := prepareIngredientInput(in)
	if err != nil {
		return false, err
	}
	var existing int64
	err = db.QueryRow(`SELECT id FROM ingredients WHERE name_norm = ?`, normalizeName(in.Name)).Scan(&existing)
	if err == sql.ErrNoRows {
		if _, err := AddIngredient(db, in); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup ingredient %q: %w", in.Name, err)
	}
	_, err = db.Exec(`
UPDATE ingredients SET
  base_unit = ?, calories = ?, protein_g = ?, carbs_g = ?, fat_g = ?, source = ?, source_ref = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.BaseUnit, in.Calories, in.ProteinG, in.CarbsG, in.FatG, in.Source, in.SourceRef, existing)
	if err != nil {
		return false, fmt.Errorf("update ingredient %q: %w", in.Name, err)
	}
	return false, nil
}

func ListIngredients(db *sql.DB) ([]model.Ingredient, error) {
	rows, err := db.Query(`
SELECT id, name, base_unit, calories, protein_g, carbs_g, fat_g, source, source_ref, created_at, updated_at
FROM ingredients
ORDER BY name_norm ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	return scanIngredients(rows)
}

func ResolveIngredient(db *sql.DB, idOrName string) (*model.Ingredient, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, fmt.Errorf("ingredient identifier is required")
	}
	const cols = `id, name, base_unit, calories, protein_g, carbs_g, fat_g, source, source_ref, created_at, updated_at`
	var row *sql.Row
	if id, err := parseIDLoose(idOrName); err == nil {
		row = db.QueryRow(`SELECT `+cols+` FROM ingredients WHERE id = ?`, id)
	} else {
		row = db.QueryRow(`SELECT `+cols+` FROM ingredients WHERE name_norm = ?`, normalizeName(idOrName))
	}
	var it model.Ingredient
	if err := row.Scan(&it.ID, &it.Name, &it.BaseUnit, &it.Calories, &it.ProteinG, &it.CarbsG, &it.FatG, &it.Source, &it.SourceRef, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %q", ErrIngredientNotFound, idOrName)
		}
		return nil, fmt.Errorf("resolve ingredient %q: %w", idOrName, err)
	}
	return &it, nil
}

// LoadCatalog snapshots the ingredient table for draft editing.
func LoadCatalog(db *sql.DB) (*catalog.Catalog, error) {
	items, err := ListIngredients(db)
	if err != nil {
		return nil, err
	}
	refs := make([]model.IngredientReference, 0, len(items))
	for _, it := range items {
		refs = append(refs, it.Reference())
	}
	return catalog.New(refs), nil
}

func prepareIngredientInput(in IngredientInput) (IngredientInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SourceRef = strings.TrimSpace(in.SourceRef)
	in.Source = strings.TrimSpace(strings.ToLower(in.Source))
	if in.Source == "" {
		in.Source = SourceManual
	}
	if strings.TrimSpace(in.BaseUnit) == "" {
		in.BaseUnit = nutrition.DefaultUnit
	}
	if err := validateInput(in); err != nil {
		return in, err
	}
	unit, ok := nutrition.NormalizeUnit(in.BaseUnit)
	if !ok {
		return in, fmt.Errorf("unsupported unit %q", in.BaseUnit)
	}
	in.BaseUnit = unit
	return in, nil
}

func scanIngredients(rows *sql.Rows) ([]model.Ingredient, error) {
	items := make([]model.Ingredient, 0)
	for rows.Next() {
		var it model.Ingredient
		if err := rows.Scan(&it.ID, &it.Name, &it.BaseUnit, &it.Calories, &it.ProteinG, &it.CarbsG, &it.FatG, &it.Source, &it.SourceRef, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return items, nil
}

func parseIDLoose(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not numeric")
	}
	return id, nil
}
