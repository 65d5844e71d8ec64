package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/catalog"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

const maxSearchLimit = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchIngredients is the stored counterpart of catalog.Search: a
// case-insensitive substring match on the ingredient name, ordered by name and
// bounded by limit.
func SearchIngredients(db *sql.DB, query string, limit int) ([]model.IngredientReference, error) {
	if limit <= 0 {
		limit = catalog.DefaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	pattern := "%" + likeEscaper.Replace(normalizeName(query)) + "%"
	rows, err := db.Query(`
SELECT id, name, base_unit, calories, protein_g, carbs_g, fat_g, source, source_ref, created_at, updated_at
FROM ingredients
WHERE name_norm LIKE ? ESCAPE '\'
ORDER BY name_norm ASC
LIMIT ?
`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	defer rows.Close()
	items, err := scanIngredients(rows)
	if err != nil {
		return nil, err
	}
	refs := make([]model.IngredientReference, 0, len(items))
	for _, it := range items {
		refs = append(refs, it.Reference())
	}
	return refs, nil
}
