package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/draft"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/gate"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

// RecipeStore publishes drafts into the local database.
type RecipeStore struct {
	DB *sql.DB
	// NewID overrides recipe id generation, mostly for tests.
	NewID func() string
}

// SubmitRecipe writes the recipe with its ingredients, steps, media and
// category links in one transaction and returns the new recipe id.
func (s RecipeStore) SubmitRecipe(ctx context.Context, authorID string, snap draft.Snapshot) (string, error) {
	if s.DB == nil {
		return "", fmt.Errorf("recipe store has no database")
	}
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return "", fmt.Errorf("author is required")
	}
	if res := gate.Evaluate(snap); !res.IsValid {
		return "", fmt.Errorf("recipe is incomplete: %s", strings.Join(res.Missing(), ", "))
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(snap.PreparationTime))
	if err != nil || minutes < 1 {
		return "", fmt.Errorf("preparation time must be a whole number of minutes")
	}
	servings, err := strconv.Atoi(strings.TrimSpace(snap.Servings))
	if err != nil || servings <= 0 {
		return "", fmt.Errorf("servings must be > 0")
	}
	totals := nutrition.ComputeTotals(snap.Ingredients)

	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	recipeID := newID()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin recipe tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO recipes(id, author_id, title, description, preparation_time_minutes, servings, difficulty, calories, protein_g, carbs_g, fat_g)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, recipeID, authorID, strings.TrimSpace(snap.Title), strings.TrimSpace(snap.Description), minutes, servings, snap.Difficulty,
		totals.Calories, totals.Protein, totals.Carbs, totals.Fat); err != nil {
		return "", fmt.Errorf("insert recipe: %w", err)
	}

	for i, line := range snap.Ingredients {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO recipe_ingredients(recipe_id, position, name, quantity, unit, calories_per100, protein_per100, carbs_per100, fat_per100)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, recipeID, i+1, strings.TrimSpace(line.Name), line.Quantity, line.Unit,
			line.MacrosPer100.Calories, line.MacrosPer100.Protein, line.MacrosPer100.Carbs, line.MacrosPer100.Fat); err != nil {
			return "", fmt.Errorf("insert recipe ingredient %d: %w", i+1, err)
		}
	}

	for i, step := range snap.Steps {
		if _, err := tx.ExecContext(ctx, `INSERT INTO recipe_steps(recipe_id, step_order, description) VALUES(?, ?, ?)`,
			recipeID, i+1, strings.TrimSpace(step.Description)); err != nil {
			return "", fmt.Errorf("insert recipe step %d: %w", i+1, err)
		}
	}

	for i, m := range snap.Media {
		if _, err := tx.ExecContext(ctx, `INSERT INTO recipe_media(recipe_id, position, kind, source, is_main) VALUES(?, ?, ?, ?, ?)`,
			recipeID, i+1, string(m.Kind), m.Source, boolToInt(m.IsMain)); err != nil {
			return "", fmt.Errorf("insert recipe media %d: %w", i+1, err)
		}
	}

	for _, name := range snap.Categories {
		categoryID, err := categoryIDByName(tx, name)
		if err != nil {
			return "", err
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO recipe_categories(recipe_id, category_id) VALUES(?, ?)`, recipeID, categoryID); err != nil {
			return "", fmt.Errorf("link recipe category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit recipe: %w", err)
	}
	return recipeID, nil
}

const recipeColumns = `id, author_id, title, description, preparation_time_minutes, servings, difficulty, calories, protein_g, carbs_g, fat_g, created_at`

func scanRecipe(scan func(dest ...any) error) (model.Recipe, error) {
	var r model.Recipe
	err := scan(&r.ID, &r.AuthorID, &r.Title, &r.Description, &r.PreparationTimeMinutes, &r.Servings, &r.Difficulty,
		&r.Calories, &r.Protein, &r.Carbs, &r.Fat, &r.CreatedAt)
	return r, err
}

// ListRecipes returns published recipes, newest first. An empty author lists
// every author.
func ListRecipes(db *sql.DB, authorID string) ([]model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes`
	args := []any{}
	if a := strings.TrimSpace(authorID); a != "" {
		query += ` WHERE author_id = ?`
		args = append(args, a)
	}
	query += ` ORDER BY created_at DESC, title ASC`
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return items, nil
}

// ResolveRecipe finds a recipe by id, falling back to a case-insensitive
// title match.
func ResolveRecipe(db *sql.DB, idOrTitle string) (*model.Recipe, error) {
	idOrTitle = strings.TrimSpace(idOrTitle)
	if idOrTitle == "" {
		return nil, fmt.Errorf("recipe identifier is required")
	}
	r, err := scanRecipe(db.QueryRow(`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, idOrTitle).Scan)
	if err == sql.ErrNoRows {
		r, err = scanRecipe(db.QueryRow(`SELECT `+recipeColumns+` FROM recipes WHERE LOWER(title) = LOWER(?) ORDER BY created_at DESC LIMIT 1`, idOrTitle).Scan)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %q", ErrRecipeNotFound, idOrTitle)
		}
		return nil, fmt.Errorf("resolve recipe %q: %w", idOrTitle, err)
	}
	return &r, nil
}

func DeleteRecipe(db *sql.DB, idOrTitle string) error {
	recipe, err := ResolveRecipe(db, idOrTitle)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM recipes WHERE id = ?`, recipe.ID); err != nil {
		return fmt.Errorf("delete recipe %q: %w", idOrTitle, err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
