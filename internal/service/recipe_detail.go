package service

import (
	"database/sql"
	"fmt"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

// RecipeDetail is a published recipe with all of its child rows.
type RecipeDetail struct {
	Recipe      model.Recipe
	Ingredients []model.RecipeIngredient
	Steps       []model.RecipeStep
	Media       []model.RecipeMedia
	Categories  []string
}

func GetRecipeDetail(db *sql.DB, idOrTitle string) (*RecipeDetail, error) {
	recipe, err := ResolveRecipe(db, idOrTitle)
	if err != nil {
		return nil, err
	}
	out := &RecipeDetail{Recipe: *recipe}
	if out.Ingredients, err = ListRecipeIngredients(db, recipe.ID); err != nil {
		return nil, err
	}
	if out.Steps, err = ListRecipeSteps(db, recipe.ID); err != nil {
		return nil, err
	}
	if out.Media, err = ListRecipeMedia(db, recipe.ID); err != nil {
		return nil, err
	}
	if out.Categories, err = ListRecipeCategories(db, recipe.ID); err != nil {
		return nil, err
	}
	return out, nil
}

func ListRecipeIngredients(db *sql.DB, recipeID string) ([]model.RecipeIngredient, error) {
	rows, err := db.Query(`
SELECT id, recipe_id, position, name, quantity, unit, calories_per100, protein_per100, carbs_per100, fat_per100
FROM recipe_ingredients
WHERE recipe_id = ?
ORDER BY position ASC
`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe ingredients: %w", err)
	}
	defer rows.Close()
	items := make([]model.RecipeIngredient, 0)
	for rows.Next() {
		var it model.RecipeIngredient
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.Position, &it.Name, &it.Quantity, &it.Unit,
			&it.MacrosPer100.Calories, &it.MacrosPer100.Protein, &it.MacrosPer100.Carbs, &it.MacrosPer100.Fat); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe ingredients: %w", err)
	}
	return items, nil
}

func ListRecipeSteps(db *sql.DB, recipeID string) ([]model.RecipeStep, error) {
	rows, err := db.Query(`
SELECT id, recipe_id, step_order, description
FROM recipe_steps
WHERE recipe_id = ?
ORDER BY step_order ASC
`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe steps: %w", err)
	}
	defer rows.Close()
	items := make([]model.RecipeStep, 0)
	for rows.Next() {
		var it model.RecipeStep
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.StepOrder, &it.Description); err != nil {
			return nil, fmt.Errorf("scan recipe step: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe steps: %w", err)
	}
	return items, nil
}

func ListRecipeMedia(db *sql.DB, recipeID string) ([]model.RecipeMedia, error) {
	rows, err := db.Query(`
SELECT id, recipe_id, kind, source, is_main
FROM recipe_media
WHERE recipe_id = ?
ORDER BY position ASC
`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe media: %w", err)
	}
	defer rows.Close()
	items := make([]model.RecipeMedia, 0)
	for rows.Next() {
		var it model.RecipeMedia
		var kind string
		var isMain int
		if err := rows.Scan(&it.ID, &it.RecipeID, &kind, &it.Source, &isMain); err != nil {
			return nil, fmt.Errorf("scan recipe media: %w", err)
		}
		it.Kind = model.MediaKind(kind)
		it.IsMain = isMain == 1
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe media: %w", err)
	}
	return items, nil
}

func ListRecipeCategories(db *sql.DB, recipeID string) ([]string, error) {
	rows, err := db.Query(`
SELECT c.name
FROM recipe_categories rc JOIN categories c ON c.id = rc.category_id
WHERE rc.recipe_id = ?
ORDER BY c.name_norm ASC
`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe categories: %w", err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan recipe category: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe categories: %w", err)
	}
	return out, nil
}
