package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

func AddCategory(db *sql.DB, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if _, err := db.Exec(`INSERT INTO categories(name, name_norm, is_default) VALUES(?, ?, 0)`, name, normalizeName(name)); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("category %q already exists", name)
		}
		return fmt.Errorf("add category %q: %w", name, err)
	}
	return nil
}

func ListCategories(db *sql.DB) ([]model.Category, error) {
	rows, err := db.Query(`SELECT id, name, is_default, created_at FROM categories ORDER BY name_norm`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		var isDefault int
		if err := rows.Scan(&c.ID, &c.Name, &isDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.IsDefault = isDefault == 1
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// CategoryNames lists category names for draft validation.
func CategoryNames(db *sql.DB) ([]string, error) {
	cats, err := ListCategories(db)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out, nil
}

// DeleteCategory removes a non-default category that no recipe uses.
func DeleteCategory(db *sql.DB, name string) error {
	id, err := categoryIDByName(db, name)
	if err != nil {
		return err
	}
	var isDefault, used int
	if err := db.QueryRow(`SELECT is_default FROM categories WHERE id = ?`, id).Scan(&isDefault); err != nil {
		return fmt.Errorf("read category %q: %w", name, err)
	}
	if isDefault == 1 {
		return fmt.Errorf("default category %q cannot be deleted", strings.TrimSpace(name))
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM recipe_categories WHERE category_id = ?`, id).Scan(&used); err != nil {
		return fmt.Errorf("count category usage: %w", err)
	}
	if used > 0 {
		return fmt.Errorf("category %q is used by %d recipe(s)", strings.TrimSpace(name), used)
	}
	if _, err := db.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %q: %w", name, err)
	}
	return nil
}

// SuggestionStore records category suggestions for a maintainer to review.
type SuggestionStore struct {
	DB *sql.DB
}

func (s SuggestionStore) SuggestCategory(ctx context.Context, name, suggestedBy string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	if _, err := s.DB.ExecContext(ctx, `INSERT INTO category_suggestions(name, suggested_by) VALUES(?, ?)`,
		name, strings.TrimSpace(suggestedBy)); err != nil {
		return fmt.Errorf("record category suggestion %q: %w", name, err)
	}
	return nil
}

func ListSuggestions(db *sql.DB) ([]model.CategorySuggestion, error) {
	rows, err := db.Query(`SELECT id, name, suggested_by, created_at FROM category_suggestions ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list category suggestions: %w", err)
	}
	defer rows.Close()
	items := make([]model.CategorySuggestion, 0)
	for rows.Next() {
		var it model.CategorySuggestion
		if err := rows.Scan(&it.ID, &it.Name, &it.SuggestedBy, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category suggestion: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category suggestions: %w", err)
	}
	return items, nil
}

// ApproveSuggestion turns a suggestion into a category and clears every
// suggestion with the same normalized name.
func ApproveSuggestion(db *sql.DB, id int64) (string, error) {
	var name string
	if err := db.QueryRow(`SELECT name FROM category_suggestions WHERE id = ?`, id).Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("category suggestion %d not found", id)
		}
		return "", fmt.Errorf("read category suggestion %d: %w", id, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT OR IGNORE INTO categories(name, name_norm, is_default) VALUES(?, ?, 0)`, name, normalizeName(name)); err != nil {
		return "", fmt.Errorf("add category %q: %w", name, err)
	}
	if _, err := tx.Exec(`DELETE FROM category_suggestions WHERE LOWER(TRIM(name)) = LOWER(TRIM(?))`, name); err != nil {
		return "", fmt.Errorf("clear category suggestions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit approve: %w", err)
	}
	return name, nil
}
