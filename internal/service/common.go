package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateInput runs struct tag validation and reports the first failing
// field in a readable form.
func validateInput(in any) error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", strings.ToLower(fe.Field()))
		case "gte":
			return fmt.Errorf("%s must be >= %s", strings.ToLower(fe.Field()), fe.Param())
		case "max":
			return fmt.Errorf("%s must be at most %s characters", strings.ToLower(fe.Field()), fe.Param())
		default:
			return fmt.Errorf("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag())
		}
	}
	return fmt.Errorf("validate input: %w", err)
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func categoryIDByName(q querier, category string) (int64, error) {
	name := normalizeName(category)
	if name == "" {
		return 0, fmt.Errorf("category name is required")
	}
	var id int64
	if err := q.QueryRow(`SELECT id FROM categories WHERE name_norm = ?`, name).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("category %q does not exist", strings.TrimSpace(category))
		}
		return 0, fmt.Errorf("lookup category %q: %w", name, err)
	}
	return id, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}
