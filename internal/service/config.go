package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/catalog"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/draft"
)

const (
	ConfigSearchLimit     = "search_limit"
	ConfigMainImagePolicy = "main_image_policy"
	ConfigMaintainerEmail = "maintainer_email"
)

func SetConfig(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	value = strings.TrimSpace(value)
	if err := validateConfigValue(key, value); err != nil {
		return err
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

// SearchLimit is the configured ingredient search page size.
func SearchLimit(db *sql.DB) (int, error) {
	v, ok, err := GetConfig(db, ConfigSearchLimit)
	if err != nil {
		return 0, err
	}
	if !ok {
		return catalog.DefaultSearchLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return catalog.DefaultSearchLimit, nil
	}
	return n, nil
}

func MainImagePolicy(db *sql.DB) (draft.MainImagePolicy, error) {
	v, _, err := GetConfig(db, ConfigMainImagePolicy)
	if err != nil {
		return draft.MainImageManual, err
	}
	p, _ := draft.ParseMainImagePolicy(v)
	return p, nil
}

func validateConfigValue(key, value string) error {
	switch key {
	case ConfigSearchLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > 100 {
			return fmt.Errorf("%s must be an integer between 1 and 100", key)
		}
	case ConfigMainImagePolicy:
		if _, ok := draft.ParseMainImagePolicy(value); !ok {
			return fmt.Errorf("%s must be manual or promote-first", key)
		}
	case ConfigMaintainerEmail:
		if err := inputValidator().Var(value, "omitempty,email"); err != nil {
			return fmt.Errorf("%s must be an email address", key)
		}
	}
	return nil
}
