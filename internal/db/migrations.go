package db

import (
	"database/sql"
	"fmt"
	"strings"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  name_norm TEXT NOT NULL UNIQUE,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ingredients (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  name_norm TEXT NOT NULL UNIQUE,
  base_unit TEXT NOT NULL,
  calories REAL NOT NULL CHECK(calories >= 0),
  protein_g REAL NOT NULL CHECK(protein_g >= 0),
  carbs_g REAL NOT NULL CHECK(carbs_g >= 0),
  fat_g REAL NOT NULL CHECK(fat_g >= 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recipes (
  id TEXT PRIMARY KEY,
  author_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  preparation_time_minutes INTEGER NOT NULL CHECK(preparation_time_minutes >= 1),
  servings INTEGER NOT NULL CHECK(servings > 0),
  difficulty TEXT NOT NULL,
  calories REAL NOT NULL CHECK(calories >= 0),
  protein_g REAL NOT NULL CHECK(protein_g >= 0),
  carbs_g REAL NOT NULL CHECK(carbs_g >= 0),
  fat_g REAL NOT NULL CHECK(fat_g >= 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_recipes_author_id ON recipes(author_id);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  recipe_id TEXT NOT NULL,
  position INTEGER NOT NULL CHECK(position >= 1),
  name TEXT NOT NULL,
  quantity REAL NOT NULL CHECK(quantity > 0),
  unit TEXT NOT NULL,
  calories_per100 REAL NOT NULL CHECK(calories_per100 >= 0),
  protein_per100 REAL NOT NULL CHECK(protein_per100 >= 0),
  carbs_per100 REAL NOT NULL CHECK(carbs_per100 >= 0),
  fat_per100 REAL NOT NULL CHECK(fat_per100 >= 0),
  FOREIGN KEY(recipe_id) REFERENCES recipes(id) ON DELETE CASCADE,
  UNIQUE(recipe_id, position)
);

CREATE TABLE IF NOT EXISTS recipe_steps (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  recipe_id TEXT NOT NULL,
  step_order INTEGER NOT NULL CHECK(step_order >= 1),
  description TEXT NOT NULL,
  FOREIGN KEY(recipe_id) REFERENCES recipes(id) ON DELETE CASCADE,
  UNIQUE(recipe_id, step_order)
);

CREATE TABLE IF NOT EXISTS recipe_categories (
  recipe_id TEXT NOT NULL,
  category_id INTEGER NOT NULL,
  PRIMARY KEY(recipe_id, category_id),
  FOREIGN KEY(recipe_id) REFERENCES recipes(id) ON DELETE CASCADE,
  FOREIGN KEY(category_id) REFERENCES categories(id)
);
`,
	},
	{
		version: 2,
		name:    "recipe_media",
		sql: `
CREATE TABLE IF NOT EXISTS recipe_media (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  recipe_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  kind TEXT NOT NULL CHECK(kind IN ('image', 'video')),
  source TEXT NOT NULL,
  is_main INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY(recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_recipe_media_single_main ON recipe_media(recipe_id) WHERE is_main = 1;
`,
	},
	{
		version: 3,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 4,
		name:    "category_suggestions",
		sql: `
CREATE TABLE IF NOT EXISTS category_suggestions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  suggested_by TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 5,
		name:    "ingredient_source",
		sql: `
ALTER TABLE ingredients ADD COLUMN source TEXT NOT NULL DEFAULT 'manual';
ALTER TABLE ingredients ADD COLUMN source_ref TEXT NOT NULL DEFAULT '';
`,
	},
}

var defaultCategories = []string{
	"Café da manhã",
	"Almoço",
	"Jantar",
	"Lanche",
	"Sobremesa",
	"Vegano",
	"Vegetariano",
	"Low Carb",
	"Fitness",
	"Sem Glúten",
}

type seedIngredient struct {
	name                          string
	unit                          string
	calories, protein, carbs, fat float64
}

// Per 100 g or 100 ml.
var defaultIngredients = []seedIngredient{
	{"Peito de Frango", "g", 165, 31, 0, 3.6},
	{"Arroz Branco", "g", 130, 2.7, 28, 0.3},
	{"Arroz Integral", "g", 124, 2.6, 25.8, 1},
	{"Feijão Carioca", "g", 76, 4.8, 13.6, 0.5},
	{"Ovo", "g", 143, 12.6, 0.7, 9.5},
	{"Aveia em Flocos", "g", 389, 16.9, 66.3, 6.9},
	{"Banana", "g", 89, 1.1, 22.8, 0.3},
	{"Batata Doce", "g", 86, 1.6, 20.1, 0.1},
	{"Leite Integral", "ml", 61, 3.2, 4.8, 3.3},
	{"Azeite de Oliva", "ml", 884, 0, 0, 100},
	{"Brócolis", "g", 34, 2.8, 6.6, 0.4},
	{"Tomate", "g", 18, 0.9, 3.9, 0.2},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return seed(db)
}

func seed(db *sql.DB) error {
	for _, name := range defaultCategories {
		if _, err := db.Exec(`INSERT OR IGNORE INTO categories(name, name_norm, is_default) VALUES(?, ?, 1)`, name, strings.ToLower(name)); err != nil {
			return fmt.Errorf("seed default category %s: %w", name, err)
		}
	}
	for _, it := range defaultIngredients {
		if _, err := db.Exec(`
INSERT OR IGNORE INTO ingredients(name, name_norm, base_unit, calories, protein_g, carbs_g, fat_g, source)
VALUES(?, ?, ?, ?, ?, ?, ?, 'seed')
`, it.name, strings.ToLower(it.name), it.unit, it.calories, it.protein, it.carbs, it.fat); err != nil {
			return fmt.Errorf("seed ingredient %s: %w", it.name, err)
		}
	}
	return nil
}

// SchemaVersion reports the highest applied migration.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// LatestVersion is the version ApplyMigrations brings a database to.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}
