package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// DoctorReport counts published recipes that break a structural rule.
type DoctorReport struct {
	StepGaps          int `json:"step_gaps"`
	MultipleMainMedia int `json:"multiple_main_media"`
	TotalsMismatch    int `json:"totals_mismatch"`
	Uncategorized     int `json:"uncategorized"`
	FixedSteps        int `json:"fixed_steps,omitempty"`
	FixedTotals       int `json:"fixed_totals,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.StepGaps == 0 && r.MultipleMainMedia == 0 && r.TotalsMismatch == 0 && r.Uncategorized == 0
}

// totalsTolerance absorbs float noise from summing in a different order.
const totalsTolerance = 1e-6

// RunDoctor checks every recipe for contiguous step numbering, at most one
// main media item, stored totals that match their ingredient lines and at
// least one category. With fix, step numbers and totals are rewritten.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}

	gapIDs, err := recipesWithStepGaps(db)
	if err != nil {
		return report, err
	}
	report.StepGaps = len(gapIDs)

	if err := db.QueryRow(`
SELECT COUNT(1) FROM (
  SELECT recipe_id FROM recipe_media WHERE is_main = 1 GROUP BY recipe_id HAVING COUNT(*) > 1
)
`).Scan(&report.MultipleMainMedia); err != nil {
		return report, fmt.Errorf("doctor main media check: %w", err)
	}

	if err := db.QueryRow(`
SELECT COUNT(1) FROM recipes r
WHERE NOT EXISTS (SELECT 1 FROM recipe_categories rc WHERE rc.recipe_id = r.id)
`).Scan(&report.Uncategorized); err != nil {
		return report, fmt.Errorf("doctor category check: %w", err)
	}

	mismatched, err := recipesWithTotalsMismatch(db)
	if err != nil {
		return report, err
	}
	report.TotalsMismatch = len(mismatched)

	if !fix || (len(gapIDs) == 0 && len(mismatched) == 0) {
		return report, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, id := range gapIDs {
		if err := renumberRecipeSteps(tx, id); err != nil {
			return report, err
		}
		report.FixedSteps++
	}
	for id, totals := range mismatched {
		if _, err := tx.Exec(`UPDATE recipes SET calories = ?, protein_g = ?, carbs_g = ?, fat_g = ? WHERE id = ?`,
			totals.Calories, totals.Protein, totals.Carbs, totals.Fat, id); err != nil {
			return report, fmt.Errorf("doctor fix totals for %s: %w", id, err)
		}
		report.FixedTotals++
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}

func recipesWithStepGaps(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
SELECT recipe_id FROM recipe_steps
GROUP BY recipe_id
HAVING MIN(step_order) <> 1 OR MAX(step_order) <> COUNT(*)
ORDER BY recipe_id
`)
	if err != nil {
		return nil, fmt.Errorf("doctor step order check: %w", err)
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("doctor step order scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctor step order iterate: %w", err)
	}
	return ids, nil
}

func recipesWithTotalsMismatch(db *sql.DB) (map[string]model.Macros, error) {
	recipes, err := ListRecipes(db, "")
	if err != nil {
		return nil, err
	}
	out := map[string]model.Macros{}
	for _, r := range recipes {
		items, err := ListRecipeIngredients(db, r.ID)
		if err != nil {
			return nil, err
		}
		lines := make([]model.IngredientLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, model.IngredientLine{Name: it.Name, Quantity: it.Quantity, Unit: it.Unit, MacrosPer100: it.MacrosPer100})
		}
		want := nutrition.ComputeTotals(lines)
		stored := model.Macros{Calories: r.Calories, Protein: r.Protein, Carbs: r.Carbs, Fat: r.Fat}
		if !macrosClose(want, stored) {
			out[r.ID] = want
		}
	}
	return out, nil
}

func renumberRecipeSteps(tx *sql.Tx, recipeID string) error {
	rows, err := tx.Query(`SELECT id FROM recipe_steps WHERE recipe_id = ? ORDER BY step_order ASC, id ASC`, recipeID)
	if err != nil {
		return fmt.Errorf("doctor read steps for %s: %w", recipeID, err)
	}
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return fmt.Errorf("doctor scan step: %w", err)
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	// Park rows above any real order so UNIQUE(recipe_id, step_order) never
	// sees a collision mid-update.
	if _, err := tx.Exec(`UPDATE recipe_steps SET step_order = step_order + 1000000 WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("doctor park steps for %s: %w", recipeID, err)
	}
	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE recipe_steps SET step_order = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("doctor renumber step %d: %w", id, err)
		}
	}
	return nil
}

func macrosClose(a, b model.Macros) bool {
	return math.Abs(a.Calories-b.Calories) <= totalsTolerance &&
		math.Abs(a.Protein-b.Protein) <= totalsTolerance &&
		math.Abs(a.Carbs-b.Carbs) <= totalsTolerance &&
		math.Abs(a.Fat-b.Fat) <= totalsTolerance
}

func CreateBackup(dbPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dbPath) == "" {
		return BackupInfo{}, fmt.Errorf("db path is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(dbPath, outPath); err != nil {
		return BackupInfo{}, err
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup copies a backup over dbPath after verifying its checksum
// file when one exists.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if expected, err := os.ReadFile(backupPath + ".sha256"); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
