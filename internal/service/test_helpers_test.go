package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/db"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/draft"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitcooker.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

var (
	chicken = model.IngredientReference{Name: "Peito de Frango", BaseUnit: "g", Per100: model.Macros{Calories: 165, Protein: 31, Fat: 3.6}}
	rice    = model.IngredientReference{Name: "Arroz Branco", BaseUnit: "g", Per100: model.Macros{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3}}
)

// readySnapshot is a publishable draft: chicken 200 g with rice 100 g, three
// steps, one main image and two servings.
func readySnapshot(t *testing.T) draft.Snapshot {
	t.Helper()
	d := draft.New()
	d.SetTitle("Frango com arroz")
	d.SetDescription("Clássico do almoço.")
	d.SetPreparationTime("30")
	d.SetServings("2")
	d.SetDifficulty(draft.DifficultyEasy)
	d.ToggleCategory("Almoço")
	d.ToggleCategory("Fitness")

	first := d.IngredientLines()[0].ID
	d.ResolveIngredient(first, chicken)
	d.UpdateQuantity(first, 200)
	second := d.AddIngredientLine()
	d.ResolveIngredient(second, rice)
	d.UpdateQuantity(second, 100)

	d.UpdateStep(d.Steps()[0].ID, "Tempere o frango.")
	d.UpdateStep(d.AddStep(), "Grelhe o frango.")
	d.UpdateStep(d.AddStep(), "Sirva com arroz.")

	d.AddMedia(model.MediaVideo, "https://example.com/v.mp4")
	img := d.AddMedia(model.MediaImage, "https://example.com/capa.jpg")
	d.SetMainImage(img)

	snap := d.Snapshot()
	if len(snap.Ingredients) != 2 || len(snap.Steps) != 3 {
		t.Fatalf("unexpected fixture %+v", snap)
	}
	return snap
}
