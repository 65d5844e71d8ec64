package nutrition_test

import (
	"math"
	"testing"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

var (
	chicken = model.Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}
	rice    = model.Macros{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3}
)

func approxMacros(t *testing.T, label string, got, want model.Macros) {
	t.Helper()
	const eps = 1e-9
	if math.Abs(got.Calories-want.Calories) > eps ||
		math.Abs(got.Protein-want.Protein) > eps ||
		math.Abs(got.Carbs-want.Carbs) > eps ||
		math.Abs(got.Fat-want.Fat) > eps {
		t.Fatalf("%s: expected %+v, got %+v", label, want, got)
	}
}

func TestLineContributionChickenBreast(t *testing.T) {
	t.Parallel()
	line := model.IngredientLine{Name: "Peito de Frango", Quantity: 200, Unit: "g", MacrosPer100: chicken}
	approxMacros(t, "chicken 200g", nutrition.LineContribution(line), model.Macros{Calories: 330, Protein: 62, Carbs: 0, Fat: 7.2})
}

func TestComputeTotalsTwoLines(t *testing.T) {
	t.Parallel()
	lines := []model.IngredientLine{
		{Name: "Peito de Frango", Quantity: 200, Unit: "g", MacrosPer100: chicken},
		{Name: "Arroz Branco", Quantity: 100, Unit: "g", MacrosPer100: rice},
	}
	approxMacros(t, "totals", nutrition.ComputeTotals(lines), model.Macros{Calories: 460, Protein: 64.7, Carbs: 28, Fat: 7.5})
}

func TestLineContributionIsLinearInQuantity(t *testing.T) {
	t.Parallel()
	for _, q := range []float64{1, 37.5, 100, 250} {
		single := nutrition.LineContribution(model.IngredientLine{Name: "Arroz", Quantity: q, MacrosPer100: rice})
		double := nutrition.LineContribution(model.IngredientLine{Name: "Arroz", Quantity: 2 * q, MacrosPer100: rice})
		approxMacros(t, "doubled quantity", double, single.Scale(2))
	}
	zero := nutrition.LineContribution(model.IngredientLine{Name: "Arroz", Quantity: 0, MacrosPer100: rice})
	if !zero.IsZero() {
		t.Fatalf("expected zero quantity to contribute nothing, got %+v", zero)
	}
}

func TestComputeTotalsIsAdditive(t *testing.T) {
	t.Parallel()
	lines := []model.IngredientLine{
		{Name: "Peito de Frango", Quantity: 180, MacrosPer100: chicken},
		{Name: "Arroz Branco", Quantity: 75, MacrosPer100: rice},
		{Name: "", Quantity: 40, MacrosPer100: rice},
		{Name: "Azeite", Quantity: 13, MacrosPer100: model.Macros{Calories: 884, Fat: 100}},
	}
	var sum model.Macros
	for _, line := range lines {
		sum = sum.Add(nutrition.ComputeTotals([]model.IngredientLine{line}))
	}
	approxMacros(t, "additivity", nutrition.ComputeTotals(lines), sum)
}

func TestIncompleteLinesContributeNothing(t *testing.T) {
	t.Parallel()
	cases := []model.IngredientLine{
		{Name: "", Quantity: 100, MacrosPer100: chicken},
		{Name: "   ", Quantity: 100, MacrosPer100: chicken},
		{Name: "Peito de Frango", Quantity: 0, MacrosPer100: chicken},
		{Name: "Peito de Frango", Quantity: -10, MacrosPer100: chicken},
	}
	for _, line := range cases {
		if got := nutrition.LineContribution(line); !got.IsZero() {
			t.Fatalf("expected %+v to contribute zero, got %+v", line, got)
		}
	}
	if got := nutrition.ComputeTotals(nil); !got.IsZero() {
		t.Fatalf("expected empty totals, got %+v", got)
	}
}

func TestComputePerServing(t *testing.T) {
	t.Parallel()
	totals := model.Macros{Calories: 460, Protein: 64.7, Carbs: 28, Fat: 7.5}
	per, ok := nutrition.ComputePerServing(totals, 2)
	if !ok {
		t.Fatalf("expected per-serving figures for 2 servings")
	}
	approxMacros(t, "per serving", per, model.Macros{Calories: 230, Protein: 32.35, Carbs: 14, Fat: 3.75})

	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, ok := nutrition.ComputePerServing(totals, s); ok {
			t.Fatalf("expected servings %v to be rejected", s)
		}
	}
}

func TestParseServings(t *testing.T) {
	t.Parallel()
	if v, ok := nutrition.ParseServings(" 4 "); !ok || v != 4 {
		t.Fatalf("expected 4 servings, got %v %v", v, ok)
	}
	for _, in := range []string{"", "abc", "0", "-2"} {
		if _, ok := nutrition.ParseServings(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestRoundIsDisplayOnly(t *testing.T) {
	t.Parallel()
	totals := model.Macros{Calories: 460.4, Protein: 64.7, Carbs: 28, Fat: 7.5}
	rounded := nutrition.Round(totals)
	if rounded.Calories != 460 || rounded.Protein != 65 || rounded.Fat != 8 {
		t.Fatalf("unexpected rounding %+v", rounded)
	}
	if totals.Protein != 64.7 {
		t.Fatalf("rounding must not touch the source totals")
	}
}
