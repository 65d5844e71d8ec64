// Package nutrition turns ingredient lines into recipe-level macro figures.
//
// Nothing here rounds: rounding is left to whoever renders the numbers, so
// totals stay exact under repeated recomputation.
package nutrition

import (
	"math"
	"strconv"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

// Counts reports whether a line takes part in the totals: it needs a name
// and a positive quantity.
func Counts(line model.IngredientLine) bool {
	return strings.TrimSpace(line.Name) != "" && line.Quantity > 0
}

// LineContribution is macrosPer100 * quantity / 100 for a counting line and
// zero otherwise.
func LineContribution(line model.IngredientLine) model.Macros {
	if !Counts(line) {
		return model.Macros{}
	}
	return line.MacrosPer100.Scale(line.Quantity / 100)
}

func ComputeTotals(lines []model.IngredientLine) model.Macros {
	var total model.Macros
	for _, line := range lines {
		total = total.Add(LineContribution(line))
	}
	return total
}

// ComputePerServing divides totals by servings. ok is false when servings is
// not a usable positive number; the returned value is then zero.
func ComputePerServing(totals model.Macros, servings float64) (model.Macros, bool) {
	if servings <= 0 || math.IsNaN(servings) || math.IsInf(servings, 0) {
		return model.Macros{}, false
	}
	return totals.Scale(1 / servings), true
}

// ParseServings reads a servings option ("4", "2.5") as a number.
func ParseServings(value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Round is the display rounding used by the CLI and previews.
func Round(m model.Macros) model.Macros {
	return model.Macros{
		Calories: math.Round(m.Calories),
		Protein:  math.Round(m.Protein),
		Carbs:    math.Round(m.Carbs),
		Fat:      math.Round(m.Fat),
	}
}
