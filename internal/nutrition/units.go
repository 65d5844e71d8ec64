package nutrition

import (
	"fmt"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

type unitKind string

const (
	unitKindMass   unitKind = "mass"
	unitKindVolume unitKind = "volume"
	unitKindCount  unitKind = "count"
)

type unitDef struct {
	kind       unitKind
	toBaseUnit float64
}

// DefaultUnit is assigned to new lines until an ingredient is resolved.
const DefaultUnit = "g"

var unitTable = map[string]unitDef{
	// mass (base = g)
	"mg": {kind: unitKindMass, toBaseUnit: 0.001},
	"g":  {kind: unitKindMass, toBaseUnit: 1},
	"kg": {kind: unitKindMass, toBaseUnit: 1000},

	// volume (base = ml)
	"ml":             {kind: unitKindVolume, toBaseUnit: 1},
	"l":              {kind: unitKindVolume, toBaseUnit: 1000},
	"xícara":         {kind: unitKindVolume, toBaseUnit: 240},
	"colher de sopa": {kind: unitKindVolume, toBaseUnit: 15},
	"colher de chá":  {kind: unitKindVolume, toBaseUnit: 5},

	// household counts have no base conversion
	"unidade": {kind: unitKindCount, toBaseUnit: 1},
	"fatia":   {kind: unitKindCount, toBaseUnit: 1},
	"pitada":  {kind: unitKindCount, toBaseUnit: 1},
}

var unitAliases = map[string]string{
	"gramas":   "g",
	"grama":    "g",
	"grams":    "g",
	"xicara":   "xícara",
	"cup":      "xícara",
	"tbsp":     "colher de sopa",
	"tsp":      "colher de chá",
	"un":       "unidade",
	"unidades": "unidade",
	"litro":    "l",
	"litros":   "l",
}

// Units lists the unit vocabulary offered to a line, in display order.
func Units() []string {
	return []string{"g", "kg", "mg", "ml", "l", "xícara", "colher de sopa", "colher de chá", "unidade", "fatia", "pitada"}
}

// NormalizeUnit maps user input onto the vocabulary. ok is false for units
// outside it.
func NormalizeUnit(unit string) (string, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if alias, found := unitAliases[u]; found {
		u = alias
	}
	if _, found := unitTable[u]; !found {
		return "", false
	}
	return u, true
}

// ConvertQuantity converts value between two units of the same kind.
func ConvertQuantity(value float64, fromUnit, toUnit string) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("amount must be > 0")
	}
	from, ok := resolveUnit(fromUnit)
	if !ok {
		return 0, fmt.Errorf("unsupported unit %q", fromUnit)
	}
	to, ok := resolveUnit(toUnit)
	if !ok {
		return 0, fmt.Errorf("unsupported unit %q", toUnit)
	}
	if from.kind != to.kind {
		return 0, fmt.Errorf("cannot convert %s to %s", fromUnit, toUnit)
	}
	if from.kind == unitKindCount && !sameUnit(fromUnit, toUnit) {
		return 0, fmt.Errorf("cannot convert %s to %s", fromUnit, toUnit)
	}
	return value * from.toBaseUnit / to.toBaseUnit, nil
}

// Per100FromServing rescales macros reported for one serving to the
// per-100-base-unit form used by the catalog. It returns the base unit the
// result is expressed in.
func Per100FromServing(servingAmount float64, servingUnit string, perServing model.Macros) (model.Macros, string, error) {
	if err := validateMacros(perServing); err != nil {
		return model.Macros{}, "", err
	}
	def, ok := resolveUnit(servingUnit)
	if !ok {
		return model.Macros{}, "", fmt.Errorf("unsupported unit %q", servingUnit)
	}
	base := "g"
	switch def.kind {
	case unitKindVolume:
		base = "ml"
	case unitKindCount:
		base = "unidade"
	}
	amount, err := ConvertQuantity(servingAmount, servingUnit, base)
	if err != nil {
		return model.Macros{}, "", err
	}
	return perServing.Scale(100 / amount), base, nil
}

func validateMacros(m model.Macros) error {
	if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return fmt.Errorf("macros must be >= 0")
	}
	return nil
}

func sameUnit(a, b string) bool {
	na, _ := NormalizeUnit(a)
	nb, _ := NormalizeUnit(b)
	return na == nb
}

func resolveUnit(unit string) (unitDef, bool) {
	u, ok := NormalizeUnit(unit)
	if !ok {
		return unitDef{}, false
	}
	return unitTable[u], true
}
