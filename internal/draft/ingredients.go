package draft

import (
	"math"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/nutrition"
)

// AddIngredientLine appends a blank line and returns its id, or "" while a
// submission is in flight.
func (d *Draft) AddIngredientLine() string {
	var id string
	d.edit(func() { id = d.addIngredientLine() })
	return id
}

func (d *Draft) addIngredientLine() string {
	id := d.newID()
	d.lines[id] = &model.IngredientLine{ID: id, Unit: nutrition.DefaultUnit}
	d.lineOrder = append(d.lineOrder, id)
	return id
}

// RemoveIngredientLine drops the line unless it is the last one.
func (d *Draft) RemoveIngredientLine(id string) {
	d.edit(func() {
		if _, ok := d.lines[id]; !ok || len(d.lineOrder) <= 1 {
			return
		}
		delete(d.lines, id)
		d.lineOrder = removeID(d.lineOrder, id)
	})
}

// ResolveIngredient binds a line to a catalog reference, copying its name,
// base unit and per-100 macros.
func (d *Draft) ResolveIngredient(id string, ref model.IngredientReference) {
	name := strings.TrimSpace(ref.Name)
	if name == "" || !validMacros(ref.Per100) {
		return
	}
	unit, ok := nutrition.NormalizeUnit(ref.BaseUnit)
	if !ok {
		unit = nutrition.DefaultUnit
	}
	d.editLine(id, func(line *model.IngredientLine) {
		line.Name = name
		line.Unit = unit
		line.MacrosPer100 = ref.Per100
		line.Custom = false
	})
}

// ResolveCustomIngredient binds a line to free text. Macros start at zero
// until corrected with SetMacrosPer100.
func (d *Draft) ResolveCustomIngredient(id, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	d.editLine(id, func(line *model.IngredientLine) {
		line.Name = name
		line.MacrosPer100 = model.Macros{}
		line.Custom = true
	})
}

// UpdateQuantity ignores negative and non-finite values. Zero is accepted and
// means "not specified yet".
func (d *Draft) UpdateQuantity(id string, quantity float64) {
	if quantity < 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return
	}
	d.editLine(id, func(line *model.IngredientLine) { line.Quantity = quantity })
}

// SetUnit accepts only units from the vocabulary.
func (d *Draft) SetUnit(id, unit string) {
	u, ok := nutrition.NormalizeUnit(unit)
	if !ok {
		return
	}
	d.editLine(id, func(line *model.IngredientLine) { line.Unit = u })
}

// SetMacrosPer100 corrects the macro profile of a line, typically a custom one.
func (d *Draft) SetMacrosPer100(id string, m model.Macros) {
	if !validMacros(m) {
		return
	}
	d.editLine(id, func(line *model.IngredientLine) { line.MacrosPer100 = m })
}

func (d *Draft) editLine(id string, fn func(*model.IngredientLine)) {
	d.edit(func() {
		line, ok := d.lines[id]
		if !ok {
			return
		}
		fn(line)
	})
}

// Line returns a copy of one line.
func (d *Draft) Line(id string) (model.IngredientLine, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	line, ok := d.lines[id]
	if !ok {
		return model.IngredientLine{}, false
	}
	return *line, true
}

// IngredientLines returns copies of the lines in display order.
func (d *Draft) IngredientLines() []model.IngredientLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ingredientLines()
}

func (d *Draft) ingredientLines() []model.IngredientLine {
	out := make([]model.IngredientLine, 0, len(d.lineOrder))
	for _, id := range d.lineOrder {
		out = append(out, *d.lines[id])
	}
	return out
}

func validMacros(m model.Macros) bool {
	for _, v := range []float64{m.Calories, m.Protein, m.Carbs, m.Fat} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
