package draft

import "github.com/computaria2025/FitCooker-v2-sub000/internal/model"

// AddStep appends a blank step numbered after the last one.
func (d *Draft) AddStep() string {
	var id string
	d.edit(func() { id = d.addStep() })
	return id
}

func (d *Draft) addStep() string {
	id := d.newID()
	d.steps[id] = &model.StepLine{ID: id}
	d.stepOrder = append(d.stepOrder, id)
	d.renumberSteps()
	return id
}

// RemoveStep drops the step unless it is the last one, then renumbers the
// rest 1..N in their current order.
func (d *Draft) RemoveStep(id string) {
	d.edit(func() {
		if _, ok := d.steps[id]; !ok || len(d.stepOrder) <= 1 {
			return
		}
		delete(d.steps, id)
		d.stepOrder = removeID(d.stepOrder, id)
		d.renumberSteps()
	})
}

func (d *Draft) UpdateStep(id, description string) {
	d.edit(func() {
		if step, ok := d.steps[id]; ok {
			step.Description = description
		}
	})
}

// MoveStep shifts a step by delta positions, clamped to the list bounds.
func (d *Draft) MoveStep(id string, delta int) {
	d.edit(func() {
		from := -1
		for i, candidate := range d.stepOrder {
			if candidate == id {
				from = i
				break
			}
		}
		if from < 0 || delta == 0 {
			return
		}
		to := from + delta
		if to < 0 {
			to = 0
		}
		if to > len(d.stepOrder)-1 {
			to = len(d.stepOrder) - 1
		}
		order := removeID(d.stepOrder, id)
		order = append(order, "")
		copy(order[to+1:], order[to:])
		order[to] = id
		d.stepOrder = order
		d.renumberSteps()
	})
}

func (d *Draft) renumberSteps() {
	for i, id := range d.stepOrder {
		d.steps[id].Order = i + 1
	}
}

// Steps returns copies of the steps in order.
func (d *Draft) Steps() []model.StepLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepLines()
}

func (d *Draft) stepLines() []model.StepLine {
	out := make([]model.StepLine, 0, len(d.stepOrder))
	for _, id := range d.stepOrder {
		out = append(out, *d.steps[id])
	}
	return out
}
