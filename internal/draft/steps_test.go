package draft_test

import "testing"

func stepOrders(t *testing.T, ids []string, orders []int, wantIDs []string) {
	t.Helper()
	if len(ids) != len(wantIDs) {
		t.Fatalf("expected steps %v, got %v", wantIDs, ids)
	}
	for i := range ids {
		if ids[i] != wantIDs[i] {
			t.Fatalf("expected steps %v, got %v", wantIDs, ids)
		}
		if orders[i] != i+1 {
			t.Fatalf("expected contiguous order, got %v", orders)
		}
	}
}

func TestRemoveMiddleStepRenumbers(t *testing.T) {
	t.Parallel()
	d := newTestDraft()
	first := d.Steps()[0].ID
	second := d.AddStep()
	third := d.AddStep()
	d.UpdateStep(third, "servir")

	d.RemoveStep(second)

	steps := d.Steps()
	ids := []string{steps[0].ID, steps[1].ID}
	orders := []int{steps[0].Order, steps[1].Order}
	stepOrders(t, ids, orders, []string{first, third})
	if steps[1].Description != "servir" || steps[1].Order != 2 {
		t.Fatalf("expected former step 3 to be step 2, got %+v", steps[1])
	}
}

func TestRemoveAnyStepKeepsContiguousOrder(t *testing.T) {
	t.Parallel()
	for n := 2; n <= 6; n++ {
		for victim := 0; victim < n; victim++ {
			d := newTestDraft()
			all := []string{d.Steps()[0].ID}
			for i := 1; i < n; i++ {
				all = append(all, d.AddStep())
			}
			d.RemoveStep(all[victim])

			want := append(append([]string{}, all[:victim]...), all[victim+1:]...)
			steps := d.Steps()
			ids := make([]string, 0, len(steps))
			orders := make([]int, 0, len(steps))
			for _, s := range steps {
				ids = append(ids, s.ID)
				orders = append(orders, s.Order)
			}
			stepOrders(t, ids, orders, want)
		}
	}
}

func TestRemoveStepKeepsAtLeastOne(t *testing.T) {
	t.Parallel()
	d := newTestDraft()
	only := d.Steps()[0].ID
	d.RemoveStep(only)
	steps := d.Steps()
	if len(steps) != 1 || steps[0].ID != only || steps[0].Order != 1 {
		t.Fatalf("expected the only step to survive, got %+v", steps)
	}
}

func TestMoveStep(t *testing.T) {
	t.Parallel()
	d := newTestDraft()
	a := d.Steps()[0].ID
	b := d.AddStep()
	c := d.AddStep()

	d.MoveStep(c, -2)
	steps := d.Steps()
	stepOrders(t, []string{steps[0].ID, steps[1].ID, steps[2].ID}, []int{steps[0].Order, steps[1].Order, steps[2].Order}, []string{c, a, b})

	d.MoveStep(c, 10)
	steps = d.Steps()
	stepOrders(t, []string{steps[0].ID, steps[1].ID, steps[2].ID}, []int{steps[0].Order, steps[1].Order, steps[2].Order}, []string{a, b, c})
}
