package order

import (
	"testing"
	"time"

	"notedeck/model"
)

func group(indices ...int) []*model.Note {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"A", "B", "C", "D", "E", "F"}
	notes := make([]*model.Note, len(indices))
	for i, v := range indices {
		notes[i] = note(names[i], false, idx(v), base)
	}
	return notes
}

func applyUpdates(notes []*model.Note, updates map[string]int) []*model.Note {
	applied := make([]*model.Note, len(notes))
	for i, n := range notes {
		clone := *n
		if v, ok := updates[n.ID]; ok {
			clone.SortIndex = idx(v)
		}
		applied[i] = &clone
	}
	return applied
}

func TestReorderMoveToFront(t *testing.T) {
	// [A(0) B(1) C(2)], move C to position 0: everything shifts.
	updates := ReorderWithinGroup(group(0, 1, 2), "C", 0)

	want := map[string]int{"C": 0, "A": 1, "B": 2}
	if len(updates) != len(want) {
		t.Fatalf("got %d updates %v, want %v", len(updates), updates, want)
	}
	for id, v := range want {
		if updates[id] != v {
			t.Errorf("updates[%q] = %d, want %d", id, updates[id], v)
		}
	}
}

func TestReorderMoveToEnd(t *testing.T) {
	// Insertion position counts the moving note's own slot, so position 3
	// in a 3-note group means "after the last note".
	updates := ReorderWithinGroup(group(0, 1, 2), "A", 3)

	want := map[string]int{"B": 0, "C": 1, "A": 2}
	if len(updates) != len(want) {
		t.Fatalf("got updates %v, want %v", updates, want)
	}
	for id, v := range want {
		if updates[id] != v {
			t.Errorf("updates[%q] = %d, want %d", id, updates[id], v)
		}
	}
}

func TestReorderNoOp(t *testing.T) {
	tests := []struct {
		name string
		pos  int
	}{
		{name: "own position", pos: 1},
		{name: "slot just after own position", pos: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updates := ReorderWithinGroup(group(0, 1, 2), "B", tt.pos)
			if len(updates) != 0 {
				t.Errorf("expected no updates, got %v", updates)
			}
		})
	}
}

func TestReorderUnknownNoteFailsSafe(t *testing.T) {
	updates := ReorderWithinGroup(group(0, 1, 2), "missing", 0)
	if len(updates) != 0 {
		t.Errorf("expected no updates for unknown note, got %v", updates)
	}
}

func TestReorderClampsInsertionPosition(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		want map[string]int
	}{
		{name: "below range", pos: -5, want: map[string]int{"C": 0, "A": 1, "B": 2}},
		{name: "above range", pos: 99, want: map[string]int{"B": 0, "C": 1, "A": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moving := "C"
			if tt.pos > 0 {
				moving = "A"
			}
			updates := ReorderWithinGroup(group(0, 1, 2), moving, tt.pos)
			if len(updates) != len(tt.want) {
				t.Fatalf("got updates %v, want %v", updates, tt.want)
			}
			for id, v := range tt.want {
				if updates[id] != v {
					t.Errorf("updates[%q] = %d, want %d", id, updates[id], v)
				}
			}
		})
	}
}

func TestReorderEmitsOnlyChangedIndices(t *testing.T) {
	// [A(0) B(1) C(2) D(3)], swap A and B: C and D keep their indices.
	updates := ReorderWithinGroup(group(0, 1, 2, 3), "A", 2)

	want := map[string]int{"B": 0, "A": 1}
	if len(updates) != len(want) {
		t.Fatalf("got updates %v, want %v", updates, want)
	}
	for id, v := range want {
		if updates[id] != v {
			t.Errorf("updates[%q] = %d, want %d", id, updates[id], v)
		}
	}
}

func TestReorderSparseIndicesRenumbered(t *testing.T) {
	// Gappy indices collapse to positions once a reorder touches the group.
	updates := ReorderWithinGroup(group(10, 20, 30), "C", 1)

	want := map[string]int{"A": 0, "C": 1, "B": 2}
	if len(updates) != len(want) {
		t.Fatalf("got updates %v, want %v", updates, want)
	}
	for id, v := range want {
		if updates[id] != v {
			t.Errorf("updates[%q] = %d, want %d", id, updates[id], v)
		}
	}
}

// Round-trip law: applying the emitted updates and re-running Order places the
// moving note exactly at the clamped insertion position.
func TestReorderRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		moving   string
		pos      int
		wantSlot int
	}{
		{name: "front", moving: "D", pos: 0, wantSlot: 0},
		{name: "interior down", moving: "A", pos: 3, wantSlot: 2},
		{name: "interior up", moving: "C", pos: 1, wantSlot: 1},
		{name: "end clamped", moving: "B", pos: 40, wantSlot: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := group(0, 1, 2, 3)
			updates := ReorderWithinGroup(g, tt.moving, tt.pos)

			ordered := Order(applyUpdates(g, updates))
			if ordered[tt.wantSlot].ID != tt.moving {
				t.Errorf("after round trip %q is at %v, want slot %d",
					tt.moving, ids(ordered), tt.wantSlot)
			}
		})
	}
}

func TestReorderNotesWithoutIndices(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := []*model.Note{
		note("A", false, nil, base.Add(2*time.Hour)),
		note("B", false, nil, base.Add(time.Hour)),
		note("C", false, nil, base),
	}

	updates := ReorderWithinGroup(g, "C", 0)

	// Every note gains a concrete index because none had one.
	want := map[string]int{"C": 0, "A": 1, "B": 2}
	if len(updates) != len(want) {
		t.Fatalf("got updates %v, want %v", updates, want)
	}

	ordered := Order(applyUpdates(g, updates))
	assertOrder(t, ordered, []string{"C", "A", "B"})
}
