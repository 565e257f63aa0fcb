package gesture

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// stack builds a layout of 40px-tall notes, pinned ones first.
func stack(pinned int, ids ...string) Layout {
	layout := make(Layout, len(ids))
	for i, id := range ids {
		layout[i] = NoteBox{
			ID:     id,
			Pinned: i < pinned,
			Top:    float64(i * 40),
			Height: 40,
		}
	}
	return layout
}

func TestSwipeClassification(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		held     time.Duration
		want     IntentKind
	}{
		{name: "rightward swipe is edit", dx: 80, dy: 10, held: 200 * time.Millisecond, want: IntentEdit},
		{name: "leftward swipe is delete", dx: -90, dy: 5, held: 200 * time.Millisecond, want: IntentDelete},
		{name: "below trigger distance", dx: 60, dy: 0, held: 200 * time.Millisecond, want: IntentNone},
		{name: "vertical movement dominates", dx: 80, dy: 70, held: 200 * time.Millisecond, want: IntentNone},
		{name: "released after long-press deadline", dx: 80, dy: 10, held: 500 * time.Millisecond, want: IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(DefaultConfig())
			if !c.TouchStart("a", stack(0, "a", "b"), 100, 100, t0) {
				t.Fatal("touch session did not start")
			}
			c.Move(100+tt.dx, 100+tt.dy, t0.Add(tt.held/2))
			res := c.TouchEnd(t0.Add(tt.held))

			if res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
			if res.Intent.Kind != tt.want {
				t.Errorf("intent = %v, want %v", res.Intent.Kind, tt.want)
			}
			if tt.want != IntentNone && res.Intent.NoteID != "a" {
				t.Errorf("intent note = %q, want %q", res.Intent.NoteID, "a")
			}
		})
	}
}

func TestLongPressPromotesToDrag(t *testing.T) {
	c := NewController(DefaultConfig())
	c.TouchStart("b", stack(0, "a", "b", "c"), 20, 60, t0)

	if c.State() != StateArmed {
		t.Fatalf("state = %v, want armed", c.State())
	}

	c.Poll(t0.Add(400 * time.Millisecond))
	if c.State() != StateDragging {
		t.Fatalf("state = %v, want dragging after long press", c.State())
	}
	if !c.ScrollLocked() {
		t.Error("scroll should be locked for the duration of a touch drag")
	}
}

func TestSlopCancelsLongPressPromotion(t *testing.T) {
	c := NewController(DefaultConfig())
	c.TouchStart("a", stack(0, "a", "b"), 20, 20, t0)
	c.Move(20, 45, t0.Add(100*time.Millisecond)) // 25px, over the slop

	c.Poll(t0.Add(400 * time.Millisecond))
	if c.State() != StateArmed {
		t.Errorf("state = %v, want still armed after slop movement", c.State())
	}
	if c.ScrollLocked() {
		t.Error("scroll must not lock without a drag")
	}
}

func TestPointerDragReorderDown(t *testing.T) {
	c := NewController(DefaultConfig())
	// A at 0-40, B at 40-80, C at 80-120, all unpinned.
	if !c.StartPointerDrag("A", stack(0, "A", "B", "C"), 10, 20, t0, false) {
		t.Fatal("pointer drag did not start")
	}

	// Projected bottom passes B's midpoint (60).
	c.Move(10, 50, t0.Add(16*time.Millisecond))

	ind := c.Indicator()
	if ind == nil {
		t.Fatal("indicator not set after crossing a midpoint")
	}
	if ind.Pinned || ind.Position != 2 {
		t.Errorf("indicator = %+v, want unpinned position 2", ind)
	}

	res := c.Release(t0.Add(32 * time.Millisecond))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Intent.Kind != IntentReorder || res.Intent.NoteID != "A" || res.Intent.Position != 2 {
		t.Errorf("intent = %+v, want reorder of A to position 2", res.Intent)
	}
}

func TestIndicatorAdvancesOnePositionPerEvaluation(t *testing.T) {
	c := NewController(DefaultConfig())
	c.StartPointerDrag("A", stack(0, "A", "B", "C", "D"), 10, 20, t0, false)

	// One huge jump to the bottom still only advances the indicator once.
	c.Move(10, 140, t0.Add(16*time.Millisecond))

	ind := c.Indicator()
	if ind == nil || ind.Position != 2 {
		t.Fatalf("indicator = %+v, want position 2 after a single evaluation", ind)
	}

	// Subsequent evaluations keep walking one position at a time.
	c.Move(10, 145, t0.Add(32*time.Millisecond))
	c.Move(10, 150, t0.Add(48*time.Millisecond))

	if ind := c.Indicator(); ind == nil || ind.Position != 4 {
		t.Errorf("indicator = %+v, want position 4 after further evaluations", ind)
	}
}

func TestIndicatorIgnoresJitter(t *testing.T) {
	c := NewController(DefaultConfig())
	c.StartPointerDrag("B", stack(0, "A", "B", "C"), 10, 60, t0, false)

	// Sub-threshold wiggles never move the indicator.
	c.Move(10, 62, t0.Add(16*time.Millisecond))
	c.Move(10, 59, t0.Add(32*time.Millisecond))
	c.Move(10, 61, t0.Add(48*time.Millisecond))

	if ind := c.Indicator(); ind != nil {
		t.Errorf("indicator = %+v, want none for jitter", ind)
	}

	res := c.Release(t0.Add(64 * time.Millisecond))
	if res.Intent.Kind != IntentNone || res.Err != nil {
		t.Errorf("release without indicator should be a no-op, got %+v", res)
	}
}

func TestTouchDragActivationGate(t *testing.T) {
	c := NewController(DefaultConfig())
	c.TouchStart("A", stack(0, "A", "B", "C"), 10, 20, t0)
	c.Poll(t0.Add(400 * time.Millisecond))

	// 5px is below the activation movement: the indicator must not update.
	c.Move(10, 25, t0.Add(420*time.Millisecond))
	if ind := c.Indicator(); ind != nil {
		t.Errorf("indicator = %+v before activation movement", ind)
	}

	// Crossing the gate activates tracking; later moves drive the indicator.
	c.Move(10, 30, t0.Add(440*time.Millisecond))
	c.Move(10, 55, t0.Add(460*time.Millisecond))

	ind := c.Indicator()
	if ind == nil || ind.Position != 2 {
		t.Errorf("indicator = %+v, want position 2 after activation", ind)
	}
}

func TestCrossGroupDropRejected(t *testing.T) {
	c := NewController(DefaultConfig())
	// P pinned at 0-40; A, B unpinned below.
	c.StartPointerDrag("A", stack(1, "P", "A", "B"), 10, 60, t0, false)

	// Projected top passes P's midpoint (20).
	c.Move(10, 35, t0.Add(16*time.Millisecond))

	res := c.Release(t0.Add(32 * time.Millisecond))
	if !errors.Is(res.Err, ErrCrossGroup) {
		t.Fatalf("err = %v, want ErrCrossGroup", res.Err)
	}
	if res.Intent.Kind != IntentNone {
		t.Errorf("cross-group drop must not produce an intent, got %+v", res.Intent)
	}
}

func TestPinnedNoteReordersWithinPinnedGroup(t *testing.T) {
	c := NewController(DefaultConfig())
	// P1, P2 pinned; U unpinned.
	c.StartPointerDrag("P1", stack(2, "P1", "P2", "U"), 10, 20, t0, false)

	c.Move(10, 50, t0.Add(16*time.Millisecond))

	res := c.Release(t0.Add(32 * time.Millisecond))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Intent.Kind != IntentReorder || !res.Intent.Pinned || res.Intent.Position != 2 {
		t.Errorf("intent = %+v, want pinned reorder to position 2", res.Intent)
	}
}

func TestCancelClearsSession(t *testing.T) {
	c := NewController(DefaultConfig())
	c.TouchStart("A", stack(0, "A", "B"), 10, 20, t0)
	c.Poll(t0.Add(400 * time.Millisecond))

	c.Cancel()

	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle after cancel", c.State())
	}
	if c.ScrollLocked() {
		t.Error("scroll lock must be released on cancel")
	}
	if res := c.TouchEnd(t0.Add(time.Second)); res.Intent.Kind != IntentNone {
		t.Errorf("release after cancel produced %+v", res.Intent)
	}
}

func TestEditingNoteCannotStartSession(t *testing.T) {
	c := NewController(DefaultConfig())
	c.SetEditing("A", true)

	if c.StartPointerDrag("A", stack(0, "A", "B"), 10, 20, t0, false) {
		t.Error("pointer drag started on a note being edited")
	}
	if c.TouchStart("A", stack(0, "A", "B"), 10, 20, t0) {
		t.Error("touch session started on a note being edited")
	}

	c.SetEditing("A", false)
	if !c.TouchStart("A", stack(0, "A", "B"), 10, 20, t0) {
		t.Error("touch session should start once editing ends")
	}
}

func TestDragSuppressesOtherSessions(t *testing.T) {
	c := NewController(DefaultConfig())
	c.StartPointerDrag("A", stack(0, "A", "B"), 10, 20, t0, false)

	if c.TouchStart("B", stack(0, "A", "B"), 10, 60, t0.Add(time.Millisecond)) {
		t.Error("touch session started while a drag was active")
	}
	if c.State() != StateDragging {
		t.Errorf("state = %v, drag must survive the rejected press", c.State())
	}
}

func TestInteractiveRegionNeverDrags(t *testing.T) {
	c := NewController(DefaultConfig())
	if c.StartPointerDrag("A", stack(0, "A", "B"), 10, 20, t0, true) {
		t.Error("drag started from an interactive region")
	}
}

func TestUnknownNoteNeverStartsSession(t *testing.T) {
	c := NewController(DefaultConfig())
	if c.TouchStart("ghost", stack(0, "A", "B"), 10, 20, t0) {
		t.Error("session started for a note missing from the layout")
	}
}
