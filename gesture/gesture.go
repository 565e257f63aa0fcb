package gesture

import (
	"errors"
	"time"
)

// ErrCrossGroup rejects a drop whose insertion indicator lands in the other
// pinned/unpinned group. The message is shown to the user as-is.
var ErrCrossGroup = errors.New("notes cannot be dragged between pinned and unpinned groups")

// DeviceClass separates the two input paths: pointer devices drag natively,
// touch devices arm first and promote on long-press.
type DeviceClass int

const (
	DevicePointer DeviceClass = iota
	DeviceTouch
)

// State is the lifecycle of one press-to-release session.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateDragging
)

// IntentKind classifies what a completed gesture asks for.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentReorder
	IntentEdit
	IntentDelete
)

// Intent is the resolved outcome of a gesture session. Position is an
// insertion position into the note's own group, directly consumable by the
// reconciliation layer.
type Intent struct {
	Kind     IntentKind
	NoteID   string
	Pinned   bool
	Position int
}

// NoteBox is one note's vertical extent in the display order captured when a
// session starts. Boxes must appear in display order: pinned block first.
type NoteBox struct {
	ID     string
	Pinned bool
	Top    float64
	Height float64
}

// Layout is the note list snapshot a session drags against. Snapshots taken
// mid-gesture by the realtime stream do not replace it; staleness is resolved
// at release time by the reconciliation layer's not-found no-op.
type Layout []NoteBox

// Indicator marks where the dragged note would be inserted.
type Indicator struct {
	Pinned   bool
	Position int
}

// Config holds the gesture thresholds. Distances are in CSS pixels.
type Config struct {
	LongPress      time.Duration // touch press promotes to drag after this
	TouchSlop      float64       // movement above this cancels long-press promotion
	SwipeTrigger   float64       // min horizontal travel for a swipe
	SwipeDominance float64       // horizontal delta must be >= this times vertical
	DragActivation float64       // drag movement before the indicator starts updating
	DirectionDelta float64       // min move per evaluation before the indicator shifts
}

func DefaultConfig() Config {
	return Config{
		LongPress:      360 * time.Millisecond,
		TouchSlop:      10,
		SwipeTrigger:   72,
		SwipeDominance: 1.25,
		DragActivation: 8,
		DirectionDelta: 4,
	}
}
