package gesture

import (
	"math"
	"time"
)

// Controller owns at most one gesture session at a time and turns raw
// pointer/touch event sequences into intents. It is not safe for concurrent
// use; UI event delivery is single-threaded.
type Controller struct {
	cfg     Config
	session *session
	editing map[string]bool
}

// Result is what a release resolves to. Err carries a user-visible rejection
// (cross-group drop); the intent is IntentNone in that case.
type Result struct {
	Intent Intent
	Err    error
}

type session struct {
	noteID string
	device DeviceClass
	state  State

	layout Layout
	others []NoteBox // layout minus the dragged note
	origin int       // dragged note's index in layout
	box    NoteBox

	originX, originY float64
	lastX, lastY     float64
	pressedAt        time.Time

	slopExceeded bool
	scrollLocked bool

	// drag tracking
	activated bool    // movement exceeded the activation gate
	activateX float64 // where drag tracking started
	activateY float64
	evalY     float64 // y at the last indicator evaluation
	slot      int     // insertion index into others
	moved     bool    // slot ever left its starting value
}

func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:     cfg,
		editing: make(map[string]bool),
	}
}

// SetEditing marks a note as being edited. An edited note cannot start a
// gesture session.
func (c *Controller) SetEditing(noteID string, editing bool) {
	if editing {
		c.editing[noteID] = true
	} else {
		delete(c.editing, noteID)
	}
}

// State reports the active session state, or StateIdle without a session.
func (c *Controller) State() State {
	if c.session == nil {
		return StateIdle
	}
	return c.session.state
}

// ScrollLocked reports whether page scrolling should be suspended.
func (c *Controller) ScrollLocked() bool {
	return c.session != nil && c.session.scrollLocked
}

// Cancel drops the active session without producing an intent: timers are
// forgotten, the scroll lock is released and the indicator is cleared.
func (c *Controller) Cancel() {
	c.session = nil
}

// StartPointerDrag begins a drag session for a pointer device. Pointer drags
// skip the armed state: the native drag gesture is the activation. Drags from
// interactive regions (buttons, links, inputs) and from notes being edited
// never start. Returns false when no session was started.
func (c *Controller) StartPointerDrag(noteID string, layout Layout, x, y float64, at time.Time, interactive bool) bool {
	if interactive || c.editing[noteID] {
		return false
	}

	s := c.newSession(noteID, DevicePointer, layout, x, y, at)
	if s == nil {
		return false
	}
	s.state = StateDragging
	s.activated = true
	s.activateX, s.activateY = x, y
	s.evalY = y
	c.session = s
	return true
}

// TouchStart arms a touch session. While a drag is in progress, presses on
// other notes are ignored so swipe recognition stays suppressed for the
// duration of the drag.
func (c *Controller) TouchStart(noteID string, layout Layout, x, y float64, at time.Time) bool {
	if c.session != nil && c.session.state == StateDragging {
		return false
	}
	if c.editing[noteID] {
		return false
	}

	s := c.newSession(noteID, DeviceTouch, layout, x, y, at)
	if s == nil {
		return false
	}
	s.state = StateArmed
	c.session = s
	return true
}

func (c *Controller) newSession(noteID string, device DeviceClass, layout Layout, x, y float64, at time.Time) *session {
	origin := -1
	for i, box := range layout {
		if box.ID == noteID {
			origin = i
			break
		}
	}
	if origin == -1 {
		return nil
	}

	others := make([]NoteBox, 0, len(layout)-1)
	others = append(others, layout[:origin]...)
	others = append(others, layout[origin+1:]...)

	return &session{
		noteID:    noteID,
		device:    device,
		layout:    layout,
		others:    others,
		origin:    origin,
		box:       layout[origin],
		originX:   x,
		originY:   y,
		lastX:     x,
		lastY:     y,
		pressedAt: at,
		slot:      origin,
	}
}

// Poll promotes an armed touch session to dragging once the long-press
// deadline has elapsed with movement still under the slop. The embedding UI
// calls it from its long-press timer.
func (c *Controller) Poll(at time.Time) {
	c.maybePromote(at)
}

func (c *Controller) maybePromote(at time.Time) {
	s := c.session
	if s == nil || s.state != StateArmed || s.device != DeviceTouch {
		return
	}
	if s.slopExceeded || at.Sub(s.pressedAt) < c.cfg.LongPress {
		return
	}
	s.state = StateDragging
	s.scrollLocked = true
	s.activateX, s.activateY = s.lastX, s.lastY
	s.evalY = s.lastY
}

// Move feeds a pointer/touch move event into the active session.
func (c *Controller) Move(x, y float64, at time.Time) {
	s := c.session
	if s == nil {
		return
	}
	c.maybePromote(at)

	s.lastX, s.lastY = x, y

	switch s.state {
	case StateArmed:
		if dist(x-s.originX, y-s.originY) > c.cfg.TouchSlop {
			s.slopExceeded = true
		}
	case StateDragging:
		if !s.activated {
			if dist(x-s.activateX, y-s.activateY) < c.cfg.DragActivation {
				return
			}
			s.activated = true
			s.evalY = y
			return
		}
		c.evaluateIndicator(s, y)
	}
}

// evaluateIndicator shifts the insertion indicator by at most one position
// per evaluation, and only once the movement since the last evaluation is
// unambiguous. The dragged note's projected bounds are compared against the
// midpoint of the neighbor the indicator would cross.
func (c *Controller) evaluateIndicator(s *session, y float64) {
	dy := y - s.evalY
	if math.Abs(dy) < c.cfg.DirectionDelta {
		return
	}
	s.evalY = y

	projTop := s.box.Top + (y - s.originY)
	projBottom := projTop + s.box.Height

	if dy > 0 {
		// moving down: pass the midpoint of the note just below
		if s.slot < len(s.others) && projBottom > midpoint(s.others[s.slot]) {
			s.slot++
			s.moved = true
		}
	} else {
		// moving up: pass the midpoint of the note just above
		if s.slot > 0 && projTop < midpoint(s.others[s.slot-1]) {
			s.slot--
			s.moved = true
		}
	}
}

// Indicator exposes the current insertion indicator, or nil when the session
// is not a drag or the indicator has not moved yet.
func (c *Controller) Indicator() *Indicator {
	s := c.session
	if s == nil || s.state != StateDragging || !s.moved {
		return nil
	}
	pinned, pos, ok := s.groupPosition()
	if !ok {
		// indicator currently hovers over the other group
		return &Indicator{Pinned: !s.box.Pinned, Position: 0}
	}
	return &Indicator{Pinned: pinned, Position: pos}
}

// Release ends a pointer drag session.
func (c *Controller) Release(at time.Time) Result {
	return c.finish(at)
}

// TouchEnd ends a touch session: an armed release classifies as a swipe or a
// plain tap, a dragging release resolves the indicator.
func (c *Controller) TouchEnd(at time.Time) Result {
	return c.finish(at)
}

func (c *Controller) finish(at time.Time) Result {
	s := c.session
	if s == nil {
		return Result{}
	}
	c.maybePromote(at)
	c.session = nil

	switch s.state {
	case StateArmed:
		if s.device == DeviceTouch && at.Sub(s.pressedAt) < c.cfg.LongPress {
			return c.classifySwipe(s)
		}
		return Result{}
	case StateDragging:
		return c.resolveDrop(s)
	}
	return Result{}
}

func (c *Controller) classifySwipe(s *session) Result {
	dx := s.lastX - s.originX
	dy := s.lastY - s.originY
	if math.Abs(dx) < c.cfg.SwipeTrigger || math.Abs(dx) < c.cfg.SwipeDominance*math.Abs(dy) {
		return Result{}
	}
	kind := IntentDelete
	if dx > 0 {
		kind = IntentEdit
	}
	return Result{Intent: Intent{Kind: kind, NoteID: s.noteID}}
}

func (c *Controller) resolveDrop(s *session) Result {
	if !s.moved {
		return Result{}
	}
	pinned, pos, ok := s.groupPosition()
	if !ok {
		return Result{Err: ErrCrossGroup}
	}
	return Result{Intent: Intent{
		Kind:     IntentReorder,
		NoteID:   s.noteID,
		Pinned:   pinned,
		Position: pos,
	}}
}

// groupPosition converts the indicator slot into an insertion position within
// the dragged note's own group, expressed against the group's current display
// order (moving note included) as the reconciliation layer expects. ok is
// false when the slot lies in the other group.
func (s *session) groupPosition() (pinned bool, pos int, ok bool) {
	pinnedCount := 0
	for _, box := range s.others {
		if box.Pinned {
			pinnedCount++
		}
	}

	var slotInGroup, originInGroup int
	if s.box.Pinned {
		if s.slot > pinnedCount {
			return false, 0, false
		}
		slotInGroup = s.slot
		originInGroup = s.origin
	} else {
		if s.slot < pinnedCount {
			return false, 0, false
		}
		slotInGroup = s.slot - pinnedCount
		originInGroup = s.origin - pinnedCount
	}

	// Positions at or below the note's own slot already account for its
	// removal; later ones must re-count it.
	pos = slotInGroup
	if slotInGroup > originInGroup {
		pos = slotInGroup + 1
	}
	return s.box.Pinned, pos, true
}

func midpoint(box NoteBox) float64 {
	return box.Top + box.Height/2
}

func dist(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}
