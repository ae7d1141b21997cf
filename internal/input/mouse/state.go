package mouse

import "fmt"

// HoldFrames is the default number of consecutive down samples after which
// a press is treated as drag intent instead of a click.
const HoldFrames Frame = 5

// Kind tags the active interaction state.
type Kind uint8

const (
	// KindIdle means no button is down.
	KindIdle Kind = iota
	// KindHolding means a button is down and the gesture is not yet classified.
	KindHolding
	// KindClick is the edge state of a press released before the hold threshold.
	KindClick
	// KindDragStarted is the edge state of the frame the hold threshold is crossed.
	KindDragStarted
	// KindDragging means a drag gesture is in progress.
	KindDragging
	// KindDragEnded is the edge state of the frame a drag stops.
	KindDragEnded
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindHolding:
		return "holding"
	case KindClick:
		return "click"
	case KindDragStarted:
		return "drag-started"
	case KindDragging:
		return "dragging"
	case KindDragEnded:
		return "drag-ended"
	default:
		return "unknown"
	}
}

// IsEdge returns true for the single-frame states.
func (k Kind) IsEdge() bool {
	return k == KindClick || k == KindDragStarted || k == KindDragEnded
}

// State is the mouse interaction state. Only the fields of the active Kind
// are meaningful; the zero value is Idle.
type State struct {
	Kind Kind

	// Since is the frame the hold began (Holding only).
	Since Frame

	// Left and Right are the buttons seen down while holding (Holding), or
	// the buttons that were released (Click).
	Left  bool
	Right bool
}

// Idle returns the idle state.
func Idle() State { return State{Kind: KindIdle} }

// Holding returns a hold that began at since with the given buttons seen down.
func Holding(since Frame, left, right bool) State {
	return State{Kind: KindHolding, Since: since, Left: left, Right: right}
}

// Click returns a click of the given buttons.
func Click(left, right bool) State {
	return State{Kind: KindClick, Left: left, Right: right}
}

// DragStarted returns the drag-started edge state.
func DragStarted() State { return State{Kind: KindDragStarted} }

// Dragging returns the dragging state.
func Dragging() State { return State{Kind: KindDragging} }

// DragEnded returns the drag-ended edge state.
func DragEnded() State { return State{Kind: KindDragEnded} }

// Is returns true if the state has the given kind.
func (s State) Is(k Kind) bool {
	return s.Kind == k
}

func (s State) String() string {
	switch s.Kind {
	case KindHolding:
		return fmt.Sprintf("holding(since=%d)", s.Since)
	case KindClick:
		return fmt.Sprintf("click(left=%t, right=%t)", s.Left, s.Right)
	default:
		return s.Kind.String()
	}
}

// Next advances prev by one frame using the default hold threshold.
func Next(prev State, s Sample, frame Frame) State {
	return Transition(prev, s, frame, HoldFrames)
}

// Transition computes the state for frame from the previous state and the
// frame's sample. It is a two-phase tick: edge states retire first without
// looking at the sample, everything else is evaluated against it.
//
// An unknown Kind is a programming error and panics.
func Transition(prev State, s Sample, frame Frame, hold Frame) State {
	if next, ok := retire(prev); ok {
		return next
	}
	return evaluate(prev, s, frame, max(hold, 1))
}

// retire returns the successor of an edge state.
func retire(prev State) (State, bool) {
	switch prev.Kind {
	case KindClick, KindDragEnded:
		return Idle(), true
	case KindDragStarted:
		return Dragging(), true
	}
	return State{}, false
}

func evaluate(prev State, s Sample, frame Frame, hold Frame) State {
	switch prev.Kind {
	case KindIdle:
		if s.AnyDown() {
			return Holding(frame, s.Left, s.Right)
		}
		return prev

	case KindHolding:
		if !s.AnyDown() {
			return Click(prev.Left, prev.Right)
		}
		if heldFrames(prev.Since, frame) >= hold {
			return DragStarted()
		}
		return Holding(prev.Since, prev.Left || s.Left, prev.Right || s.Right)

	case KindDragging:
		if !s.AnyDown() {
			return DragEnded()
		}
		return prev
	}

	panic(fmt.Sprintf("mouse: unknown interaction state %d", prev.Kind))
}

// heldFrames counts the down samples of a hold, the press frame included.
func heldFrames(since, frame Frame) Frame {
	if frame < since {
		return 1
	}
	return frame - since + 1
}
