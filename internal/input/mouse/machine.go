package mouse

// Observer is called when a tick changes the kind of interaction state.
type Observer func(frame Frame, from, to State)

// Machine owns the frame counter and the current interaction state.
type Machine struct {
	state    State
	frame    Frame
	hold     Frame
	observer Observer
}

// Option configures a Machine.
type Option func(*Machine)

// WithHoldFrames sets the hold threshold. Values below one are raised to one.
func WithHoldFrames(n Frame) Option {
	return func(m *Machine) {
		m.hold = max(n, 1)
	}
}

// WithObserver registers a transition observer.
func WithObserver(fn Observer) Option {
	return func(m *Machine) {
		m.observer = fn
	}
}

// NewMachine creates an idle machine at frame zero.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		state: Idle(),
		hold:  HoldFrames,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tick starts a new frame and advances the state with the frame's sample.
func (m *Machine) Tick(s Sample) State {
	m.frame++

	prev := m.state
	m.state = Transition(prev, s, m.frame, m.hold)

	if m.observer != nil && m.state.Kind != prev.Kind {
		m.observer(m.frame, prev, m.state)
	}
	return m.state
}

// State returns the current interaction state.
func (m *Machine) State() State {
	return m.state
}

// Frame returns the current frame number.
func (m *Machine) Frame() Frame {
	return m.frame
}

// HoldFrames returns the hold threshold.
func (m *Machine) HoldFrames() Frame {
	return m.hold
}

// SetHoldFrames changes the hold threshold. A hold in progress is measured
// against the new value from the next tick on.
func (m *Machine) SetHoldFrames(n Frame) {
	m.hold = max(n, 1)
}
