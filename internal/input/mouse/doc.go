// Package mouse interprets raw per-frame mouse samples as discrete
// interaction events.
//
// The window backend produces one Sample per frame: the pointer position in
// window-client coordinates and whether the left and right buttons are down.
// Samples are noisy: a press followed by a quick release should read as a
// click, while a press held in place should read as the start of a drag.
// Transition classifies the sample stream into one of six states:
//
//	Idle -> Holding -> Click -> Idle
//	Idle -> Holding -> DragStarted -> Dragging -> DragEnded -> Idle
//
// # Edge States
//
// Click, DragStarted and DragEnded are edge states. They are visible for
// exactly one frame and retire unconditionally on the next evaluation, so a
// consumer reading the state once per frame observes each gesture exactly
// once.
//
// # Hold Threshold
//
// A press becomes a drag once a button has been down for HoldFrames
// consecutive samples, the press frame counting as the first. Releasing
// earlier yields Click.
//
// # Machine
//
// Transition is a pure function. Machine wraps it with the frame counter and
// the current state for the UI loop:
//
//	m := mouse.NewMachine(mouse.WithHoldFrames(5))
//	state := m.Tick(sample)
//	if state.Is(mouse.KindDragging) {
//	    // move the captured element
//	}
//
// # Thread Safety
//
// Machine is not safe for concurrent use. It is owned by the frame loop.
package mouse
