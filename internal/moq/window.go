package moq

import "errors"

// ErrInvalidWindow is returned when a window's bounds are inverted.
var ErrInvalidWindow = errors.New("moq: invalid window: start exceeds end")

// ErrInvalidWindowUpdate is returned when a window update would widen the
// current range or invert the bounds. Active windows may only be narrowed.
var ErrInvalidWindowUpdate = errors.New("moq: invalid window update: windows may only be narrowed")

// SubscribeWindow is the Location range a subscriber has requested. Start is
// inclusive; End is inclusive, or LiveEdge for an unbounded window. It is an
// immutable value: updates produce a new window.
type SubscribeWindow struct {
	Start Location
	End   Location
}

// NewSubscribeWindow validates and builds a window. End == LiveEdge means
// unbounded above.
func NewSubscribeWindow(start, end Location) (SubscribeWindow, error) {
	if !end.IsLiveEdge() && end.Less(start) {
		return SubscribeWindow{}, ErrInvalidWindow
	}
	return SubscribeWindow{Start: start, End: end}, nil
}

// OpenEnded returns a window from start to the live edge.
func OpenEnded(start Location) SubscribeWindow {
	return SubscribeWindow{Start: start, End: LiveEdge}
}

// Contains reports whether loc falls inside the window. An unbounded end
// admits every Location at or above Start.
func (w SubscribeWindow) Contains(loc Location) bool {
	if loc.Less(w.Start) {
		return false
	}
	if w.End.IsLiveEdge() {
		return true
	}
	return !w.End.Less(loc)
}

// Narrow returns a new window with the proposed bounds. It fails with
// ErrInvalidWindowUpdate unless the new range is a subset of the current one
// with newStart <= newEnd.
func (w SubscribeWindow) Narrow(newStart, newEnd Location) (SubscribeWindow, error) {
	if !newEnd.IsLiveEdge() && newEnd.Less(newStart) {
		return SubscribeWindow{}, ErrInvalidWindowUpdate
	}
	if newStart.Less(w.Start) {
		return SubscribeWindow{}, ErrInvalidWindowUpdate
	}
	if newEnd.IsLiveEdge() && !w.End.IsLiveEdge() {
		return SubscribeWindow{}, ErrInvalidWindowUpdate
	}
	if !newEnd.IsLiveEdge() && !w.End.IsLiveEdge() && w.End.Less(newEnd) {
		return SubscribeWindow{}, ErrInvalidWindowUpdate
	}
	return SubscribeWindow{Start: newStart, End: newEnd}, nil
}

// ClampStart returns a copy of w with Start raised to at least min. Used when
// the eviction boundary passes the window start; it never lowers Start.
func (w SubscribeWindow) ClampStart(min Location) SubscribeWindow {
	if w.Start.Less(min) {
		w.Start = min
	}
	return w
}
