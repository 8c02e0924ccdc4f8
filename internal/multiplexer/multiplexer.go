package multiplexer

import (
	"context"

	"slotsync/internal/mapping"
)

// Enumerator reports the focused window's current tab layout. A nil window
// with a nil error means nothing is focused; callers degrade to an empty
// mapping rather than failing.
type Enumerator interface {
	CurrentWindow(ctx context.Context) (*mapping.Window, error)
}

// Events exposes the host's push notifications as level-triggered wake
// channels. Only "did one occur" matters, never how many: implementations
// coalesce bursts instead of queueing them.
type Events interface {
	// LayoutChanged wakes when tabs are added, removed, or rearranged.
	LayoutChanged() <-chan struct{}
	// SessionTerminated wakes when a session ends.
	SessionTerminated() <-chan struct{}
}

// Signal is a coalescing wake channel: raising an already-raised signal is a
// no-op, so a burst of notifications collapses into a single wake.
type Signal chan struct{}

// NewSignal returns a signal with a one-slot buffer.
func NewSignal() Signal {
	return make(Signal, 1)
}

// Raise wakes any waiter without blocking.
func (s Signal) Raise() {
	select {
	case s <- struct{}{}:
	default:
	}
}
