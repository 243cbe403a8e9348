package event

import (
	"fmt"
	"sync/atomic"
)

// ListenerFunc is the callback invoked on dispatch
// A returned error (or a panic) is logged by the channel and never reaches the dispatcher
type ListenerFunc func(sender, data any) error

var listenerSeq atomic.Uint64

// Listener is the subscription handle of a ListenerFunc
// Two subscriptions are "the same listener" when they use the same *Listener
type Listener struct {
	fn   ListenerFunc
	name string
}

// NewListener wraps fn in a new handle
func NewListener(fn ListenerFunc) *Listener {
	return NewNamedListener(fmt.Sprintf("listener#%d", listenerSeq.Add(1)), fn)
}

// NewNamedListener wraps fn in a new handle; name only shows up in logs
func NewNamedListener(name string, fn ListenerFunc) *Listener {
	return &Listener{fn: fn, name: name}
}

// Name returns the name used in log entries
func (l *Listener) Name() string {
	return l.name
}

// Handle invokes the callback
func (l *Listener) Handle(sender, data any) error {
	if l.fn == nil {
		return nil
	}
	return l.fn(sender, data)
}
