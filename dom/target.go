package dom

import (
	"slices"
	"sync"
)

// Event is the native event handed to handlers
type Event interface {
	Type() string
}

// BasicEvent is a plain named event
type BasicEvent struct {
	name string
}

// NewEvent creates a plain event of type name
func NewEvent(name string) *BasicEvent {
	return &BasicEvent{name: name}
}

func (e *BasicEvent) Type() string {
	return e.name
}

// Detail is the payload carried by the custom event re-broadcast on attached targets
type Detail struct {
	Sender any
	Data   any
}

// CustomEvent is the event a Channel dispatches on attached targets
type CustomEvent struct {
	name   string
	detail Detail
}

// NewCustomEvent creates a custom event named name carrying {sender, data}
func NewCustomEvent(name string, sender, data any) *CustomEvent {
	return &CustomEvent{name: name, detail: Detail{Sender: sender, Data: data}}
}

func (e *CustomEvent) Type() string {
	return e.name
}

// Detail returns the {sender, data} payload
func (e *CustomEvent) Detail() Detail {
	return e.detail
}

// HandlerFunc receives the native event plus any extra arguments of the target
type HandlerFunc func(e Event, args ...any)

// Handler is the registration handle of a HandlerFunc; targets match handlers by pointer
type Handler struct {
	fn HandlerFunc
}

// NewHandler wraps fn
func NewHandler(fn HandlerFunc) *Handler {
	return &Handler{fn: fn}
}

// Handle invokes the wrapped function
func (h *Handler) Handle(e Event, args ...any) {
	if h.fn != nil {
		h.fn(e, args...)
	}
}

// ListenerOptions native listener options
type ListenerOptions struct {
	Capture bool `mapstructure:"capture"`
	Once    bool `mapstructure:"once"`
	Passive bool `mapstructure:"passive"`
}

// Target is anything that accepts add/remove listener calls and dispatches events
//
// Implementations follow DOM matching rules: a (name, handler, capture) triple
// is registered at most once, and removal needs the same triple.
//
// A Channel compares targets with ==, so the dynamic type must be comparable
// (a pointer is). Bind and unbind reject other types with ErrTargetNotComparable;
// a comparable struct holding a non-comparable value in an interface field
// still panics on comparison.
type Target interface {
	AddEventListener(name string, h *Handler, opts ListenerOptions)
	RemoveEventListener(name string, h *Handler, opts ListenerOptions)
	// DispatchEvent runs the handlers registered for e.Type() and reports whether any ran
	DispatchEvent(e Event) bool
}

type registration struct {
	name    string
	handler *Handler
	opts    ListenerOptions
}

func (r registration) matches(name string, h *Handler, capture bool) bool {
	return r.name == name && r.handler == h && r.opts.Capture == capture
}

// EventTarget is an in-memory Target
type EventTarget struct {
	mu   sync.Mutex
	regs []registration
}

var _ Target = (*EventTarget)(nil)

// NewEventTarget creates an empty target
func NewEventTarget() *EventTarget {
	return &EventTarget{}
}

func (t *EventTarget) AddEventListener(name string, h *Handler, opts ListenerOptions) {
	if h == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indexLocked(name, h, opts.Capture) >= 0 {
		return
	}
	t.regs = append(t.regs, registration{name: name, handler: h, opts: opts})
}

func (t *EventTarget) RemoveEventListener(name string, h *Handler, opts ListenerOptions) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(name, h, opts.Capture); i >= 0 {
		t.regs = slices.Delete(t.regs, i, i+1)
	}
}

func (t *EventTarget) DispatchEvent(e Event) bool {
	return t.Emit(e) > 0
}

// Emit runs the handlers registered for e.Type() with extra args and returns how many ran
// Capture handlers run first; Once handlers are removed before they run
func (t *EventTarget) Emit(e Event, args ...any) int {
	t.mu.Lock()
	var matched []registration
	for _, capture := range []bool{true, false} {
		for _, r := range t.regs {
			if r.name == e.Type() && r.opts.Capture == capture {
				matched = append(matched, r)
			}
		}
	}
	t.mu.Unlock()

	ran := 0
	for _, r := range matched {
		t.mu.Lock()
		i := t.indexLocked(r.name, r.handler, r.opts.Capture)
		if i < 0 {
			// removed by an earlier handler of this dispatch
			t.mu.Unlock()
			continue
		}
		if r.opts.Once {
			t.regs = slices.Delete(t.regs, i, i+1)
		}
		t.mu.Unlock()

		r.handler.Handle(e, args...)
		ran++
	}
	return ran
}

// ListenerCount returns the number of handlers registered for name
func (t *EventTarget) ListenerCount(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, r := range t.regs {
		if r.name == name {
			n++
		}
	}
	return n
}

func (t *EventTarget) indexLocked(name string, h *Handler, capture bool) int {
	return slices.IndexFunc(t.regs, func(r registration) bool {
		return r.matches(name, h, capture)
	})
}
