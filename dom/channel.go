// Package dom bridges an event channel to native event targets
//
// A Channel is an event.Channel that also re-broadcasts every dispatch as a
// CustomEvent on its attached targets, and that can be driven by native
// events through BindToDOMEvent.
package dom

import (
	"reflect"
	"slices"
	"sync"

	"github.com/KOMKZ/go-yogan-listener/errcode"
	"github.com/KOMKZ/go-yogan-listener/event"
	"github.com/KOMKZ/go-yogan-listener/options"
)

// Payload is the data dispatched when a bound native event fires
type Payload struct {
	Event Event
	Args  []any
}

type binding struct {
	target  Target
	name    string
	handler *Handler
	opts    ListenerOptions
}

// Channel is an event channel wired to native targets
//
// Targets are compared with ==, so they must be comparable (pointer targets are).
type Channel struct {
	*event.Channel

	mu       sync.RWMutex
	bindings []binding
	attached []Target
	defaults Config
}

var _ event.Emitter = (*Channel)(nil)

// NewChannel creates a channel named name
func NewChannel(name string, opts ...Option) *Channel {
	s := settings{defaults: DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Channel{
		Channel:  event.NewChannel(name, s.event...),
		defaults: s.defaults,
	}
}

// DOMDefaults returns the bind/unbind defaults
func (c *Channel) DOMDefaults() Config {
	return c.defaults
}

// Dispatch runs the listeners, then dispatches a CustomEvent carrying {sender, data} on every attached target
func (c *Channel) Dispatch(sender, data any, opts ...event.DispatchOption) {
	c.Channel.Dispatch(sender, data, opts...)

	c.mu.RLock()
	targets := slices.Clone(c.attached)
	c.mu.RUnlock()

	for _, t := range targets {
		t.DispatchEvent(NewCustomEvent(c.Name(), sender, data))
	}
}

// BindToDOMEvent makes native eventName events of target dispatch on this channel
// The channel dispatches with target as sender and a Payload as data; one binding per (target, eventName)
//
// Binding an attached target to the channel's own name recurses without limit:
// the re-broadcast CustomEvent fires the binding, which dispatches again.
func (c *Channel) BindToDOMEvent(target Target, eventName string, opts ...BindOption) (bool, error) {
	o := options.Apply(c.defaults.Bind, opts...)
	if err := checkTarget(target); err != nil {
		return c.fail(o.ShouldThrowErrors, err, "dom_event", eventName)
	}

	c.mu.Lock()
	if c.bindingLocked(target, eventName) >= 0 {
		c.mu.Unlock()
		return c.fail(o.ShouldThrowErrors, ErrAlreadyBound, "dom_event", eventName)
	}
	h := NewHandler(func(e Event, args ...any) {
		c.Dispatch(target, Payload{Event: e, Args: args})
	})
	c.bindings = append(c.bindings, binding{target: target, name: eventName, handler: h, opts: o.ListenerOptions})
	c.mu.Unlock()

	target.AddEventListener(eventName, h, o.ListenerOptions)
	return true, nil
}

// UnbindDOMEvent removes the binding of (target, eventName) and its native handler
func (c *Channel) UnbindDOMEvent(target Target, eventName string, opts ...UnbindOption) (bool, error) {
	o := options.Apply(c.defaults.Unbind, opts...)
	if err := checkTarget(target); err != nil {
		return c.fail(o.ShouldThrowErrors, err, "dom_event", eventName)
	}

	c.mu.Lock()
	i := c.bindingLocked(target, eventName)
	if i < 0 {
		c.mu.Unlock()
		return c.fail(o.ShouldThrowErrors, ErrNotBound, "dom_event", eventName)
	}
	b := c.bindings[i]
	c.bindings = slices.Delete(c.bindings, i, i+1)
	c.mu.Unlock()

	target.RemoveEventListener(b.name, b.handler, b.opts)
	return true, nil
}

// AttachToDOMElement adds target to the re-broadcast set; attaching twice is a no-op
// Nil and non-comparable targets are ignored. See BindToDOMEvent for the recursion
// a target both attached and bound to the channel name causes.
func (c *Channel) AttachToDOMElement(target Target) {
	if checkTarget(target) != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.attached, target) {
		c.attached = append(c.attached, target)
	}
}

// DetachFromDOMElement removes target from the re-broadcast set; detaching an absent target is a no-op
func (c *Channel) DetachFromDOMElement(target Target) {
	if checkTarget(target) != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.attached, target); i >= 0 {
		c.attached = slices.Delete(c.attached, i, i+1)
	}
}

// IsBound reports whether (target, eventName) has a binding
func (c *Channel) IsBound(target Target, eventName string) bool {
	if checkTarget(target) != nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bindingLocked(target, eventName) >= 0
}

// IsAttached reports whether target receives the re-broadcast
func (c *Channel) IsAttached(target Target) bool {
	if checkTarget(target) != nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.attached, target)
}

// BoundCount returns the number of bindings
func (c *Channel) BoundCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bindings)
}

// AttachedCount returns the number of attached targets
func (c *Channel) AttachedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.attached)
}

// checkTarget returns the layered error rejecting target, nil when it can be stored and compared
func checkTarget(target Target) *errcode.LayeredError {
	if target == nil {
		return ErrNilTarget
	}
	if !reflect.TypeOf(target).Comparable() {
		return ErrTargetNotComparable
	}
	return nil
}

func (c *Channel) bindingLocked(target Target, eventName string) int {
	return slices.IndexFunc(c.bindings, func(b binding) bool {
		return b.target == target && b.name == eventName
	})
}

// fail applies the throw-or-warn policy; it must be called without holding c.mu
func (c *Channel) fail(throw bool, base *errcode.LayeredError, kv ...any) (bool, error) {
	if throw {
		return false, base.WithData("event", c.Name()).WithPairs(kv...)
	}

	args := append([]any{base.Message(), "event", c.Name(), "channel_id", c.ID(), "code", base.Code()}, kv...)
	c.Logger().Warn(args...)
	return false, nil
}
