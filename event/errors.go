package event

import "github.com/KOMKZ/go-yogan-listener/errcode"

const moduleCode = 21

var (
	// ErrDuplicateSubscription the listener is already subscribed and duplicates are not allowed
	ErrDuplicateSubscription = errcode.Register(errcode.New(moduleCode, 1, "event",
		"error.event.duplicate_subscription", "an attempt to subscribe multiple times the same listener occurred"))

	// ErrNotSubscribed the listener is not subscribed
	ErrNotSubscribed = errcode.Register(errcode.New(moduleCode, 2, "event",
		"error.event.not_subscribed", "an attempt to unsubscribe a non subscribed listener occurred"))

	// ErrKeyCollision the key already has a listener and multiple listeners per key are not allowed
	ErrKeyCollision = errcode.Register(errcode.New(moduleCode, 3, "event",
		"error.event.key_collision", "an attempt to add a listener with same key occurred"))

	// ErrKeyNotFound no listener is mapped to the key
	ErrKeyNotFound = errcode.Register(errcode.New(moduleCode, 4, "event",
		"error.event.key_not_found", "an attempt to unsubscribe a non mapped listener occurred"))

	// ErrNilListener a nil *Listener was passed
	ErrNilListener = errcode.Register(errcode.New(moduleCode, 5, "event",
		"error.event.nil_listener", "listener must not be nil"))
)
