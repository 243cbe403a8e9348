// Package event implements a named in-process event channel
//
// A Channel keeps an ordered list of listeners, optional key buckets layered
// over that list, the latest dispatched payload and a "first dispatch" flag
// that WaitUntilFirstDispatch can block on.
//
// Every mutating operation takes functional options merged over the
// channel's defaults (see Config). Failures follow one policy: with
// ShouldThrowErrors the error is returned and nothing changes, otherwise the
// failure is logged and (false, nil) is returned.
package event

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/KOMKZ/go-yogan-listener/errcode"
	"github.com/KOMKZ/go-yogan-listener/logger"
	"github.com/KOMKZ/go-yogan-listener/options"
	"github.com/google/uuid"
)

// Emitter is the channel contract shared by Channel and dom.Channel
type Emitter interface {
	Name() string
	Subscribe(l *Listener, opts ...SubscribeOption) (bool, error)
	Unsubscribe(l *Listener, opts ...UnsubscribeOption) (bool, error)
	Dispatch(sender, data any, opts ...DispatchOption)
	ResetFirstDispatch()
	WaitUntilFirstDispatch(opts ...WaitOption) *Waiter
	SubscribeWithKey(l *Listener, key string, opts ...SubscribeWithKeyOption) (bool, error)
	UnsubscribeWithKey(key string, opts ...UnsubscribeWithKeyOption) (bool, error)
}

var _ Emitter = (*Channel)(nil)

// Channel is a named listener registry
//
// Dispatch runs listeners on the calling goroutine over a snapshot of the
// listener list taken when the dispatch starts: listeners subscribed during
// a dispatch are first called by the next one, and a listener unsubscribed
// during a dispatch still receives the in-flight payload if it was in the snapshot.
type Channel struct {
	mu                    sync.RWMutex
	name                  string
	id                    string
	listeners             []*Listener
	keyed                 map[string][]*Listener
	firstDispatchOccurred bool
	latestData            any

	logger   logger.Logger
	defaults Config
	metrics  *Metrics
}

// WithLogger sets the logger used for warnings and listener failures
func WithLogger(l logger.Logger) ChannelOption {
	return func(c *Channel) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaults replaces the per-operation defaults
func WithDefaults(cfg Config) ChannelOption {
	return func(c *Channel) {
		c.defaults = cfg
	}
}

// WithMetrics records dispatches and subscriptions on m
func WithMetrics(m *Metrics) ChannelOption {
	return func(c *Channel) {
		c.metrics = m
	}
}

// NewChannel creates a channel named name
func NewChannel(name string, opts ...ChannelOption) *Channel {
	c := &Channel{
		name:     name,
		id:       uuid.NewString(),
		keyed:    make(map[string][]*Listener),
		logger:   logger.NullLogger,
		defaults: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the event name
func (c *Channel) Name() string {
	return c.name
}

// ID returns the instance id, unique per channel
func (c *Channel) ID() string {
	return c.id
}

// Logger returns the channel logger
func (c *Channel) Logger() logger.Logger {
	return c.logger
}

// Defaults returns the per-operation defaults
func (c *Channel) Defaults() Config {
	return c.defaults
}

// Subscribe appends l to the listener list
func (c *Channel) Subscribe(l *Listener, opts ...SubscribeOption) (bool, error) {
	o := options.Apply(c.defaults.Subscribe, opts...)
	if l == nil {
		return c.fail(o.ShouldThrowErrors, levelWarn, "subscribe", ErrNilListener)
	}

	c.mu.Lock()
	if !o.AllowMultipleSubscribeSameFunction && slices.Contains(c.listeners, l) {
		c.mu.Unlock()
		return c.fail(o.ShouldThrowErrors, levelWarn, "subscribe", ErrDuplicateSubscription, "listener", l.Name())
	}
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()

	c.metrics.RecordSubscription(context.Background(), c.name, "subscribe", resultOK)
	return true, nil
}

// Unsubscribe removes the first occurrence of l, or every occurrence when RemoveOnlyFirstOccurrence is false
// l is purged from the key buckets with the same policy
func (c *Channel) Unsubscribe(l *Listener, opts ...UnsubscribeOption) (bool, error) {
	o := options.Apply(c.defaults.Unsubscribe, opts...)
	return c.unsubscribe(l, o, nil)
}

// unsubscribe purges only the bucket of onlyKey when it is set, every bucket otherwise
// Once l has no plain subscription left it is dropped from every bucket, so a bucket never holds an unsubscribed listener
func (c *Channel) unsubscribe(l *Listener, o UnsubscribeOptions, onlyKey *string) (bool, error) {
	if l == nil {
		return c.fail(o.ShouldThrowErrors, levelWarn, "unsubscribe", ErrNilListener)
	}

	c.mu.Lock()
	var removed int
	c.listeners, removed = removeListener(c.listeners, l, o.RemoveOnlyFirstOccurrence)
	if removed == 0 {
		c.mu.Unlock()
		return c.fail(o.ShouldThrowErrors, levelWarn, "unsubscribe", ErrNotSubscribed, "listener", l.Name())
	}

	if onlyKey != nil {
		c.purgeKeyLocked(*onlyKey, l, o.RemoveOnlyFirstOccurrence)
	} else {
		for key := range c.keyed {
			c.purgeKeyLocked(key, l, o.RemoveOnlyFirstOccurrence)
		}
	}
	if !slices.Contains(c.listeners, l) {
		for key := range c.keyed {
			c.purgeKeyLocked(key, l, false)
		}
	}
	c.mu.Unlock()

	c.metrics.RecordSubscription(context.Background(), c.name, "unsubscribe", resultOK)
	return true, nil
}

func (c *Channel) purgeKeyLocked(key string, l *Listener, firstOnly bool) {
	bucket, removed := removeListener(c.keyed[key], l, firstOnly)
	if removed == 0 {
		return
	}
	if len(bucket) == 0 {
		delete(c.keyed, key)
		return
	}
	c.keyed[key] = bucket
}

// Dispatch invokes every subscribed listener in subscription order with (sender, data)
// Listener errors and panics are logged; Dispatch itself never fails
func (c *Channel) Dispatch(sender, data any, opts ...DispatchOption) {
	o := options.Apply(c.defaults.Dispatch, opts...)
	start := time.Now()

	c.mu.Lock()
	if o.StoreData {
		c.latestData = data
	}
	c.firstDispatchOccurred = true
	snapshot := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, l := range snapshot {
		c.invoke(l, sender, data)
	}

	c.metrics.RecordDispatch(context.Background(), c.name, len(snapshot), time.Since(start))
}

func (c *Channel) invoke(l *Listener, sender, data any) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("listener panicked", "event", c.name, "channel_id", c.id, "listener", l.Name(), "panic", r)
			c.metrics.RecordInvocation(context.Background(), c.name, resultPanic)
		}
	}()

	if err := l.Handle(sender, data); err != nil {
		c.logger.Error("listener failed", "event", c.name, "channel_id", c.id, "listener", l.Name(), "error", err)
		c.metrics.RecordInvocation(context.Background(), c.name, resultError)
		return
	}
	c.metrics.RecordInvocation(context.Background(), c.name, resultOK)
}

// ResetFirstDispatch clears the first dispatch flag; the latest data is kept
func (c *Channel) ResetFirstDispatch() {
	c.mu.Lock()
	c.firstDispatchOccurred = false
	c.mu.Unlock()
}

// WaitUntilFirstDispatch returns a Waiter resolved with the payload of the first dispatch
// If a dispatch already happened (and ResetFirstDispatchBefore is not set) it is resolved with the latest data
// Otherwise a one-shot listener resolves it on the next dispatch and then unsubscribes itself;
// abandoning the Waiter leaves that listener subscribed until it fires
func (c *Channel) WaitUntilFirstDispatch(opts ...WaitOption) *Waiter {
	o := options.Apply(c.defaults.Wait, opts...)
	w := newWaiter()

	c.mu.Lock()
	if o.ResetFirstDispatchBefore {
		c.firstDispatchOccurred = false
	}
	if c.firstDispatchOccurred {
		data := c.latestData
		if o.ResetFirstDispatchAfter {
			c.firstDispatchOccurred = false
		}
		c.mu.Unlock()
		w.resolve(data, nil)
		return w
	}

	var once *Listener
	once = NewNamedListener("wait-until-first-dispatch", func(_, data any) error {
		if !w.claim() {
			return nil
		}
		_, _ = c.Unsubscribe(once, UnsubscribeShouldThrowErrors(false), RemoveOnlyFirstOccurrence(false))
		if o.ResetFirstDispatchAfter {
			c.ResetFirstDispatch()
		}
		w.resolve(data, nil)
		return nil
	})

	// subscribed under the same lock as the flag check so a concurrent dispatch cannot slip in between;
	// once is a fresh handle, so the duplicate rule of Subscribe can never reject it
	c.listeners = append(c.listeners, once)
	c.mu.Unlock()

	return w
}

// SubscribeWithKey adds l to the bucket of key and subscribes it with the channel's default subscribe options
func (c *Channel) SubscribeWithKey(l *Listener, key string, opts ...SubscribeWithKeyOption) (bool, error) {
	o := options.Apply(c.defaults.SubscribeWithKey, opts...)
	if l == nil {
		return c.fail(o.ShouldThrowErrors, levelWarn, "subscribe_with_key", ErrNilListener, "key", key)
	}
	sub := c.defaults.Subscribe

	c.mu.Lock()
	bucket := c.keyed[key]
	if len(bucket) > 0 && !o.AllowMultipleListenersPerKey {
		c.mu.Unlock()
		return c.fail(o.ShouldThrowErrors, levelError, "subscribe_with_key", ErrKeyCollision, "key", key)
	}
	if !o.AllowMultipleSubscribeSameFunction && slices.Contains(bucket, l) {
		c.mu.Unlock()
		return c.fail(o.ShouldThrowErrors, levelWarn, "subscribe_with_key", ErrDuplicateSubscription, "key", key, "listener", l.Name())
	}
	// the plain subscription is checked before either list changes, a key bucket never holds an unsubscribed listener
	if !sub.AllowMultipleSubscribeSameFunction && slices.Contains(c.listeners, l) {
		c.mu.Unlock()
		return c.fail(sub.ShouldThrowErrors, levelWarn, "subscribe", ErrDuplicateSubscription, "key", key, "listener", l.Name())
	}
	c.keyed[key] = append(bucket, l)
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()

	c.metrics.RecordSubscription(context.Background(), c.name, "subscribe_with_key", resultOK)
	return true, nil
}

// UnsubscribeWithKey unsubscribes the listeners of the key bucket
// With RemoveOnlyFirstKeyedListener only the first one is processed
func (c *Channel) UnsubscribeWithKey(key string, opts ...UnsubscribeWithKeyOption) (bool, error) {
	o := options.Apply(c.defaults.UnsubscribeWithKey, opts...)
	uo := UnsubscribeOptions{
		ShouldThrowErrors:         o.ShouldThrowErrors,
		RemoveOnlyFirstOccurrence: o.RemoveOnlyFirstOccurrence,
	}

	found := false
	for {
		c.mu.RLock()
		var next *Listener
		if bucket := c.keyed[key]; len(bucket) > 0 {
			next = bucket[0]
		}
		c.mu.RUnlock()
		if next == nil {
			break
		}

		ok, err := c.unsubscribe(next, uo, &key)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		found = true
		if o.RemoveOnlyFirstKeyedListener {
			break
		}
	}

	if !found {
		return c.fail(o.ShouldThrowErrors, levelWarn, "unsubscribe_with_key", ErrKeyNotFound, "key", key)
	}
	return true, nil
}

// LatestData returns the last payload dispatched with StoreData
func (c *Channel) LatestData() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latestData
}

// FirstDispatchOccurred reports whether a dispatch happened since creation or the last reset
func (c *Channel) FirstDispatchOccurred() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.firstDispatchOccurred
}

// ListenerCount returns the number of subscriptions, duplicates included
func (c *Channel) ListenerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listeners)
}

// IsSubscribed reports whether l has at least one subscription
func (c *Channel) IsSubscribed(l *Listener) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.listeners, l)
}

// KeyedListenerCount returns the size of the key bucket
func (c *Channel) KeyedListenerCount(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keyed[key])
}

// Keys returns the non-empty keys, sorted
func (c *Channel) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.keyed))
	for k := range c.keyed {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

type logLevel int

const (
	levelWarn logLevel = iota
	levelError
)

const (
	resultOK    = "ok"
	resultError = "error"
	resultPanic = "panic"
	resultFail  = "failed"
)

// fail applies the throw-or-log policy; it must be called without holding c.mu
func (c *Channel) fail(throw bool, level logLevel, op string, base *errcode.LayeredError, kv ...any) (bool, error) {
	c.metrics.RecordSubscription(context.Background(), c.name, op, resultFail)

	if throw {
		return false, base.WithData("event", c.name).WithPairs(kv...)
	}

	args := append([]any{base.Message(), "event", c.name, "channel_id", c.id, "code", base.Code()}, kv...)
	if level == levelError {
		c.logger.Error(args...)
	} else {
		c.logger.Warn(args...)
	}
	return false, nil
}

// removeListener removes the first (or every) occurrence of l in place, returning the new slice and how many were removed
func removeListener(list []*Listener, l *Listener, firstOnly bool) ([]*Listener, int) {
	removed := 0
	for {
		i := slices.Index(list, l)
		if i < 0 {
			break
		}
		list = slices.Delete(list, i, i+1)
		removed++
		if firstOnly {
			break
		}
	}
	return list, removed
}
