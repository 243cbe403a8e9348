package event

import (
	"errors"
	"testing"

	"github.com/KOMKZ/go-yogan-listener/errcode"
	"github.com/KOMKZ/go-yogan-listener/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name   string
	sender any
	data   any
}

// recordingListener appends every invocation to calls
func recordingListener(name string, calls *[]call) *Listener {
	return NewNamedListener(name, func(sender, data any) error {
		*calls = append(*calls, call{name: name, sender: sender, data: data})
		return nil
	})
}

func newTestChannel(name string) (*Channel, *logger.Recorder) {
	rec := logger.NewRecorder()
	return NewChannel(name, WithLogger(rec)), rec
}

// ===== construction =====

func TestNewChannel(t *testing.T) {
	c := NewChannel("ping")

	assert.Equal(t, "ping", c.Name())
	assert.NotEmpty(t, c.ID())
	assert.NotEqual(t, c.ID(), NewChannel("ping").ID())
	assert.Equal(t, logger.NullLogger, c.Logger())
	assert.Equal(t, DefaultConfig(), c.Defaults())
	assert.False(t, c.FirstDispatchOccurred())
	assert.Nil(t, c.LatestData())
	assert.Zero(t, c.ListenerCount())
}

func TestWithLogger_NilKeepsNullLogger(t *testing.T) {
	c := NewChannel("ping", WithLogger(nil))
	assert.Equal(t, logger.NullLogger, c.Logger())
}

// ===== Subscribe =====

func TestSubscribe(t *testing.T) {
	c, _ := newTestChannel("ping")
	l := NewListener(func(any, any) error { return nil })

	ok, err := c.Subscribe(l)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.ListenerCount())
	assert.True(t, c.IsSubscribed(l))
}

func TestSubscribe_DuplicateWarns(t *testing.T) {
	c, rec := newTestChannel("ping")
	l := NewListener(func(any, any) error { return nil })
	_, _ = c.Subscribe(l)

	ok, err := c.Subscribe(l)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, c.ListenerCount(), "count unchanged")
	assert.True(t, rec.HasEntry("WARN", ErrDuplicateSubscription.Message()))
	assert.Zero(t, rec.Count("ERROR"))
}

func TestSubscribe_DuplicateThrows(t *testing.T) {
	c, rec := newTestChannel("ping")
	l := NewListener(func(any, any) error { return nil })
	_, _ = c.Subscribe(l)

	ok, err := c.Subscribe(l, SubscribeShouldThrowErrors(true))

	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateSubscription))
	assert.Equal(t, 1, c.ListenerCount())
	assert.Zero(t, rec.Count("WARN"), "throwing never logs")

	var layered *errcode.LayeredError
	require.True(t, errors.As(err, &layered))
	assert.Equal(t, "ping", layered.Data()["event"])
	assert.Equal(t, l.Name(), layered.Data()["listener"])
}

func TestSubscribe_AllowMultiple(t *testing.T) {
	c, _ := newTestChannel("ping")
	l := NewListener(func(any, any) error { return nil })

	for i := 1; i <= 3; i++ {
		ok, err := c.Subscribe(l, AllowMultipleSubscribeSameFunction(true))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, i, c.ListenerCount())
	}
}

func TestSubscribe_NilListener(t *testing.T) {
	c, rec := newTestChannel("ping")

	ok, err := c.Subscribe(nil)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.True(t, rec.HasEntry("WARN", ErrNilListener.Message()))

	_, err = c.Subscribe(nil, SubscribeShouldThrowErrors(true))
	assert.True(t, errors.Is(err, ErrNilListener))
}

func TestSubscribe_ChannelDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Subscribe.ShouldThrowErrors = true
	c := NewChannel("ping", WithDefaults(cfg))
	l := NewListener(nil)
	_, _ = c.Subscribe(l)

	_, err := c.Subscribe(l)
	assert.True(t, errors.Is(err, ErrDuplicateSubscription), "channel default applies")

	ok, err := c.Subscribe(l, SubscribeShouldThrowErrors(false))
	assert.False(t, ok)
	assert.NoError(t, err, "per-call option overrides the channel default")
}

// ===== Unsubscribe =====

func TestUnsubscribe(t *testing.T) {
	c, _ := newTestChannel("ping")
	l := NewListener(nil)
	_, _ = c.Subscribe(l)

	ok, err := c.Unsubscribe(l)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, c.ListenerCount())
}

func TestUnsubscribe_FirstOccurrenceOnly(t *testing.T) {
	c, _ := newTestChannel("ping")
	l := NewListener(nil)
	for i := 0; i < 3; i++ {
		_, _ = c.Subscribe(l, AllowMultipleSubscribeSameFunction(true))
	}

	ok, _ := c.Unsubscribe(l)

	assert.True(t, ok)
	assert.Equal(t, 2, c.ListenerCount())
}

func TestUnsubscribe_AllOccurrences(t *testing.T) {
	c, _ := newTestChannel("ping")
	l := NewListener(nil)
	other := NewListener(nil)
	_, _ = c.Subscribe(l, AllowMultipleSubscribeSameFunction(true))
	_, _ = c.Subscribe(other)
	_, _ = c.Subscribe(l, AllowMultipleSubscribeSameFunction(true))
	_, _ = c.Subscribe(l, AllowMultipleSubscribeSameFunction(true))

	ok, err := c.Unsubscribe(l, RemoveOnlyFirstOccurrence(false))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.ListenerCount())
	assert.False(t, c.IsSubscribed(l))
	assert.True(t, c.IsSubscribed(other))
}

func TestUnsubscribe_NotSubscribed(t *testing.T) {
	c, rec := newTestChannel("ping")
	l := NewListener(nil)

	ok, err := c.Unsubscribe(l)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.True(t, rec.HasEntry("WARN", ErrNotSubscribed.Message()))

	ok, err = c.Unsubscribe(l, UnsubscribeShouldThrowErrors(true))
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrNotSubscribed))
}

// ===== Dispatch =====

func TestDispatch_ExampleScenario(t *testing.T) {
	c, _ := newTestChannel("ping")
	var calls []call
	_, _ = c.Subscribe(recordingListener("f1", &calls))
	_, _ = c.Subscribe(recordingListener("f2", &calls))

	c.Dispatch(nil, 42)

	assert.Equal(t, []call{
		{name: "f1", sender: nil, data: 42},
		{name: "f2", sender: nil, data: 42},
	}, calls)
	assert.Equal(t, 42, c.LatestData())
	assert.True(t, c.FirstDispatchOccurred())
}

func TestDispatch_OrderAndExactlyOnce(t *testing.T) {
	c, _ := newTestChannel("ping")
	var calls []call
	for _, name := range []string{"a", "b", "c", "d"} {
		_, _ = c.Subscribe(recordingListener(name, &calls))
	}

	c.Dispatch("sender", "payload")

	require.Len(t, calls, 4)
	for i, name := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, name, calls[i].name)
		assert.Equal(t, "sender", calls[i].sender)
		assert.Equal(t, "payload", calls[i].data)
	}
}

func TestDispatch_ErrorIsolation(t *testing.T) {
	c, rec := newTestChannel("ping")
	boom := errors.New("boom")
	var calls []call

	_, _ = c.Subscribe(recordingListener("before", &calls))
	_, _ = c.Subscribe(NewNamedListener("failing", func(any, any) error { return boom }))
	_, _ = c.Subscribe(NewNamedListener("panicking", func(any, any) error { panic("kaboom") }))
	_, _ = c.Subscribe(recordingListener("after", &calls))

	assert.NotPanics(t, func() { c.Dispatch(nil, 1) })

	require.Len(t, calls, 2)
	assert.Equal(t, "before", calls[0].name)
	assert.Equal(t, "after", calls[1].name)

	assert.Equal(t, 2, rec.Count("ERROR"))
	got, ok := rec.Value("ERROR", "listener failed", "error")
	require.True(t, ok)
	assert.Same(t, boom, got)
	panicValue, ok := rec.Value("ERROR", "listener panicked", "panic")
	require.True(t, ok)
	assert.Equal(t, "kaboom", panicValue)
}

func TestDispatch_StoreDataFalse(t *testing.T) {
	c, _ := newTestChannel("ping")

	c.Dispatch(nil, "kept")
	c.Dispatch(nil, "not kept", StoreData(false))

	assert.Equal(t, "kept", c.LatestData())
	assert.True(t, c.FirstDispatchOccurred())
}

func TestDispatch_NoListeners(t *testing.T) {
	c, _ := newTestChannel("ping")
	assert.NotPanics(t, func() { c.Dispatch(nil, nil) })
	assert.True(t, c.FirstDispatchOccurred())
}

func TestDispatch_SnapshotSemantics(t *testing.T) {
	c, _ := newTestChannel("ping")
	var calls []call
	late := recordingListener("late", &calls)
	second := recordingListener("second", &calls)

	first := NewNamedListener("first", func(sender, data any) error {
		calls = append(calls, call{name: "first", data: data})
		_, _ = c.Subscribe(late)
		_, _ = c.Unsubscribe(second)
		return nil
	})
	_, _ = c.Subscribe(first)
	_, _ = c.Subscribe(second)

	c.Dispatch(nil, 1)
	require.Len(t, calls, 2, "snapshot: late not called, second still called")
	assert.Equal(t, "first", calls[0].name)
	assert.Equal(t, "second", calls[1].name)

	calls = nil
	_, _ = c.Unsubscribe(first)
	c.Dispatch(nil, 2)
	require.Len(t, calls, 1)
	assert.Equal(t, "late", calls[0].name)
}

func TestResetFirstDispatch(t *testing.T) {
	c, _ := newTestChannel("ping")
	c.Dispatch(nil, "data")

	c.ResetFirstDispatch()

	assert.False(t, c.FirstDispatchOccurred())
	assert.Equal(t, "data", c.LatestData(), "latest data survives a reset")
}

// ===== keyed subscriptions =====

func TestSubscribeWithKey_ThenUnsubscribeWithKey(t *testing.T) {
	c, _ := newTestChannel("ping")
	var calls []call
	fn := recordingListener("fn", &calls)

	ok, err := c.SubscribeWithKey(fn, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, c.KeyedListenerCount("k"))
	assert.Equal(t, 1, c.ListenerCount())
	assert.Equal(t, []string{"k"}, c.Keys())

	ok, err = c.UnsubscribeWithKey("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, c.KeyedListenerCount("k"))
	assert.Zero(t, c.ListenerCount())
	assert.Empty(t, c.Keys())

	c.Dispatch(nil, 1)
	assert.Empty(t, calls)
}

func TestSubscribeWithKey_MultipleListenersPerKey(t *testing.T) {
	c, _ := newTestChannel("ping")
	a, b := NewListener(nil), NewListener(nil)

	_, _ = c.SubscribeWithKey(a, "k")
	ok, err := c.SubscribeWithKey(b, "k")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, c.KeyedListenerCount("k"))
	assert.Equal(t, 2, c.ListenerCount())
}

func TestSubscribeWithKey_KeyCollision(t *testing.T) {
	c, rec := newTestChannel("ping")
	a, b := NewListener(nil), NewListener(nil)
	_, _ = c.SubscribeWithKey(a, "k")

	ok, err := c.SubscribeWithKey(b, "k", AllowMultipleListenersPerKey(false))
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.True(t, rec.HasEntry("ERROR", ErrKeyCollision.Message()))
	assert.Equal(t, 1, c.ListenerCount(), "no partial mutation")
	assert.Equal(t, 1, c.KeyedListenerCount("k"))

	_, err = c.SubscribeWithKey(b, "k", AllowMultipleListenersPerKey(false), SubscribeWithKeyShouldThrowErrors(true))
	assert.True(t, errors.Is(err, ErrKeyCollision))

	ok, err = c.SubscribeWithKey(b, "other", AllowMultipleListenersPerKey(false))
	assert.True(t, ok, "another key is free")
	assert.NoError(t, err)
}

func TestSubscribeWithKey_DuplicateListenerRollsBack(t *testing.T) {
	c, rec := newTestChannel("ping")
	l := NewListener(nil)
	_, _ = c.Subscribe(l)

	ok, err := c.SubscribeWithKey(l, "k")

	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Zero(t, c.KeyedListenerCount("k"), "bucket never holds a listener the plain list rejected")
	assert.Equal(t, 1, c.ListenerCount())
	assert.True(t, rec.HasEntry("WARN", ErrDuplicateSubscription.Message()))
}

func TestSubscribeWithKey_SameListenerTwiceUnderKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Subscribe.AllowMultipleSubscribeSameFunction = true
	c := NewChannel("ping", WithDefaults(cfg))
	l := NewListener(nil)
	_, _ = c.SubscribeWithKey(l, "k")

	ok, _ := c.SubscribeWithKey(l, "k")
	assert.False(t, ok, "the key option still forbids the same listener twice in one bucket")

	ok, _ = c.SubscribeWithKey(l, "k", AllowMultipleSubscribeSameFunctionPerKey(true))
	assert.True(t, ok)
	assert.Equal(t, 2, c.KeyedListenerCount("k"))
	assert.Equal(t, 2, c.ListenerCount())
}

func TestUnsubscribeWithKey_KeyNotFound(t *testing.T) {
	c, rec := newTestChannel("ping")

	ok, err := c.UnsubscribeWithKey("missing")
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.True(t, rec.HasEntry("WARN", ErrKeyNotFound.Message()))

	_, err = c.UnsubscribeWithKey("missing", UnsubscribeWithKeyShouldThrowErrors(true))
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestUnsubscribeWithKey_OnlyFirstKeyedListener(t *testing.T) {
	c, _ := newTestChannel("ping")
	a, b, plain := NewListener(nil), NewListener(nil), NewListener(nil)
	_, _ = c.SubscribeWithKey(a, "k")
	_, _ = c.SubscribeWithKey(b, "k")
	_, _ = c.Subscribe(plain)

	ok, err := c.UnsubscribeWithKey("k", RemoveOnlyFirstKeyedListener(true))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, c.IsSubscribed(a))
	assert.True(t, c.IsSubscribed(b))
	assert.True(t, c.IsSubscribed(plain))
	assert.Equal(t, 1, c.KeyedListenerCount("k"))
}

func TestUnsubscribeWithKey_LeavesOtherKeysAlone(t *testing.T) {
	c, _ := newTestChannel("ping")
	a, b := NewListener(nil), NewListener(nil)
	_, _ = c.SubscribeWithKey(a, "k1")
	_, _ = c.SubscribeWithKey(b, "k2")

	_, _ = c.UnsubscribeWithKey("k1")

	assert.Equal(t, []string{"k2"}, c.Keys())
	assert.True(t, c.IsSubscribed(b))
}

func TestUnsubscribe_PurgesKeyBucket(t *testing.T) {
	c, _ := newTestChannel("ping")
	l := NewListener(nil)
	_, _ = c.SubscribeWithKey(l, "k")

	ok, err := c.Unsubscribe(l)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, c.KeyedListenerCount("k"))
	assert.Empty(t, c.Keys())

	ok, _ = c.UnsubscribeWithKey("k")
	assert.False(t, ok)
}

func TestUnsubscribe_PurgeHonorsFirstOccurrence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Subscribe.AllowMultipleSubscribeSameFunction = true
	c := NewChannel("ping", WithDefaults(cfg))
	l := NewListener(nil)
	_, _ = c.SubscribeWithKey(l, "k", AllowMultipleSubscribeSameFunctionPerKey(true))
	_, _ = c.SubscribeWithKey(l, "k", AllowMultipleSubscribeSameFunctionPerKey(true))

	_, _ = c.Unsubscribe(l)
	assert.Equal(t, 1, c.ListenerCount())
	assert.Equal(t, 1, c.KeyedListenerCount("k"))

	_, _ = c.SubscribeWithKey(l, "k", AllowMultipleSubscribeSameFunctionPerKey(true))
	_, _ = c.Unsubscribe(l, RemoveOnlyFirstOccurrence(false))
	assert.Zero(t, c.ListenerCount())
	assert.Zero(t, c.KeyedListenerCount("k"))
}

func TestUnsubscribeWithKey_FirstOccurrenceKeepsDuplicates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Subscribe.AllowMultipleSubscribeSameFunction = true
	c := NewChannel("ping", WithDefaults(cfg))
	l := NewListener(nil)
	_, _ = c.Subscribe(l)
	_, _ = c.SubscribeWithKey(l, "k")

	ok, err := c.UnsubscribeWithKey("k", RemoveOnlyFirstKeyedOccurrence(true))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.ListenerCount(), "one plain subscription remains")
	assert.Zero(t, c.KeyedListenerCount("k"))
}

func TestUnsubscribeWithKey_DropsListenerFromOtherKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Subscribe.AllowMultipleSubscribeSameFunction = true
	c := NewChannel("ping", WithDefaults(cfg))
	l := NewListener(nil)
	_, _ = c.SubscribeWithKey(l, "a")
	_, _ = c.SubscribeWithKey(l, "b")
	require.Equal(t, 2, c.ListenerCount())

	ok, err := c.UnsubscribeWithKey("a")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, c.IsSubscribed(l))
	assert.Zero(t, c.KeyedListenerCount("b"), "an unsubscribed listener stays in no bucket")
	assert.Empty(t, c.Keys())

	other := NewListener(nil)
	ok, err = c.SubscribeWithKey(other, "b", AllowMultipleListenersPerKey(false), SubscribeWithKeyShouldThrowErrors(true))
	require.NoError(t, err, "no stale entry left to collide with")
	assert.True(t, ok)
}

func TestUnsubscribeWithKey_FirstOccurrenceKeepsOtherKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Subscribe.AllowMultipleSubscribeSameFunction = true
	c := NewChannel("ping", WithDefaults(cfg))
	l := NewListener(nil)
	_, _ = c.SubscribeWithKey(l, "a")
	_, _ = c.SubscribeWithKey(l, "b")

	ok, err := c.UnsubscribeWithKey("a", RemoveOnlyFirstKeyedOccurrence(true))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.ListenerCount())
	assert.Equal(t, 1, c.KeyedListenerCount("b"), "l is still subscribed through b")

	ok, err = c.UnsubscribeWithKey("b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, c.ListenerCount())
	assert.Empty(t, c.Keys())
}

func TestEmitterInterface(t *testing.T) {
	var e Emitter = NewChannel("ping")
	assert.Equal(t, "ping", e.Name())
}
