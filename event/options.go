package event

// SubscribeOptions options of Subscribe
type SubscribeOptions struct {
	ShouldThrowErrors                  bool `mapstructure:"should_throw_errors"`
	AllowMultipleSubscribeSameFunction bool `mapstructure:"allow_multiple_subscribe_same_function"`
}

// UnsubscribeOptions options of Unsubscribe
type UnsubscribeOptions struct {
	ShouldThrowErrors bool `mapstructure:"should_throw_errors"`
	// RemoveOnlyFirstOccurrence removes the first occurrence only, otherwise every occurrence
	RemoveOnlyFirstOccurrence bool `mapstructure:"remove_only_first_occurrence"`
}

// SubscribeWithKeyOptions options of SubscribeWithKey
type SubscribeWithKeyOptions struct {
	ShouldThrowErrors            bool `mapstructure:"should_throw_errors"`
	AllowMultipleListenersPerKey bool `mapstructure:"allow_multiple_listeners_per_key"`
	// AllowMultipleSubscribeSameFunction allows the same listener twice under the same key
	AllowMultipleSubscribeSameFunction bool `mapstructure:"allow_multiple_subscribe_same_function"`
}

// UnsubscribeWithKeyOptions options of UnsubscribeWithKey
type UnsubscribeWithKeyOptions struct {
	ShouldThrowErrors            bool `mapstructure:"should_throw_errors"`
	RemoveOnlyFirstOccurrence    bool `mapstructure:"remove_only_first_occurrence"`
	RemoveOnlyFirstKeyedListener bool `mapstructure:"remove_only_first_keyed_listener"`
}

// DispatchOptions options of Dispatch
type DispatchOptions struct {
	// StoreData keeps the payload as the channel's latest data
	StoreData bool `mapstructure:"store_data"`
}

// WaitOptions options of WaitUntilFirstDispatch
type WaitOptions struct {
	ResetFirstDispatchBefore bool `mapstructure:"reset_first_dispatch_before"`
	ResetFirstDispatchAfter  bool `mapstructure:"reset_first_dispatch_after"`
}

type (
	SubscribeOption          func(*SubscribeOptions)
	UnsubscribeOption        func(*UnsubscribeOptions)
	SubscribeWithKeyOption   func(*SubscribeWithKeyOptions)
	UnsubscribeWithKeyOption func(*UnsubscribeWithKeyOptions)
	DispatchOption           func(*DispatchOptions)
	WaitOption               func(*WaitOptions)
)

// SubscribeShouldThrowErrors returns failures as errors instead of logging them
func SubscribeShouldThrowErrors(v bool) SubscribeOption {
	return func(o *SubscribeOptions) { o.ShouldThrowErrors = v }
}

// AllowMultipleSubscribeSameFunction lets the same listener be subscribed more than once
func AllowMultipleSubscribeSameFunction(v bool) SubscribeOption {
	return func(o *SubscribeOptions) { o.AllowMultipleSubscribeSameFunction = v }
}

// UnsubscribeShouldThrowErrors returns failures as errors instead of logging them
func UnsubscribeShouldThrowErrors(v bool) UnsubscribeOption {
	return func(o *UnsubscribeOptions) { o.ShouldThrowErrors = v }
}

// RemoveOnlyFirstOccurrence false removes every occurrence in one call
func RemoveOnlyFirstOccurrence(v bool) UnsubscribeOption {
	return func(o *UnsubscribeOptions) { o.RemoveOnlyFirstOccurrence = v }
}

// SubscribeWithKeyShouldThrowErrors returns failures as errors instead of logging them
func SubscribeWithKeyShouldThrowErrors(v bool) SubscribeWithKeyOption {
	return func(o *SubscribeWithKeyOptions) { o.ShouldThrowErrors = v }
}

// AllowMultipleListenersPerKey false makes a second listener under the same key a KeyCollision
func AllowMultipleListenersPerKey(v bool) SubscribeWithKeyOption {
	return func(o *SubscribeWithKeyOptions) { o.AllowMultipleListenersPerKey = v }
}

// AllowMultipleSubscribeSameFunctionPerKey lets the same listener appear more than once in one key bucket
func AllowMultipleSubscribeSameFunctionPerKey(v bool) SubscribeWithKeyOption {
	return func(o *SubscribeWithKeyOptions) { o.AllowMultipleSubscribeSameFunction = v }
}

// UnsubscribeWithKeyShouldThrowErrors returns failures as errors instead of logging them
func UnsubscribeWithKeyShouldThrowErrors(v bool) UnsubscribeWithKeyOption {
	return func(o *UnsubscribeWithKeyOptions) { o.ShouldThrowErrors = v }
}

// RemoveOnlyFirstKeyedOccurrence removes one plain subscription per keyed listener instead of all of them
func RemoveOnlyFirstKeyedOccurrence(v bool) UnsubscribeWithKeyOption {
	return func(o *UnsubscribeWithKeyOptions) { o.RemoveOnlyFirstOccurrence = v }
}

// RemoveOnlyFirstKeyedListener stops after the first listener of the key bucket
func RemoveOnlyFirstKeyedListener(v bool) UnsubscribeWithKeyOption {
	return func(o *UnsubscribeWithKeyOptions) { o.RemoveOnlyFirstKeyedListener = v }
}

// StoreData false leaves the latest data untouched
func StoreData(v bool) DispatchOption {
	return func(o *DispatchOptions) { o.StoreData = v }
}

// ResetFirstDispatchBefore ignores a dispatch that happened before the wait
func ResetFirstDispatchBefore(v bool) WaitOption {
	return func(o *WaitOptions) { o.ResetFirstDispatchBefore = v }
}

// ResetFirstDispatchAfter clears the first dispatch flag once the waiter resolves
func ResetFirstDispatchAfter(v bool) WaitOption {
	return func(o *WaitOptions) { o.ResetFirstDispatchAfter = v }
}

// ChannelOption configures a Channel at construction
type ChannelOption func(*Channel)
