package event

// Config holds the per-operation defaults of a channel
type Config struct {
	Subscribe          SubscribeOptions          `mapstructure:"subscribe"`
	Unsubscribe        UnsubscribeOptions        `mapstructure:"unsubscribe"`
	SubscribeWithKey   SubscribeWithKeyOptions   `mapstructure:"subscribe_with_key"`
	UnsubscribeWithKey UnsubscribeWithKeyOptions `mapstructure:"unsubscribe_with_key"`
	Dispatch           DispatchOptions           `mapstructure:"dispatch"`
	Wait               WaitOptions               `mapstructure:"wait"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Subscribe: SubscribeOptions{
			ShouldThrowErrors:                  false,
			AllowMultipleSubscribeSameFunction: false,
		},
		Unsubscribe: UnsubscribeOptions{
			ShouldThrowErrors:         false,
			RemoveOnlyFirstOccurrence: true,
		},
		SubscribeWithKey: SubscribeWithKeyOptions{
			ShouldThrowErrors:                  false,
			AllowMultipleListenersPerKey:       true,
			AllowMultipleSubscribeSameFunction: false,
		},
		UnsubscribeWithKey: UnsubscribeWithKeyOptions{
			ShouldThrowErrors:            false,
			RemoveOnlyFirstOccurrence:    false,
			RemoveOnlyFirstKeyedListener: false,
		},
		Dispatch: DispatchOptions{StoreData: true},
		Wait:     WaitOptions{},
	}
}
