// Package errcode provides the coded errors returned by the listener packages
//
// A code is MMBBBB: MM is the module (21 event, 22 dom, 10 common) and BBBB the
// error within it. Sentinels are declared once with New and Register; callers
// derive copies carrying context with WithData / WithFields and match them
// with errors.Is.
package errcode

import (
	"fmt"
	"maps"
)

// LayeredError is a coded error with a message key, context data and an optional cause
type LayeredError struct {
	module string
	code   int
	msgKey string
	msg    string
	data   map[string]any
	cause  error
}

// New declares an error; moduleCode is 10-99, businessCode 1-9999
func New(moduleCode, businessCode int, module, msgKey, msg string) *LayeredError {
	return &LayeredError{
		module: module,
		code:   moduleCode*10000 + businessCode,
		msgKey: msgKey,
		msg:    msg,
		data:   map[string]any{},
	}
}

func (e *LayeredError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *LayeredError) Code() int {
	return e.code
}

func (e *LayeredError) Module() string {
	return e.module
}

// MsgKey is the i18n key of the message, e.g. "error.event.not_subscribed"
func (e *LayeredError) MsgKey() string {
	return e.msgKey
}

// Message returns the message without the cause
func (e *LayeredError) Message() string {
	return e.msg
}

// Data returns the context data; do not modify it
func (e *LayeredError) Data() map[string]any {
	return e.data
}

func (e *LayeredError) Cause() error {
	return e.cause
}

func (e *LayeredError) Unwrap() error {
	return e.cause
}

// WithMsgf returns a copy with a formatted message
func (e *LayeredError) WithMsgf(format string, args ...any) *LayeredError {
	c := e.clone()
	c.msg = fmt.Sprintf(format, args...)
	return c
}

// WithData returns a copy with key set in its data
func (e *LayeredError) WithData(key string, value any) *LayeredError {
	c := e.clone()
	c.data[key] = value
	return c
}

// WithFields returns a copy with every entry of fields set in its data
func (e *LayeredError) WithFields(fields map[string]any) *LayeredError {
	c := e.clone()
	maps.Copy(c.data, fields)
	return c
}

// WithPairs returns a copy with alternating key/value pairs set in its data, as a logger takes them
// Pairs with a non-string key and a trailing odd value are dropped
func (e *LayeredError) WithPairs(kv ...any) *LayeredError {
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	return e.WithFields(fields)
}

// Wrap returns a copy caused by cause; a nil cause returns e itself
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	c := e.clone()
	c.cause = cause
	return c
}

// Is reports whether target is a LayeredError with the same code
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	return ok && t.code == e.code
}

func (e *LayeredError) clone() *LayeredError {
	c := *e
	c.data = maps.Clone(e.data)
	if c.data == nil {
		c.data = map[string]any{}
	}
	return &c
}
