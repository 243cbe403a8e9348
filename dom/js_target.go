//go:build js && wasm

package dom

import (
	"fmt"
	"sync"
	"syscall/js"
)

// JSEvent is a browser event received by a JSTarget handler
type JSEvent struct {
	value js.Value
}

func (e *JSEvent) Type() string {
	return e.value.Get("type").String()
}

// Value returns the underlying js event object
func (e *JSEvent) Value() js.Value {
	return e.value
}

type jsKey struct {
	name    string
	handler *Handler
	capture bool
}

// JSTarget is a Target backed by a browser EventTarget (element, document, window)
type JSTarget struct {
	value js.Value

	mu    sync.Mutex
	funcs map[jsKey]js.Func
}

var _ Target = (*JSTarget)(nil)

// NewJSTarget wraps v, which must implement addEventListener/removeEventListener/dispatchEvent
func NewJSTarget(v js.Value) *JSTarget {
	return &JSTarget{value: v, funcs: make(map[jsKey]js.Func)}
}

// Value returns the wrapped js object
func (t *JSTarget) Value() js.Value {
	return t.value
}

func (t *JSTarget) AddEventListener(name string, h *Handler, opts ListenerOptions) {
	if h == nil {
		return
	}
	key := jsKey{name: name, handler: h, capture: opts.Capture}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.funcs[key]; ok {
		return
	}

	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if opts.Once {
			t.release(key)
		}
		var ev Event = &BasicEvent{name: name}
		var rest []any
		if len(args) > 0 {
			ev = &JSEvent{value: args[0]}
			for _, a := range args[1:] {
				rest = append(rest, a)
			}
		}
		h.Handle(ev, rest...)
		return nil
	})
	t.funcs[key] = fn
	t.value.Call("addEventListener", name, fn, jsListenerOptions(opts))
}

func (t *JSTarget) RemoveEventListener(name string, h *Handler, opts ListenerOptions) {
	key := jsKey{name: name, handler: h, capture: opts.Capture}

	t.mu.Lock()
	fn, ok := t.funcs[key]
	t.mu.Unlock()
	if !ok {
		return
	}
	t.value.Call("removeEventListener", name, fn, map[string]any{"capture": opts.Capture})
	t.release(key)
}

func (t *JSTarget) DispatchEvent(e Event) bool {
	var ev js.Value
	switch e := e.(type) {
	case *JSEvent:
		ev = e.value
	case *CustomEvent:
		detail := map[string]any{
			"sender": toJS(e.detail.Sender),
			"data":   toJS(e.detail.Data),
		}
		ev = js.Global().Get("CustomEvent").New(e.Type(), map[string]any{"detail": detail})
	default:
		ev = js.Global().Get("Event").New(e.Type())
	}
	return t.value.Call("dispatchEvent", ev).Bool()
}

func (t *JSTarget) release(key jsKey) {
	t.mu.Lock()
	fn, ok := t.funcs[key]
	delete(t.funcs, key)
	t.mu.Unlock()
	if ok {
		fn.Release()
	}
}

func jsListenerOptions(opts ListenerOptions) map[string]any {
	return map[string]any{
		"capture": opts.Capture,
		"once":    opts.Once,
		"passive": opts.Passive,
	}
}

// toJS converts v to something js.ValueOf accepts; other values are passed as their string form
func toJS(v any) any {
	switch v := v.(type) {
	case nil, bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr, float32, float64,
		js.Value, js.Func:
		return v
	case *JSTarget:
		return v.value
	case *JSEvent:
		return v.value
	case Payload:
		args := make([]any, len(v.Args))
		for i, a := range v.Args {
			args[i] = toJS(a)
		}
		return map[string]any{"event": toJS(v.Event), "args": args}
	case []any:
		out := make([]any, len(v))
		for i, a := range v {
			out[i] = toJS(a)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, a := range v {
			out[k] = toJS(a)
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}
