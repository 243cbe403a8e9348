package dom

import "github.com/KOMKZ/go-yogan-listener/errcode"

const moduleCode = 22

var (
	// ErrAlreadyBound the (target, event name) pair already has a binding
	ErrAlreadyBound = errcode.Register(errcode.New(moduleCode, 1, "dom",
		"error.dom.already_bound", "an attempt to bind multiple times the same dom event occurred"))

	// ErrNotBound no binding for the (target, event name) pair
	ErrNotBound = errcode.Register(errcode.New(moduleCode, 2, "dom",
		"error.dom.not_bound", "an attempt to unbind a non bound dom event occurred"))

	// ErrNilTarget a nil Target was passed
	ErrNilTarget = errcode.Register(errcode.New(moduleCode, 3, "dom",
		"error.dom.nil_target", "target must not be nil"))

	// ErrTargetNotComparable the dynamic type of the Target cannot be compared with ==
	ErrTargetNotComparable = errcode.Register(errcode.New(moduleCode, 4, "dom",
		"error.dom.target_not_comparable", "target must be comparable, use a pointer"))
)
