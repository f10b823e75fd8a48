// Package guard isolates callbacks that may panic, so that a single failing block or entity handler cannot
// abort the remainder of a world tick.
package guard

import (
	"fmt"
	"runtime/debug"
)

// PanicError is returned by Run when the callback panicked.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
	// Stack is the stack trace captured at the moment of recovery.
	Stack []byte
}

// Error ...
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Run calls fn and returns the error it returned, or a *PanicError if it panicked.
func Run(fn func() error) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
