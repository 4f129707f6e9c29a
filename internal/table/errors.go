package table

import (
	"errors"
	"fmt"
	"strings"
)

// ValueError indicates an invalid parameter. It is always returned before any
// mutation takes place.
type ValueError struct {
	Op  string
	Msg string
}

func (e *ValueError) Error() string {
	if e.Op == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// NotFoundError indicates that no row, column or file qualified.
type NotFoundError struct {
	Op   string
	What string
}

func (e *NotFoundError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("not found: %s", e.What)
	}
	return fmt.Sprintf("%s: not found: %s", e.Op, e.What)
}

// KeyError indicates a named column or index level is absent.
type KeyError struct {
	Key       string
	Available []string
}

func (e *KeyError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("key %q not found", e.Key)
	}
	return fmt.Sprintf("key %q not found (available: %s)", e.Key, strings.Join(e.Available, ", "))
}

// NotImplementedError marks documented option combinations that are not built.
type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Feature)
}

// Errorf builds a ValueError for op with a formatted message.
func Errorf(op, format string, args ...any) error {
	return &ValueError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsValueError reports whether err wraps a *ValueError.
func IsValueError(err error) bool {
	var ve *ValueError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsKeyError reports whether err wraps a *KeyError.
func IsKeyError(err error) bool {
	var ke *KeyError
	return errors.As(err, &ke)
}

// IsNotImplemented reports whether err wraps a *NotImplementedError.
func IsNotImplemented(err error) bool {
	var ni *NotImplementedError
	return errors.As(err, &ni)
}
