package typeinfo

import (
	"errors"
	"fmt"
)

// ErrUnresolvable is matched by every [UnresolvableError].
var ErrUnresolvable = errors.New("unable to resolve type")

// UnresolvableError reports a declared type that could not be reduced to a
// concrete descriptor, such as an unbound type variable. It indicates
// malformed input and is never retried.
type UnresolvableError struct {
	Type   string
	Reason string
}

func (e *UnresolvableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unable to resolve type: %s", e.Type)
	}
	return fmt.Sprintf("unable to resolve type: %s: %s", e.Type, e.Reason)
}

// Is makes errors.Is(err, ErrUnresolvable) true.
func (e *UnresolvableError) Is(target error) bool {
	return target == ErrUnresolvable
}

func unresolvable(e Expr, format string, args ...any) error {
	return &UnresolvableError{Type: exprString(e), Reason: fmt.Sprintf(format, args...)}
}
