// Package failure classifies pipeline errors into the categories the bot
// reports back to users.
package failure

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	Unknown Kind = iota
	InvalidInput
	NotFound
	Timeout
	ConversionFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	case Timeout:
		return "timeout"
	case ConversionFailure:
		return "conversion_failure"
	}

	return "unknown"
}

// Error carries the classification of a failed operation together with its cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the first classification found in err's chain. A bare
// deadline error is a Timeout; anything unclassified is Unknown.
func KindOf(err error) Kind {

	if err == nil {
		return Unknown
	}

	var e *Error

	if errors.As(err, &e) {
		return e.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	return Unknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
