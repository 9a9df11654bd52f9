package selector

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("question not found")
	ErrExhaustedRetries = errors.New("exhausted retries")
)

type ErrorKind int

const (
	NotFound ErrorKind = iota + 1
	ExhaustedRetries
)

// Error — вопрос не удалось получить. Attempts — сколько было проб.
type Error struct {
	Kind     ErrorKind
	Attempts int
}

func (e *Error) Error() string {
	switch e.Kind {
	case NotFound:
		return ErrNotFound.Error()
	case ExhaustedRetries:
		return fmt.Sprintf("%s after %d probes", ErrExhaustedRetries, e.Attempts)
	default:
		return fmt.Sprintf("selector error %d", int(e.Kind))
	}
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case NotFound:
		return ErrNotFound
	case ExhaustedRetries:
		return ErrExhaustedRetries
	}
	return nil
}
