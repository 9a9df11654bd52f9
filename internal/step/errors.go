package step

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrOutOfRange     = errors.New("out of range")
)

type ParseErrorKind int

const (
	MalformedInput ParseErrorKind = iota + 1
	OutOfRange
)

func (k ParseErrorKind) String() string {
	switch k {
	case MalformedInput:
		return "malformed input"
	case OutOfRange:
		return "out of range"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

// ParseError — ошибка разбора ссылки. errors.Is работает с
// ErrMalformedInput / ErrOutOfRange.
type ParseError struct {
	Kind   ParseErrorKind
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s: %s", e.Input, e.Kind, e.Reason)
}

func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case MalformedInput:
		return ErrMalformedInput
	case OutOfRange:
		return ErrOutOfRange
	}
	return nil
}

func malformed(input, reason string) error {
	return &ParseError{Kind: MalformedInput, Input: input, Reason: reason}
}

func outOfRange(input, reason string) error {
	return &ParseError{Kind: OutOfRange, Input: input, Reason: reason}
}
