package expr

import (
	"errors"
	"fmt"
)

// Error kinds reported by the parser and evaluator. Use errors.Is to match them.
var (
	ErrSyntax            = errors.New("syntax error")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrType              = errors.New("type error")
	ErrDomain            = errors.New("math domain error")
	ErrZeroDivision      = errors.New("division by zero")
	ErrOverflow          = errors.New("numeric overflow")
	ErrNotNumeric        = errors.New("non-numeric result")
	ErrLimit             = errors.New("resource limit exceeded")
)

// Error describes a failure at a byte offset of the program text.
type Error struct {
	Kind error
	Pos  int
	Msg  string
}

// Error returns a readable message including the source offset.
func (err *Error) Error() string {
	if err.Pos < 0 {
		return fmt.Sprintf("%s: %s", err.Kind, err.Msg)
	}
	return fmt.Sprintf("%s at offset %d: %s", err.Kind, err.Pos, err.Msg)
}

// Unwrap exposes the error kind.
func (err *Error) Unwrap() error {
	return err.Kind
}

func errorf(kind error, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
