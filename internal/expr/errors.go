package expr

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax = errors.New("expr: syntax error")
	ErrDomain = errors.New("expr: argument outside domain")
)

// SyntaxError points at the byte offset where parsing failed.
type SyntaxError struct {
	Src string
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d in %q: %s", ErrSyntax, e.Pos, e.Src, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func domainErr(op string, v float64) error {
	return fmt.Errorf("%w: %s(%g)", ErrDomain, op, v)
}
