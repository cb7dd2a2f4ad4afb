package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownResidue is returned when a sequence holds a symbol outside the
	// 20 canonical amino acid codes.
	ErrUnknownResidue = errors.New("unknown residue")

	// ErrInvalidQuery is returned for malformed query parameters.
	ErrInvalidQuery = errors.New("invalid query")
)

// ResidueError reports an unknown residue symbol and where it was found.
type ResidueError struct {
	Symbol   rune
	Position int // 0-based; -1 when the symbol was looked up on its own
}

func (e *ResidueError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("unknown residue %q", e.Symbol)
	}
	return fmt.Sprintf("unknown residue %q at position %d", e.Symbol, e.Position+1)
}

func (e *ResidueError) Unwrap() error { return ErrUnknownResidue }

// QueryError represents a malformed query parameter.
type QueryError struct {
	Field   string
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query parameter %s: %s", e.Field, e.Message)
}

func (e *QueryError) Unwrap() error { return ErrInvalidQuery }

func invalid(field, format string, args ...any) error {
	return &QueryError{Field: field, Message: fmt.Sprintf(format, args...)}
}
