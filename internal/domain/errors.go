package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGSTIN     = errors.New("invalid GSTIN")
	ErrInvalidPeriod    = errors.New("invalid return period")
	ErrUnknownReason    = errors.New("unknown reversal reason")
	ErrNothingToReverse = errors.New("nothing to reverse")
)

// StructuralError reports a malformed or incomplete return document. It fails
// the whole import; there is no partial acceptance. Err, when set, carries the
// sentinel the failure maps to.
type StructuralError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error in return document: %s=%q: %s", e.Field, e.Value, e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// ValidationError reports a single row failing a field-level check. In batch
// validate-only mode these are collected rather than failing fast.
type ValidationError struct {
	Section string
	Row     int
	Field   string
	Value   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s row %d: field %s=%q: %s", e.Section, e.Row, e.Field, e.Value, e.Reason)
}
