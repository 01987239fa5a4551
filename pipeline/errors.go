package pipeline

import "fmt"

// FormatError means a source file's columns do not match its schema.
// It is fatal for the run.
type FormatError struct {
	Source string
	Field  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: missing or renamed column %s", e.Source, e.Field)
}

// UnknownStateError means a state name could not be mapped to its
// two-letter code.  It is fatal for the run.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown state: %q", e.State)
}

// InsufficientDataError means too few complete rows survive to model.
// It is fatal for the run.
type InsufficientDataError struct {
	Rows int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: only %d complete rows", e.Rows)
}

// MissingDataError is row-scoped: the row lacks a required field.  The row
// is dropped and the run continues.
type MissingDataError struct {
	Row   int
	Field string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("row %d: missing value for %s", e.Row, e.Field)
}
