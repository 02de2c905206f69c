package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Loading errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParseFailure      = errors.New("failed to parse file")
	ErrNoTable           = fmt.Errorf("%w: no table found in HTML document", ErrParseFailure)
	ErrNoHeader          = fmt.Errorf("%w: file has no header row", ErrParseFailure)
	ErrMissingColumn     = errors.New("required column missing")

	// Aggregation errors
	ErrEmptyDataset  = errors.New("dataset has no records")
	ErrJoinIntegrity = errors.New("join key mismatch between aggregates")

	// Session errors
	ErrNoDataset = errors.New("no dataset loaded")
)

// MissingColumnError names every required column absent from the header.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// Error constructors with context
func NewUnsupportedFormatError(filename string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

func NewParseError(format string, err error) error {
	if errors.Is(err, ErrParseFailure) {
		return fmt.Errorf("%s: %w", format, err)
	}
	return fmt.Errorf("%w (%s): %w", ErrParseFailure, format, err)
}

func NewJoinIntegrityError(key, side string) error {
	return fmt.Errorf("%w: key %q missing from %s", ErrJoinIntegrity, key, side)
}

// MissingColumns returns the missing column names carried by err, if any.
func MissingColumns(err error) []string {
	var mce *MissingColumnError
	if errors.As(err, &mce) {
		return mce.Columns
	}
	return nil
}
