// Package parsererror defines the typed errors raised while importing a
// statement. The first four abort an upload before anything is persisted;
// ParseError is row-level and only ever logged.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// FileReadError means the raw bytes could not be read or decoded.
type FileReadError struct {
	Source string
	Err    error
}

func (e *FileReadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("failed to read file %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("failed to read file: %v", e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// EmptyFileError means the decoded text was blank.
type EmptyFileError struct {
	Source string
}

func (e *EmptyFileError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("file %s is empty", e.Source)
	}
	return "file is empty"
}

// UnrecognizedFormatError means no known statement layout matched.
type UnrecognizedFormatError struct {
	Supported []string
	Snippet   string
}

func (e *UnrecognizedFormatError) Error() string {
	msg := "unrecognized statement format"
	if len(e.Supported) > 0 {
		msg += fmt.Sprintf("; supported formats: %s", strings.Join(e.Supported, ", "))
	}
	if e.Snippet != "" {
		msg += fmt.Sprintf(". First line: '%s'", e.Snippet)
	}
	return msg
}

// NoValidTransactionsError means parsing completed but every row was skipped.
type NoValidTransactionsError struct {
	Vendor string
	Rows   int
}

func (e *NoValidTransactionsError) Error() string {
	return fmt.Sprintf("%s: no valid transactions found in %d rows; check the CSV format", e.Vendor, e.Rows)
}

// ParseError describes a single rejected row.
type ParseError struct {
	Parser string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
		e.Parser, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports bad caller input, such as a missing owner id or an
// unknown category type.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// IsRejection reports whether err is a fatal import error or a validation
// error, i.e. something caused by the input rather than by infrastructure.
func IsRejection(err error) bool {
	var (
		readErr    *FileReadError
		emptyErr   *EmptyFileError
		formatErr  *UnrecognizedFormatError
		noRowsErr  *NoValidTransactionsError
		invalidErr *ValidationError
	)
	return errors.As(err, &readErr) ||
		errors.As(err, &emptyErr) ||
		errors.As(err, &formatErr) ||
		errors.As(err, &noRowsErr) ||
		errors.As(err, &invalidErr)
}
