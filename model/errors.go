package model

import (
	"errors"
	"fmt"

	"caseclient/category"
)

var (
	// ErrFileNotFound is returned when the supporting file's path does not exist.
	ErrFileNotFound = errors.New("file does not exist")
	// ErrNotAFile is returned when the path resolves to something other than a regular file.
	ErrNotAFile = errors.New("not a regular file")
	// ErrFileUnreadable is returned when the file exists but cannot be opened for reading.
	ErrFileUnreadable = errors.New("file is not readable")
	// ErrUnknownCategory is returned when a category id is not in the loaded taxonomy.
	ErrUnknownCategory = errors.New("category is not in the taxonomy")
)

// ValidationError reports the first field rule violated during record
// construction. Records are never created in a partially valid state.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: '%v' %s", e.Field, e.Value, e.Reason)
}

// CategoryNotAllowedError reports a file whose category is outside the
// owning entity kind's allow-list.
type CategoryNotAllowedError struct {
	Category category.Category
	Kind     category.Kind
	Path     string
}

func (e *CategoryNotAllowedError) Error() string {
	return fmt.Sprintf("'%s' on file '%s' is not a valid %s category",
		e.Category.Name, e.Path, e.Kind)
}

// DateDecodeError signals that a stored date failed to parse back through
// the fixed textual format. This is an internal consistency fault, not a
// user input error: the constructor wrote the value in that format.
type DateDecodeError struct {
	Field string
	Raw   string
	Err   error
}

func (e *DateDecodeError) Error() string {
	return fmt.Sprintf("stored %s %q does not parse: %v", e.Field, e.Raw, e.Err)
}

func (e *DateDecodeError) Unwrap() error { return e.Err }
