package jtf

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrSchema matches every *SchemaError via errors.Is.
var ErrSchema = errors.New("schema violation")

// ErrInvalidJSON indicates the input text is not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// ErrTableNotFound indicates the document has no table at the requested index.
var ErrTableNotFound = errors.New("table not found")

// ErrInvalidCoordinate indicates a negative table, row or column index.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// SchemaError describes the first structural violation found in a document.
type SchemaError struct {
	Path    string // dotted location of the offending value, e.g. "data.0.label"
	Message string
	Err     error // underlying cause (optional)
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema violation: %s", e.Message)
	}
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(path, message string) *SchemaError {
	return &SchemaError{
		Path:    path,
		Message: message,
	}
}

func wrapSchemaError(path string, err error) *SchemaError {
	return &SchemaError{
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}

func tableNotFound(index int) error {
	return fmt.Errorf("%w: no table at index %d", ErrTableNotFound, index)
}

func checkCoordinates(x, y int) error {
	if x < 0 || y < 0 {
		return fmt.Errorf("%w: (%d, %d) must not be negative", ErrInvalidCoordinate, x, y)
	}
	return nil
}
