package sheet

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat indicates the input file is not a valid xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ConversionError represents an error while converting one sheet.
type ConversionError struct {
	SheetName string
	Component string // "cells", "styles", "sheet", "metadata"
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(sheetName, component string, err error) *ConversionError {
	return &ConversionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
