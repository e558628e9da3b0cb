package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/jtf-go/pkg/jtf"
	"github.com/xuri/excelize/v2"
)

// ImportOptions configures workbook import.
type ImportOptions struct {
	// Trim shifts each sheet so its top-left non-empty cell lands on (0, 0).
	Trim bool
	// IncludeFormulas stores "=" plus the formula text instead of the cached
	// value for cells that carry a formula.
	IncludeFormulas bool
	// Document configures validation of the resulting document.
	Document jtf.Options
}

// DefaultImportOptions returns default import options.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{Document: jtf.DefaultOptions()}
}

// Import converts every sheet of f into a table. Tables are indexed by sheet
// position and labeled with the sheet name. The result is validated like any
// parsed document.
func Import(f *excelize.File, opts ImportOptions) (*jtf.Document, error) {
	tables := make(map[string]any)
	for i, sheetName := range f.GetSheetList() {
		data, err := extractCells(f, sheetName, opts)
		if err != nil {
			return nil, NewConversionError(sheetName, "cells", err)
		}
		tables[strconv.Itoa(i)] = map[string]any{
			"label": sheetName,
			"data":  data,
		}
	}

	doc := map[string]any{"data": tables}
	if props, err := f.GetDocProps(); err == nil && props != nil {
		metadata := make(map[string]any)
		if props.Creator != "" {
			metadata["author"] = props.Creator
		}
		if props.Title != "" {
			metadata["title"] = props.Title
		}
		if len(metadata) > 0 {
			metadata["jtf"] = jtf.NewValidator(opts.Document).PreferredVersion()
			doc["metadata"] = metadata
		}
	}

	return jtf.ParseValue(doc, opts.Document)
}

// ImportFile opens the workbook at path and imports it.
func ImportFile(path string, opts ImportOptions) (*jtf.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()
	return Import(f, opts)
}

// extractCells reads the non-empty cells of a sheet as JTF row objects.
func extractCells(f *excelize.File, sheetName string, opts ImportOptions) (map[string]any, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var rowOffset, colOffset int
	if opts.Trim {
		minRow, _, minCol, _ := findDataBounds(rows)
		if minRow > 0 {
			rowOffset = minRow
		}
		if minCol > 0 {
			colOffset = minCol
		}
	}

	result := make(map[string]any)
	for rowIdx, row := range rows {
		cellMap := make(map[string]any)
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			value, err := cellValueAt(f, sheetName, cellName, cellValue, opts)
			if err != nil {
				return nil, err
			}
			cellMap[strconv.Itoa(colIdx-colOffset)] = value
		}
		if len(cellMap) > 0 {
			result[strconv.Itoa(rowIdx-rowOffset)] = cellMap
		}
	}
	return result, nil
}

func cellValueAt(f *excelize.File, sheetName, cellName, text string, opts ImportOptions) (any, error) {
	if opts.IncludeFormulas {
		formula, err := f.GetCellFormula(sheetName, cellName)
		if err != nil {
			return nil, err
		}
		if formula != "" {
			return "=" + formula, nil
		}
	}

	cellType, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return nil, err
	}
	if cellType == excelize.CellTypeBool {
		return strings.EqualFold(text, "TRUE") || text == "1", nil
	}
	return parseValue(text), nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for finite decimals, or the original string.
func parseValue(s string) any {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float; NaN and infinities have no JSON form
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// findDataBounds finds the bounding box of non-empty cells. All bounds are
// -1 when the sheet is empty.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
