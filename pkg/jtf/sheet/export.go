// Package sheet converts JTF documents to and from xlsx workbooks.
package sheet

import (
	"time"

	"github.com/ukaji3/jtf-go/pkg/jtf"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize.NewFile creates.
const defaultSheet = "Sheet1"

// ExportOptions configures workbook export.
type ExportOptions struct {
	// Styles specifies whether resolved inline styles become cell styles.
	// If nil, defaults to true.
	Styles *bool
}

// DefaultExportOptions returns default export options.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{}
}

// ShouldApplyStyles returns whether to map inline styles to cell styles.
func (o ExportOptions) ShouldApplyStyles() bool {
	if o.Styles != nil {
		return *o.Styles
	}
	return true
}

// Export writes every table of doc to its own sheet, in index order. Sheet
// names come from the table labels. Formula strings are written as text.
func Export(doc *jtf.Document, opts ExportOptions) (*excelize.File, error) {
	f := excelize.NewFile()

	md := doc.Metadata()
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:  md.Author,
		Title:    md.Title,
		Created:  doc.CreatedAt().UTC().Format(time.RFC3339),
		Modified: doc.UpdatedAt().UTC().Format(time.RFC3339),
	}); err != nil {
		f.Close()
		return nil, NewConversionError("", "metadata", err)
	}

	names := newUniqueNames()
	styles := make(map[string]int)
	for i, index := range doc.Tables() {
		tbl, err := doc.Table(index)
		if err != nil {
			f.Close()
			return nil, err
		}

		name := names.next(tbl.Label(), index)
		if i == 0 {
			err = f.SetSheetName(defaultSheet, name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			f.Close()
			return nil, NewConversionError(name, "sheet", err)
		}

		if err := writeCells(f, name, tbl); err != nil {
			f.Close()
			return nil, NewConversionError(name, "cells", err)
		}
		if opts.ShouldApplyStyles() {
			if err := writeStyles(f, name, tbl, styles); err != nil {
				f.Close()
				return nil, NewConversionError(name, "styles", err)
			}
		}
	}

	return f, nil
}

// ExportFile exports doc and saves the workbook at path.
func ExportFile(doc *jtf.Document, path string, opts ExportOptions) error {
	f, err := Export(doc, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func writeCells(f *excelize.File, sheetName string, tbl *jtf.Table) error {
	for y, row := range tbl.ToArray() {
		for x, c := range row {
			if c == nil || c.IsNull() {
				continue
			}
			cellName, err := CellName(x, y)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cellName, c.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeStyles applies the resolved inline style of every cell inside the
// table bounds. Style IDs are shared across sheets through cache.
func writeStyles(f *excelize.File, sheetName string, tbl *jtf.Table, cache map[string]int) error {
	for y, row := range tbl.ToArray() {
		for x := range row {
			resolved, err := tbl.GetCellStyles(x, y)
			if err != nil {
				return err
			}
			if resolved.Style == "" {
				continue
			}

			id, ok := cache[resolved.Style]
			if !ok {
				style, mapped := CellStyle(resolved.Style)
				if !mapped {
					cache[resolved.Style] = 0
					continue
				}
				if id, err = f.NewStyle(style); err != nil {
					return err
				}
				cache[resolved.Style] = id
			}
			if id == 0 {
				continue
			}

			cellName, err := CellName(x, y)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheetName, cellName, cellName, id); err != nil {
				return err
			}
		}
	}
	return nil
}
