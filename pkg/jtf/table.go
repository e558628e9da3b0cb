package jtf

import (
	"bytes"
	"encoding/csv"
	"slices"

	"github.com/ukaji3/jtf-go/pkg/jtf/models"
)

// Table is a handle to one table of a Document. It holds no data of its own,
// so it always reflects the latest writes to the document.
type Table struct {
	doc   *Document
	index int
}

// Index returns the table's index in the document.
func (t *Table) Index() int { return t.index }

func (t *Table) source() (*models.Table, error) {
	src, ok := t.doc.tables[t.index]
	if !ok {
		return nil, tableNotFound(t.index)
	}
	return src, nil
}

// Label returns the table label, or "" if the table was deleted.
func (t *Table) Label() string {
	src, err := t.source()
	if err != nil {
		return ""
	}
	return src.Label
}

// SetLabel replaces the table label. The label must be non-empty.
func (t *Table) SetLabel(label string) error {
	src, err := t.source()
	if err != nil {
		return err
	}
	if label == "" {
		return NewSchemaError("label", `each table must have a non-empty "label" string`)
	}
	src.Label = label
	t.doc.touch()
	return nil
}

// Style returns the table-scoped style rules.
func (t *Table) Style() []models.StyleRule {
	src, err := t.source()
	if err != nil {
		return nil
	}
	return slices.Clone(src.Style)
}

// GetCell returns the cell at column x, row y. The boolean is false when the
// cell is absent.
func (t *Table) GetCell(x, y int) (models.Cell, bool, error) {
	if err := checkCoordinates(x, y); err != nil {
		return models.Cell{}, false, err
	}
	src, err := t.source()
	if err != nil {
		return models.Cell{}, false, err
	}
	c, ok := src.Cell(x, y)
	return c, ok, nil
}

// SetCell validates value and stores it at column x, row y. Accepted values
// are strings, numbers, booleans, nil and models.Cell.
func (t *Table) SetCell(x, y int, value any) error {
	if err := checkCoordinates(x, y); err != nil {
		return err
	}
	src, err := t.source()
	if err != nil {
		return err
	}
	c, err := t.doc.validator.cell(cellPath(x, y), value)
	if err != nil {
		return err
	}
	src.SetCell(x, y, c)
	t.doc.touch()
	return nil
}

// ToArray renders the table as a dense array indexed [row][column]. Every row
// is as wide as the widest row; absent cells are nil.
func (t *Table) ToArray() [][]*models.Cell {
	src, err := t.source()
	if err != nil {
		return nil
	}
	rows, cols := src.Bounds()
	out := make([][]*models.Cell, rows)
	for y := range out {
		out[y] = make([]*models.Cell, cols)
		for x, c := range src.Data[y] {
			out[y][x] = &c
		}
	}
	return out
}

// Records renders the table as text fields, one slice per row, padded to the
// widest row. Absent and null cells are empty strings.
func (t *Table) Records() [][]string {
	array := t.ToArray()
	out := make([][]string, len(array))
	for y, row := range array {
		out[y] = make([]string, len(row))
		for x, c := range row {
			if c != nil {
				out[y][x] = c.Text()
			}
		}
	}
	return out
}

// ToCSV renders the table as CSV text with one "\n"-terminated line per row.
func (t *Table) ToCSV() (string, error) {
	if _, err := t.source(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(t.Records()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func cellPath(x, y int) string {
	return joinPath(joinPath("data", itoa(y)), itoa(x))
}
