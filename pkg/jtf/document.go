package jtf

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/ukaji3/jtf-go/pkg/jtf/models"
)

// Document is a validated JTF document. It owns the table store; Table values
// are handles into it. A Document is not safe for concurrent use.
type Document struct {
	createdAt time.Time
	updatedAt time.Time
	metadata  models.Metadata
	tables    map[int]*models.Table
	style     []models.StyleRule
	validator *Validator
	now       func() time.Time
}

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the timestamp of the last mutation.
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }

// Metadata returns a copy of the document metadata.
func (d *Document) Metadata() models.Metadata {
	m := d.metadata
	m.CSS = slices.Clone(m.CSS)
	if m.Extra != nil {
		m.Extra = make([]models.ProcessorData, len(d.metadata.Extra))
		for i, e := range d.metadata.Extra {
			m.Extra[i] = maps.Clone(e)
		}
	}
	return m
}

// Style returns the document-scoped style rules.
func (d *Document) Style() []models.StyleRule {
	return slices.Clone(d.style)
}

// Validator returns the validator the document was parsed with.
func (d *Document) Validator() *Validator {
	return d.validator
}

// Tables returns the table indices in ascending order.
func (d *Document) Tables() []int {
	return slices.Sorted(maps.Keys(d.tables))
}

// Table returns a handle to the table at index.
func (d *Document) Table(index int) (*Table, error) {
	if _, ok := d.tables[index]; !ok {
		return nil, tableNotFound(index)
	}
	return &Table{doc: d, index: index}, nil
}

// SetTable validates raw as a table and stores it at index, replacing any
// existing table. raw may be JSON text or any value that encodes to a table
// object. On error the document is unchanged.
func (d *Document) SetTable(index int, raw any) error {
	if index < 0 {
		return fmt.Errorf("%w: table index %d must not be negative", ErrInvalidCoordinate, index)
	}
	value, data, err := toRaw(raw)
	if err != nil {
		return err
	}
	if err := d.validator.ValidateTable(value); err != nil {
		return err
	}

	var table models.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return wrapSchemaError("", err)
	}
	if table.Data == nil {
		table.Data = make(map[int]models.Row)
	}
	d.tables[index] = &table
	d.touch()
	return nil
}

// DeleteTable removes the table at index.
func (d *Document) DeleteTable(index int) error {
	if _, ok := d.tables[index]; !ok {
		return tableNotFound(index)
	}
	delete(d.tables, index)
	d.touch()
	return nil
}

// GetCell returns the cell at column x, row y of a table. The boolean is false
// when the cell is absent.
func (d *Document) GetCell(table, x, y int) (models.Cell, bool, error) {
	t, err := d.Table(table)
	if err != nil {
		return models.Cell{}, false, err
	}
	return t.GetCell(x, y)
}

// SetCell validates value and stores it at column x, row y of a table.
func (d *Document) SetCell(table, x, y int, value any) error {
	t, err := d.Table(table)
	if err != nil {
		return err
	}
	return t.SetCell(x, y, value)
}

// GetCellStyles resolves the classes and inline styles applying to a cell.
func (d *Document) GetCellStyles(table, x, y int) (CellStyles, error) {
	t, err := d.Table(table)
	if err != nil {
		return CellStyles{}, err
	}
	return t.GetCellStyles(x, y)
}

// ToArray renders a table as a dense 2D array. See Table.ToArray.
func (d *Document) ToArray(table int) ([][]*models.Cell, error) {
	t, err := d.Table(table)
	if err != nil {
		return nil, err
	}
	return t.ToArray(), nil
}

// ToCSV renders a table as CSV text. See Table.ToCSV.
func (d *Document) ToCSV(table int) (string, error) {
	t, err := d.Table(table)
	if err != nil {
		return "", err
	}
	return t.ToCSV()
}

// Data returns the wire representation of the document.
func (d *Document) Data() models.DocumentData {
	metadata := d.Metadata()
	return models.DocumentData{
		CreatedAt: FormatTimestamp(d.createdAt),
		UpdatedAt: FormatTimestamp(d.updatedAt),
		Metadata:  &metadata,
		Data:      d.tables,
		Style:     d.style,
	}
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Data())
}

// Stringify returns the document as compact JSON text.
func (d *Document) Stringify() ([]byte, error) {
	return json.Marshal(d.Data())
}

// StringifyIndent returns the document as indented JSON text.
func (d *Document) StringifyIndent(prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(d.Data(), prefix, indent)
}

// touch refreshes updatedAt, keeping it strictly increasing at the
// millisecond precision it is serialized with.
func (d *Document) touch() {
	now := d.now()
	if !now.Truncate(time.Millisecond).After(d.updatedAt.Truncate(time.Millisecond)) {
		now = d.updatedAt.Truncate(time.Millisecond).Add(time.Millisecond)
	}
	d.updatedAt = now
}
