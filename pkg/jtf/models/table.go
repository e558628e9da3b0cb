package models

// Row maps a column index to a cell.
type Row map[int]Cell

// Table represents one sparse 2D grid of a document.
type Table struct {
	// Label is the display name of the table (required, non-empty).
	Label string `json:"label"`
	// Data maps a row index to its cells.
	Data map[int]Row `json:"data"`
	// Style contains table-scoped style rules.
	Style []StyleRule `json:"style,omitempty"`
}

// Bounds returns the number of rows (highest row index + 1) and the width of
// the widest row (highest column index + 1) of the table.
func (t *Table) Bounds() (rows, cols int) {
	for y, row := range t.Data {
		if y+1 > rows {
			rows = y + 1
		}
		for x := range row {
			if x+1 > cols {
				cols = x + 1
			}
		}
	}
	return rows, cols
}

// Cell returns the cell at column x, row y.
func (t *Table) Cell(x, y int) (Cell, bool) {
	row, ok := t.Data[y]
	if !ok {
		return Cell{}, false
	}
	c, ok := row[x]
	return c, ok
}

// SetCell stores value at column x, row y, creating the row when needed.
func (t *Table) SetCell(x, y int, value Cell) {
	if t.Data == nil {
		t.Data = make(map[int]Row)
	}
	row, ok := t.Data[y]
	if !ok {
		row = make(Row)
		t.Data[y] = row
	}
	row[x] = value
}
