// Package models defines the data structures of a JTF document.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidCell indicates a value that is not a string, number, boolean or null.
var ErrInvalidCell = errors.New(`cell data must be one of: ["string", "number", "boolean", null]`)

// CellKind identifies which variant a Cell holds.
type CellKind int

const (
	// KindNull is a JSON null cell. It is the zero value.
	KindNull CellKind = iota
	// KindString is a text cell.
	KindString
	// KindNumber is a numeric cell.
	KindNumber
	// KindBool is a boolean cell.
	KindBool
)

func (k CellKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Cell is a single scalar value in a table.
//
// A numeric cell keeps the literal it was decoded from, so integers beyond
// the float64 mantissa serialize back with every digit. Num still reports
// the nearest float64.
type Cell struct {
	kind CellKind
	str  string
	num  float64
	lit  json.Number
	b    bool
}

// Null returns a null cell.
func Null() Cell { return Cell{} }

// String returns a text cell.
func String(s string) Cell { return Cell{kind: KindString, str: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{kind: KindNumber, num: f} }

// Bool returns a boolean cell.
func Bool(b bool) Cell { return Cell{kind: KindBool, b: b} }

// CellFromValue converts a decoded JSON value or a Go scalar into a Cell.
// Anything other than string, number, boolean or nil returns ErrInvalidCell.
func CellFromValue(v any) (Cell, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Cell:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Cell{}, fmt.Errorf("%w: %v", ErrInvalidCell, err)
		}
		if !json.Valid([]byte(val)) || val[0] == '"' {
			return Cell{}, fmt.Errorf("%w: %q is not a JSON number", ErrInvalidCell, string(val))
		}
		return Cell{kind: KindNumber, num: f, lit: val}, nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return integer(int64(val)), nil
	case int32:
		return integer(int64(val)), nil
	case int64:
		return integer(val), nil
	case uint:
		return Cell{kind: KindNumber, num: float64(val), lit: json.Number(strconv.FormatUint(uint64(val), 10))}, nil
	case uint32:
		return integer(int64(val)), nil
	case uint64:
		return Cell{kind: KindNumber, num: float64(val), lit: json.Number(strconv.FormatUint(val, 10))}, nil
	default:
		return Cell{}, fmt.Errorf("%w: got %T", ErrInvalidCell, v)
	}
}

func integer(n int64) Cell {
	return Cell{kind: KindNumber, num: float64(n), lit: json.Number(strconv.FormatInt(n, 10))}
}

// Kind returns the variant held by the cell.
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether the cell is null.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Str returns the text of a string cell.
func (c Cell) Str() (string, bool) { return c.str, c.kind == KindString }

// Num returns the value of a numeric cell.
func (c Cell) Num() (float64, bool) { return c.num, c.kind == KindNumber }

// Literal returns the number as written in the source, or the shortest
// decimal form of Num when the cell was built from a float.
func (c Cell) Literal() (json.Number, bool) {
	if c.kind != KindNumber {
		return "", false
	}
	if c.lit != "" {
		return c.lit, true
	}
	return json.Number(strconv.FormatFloat(c.num, 'f', -1, 64)), true
}

// Bool returns the value of a boolean cell.
func (c Cell) Bool() (bool, bool) { return c.b, c.kind == KindBool }

// Value returns the cell as a plain Go value (string, float64, bool or nil).
func (c Cell) Value() any {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return c.num
	case KindBool:
		return c.b
	default:
		return nil
	}
}

// Text renders the cell for tabular output. Null renders as "".
func (c Cell) Text() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		n, _ := c.Literal()
		return n.String()
	case KindBool:
		return strconv.FormatBool(c.b)
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.kind == KindNumber && c.lit != "" {
		return []byte(c.lit), nil
	}
	return json.Marshal(c.Value())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cell) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	cell, err := CellFromValue(raw)
	if err != nil {
		return err
	}
	*c = cell
	return nil
}
