// Package target implements the JTF targeting grammar used by style rules to
// select cells.
//
// A targeting array is a JSON array of at most two elements, [x, y]. Each
// element is parsed once into a Spec:
//
//	null, false, ""   Wildcard   matches every index
//	3, "3"            Exact      matches index 3; negative numbers match nothing
//	"2:5", ":5", "2:" Range      half-open interval [lo, hi); empty ends are open
//	[1, "4:6"]        Union      matches when any member matches; [] matches all
package target

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTarget is returned (wrapped) for every malformed targeting value.
var ErrInvalidTarget = errors.New("invalid targeting value")

var paramPattern = regexp.MustCompile(`^[0-9:]+$`)

// Spec selects a set of indices along one axis.
type Spec interface {
	// Matches reports whether index is selected.
	Matches(index int) bool
	value() any
}

// Wildcard matches every index.
type Wildcard struct{}

// Matches always returns true.
func (Wildcard) Matches(int) bool { return true }

func (Wildcard) value() any { return nil }

// Exact matches a single index.
type Exact int

// Matches reports whether index equals e.
func (e Exact) Matches(index int) bool { return int(e) == index }

func (e Exact) value() any { return int(e) }

// Range matches the half-open interval [Lo, Hi). When Open is set the upper
// bound is unbounded and Hi is ignored.
type Range struct {
	Lo   int
	Hi   int
	Open bool
}

// Matches reports whether lo <= index < hi.
func (r Range) Matches(index int) bool {
	if index < r.Lo {
		return false
	}
	return r.Open || index < r.Hi
}

func (r Range) value() any {
	lo := ""
	if r.Lo != 0 {
		lo = strconv.Itoa(r.Lo)
	}
	if r.Open {
		return lo + ":"
	}
	return lo + ":" + strconv.Itoa(r.Hi)
}

// Union matches when any member matches. An empty union matches everything.
type Union []Spec

// Matches reports whether any member of u selects index.
func (u Union) Matches(index int) bool {
	if len(u) == 0 {
		return true
	}
	for _, s := range u {
		if s.Matches(index) {
			return true
		}
	}
	return false
}

func (u Union) value() any {
	out := make([]any, len(u))
	for i, s := range u {
		out[i] = s.value()
	}
	return out
}

// Target is a parsed [x, y] targeting array.
type Target struct {
	X Spec
	Y Spec
	// n is the number of elements the source array had (0, 1 or 2).
	n int
}

// All returns a target matching every cell.
func All() Target {
	return Target{X: Wildcard{}, Y: Wildcard{}}
}

// At returns a target matching exactly the cell (x, y).
func At(x, y int) Target {
	return Target{X: Exact(x), Y: Exact(y), n: 2}
}

// New returns a target built from the two axis specs. Nil specs are wildcards.
func New(x, y Spec) Target {
	if x == nil {
		x = Wildcard{}
	}
	if y == nil {
		y = Wildcard{}
	}
	return Target{X: x, Y: y, n: 2}
}

// Includes reports whether the target selects the cell at column x, row y.
func (t Target) Includes(x, y int) bool {
	return t.axis(t.X).Matches(x) && t.axis(t.Y).Matches(y)
}

func (t Target) axis(s Spec) Spec {
	if s == nil {
		return Wildcard{}
	}
	return s
}

// Parse converts a decoded JSON targeting array into a Target.
func Parse(raw any) (Target, error) {
	arr, ok := raw.([]any)
	if !ok {
		return Target{}, fmt.Errorf(`%w: expected an array of the form "[x, y]", got %s`, ErrInvalidTarget, describe(raw))
	}
	if len(arr) > 2 {
		return Target{}, fmt.Errorf(`%w: too many parameters (%d), expected "[x, y]"`, ErrInvalidTarget, len(arr))
	}

	t := All()
	t.n = len(arr)
	for i, param := range arr {
		spec, err := ParseSpec(param)
		if err != nil {
			return Target{}, err
		}
		if i == 0 {
			t.X = spec
		} else {
			t.Y = spec
		}
	}
	return t, nil
}

// ParseSpec converts a single targeting parameter into a Spec.
func ParseSpec(raw any) (Spec, error) {
	switch v := raw.(type) {
	case nil:
		return Wildcard{}, nil
	case bool:
		if v {
			return nil, fmt.Errorf("%w: boolean parameter true is not allowed", ErrInvalidTarget)
		}
		return Wildcard{}, nil
	case json.Number:
		return parseNumber(string(v))
	case float64:
		return exactFromFloat(v)
	case int:
		return Exact(v), nil
	case string:
		return parseString(v)
	case []any:
		u := make(Union, 0, len(v))
		for _, sub := range v {
			spec, err := ParseSpec(sub)
			if err != nil {
				return nil, err
			}
			u = append(u, spec)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("%w: unsupported parameter of type %s", ErrInvalidTarget, describe(raw))
	}
}

func parseNumber(s string) (Spec, error) {
	if i, err := strconv.Atoi(s); err == nil {
		return Exact(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parameter %q is not a number", ErrInvalidTarget, s)
	}
	return exactFromFloat(f)
}

func exactFromFloat(f float64) (Spec, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return nil, fmt.Errorf("%w: number parameter %v must be an integer", ErrInvalidTarget, f)
	}
	return Exact(int(f)), nil
}

func parseString(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Wildcard{}, nil
	}
	if !paramPattern.MatchString(s) {
		return nil, fmt.Errorf("%w: string parameter %q must be an integer or a colon-delimited range", ErrInvalidTarget, s)
	}

	lo, hi, isRange := strings.Cut(s, ":")
	if !isRange {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q is out of range", ErrInvalidTarget, s)
		}
		return Exact(n), nil
	}
	if strings.Contains(hi, ":") {
		return nil, fmt.Errorf("%w: range %q has more than one colon", ErrInvalidTarget, s)
	}

	r := Range{Open: true}
	if lo != "" {
		n, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("%w: range bound %q is out of range", ErrInvalidTarget, lo)
		}
		r.Lo = n
	}
	if hi != "" {
		n, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("%w: range bound %q is out of range", ErrInvalidTarget, hi)
		}
		r.Hi = n
		r.Open = false
	}
	return r, nil
}

// MarshalJSON encodes the target in canonical form, keeping the element count
// of the array it was parsed from.
func (t Target) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, 2)
	if t.n >= 1 {
		out = append(out, t.axis(t.X).value())
	}
	if t.n >= 2 {
		out = append(out, t.axis(t.Y).value())
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses a targeting array.
func (t *Target) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return `"null"`
	case bool:
		return `"boolean"`
	case json.Number, float64, int:
		return `"number"`
	case string:
		return `"string"`
	case []any:
		return `"array"`
	case map[string]any:
		return `"object"`
	default:
		return fmt.Sprintf("%T", v)
	}
}
