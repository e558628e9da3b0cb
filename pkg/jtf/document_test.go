package jtf

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/jtf-go/pkg/jtf/models"
)

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func mustParse(t *testing.T, input string) *Document {
	t.Helper()
	doc, err := Parse([]byte(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestParseFile(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "example.json"), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if got := doc.Tables(); !reflect.DeepEqual(got, []int{0, 1, 3}) {
		t.Errorf("Tables() = %v, expected [0 1 3]", got)
	}

	tbl, err := doc.Table(3)
	if err != nil {
		t.Fatalf("Table(3) failed: %v", err)
	}
	if tbl.Label() != "Third Table" {
		t.Errorf("Label() = %q", tbl.Label())
	}

	c, ok, err := doc.GetCell(3, 1, 0)
	if err != nil || !ok {
		t.Fatalf("GetCell(3, 1, 0) = %v, %v, %v", c, ok, err)
	}
	if n, isNum := c.Num(); !isNum || n != 16 {
		t.Errorf("GetCell(3, 1, 0) = %#v, expected 16", c)
	}

	if _, ok, _ := doc.GetCell(3, 5, 5); ok {
		t.Error("GetCell(3, 5, 5) should be absent")
	}

	md := doc.Metadata()
	if md.Author != "NotTimTam" || md.JTF != "v1.1.9" || len(md.CSS) != 1 {
		t.Errorf("Metadata() = %+v", md)
	}

	if want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC); !doc.CreatedAt().Equal(want) {
		t.Errorf("CreatedAt() = %v, expected %v", doc.CreatedAt(), want)
	}

	if _, err := ParseFile(filepath.Join("testdata", "missing.json"), DefaultOptions()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ParseFile(missing) error = %v, expected ErrFileNotFound", err)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`{"data": {`), DefaultOptions())
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("truncated JSON error = %v, expected ErrInvalidJSON", err)
	}
	if errors.Is(err, ErrSchema) {
		t.Error("malformed JSON must not be reported as a schema violation")
	}

	_, err = Parse([]byte(`{"data": {}} {}`), DefaultOptions())
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("trailing data error = %v, expected ErrInvalidJSON", err)
	}

	_, err = Parse([]byte(`{"data": {"a": {}}}`), DefaultOptions())
	if !errors.Is(err, ErrSchema) {
		t.Errorf("bad key error = %v, expected ErrSchema", err)
	}
}

func TestParseValue(t *testing.T) {
	value := map[string]any{
		"data": map[string]any{
			"0": map[string]any{
				"label": "T",
				"data":  map[string]any{"0": map[string]any{"0": 1, "1": "x"}},
			},
		},
	}
	doc, err := ParseValue(value, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	if c, ok, _ := doc.GetCell(0, 1, 0); !ok || c.Text() != "x" {
		t.Errorf("GetCell(0, 1, 0) = %#v", c)
	}

	if _, err := ParseValue(`{"data": {}}`, DefaultOptions()); err != nil {
		t.Errorf("ParseValue(string) failed: %v", err)
	}
	if _, err := ParseValue(map[string]any{"data": func() {}}, DefaultOptions()); !errors.Is(err, ErrSchema) {
		t.Errorf("ParseValue(func) error = %v, expected ErrSchema", err)
	}
}

func TestParseDefaults(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	doc, err := Parse([]byte(`{"data": {}}`), Options{Now: func() time.Time { return start }})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !doc.CreatedAt().Equal(start) || !doc.UpdatedAt().Equal(start) {
		t.Errorf("timestamps = %v / %v, expected %v", doc.CreatedAt(), doc.UpdatedAt(), start)
	}
	if doc.Metadata().JTF != CurrentVersion {
		t.Errorf("JTF = %q, expected %q", doc.Metadata().JTF, CurrentVersion)
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "example.json"), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	text, err := doc.Stringify()
	if err != nil {
		t.Fatalf("Stringify failed: %v", err)
	}
	again, err := Parse(text, DefaultOptions())
	if err != nil {
		t.Fatalf("re-Parse failed: %v\n%s", err, text)
	}

	if !reflect.DeepEqual(doc.Tables(), again.Tables()) {
		t.Fatalf("tables differ: %v vs %v", doc.Tables(), again.Tables())
	}
	for _, idx := range doc.Tables() {
		a, _ := doc.ToArray(idx)
		b, _ := again.ToArray(idx)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("table %d differs after round trip", idx)
		}
	}

	for _, cell := range [][2]int{{0, 0}, {2, 1}, {5, 3}, {40, 0}} {
		a, _ := doc.GetCellStyles(0, cell[0], cell[1])
		b, _ := again.GetCellStyles(0, cell[0], cell[1])
		if a != b {
			t.Errorf("styles of %v differ: %+v vs %+v", cell, a, b)
		}
	}

	if !doc.UpdatedAt().Equal(again.UpdatedAt()) {
		t.Errorf("updatedAt differs: %v vs %v", doc.UpdatedAt(), again.UpdatedAt())
	}
	extra, ok := again.GetExtraProcessorData("jtf-core")
	if !ok || extra["someExtraData"] == nil {
		t.Errorf("extra data lost in round trip: %v", extra)
	}
}

func TestToArrayAndCSV(t *testing.T) {
	doc := mustParse(t, `{"data": {"0": {"label": "T", "data": {"0": {"0": "A"}, "2": {"1": "B"}}}}}`)

	array, err := doc.ToArray(0)
	if err != nil {
		t.Fatalf("ToArray failed: %v", err)
	}
	if len(array) != 3 {
		t.Fatalf("len(ToArray()) = %d, expected 3", len(array))
	}
	for y, row := range array {
		if len(row) != 2 {
			t.Errorf("row %d width = %d, expected 2", y, len(row))
		}
	}
	if array[0][0] == nil || array[0][0].Text() != "A" {
		t.Errorf("array[0][0] = %v", array[0][0])
	}
	if array[0][1] != nil || array[1][0] != nil || array[1][1] != nil || array[2][0] != nil {
		t.Error("gaps should be nil")
	}
	if array[2][1] == nil || array[2][1].Text() != "B" {
		t.Errorf("array[2][1] = %v", array[2][1])
	}

	csvText, err := doc.ToCSV(0)
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}
	if csvText != "A,\n,\n,B\n" {
		t.Errorf("ToCSV() = %q, expected %q", csvText, "A,\n,\n,B\n")
	}
}

func TestToCSVValues(t *testing.T) {
	doc := mustParse(t, `{"data": {"0": {"label": "T", "data": {"0": {"0": 0, "1": false, "2": null, "3": 1.25, "4": "a,b"}}}}}`)
	csvText, err := doc.ToCSV(0)
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}
	if csvText != "0,false,,1.25,\"a,b\"\n" {
		t.Errorf("ToCSV() = %q", csvText)
	}

	empty := mustParse(t, `{"data": {"0": {"label": "T", "data": {}}}}`)
	if csvText, _ := empty.ToCSV(0); csvText != "" {
		t.Errorf("empty ToCSV() = %q", csvText)
	}

	if _, err := doc.ToCSV(9); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("ToCSV(9) error = %v, expected ErrTableNotFound", err)
	}
}

func TestGetCellStyles(t *testing.T) {
	doc := mustParse(t, `{
		"data": {"0": {"label": "T", "data": {}, "style": [
			{"type": "class", "target": [0, 0], "data": "bar"},
			{"type": "style", "target": [], "data": "  color: red  "}
		]}},
		"style": [
			{"type": "class", "target": ["0:2", null], "data": " foo "},
			{"type": "style", "target": [null, [0, "4:"]], "data": "font-weight: bold;"},
			{"type": "class", "target": [5], "data": "far"}
		]
	}`)

	tests := []struct {
		x, y  int
		class string
		style string
	}{
		{0, 0, "foo bar", "font-weight: bold; color: red;"},
		{1, 3, "foo", "color: red;"},
		{5, 9, "far", "font-weight: bold; color: red;"},
		{3, 1, "", "color: red;"},
	}

	for _, tt := range tests {
		got, err := doc.GetCellStyles(0, tt.x, tt.y)
		if err != nil {
			t.Fatalf("GetCellStyles(%d, %d) failed: %v", tt.x, tt.y, err)
		}
		if got.Class != tt.class || got.Style != tt.style {
			t.Errorf("GetCellStyles(%d, %d) = %+v, expected {%q %q}", tt.x, tt.y, got, tt.class, tt.style)
		}
	}

	if _, err := doc.GetCellStyles(0, -1, 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("negative x error = %v, expected ErrInvalidCoordinate", err)
	}
}

func TestSetCell(t *testing.T) {
	doc, err := Parse([]byte(`{"updatedAt": "2024-01-01T00:00:00.000Z", "data": {"0": {"label": "T", "data": {}}}}`),
		Options{Now: fixedClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	before := doc.UpdatedAt()

	if err := doc.SetCell(0, 3, 2, "hello"); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}
	if !doc.UpdatedAt().After(before) {
		t.Errorf("UpdatedAt() = %v, expected later than %v", doc.UpdatedAt(), before)
	}
	if FormatTimestamp(doc.UpdatedAt()) <= FormatTimestamp(before) {
		t.Error("serialized updatedAt did not advance")
	}

	c, ok, err := doc.GetCell(0, 3, 2)
	if err != nil || !ok || c.Text() != "hello" {
		t.Errorf("GetCell(0, 3, 2) = %#v, %v, %v", c, ok, err)
	}

	for _, v := range []any{42, 1.5, true, nil, models.String("x")} {
		if err := doc.SetCell(0, 0, 0, v); err != nil {
			t.Errorf("SetCell(%#v) failed: %v", v, err)
		}
	}

	stamp := doc.UpdatedAt()
	if err := doc.SetCell(0, 1, 1, []string{"no"}); !errors.Is(err, ErrSchema) {
		t.Errorf("SetCell(slice) error = %v, expected ErrSchema", err)
	}
	if _, ok, _ := doc.GetCell(0, 1, 1); ok {
		t.Error("rejected SetCell must not write the cell")
	}
	if !doc.UpdatedAt().Equal(stamp) {
		t.Error("rejected SetCell must not touch updatedAt")
	}

	if err := doc.SetCell(4, 0, 0, "x"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("SetCell on missing table error = %v", err)
	}
	if err := doc.SetCell(0, 0, -2, "x"); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("SetCell with negative y error = %v", err)
	}
}

func TestSetCellSameInstant(t *testing.T) {
	frozen := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	doc, err := Parse([]byte(`{"data": {"0": {"label": "T", "data": {}}}}`),
		Options{Now: func() time.Time { return frozen }})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	before := FormatTimestamp(doc.UpdatedAt())
	if err := doc.SetCell(0, 0, 0, "x"); err != nil {
		t.Fatal(err)
	}
	if after := FormatTimestamp(doc.UpdatedAt()); after <= before {
		t.Errorf("updatedAt %s is not later than %s", after, before)
	}
}

func TestSetCellFormulaCheck(t *testing.T) {
	doc, err := Parse([]byte(`{"data": {"0": {"label": "T", "data": {}}}}`), Options{CheckFormulas: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.SetCell(0, 0, 0, "=SUM(1,"); !errors.Is(err, ErrInvalidFormula) {
		t.Errorf("SetCell(bad formula) error = %v, expected ErrInvalidFormula", err)
	}
	if err := doc.SetCell(0, 0, 0, "=SUM(1, 2)"); err != nil {
		t.Errorf("SetCell(good formula) error = %v", err)
	}

	if _, err := Parse([]byte(`{"data": {"0": {"label": "T", "data": {"0": {"0": "=A1 + *B2"}}}}}`),
		Options{CheckFormulas: true}); !errors.Is(err, ErrInvalidFormula) {
		t.Errorf("Parse(bad formula) error = %v, expected ErrInvalidFormula", err)
	}
}

func TestSetTable(t *testing.T) {
	doc := mustParse(t, `{"data": {"0": {"label": "T", "data": {"0": {"0": 1}}}}}`)

	if err := doc.SetTable(2, `{"label": "New", "data": {"1": {"1": "x"}}, "style": [{"type": "class", "target": [1, 1], "data": "hit"}]}`); err != nil {
		t.Fatalf("SetTable failed: %v", err)
	}
	if got := doc.Tables(); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("Tables() = %v", got)
	}
	styles, err := doc.GetCellStyles(2, 1, 1)
	if err != nil || styles.Class != "hit" {
		t.Errorf("GetCellStyles(2, 1, 1) = %+v, %v", styles, err)
	}

	// Overwrite with a Go value.
	err = doc.SetTable(0, map[string]any{
		"label": "Replaced",
		"data":  map[string]any{"5": map[string]any{"0": true}},
	})
	if err != nil {
		t.Fatalf("SetTable(map) failed: %v", err)
	}
	tbl, _ := doc.Table(0)
	if tbl.Label() != "Replaced" {
		t.Errorf("Label() = %q", tbl.Label())
	}
	if _, ok, _ := tbl.GetCell(0, 0); ok {
		t.Error("old cells should be gone after overwrite")
	}

	// A rejected table leaves the old one in place.
	if err := doc.SetTable(0, `{"label": "", "data": {}}`); !errors.Is(err, ErrSchema) {
		t.Errorf("SetTable(empty label) error = %v, expected ErrSchema", err)
	}
	if tbl.Label() != "Replaced" {
		t.Error("rejected SetTable modified the document")
	}

	if err := doc.SetTable(-1, `{"label": "x", "data": {}}`); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("SetTable(-1) error = %v", err)
	}
	if err := doc.SetTable(1, `{"label": `); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("SetTable(bad json) error = %v", err)
	}
}

func TestTableHandle(t *testing.T) {
	doc := mustParse(t, `{"data": {"0": {"label": "T", "data": {}}}}`)
	tbl, err := doc.Table(0)
	if err != nil {
		t.Fatal(err)
	}

	if err := tbl.SetLabel("Renamed"); err != nil {
		t.Fatalf("SetLabel failed: %v", err)
	}
	if err := tbl.SetLabel(""); !errors.Is(err, ErrSchema) {
		t.Errorf("SetLabel(\"\") error = %v", err)
	}

	// Writes through one handle are visible through another.
	if err := tbl.SetCell(1, 1, "v"); err != nil {
		t.Fatal(err)
	}
	other, _ := doc.Table(0)
	if c, ok, _ := other.GetCell(1, 1); !ok || c.Text() != "v" {
		t.Error("second handle does not see the write")
	}
	if other.Label() != "Renamed" {
		t.Errorf("Label() = %q", other.Label())
	}

	if err := doc.DeleteTable(0); err != nil {
		t.Fatalf("DeleteTable failed: %v", err)
	}
	if _, _, err := tbl.GetCell(1, 1); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("GetCell on deleted table error = %v", err)
	}
	if err := doc.DeleteTable(0); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("second DeleteTable error = %v", err)
	}
	if _, err := doc.Table(0); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Table(0) error = %v", err)
	}
}

func TestExtraProcessorData(t *testing.T) {
	doc := mustParse(t, `{"data": {}, "metadata": {"jtf": "v1.1.9", "extra": [{"processor": "a", "x": 1}]}}`)

	got, ok := doc.GetExtraProcessorData("a")
	if !ok || got["x"] != float64(1) {
		t.Fatalf("GetExtraProcessorData(a) = %v, %v", got, ok)
	}
	got["x"] = 99
	if again, _ := doc.GetExtraProcessorData("a"); again["x"] != float64(1) {
		t.Error("GetExtraProcessorData returned internal state")
	}

	if err := doc.SetExtraProcessorData("a", map[string]any{"y": "z"}, true); err != nil {
		t.Fatal(err)
	}
	got, _ = doc.GetExtraProcessorData("a")
	if got["x"] != float64(1) || got["y"] != "z" {
		t.Errorf("extended data = %v", got)
	}

	if err := doc.SetExtraProcessorData("a", map[string]any{"only": true}, false); err != nil {
		t.Fatal(err)
	}
	got, _ = doc.GetExtraProcessorData("a")
	if _, has := got["x"]; has || got["only"] != true || got.Processor() != "a" {
		t.Errorf("replaced data = %v", got)
	}

	if err := doc.SetExtraProcessorData("b", nil, false); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.GetExtraProcessorData("b"); !ok {
		t.Error("new processor entry not stored")
	}
	if len(doc.Metadata().Extra) != 2 {
		t.Errorf("len(Extra) = %d, expected 2", len(doc.Metadata().Extra))
	}

	if err := doc.SetExtraProcessorData("", nil, false); !errors.Is(err, ErrSchema) {
		t.Errorf("empty processor error = %v", err)
	}
	if err := doc.SetExtraProcessorData("c", map[string]any{"f": func() {}}, false); !errors.Is(err, ErrSchema) {
		t.Errorf("unencodable data error = %v", err)
	}

	text, err := doc.Stringify()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), `"processor":"b"`) {
		t.Errorf("Stringify() missing new processor entry: %s", text)
	}
}

func TestMetadataIsACopy(t *testing.T) {
	doc := mustParse(t, `{"data": {}, "metadata": {"jtf": "v1.1.9", "css": ["a.css"], "extra": [{"processor": "a", "x": 1}]}}`)
	before := doc.UpdatedAt()

	md := doc.Metadata()
	md.Extra[0]["x"] = 99
	md.Extra[0]["added"] = true
	md.CSS[0] = "b.css"

	got, ok := doc.GetExtraProcessorData("a")
	if !ok || got["x"] != float64(1) {
		t.Errorf("GetExtraProcessorData(a) = %v after editing Metadata()", got)
	}
	if _, has := got["added"]; has {
		t.Error("key added through Metadata() reached the document")
	}
	if css := doc.Metadata().CSS; css[0] != "a.css" {
		t.Errorf("CSS = %v after editing Metadata()", css)
	}
	if !doc.UpdatedAt().Equal(before) {
		t.Error("UpdatedAt changed without a mutation")
	}
}

func TestLargeIntegerRoundTrip(t *testing.T) {
	doc := mustParse(t, `{"data": {"0": {"data": {"0": {"0": 9007199254740993, "1": -12345678901234567890, "2": 2.50}}}}}`)

	c, ok, _ := doc.GetCell(0, 0, 0)
	if !ok || c.Text() != "9007199254740993" {
		t.Errorf("cell (0, 0) Text() = %q", c.Text())
	}

	text, err := doc.Stringify()
	if err != nil {
		t.Fatalf("Stringify failed: %v", err)
	}
	for _, lit := range []string{`"0":9007199254740993`, `"1":-12345678901234567890`, `"2":2.50`} {
		if !strings.Contains(string(text), lit) {
			t.Errorf("Stringify() lost %s: %s", lit, text)
		}
	}
}
