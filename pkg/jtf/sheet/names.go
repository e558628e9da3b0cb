package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest sheet name a workbook accepts.
const maxSheetName = 31

// ColumnName returns the spreadsheet column letters for a zero-based column
// index: 0 is "A", 25 is "Z", 26 is "AA".
func ColumnName(x int) (string, error) {
	return excelize.ColumnNumberToName(x + 1)
}

// CellName returns the A1-style reference for zero-based column x, row y.
func CellName(x, y int) (string, error) {
	return excelize.CoordinatesToCellName(x+1, y+1)
}

// SheetName turns a table label into a legal sheet name. Characters a
// workbook forbids are replaced with "_" and the result is cut to 31
// characters. An empty result falls back to "Table N".
func SheetName(label string, index int) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, label)
	name = strings.Trim(strings.TrimSpace(name), "'")
	if name == "" {
		name = fmt.Sprintf("Table %d", index)
	}
	return truncate(name, maxSheetName)
}

// uniqueNames assigns each label a distinct sheet name. Workbooks compare
// sheet names case-insensitively.
type uniqueNames struct {
	seen map[string]bool
}

func newUniqueNames() *uniqueNames {
	return &uniqueNames{seen: make(map[string]bool)}
}

func (u *uniqueNames) next(label string, index int) string {
	base := SheetName(label, index)
	name := base
	for n := 2; u.seen[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len([]rune(suffix))) + suffix
	}
	u.seen[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
