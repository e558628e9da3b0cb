package jtf

import (
	"strconv"
	"strings"

	"github.com/ukaji3/jtf-go/pkg/jtf/models"
)

// CellStyles holds the resolved presentation of a cell.
type CellStyles struct {
	// Class is the space-separated list of class names.
	Class string `json:"class"`
	// Style is the space-separated list of inline declarations, each ending in ";".
	Style string `json:"style"`
}

// GetCellStyles resolves the styles applying to column x, row y: document
// rules first, then table rules, each in declaration order.
func (t *Table) GetCellStyles(x, y int) (CellStyles, error) {
	if err := checkCoordinates(x, y); err != nil {
		return CellStyles{}, err
	}
	src, err := t.source()
	if err != nil {
		return CellStyles{}, err
	}
	return ResolveStyles(x, y, t.doc.style, src.Style), nil
}

// ResolveStyles applies every rule set in order to the cell at (x, y).
func ResolveStyles(x, y int, ruleSets ...[]models.StyleRule) CellStyles {
	var classes, styles []string
	for _, rules := range ruleSets {
		for _, rule := range rules {
			if !rule.Target.Includes(x, y) {
				continue
			}
			data := strings.TrimSpace(rule.Data)
			switch rule.Type {
			case models.RuleClass:
				classes = append(classes, data)
			case models.RuleStyle:
				if !strings.HasSuffix(data, ";") {
					data += ";"
				}
				styles = append(styles, data)
			}
		}
	}
	return CellStyles{
		Class: strings.Join(classes, " "),
		Style: strings.Join(styles, " "),
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
