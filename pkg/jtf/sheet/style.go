package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Declaration is one "property: value" pair of an inline style.
type Declaration struct {
	Property string
	Value    string
}

// ParseDeclarations splits inline style text such as
// "color: red; font-weight: bold;" into declarations. Properties are
// lowercased; empty and malformed entries are skipped.
func ParseDeclarations(css string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if prop == "" || value == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: value})
	}
	return out
}

// CellStyle maps inline style text to a workbook cell style. Supported
// properties are background(-color), color, font-weight, font-style,
// font-size, font-family, text-decoration, text-align, vertical-align and
// white-space. The boolean is false when nothing in css maps to a style.
func CellStyle(css string) (*excelize.Style, bool) {
	style := &excelize.Style{}
	font := &excelize.Font{}
	align := &excelize.Alignment{}
	var hasFont, hasAlign, hasFill bool

	for _, d := range ParseDeclarations(css) {
		value := strings.ToLower(d.Value)
		switch d.Property {
		case "background-color", "background":
			if c, ok := ParseColor(value); ok {
				style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c}}
				hasFill = true
			}
		case "color":
			if c, ok := ParseColor(value); ok {
				font.Color = c
				hasFont = true
			}
		case "font-weight":
			if value == "bold" || value == "bolder" {
				font.Bold = true
				hasFont = true
			} else if n, err := strconv.Atoi(value); err == nil && n >= 600 {
				font.Bold = true
				hasFont = true
			}
		case "font-style":
			if value == "italic" || value == "oblique" {
				font.Italic = true
				hasFont = true
			}
		case "font-size":
			if size, ok := parseFontSize(value); ok {
				font.Size = size
				hasFont = true
			}
		case "font-family":
			family, _, _ := strings.Cut(d.Value, ",")
			if family = strings.Trim(strings.TrimSpace(family), `"'`); family != "" {
				font.Family = family
				hasFont = true
			}
		case "text-decoration", "text-decoration-line":
			if strings.Contains(value, "underline") {
				font.Underline = "single"
				hasFont = true
			}
			if strings.Contains(value, "line-through") {
				font.Strike = true
				hasFont = true
			}
		case "text-align":
			switch value {
			case "left", "center", "right", "justify":
				align.Horizontal = value
				hasAlign = true
			case "start":
				align.Horizontal = "left"
				hasAlign = true
			case "end":
				align.Horizontal = "right"
				hasAlign = true
			}
		case "vertical-align":
			switch value {
			case "top", "bottom":
				align.Vertical = value
				hasAlign = true
			case "middle":
				align.Vertical = "center"
				hasAlign = true
			}
		case "white-space":
			if value == "normal" || value == "pre-wrap" || value == "pre-line" {
				align.WrapText = true
				hasAlign = true
			}
		}
	}

	if hasFont {
		style.Font = font
	}
	if hasAlign {
		style.Alignment = align
	}
	return style, hasFont || hasAlign || hasFill
}

// parseFontSize converts a CSS length to points. Pixel sizes use 96 DPI.
func parseFontSize(value string) (float64, bool) {
	scale := 1.0
	switch {
	case strings.HasSuffix(value, "pt"):
		value = strings.TrimSuffix(value, "pt")
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
		scale = 0.75
	default:
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || n <= 0 || n > 409 {
		return 0, false
	}
	return n * scale, true
}

// ParseColor converts a CSS color to the "RRGGBB" form used by workbook
// styles. It accepts #rgb, #rrggbb, rgb(r, g, b) and the basic named colors.
func ParseColor(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if named, ok := namedColors[value]; ok {
		return named, true
	}

	if hex, ok := strings.CutPrefix(value, "#"); ok {
		switch len(hex) {
		case 3:
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		case 6:
		default:
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return strings.ToUpper(hex), true
	}

	if args, ok := strings.CutPrefix(value, "rgb("); ok {
		args, ok = strings.CutSuffix(args, ")")
		if !ok {
			return "", false
		}
		parts := strings.Split(args, ",")
		if len(parts) != 3 {
			return "", false
		}
		var rgb [3]uint64
		for i, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return "", false
			}
			rgb[i] = n
		}
		return fmt.Sprintf("%02X%02X%02X", rgb[0], rgb[1], rgb[2]), true
	}
	return "", false
}

var namedColors = map[string]string{
	"black":   "000000",
	"silver":  "C0C0C0",
	"gray":    "808080",
	"grey":    "808080",
	"white":   "FFFFFF",
	"maroon":  "800000",
	"red":     "FF0000",
	"purple":  "800080",
	"fuchsia": "FF00FF",
	"magenta": "FF00FF",
	"green":   "008000",
	"lime":    "00FF00",
	"olive":   "808000",
	"yellow":  "FFFF00",
	"navy":    "000080",
	"blue":    "0000FF",
	"teal":    "008080",
	"aqua":    "00FFFF",
	"cyan":    "00FFFF",
	"orange":  "FFA500",
	"pink":    "FFC0CB",
	"brown":   "A52A2A",
}
