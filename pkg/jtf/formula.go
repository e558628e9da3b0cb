package jtf

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidFormula indicates a formula cell that fails the lexical check.
var ErrInvalidFormula = errors.New("invalid formula")

var (
	stringLiteralPattern = regexp.MustCompile(`"[^"]*"`)
	formulaCharset       = regexp.MustCompile(`^[A-Za-z0-9_\s.,:;$'+\-*/^%&<>=!()\[\]]*$`)
	functionCallPattern  = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	functionNamePattern  = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	operatorRunPattern   = regexp.MustCompile(`[+\-*/^%&]\s*[+*/^%&]`)
	trailingOpPattern    = regexp.MustCompile(`[+\-*/^%&,]\s*$`)
)

// IsFormula reports whether a string cell holds a formula.
func IsFormula(s string) bool {
	return strings.HasPrefix(s, "=")
}

// ValidateFormula performs a lexical check of a formula string. It does not
// evaluate anything.
func ValidateFormula(formula string) error {
	if !IsFormula(formula) {
		return fmt.Errorf(`%w: %q does not start with "="`, ErrInvalidFormula, formula)
	}
	body := strings.TrimSpace(formula[1:])
	if body == "" {
		return fmt.Errorf("%w: formula is empty", ErrInvalidFormula)
	}

	// String literals may contain anything except a double quote.
	if strings.Count(body, `"`)%2 != 0 {
		return fmt.Errorf("%w: unterminated string literal in %q", ErrInvalidFormula, formula)
	}
	body = stringLiteralPattern.ReplaceAllString(body, `""`)

	if !formulaCharset.MatchString(strings.ReplaceAll(body, `"`, "")) {
		return fmt.Errorf("%w: %q contains characters that are not allowed", ErrInvalidFormula, formula)
	}
	if err := checkBrackets(body); err != nil {
		return fmt.Errorf("%w: %v in %q", ErrInvalidFormula, err, formula)
	}
	for _, m := range functionCallPattern.FindAllStringSubmatch(body, -1) {
		if !functionNamePattern.MatchString(m[1]) {
			return fmt.Errorf("%w: function name %q must be capital letters", ErrInvalidFormula, m[1])
		}
	}
	if loc := operatorRunPattern.FindString(body); loc != "" {
		return fmt.Errorf("%w: consecutive operators %q in %q", ErrInvalidFormula, loc, formula)
	}
	if trailingOpPattern.MatchString(body) {
		return fmt.Errorf("%w: %q ends with an operator", ErrInvalidFormula, formula)
	}
	return nil
}

func checkBrackets(s string) error {
	var stack []rune
	pairs := map[rune]rune{')': '(', ']': '['}
	for _, r := range s {
		switch r {
		case '(', '[':
			stack = append(stack, r)
		case ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return fmt.Errorf("unexpected %q", r)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q", stack[len(stack)-1])
	}
	return nil
}
