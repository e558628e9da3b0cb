package models

import "github.com/ukaji3/jtf-go/pkg/jtf/target"

// RuleType is the kind of directive a style rule applies.
type RuleType string

const (
	// RuleClass applies a CSS class name.
	RuleClass RuleType = "class"
	// RuleStyle applies an inline CSS declaration.
	RuleStyle RuleType = "style"
)

// Valid reports whether t is a known rule type.
func (t RuleType) Valid() bool {
	return t == RuleClass || t == RuleStyle
}

// StyleRule applies a class or inline style to every cell matched by Target.
type StyleRule struct {
	// Type is either "class" or "style".
	Type RuleType `json:"type"`
	// Target selects the cells the rule applies to.
	Target target.Target `json:"target"`
	// Data is the class name or CSS declaration.
	Data string `json:"data"`
}
