package classify

import (
	"fmt"
	"regexp"
)

// RuleSpec is the uncompiled form of a pattern rule.
type RuleSpec struct {
	Label  Label
	Expr   string
	Weight int
}

// Rule is a compiled pattern rule. Patterns are case-insensitive.
type Rule struct {
	Label   Label
	Pattern *regexp.Regexp
	Weight  int
}

// Library is an ordered, read-only set of pattern rules.
type Library struct {
	rules []Rule
}

// NewLibrary compiles specs in order. Every label must be registered and
// every expression must compile with a positive weight; the first
// violation is returned.
func NewLibrary(reg *Registry, specs []RuleSpec) (*Library, error) {
	rules := make([]Rule, 0, len(specs))
	for i, s := range specs {
		if err := reg.require(s.Label); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		if s.Weight <= 0 {
			return nil, fmt.Errorf("rule %d (%s): weight must be positive, got %d", i, s.Label, s.Weight)
		}
		re, err := regexp.Compile("(?i)" + s.Expr)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w: %v", i, s.Label, ErrInvalidPattern, err)
		}
		rules = append(rules, Rule{Label: s.Label, Pattern: re, Weight: s.Weight})
	}
	return &Library{rules: rules}, nil
}

// Rules returns the rules in evaluation order.
func (l *Library) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	copy(out, l.rules)
	return out
}

// Best returns the label of the highest-weight rule matching text. A rule
// only replaces the running best when its weight is strictly greater, so
// among equal weights the first registered rule wins. ok is false when nothing
// matches.
func (l *Library) Best(text string) (label Label, ok bool) {
	if text == "" {
		return LabelDefault, false
	}
	bestWeight := 0
	for _, r := range l.rules {
		if r.Weight <= bestWeight {
			continue
		}
		if !r.Pattern.MatchString(text) {
			continue
		}
		label, bestWeight, ok = r.Label, r.Weight, true
	}
	if !ok {
		return LabelDefault, false
	}
	return label, true
}
