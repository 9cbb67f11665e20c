package css

import (
	"fmt"
	"strings"
)

// Selector is a simple selector: an optional tag, an optional id and a set
// of classes. An empty Tag matches any element.
type Selector struct {
	Tag     string
	ID      string
	Classes []string
}

// Specificity weighs a selector for the cascade. Comparison is
// lexicographic over (IDs, Classes, Tags).
type Specificity struct {
	IDs     int
	Classes int
	Tags    int
}

func (s Selector) Specificity() Specificity {
	spec := Specificity{Classes: len(s.Classes)}
	if s.ID != "" {
		spec.IDs = 1
	}
	if s.Tag != "" {
		spec.Tags = 1
	}
	return spec
}

// Compare returns -1, 0 or 1 as a is less than, equal to or greater than b.
func (a Specificity) Compare(b Specificity) int {
	switch {
	case a.IDs != b.IDs:
		return sign(a.IDs - b.IDs)
	case a.Classes != b.Classes:
		return sign(a.Classes - b.Classes)
	default:
		return sign(a.Tags - b.Tags)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func (s Selector) String() string {
	var sb strings.Builder
	sb.WriteString(s.Tag)
	if s.ID != "" {
		sb.WriteString("#" + s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteString("." + c)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Declaration is one property assignment. The value stays an opaque string;
// consumers decode lengths and colors when they need them.
type Declaration struct {
	Property string
	Value    string
}

// Rule represents a CSS rule (selector list + declarations)
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet holds rules in source order. The order is the cascade's final
// tie-break, so nothing may reorder it.
type Stylesheet struct {
	Rules []Rule
}

func (s *Stylesheet) String() string {
	var sb strings.Builder
	for _, rule := range s.Rules {
		names := make([]string, len(rule.Selectors))
		for i, sel := range rule.Selectors {
			names[i] = sel.String()
		}
		fmt.Fprintf(&sb, "%s {\n", strings.Join(names, ", "))
		for _, decl := range rule.Declarations {
			fmt.Fprintf(&sb, "  %s: %s;\n", decl.Property, decl.Value)
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
