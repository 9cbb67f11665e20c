package css

import (
	"blockrender/pkg/html"
)

// MatchesSelector returns true if the element matches the simple selector:
// the tag (if any) equals the element's tag, the id (if any) equals its id
// attribute, and every class is among its class tokens.
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode {
		return false
	}
	if selector.Tag != "" && selector.Tag != node.TagName {
		return false
	}
	if selector.ID != "" && selector.ID != node.ID() {
		return false
	}
	if len(selector.Classes) == 0 {
		return true
	}
	nodeClasses := node.Classes()
	for _, required := range selector.Classes {
		found := false
		for _, have := range nodeClasses {
			if have == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchRule reports whether any selector of the rule matches the node, and
// the highest specificity among the selectors that do.
func MatchRule(node *html.Node, rule *Rule) (Specificity, bool) {
	var best Specificity
	matched := false
	for _, sel := range rule.Selectors {
		if !MatchesSelector(node, sel) {
			continue
		}
		spec := sel.Specificity()
		if !matched || spec.Compare(best) > 0 {
			best = spec
		}
		matched = true
	}
	return best, matched
}
