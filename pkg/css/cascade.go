package css

import (
	"sort"
	"strconv"
	"strings"

	"blockrender/pkg/html"
	"blockrender/pkg/limits"
)

// StyleMap holds the computed style of every node in a document, text
// nodes included.
type StyleMap map[*html.Node]*ComputedStyle

// ResolveOptions tunes the Resolver.
type ResolveOptions struct {
	// MaxDepth bounds the traversal; zero selects limits.DefaultMaxDepth.
	MaxDepth int
}

type orderedRule struct {
	rule  *Rule
	order int
}

type matchedRule struct {
	specificity Specificity
	order       int
	rule        *Rule
}

// Resolver matches rules against elements and applies the cascade. Rules
// from all stylesheets share one source order: earlier sheets come first.
type Resolver struct {
	rules    []orderedRule
	maxDepth int
}

func NewResolver(stylesheets []*Stylesheet, opts ResolveOptions) *Resolver {
	r := &Resolver{maxDepth: opts.MaxDepth}
	order := 0
	for _, sheet := range stylesheets {
		if sheet == nil {
			continue
		}
		for i := range sheet.Rules {
			r.rules = append(r.rules, orderedRule{rule: &sheet.Rules[i], order: order})
			order++
		}
	}
	return r
}

// Resolve computes styles for the whole document in one top-down pass, so
// every parent is resolved before its children inherit from it.
func Resolve(doc *html.Document, stylesheets []*Stylesheet, opts ResolveOptions) (StyleMap, error) {
	return NewResolver(stylesheets, opts).Resolve(doc)
}

func (r *Resolver) Resolve(doc *html.Document) (StyleMap, error) {
	styles := make(StyleMap)
	if err := r.resolveNode(doc.Root, nil, limits.NewDepth("style", r.maxDepth), styles); err != nil {
		return nil, err
	}
	return styles, nil
}

func (r *Resolver) resolveNode(node *html.Node, parent *ComputedStyle, depth limits.Depth, styles StyleMap) error {
	var style *ComputedStyle
	switch node.Type {
	case html.ElementNode:
		style = r.ComputeStyle(node, parent)
	case html.TextNode:
		style = InheritedStyle(parent, DisplayInline)
	}
	styles[node] = style

	for _, child := range node.Children {
		childDepth := depth
		if child.Type == html.ElementNode {
			next, err := depth.Descend()
			if err != nil {
				return err
			}
			childDepth = next
		}
		if err := r.resolveNode(child, style, childDepth, styles); err != nil {
			return err
		}
	}
	return nil
}

// ComputeStyle runs the cascade for a single element given its parent's
// computed style (nil for the root).
func (r *Resolver) ComputeStyle(node *html.Node, parent *ComputedStyle) *ComputedStyle {
	props := inheritedBase(parent)

	matches := make([]matchedRule, 0)
	for _, candidate := range r.rules {
		if spec, ok := MatchRule(node, candidate.rule); ok {
			matches = append(matches, matchedRule{specificity: spec, order: candidate.order, rule: candidate.rule})
		}
	}
	// Lower specificity first; equal specificity keeps source order, so
	// later declarations overwrite earlier ones.
	sort.SliceStable(matches, func(i, j int) bool {
		if c := matches[i].specificity.Compare(matches[j].specificity); c != 0 {
			return c < 0
		}
		return matches[i].order < matches[j].order
	})

	for _, m := range matches {
		for _, decl := range m.rule.Declarations {
			applyDeclaration(props, decl, parent)
		}
	}

	// Inline styles win over every rule.
	if styleAttr, ok := node.GetAttribute("style"); ok {
		for _, decl := range ParseDeclarations(styleAttr) {
			applyDeclaration(props, decl, parent)
		}
	}

	props["font-size"] = computeFontSize(props["font-size"], parent)
	return &ComputedStyle{properties: props}
}

// inheritedBase starts a property map from initial values with inherited
// properties copied from the parent.
func inheritedBase(parent *ComputedStyle) map[string]string {
	props := make(map[string]string, len(InitialValues))
	for k, v := range InitialValues {
		props[k] = v
	}
	if parent != nil {
		for k := range Inherited {
			if v, ok := parent.Lookup(k); ok {
				props[k] = v
			}
		}
	}
	return props
}

// InheritedStyle is the style of a box no rule can target, such as a text
// run or an anonymous block: initial values plus what it inherits.
func InheritedStyle(parent *ComputedStyle, display Display) *ComputedStyle {
	props := inheritedBase(parent)
	props["display"] = string(display)
	return &ComputedStyle{properties: props}
}

func applyDeclaration(props map[string]string, decl Declaration, parent *ComputedStyle) {
	for _, d := range ExpandShorthand(decl) {
		switch strings.ToLower(strings.TrimSpace(d.Value)) {
		case "inherit":
			if parent != nil {
				if v, ok := parent.Lookup(d.Property); ok {
					props[d.Property] = v
					continue
				}
			}
			setInitial(props, d.Property)
		case "initial":
			setInitial(props, d.Property)
		default:
			props[d.Property] = d.Value
		}
	}
}

func setInitial(props map[string]string, property string) {
	if v, ok := InitialValues[property]; ok {
		props[property] = v
		return
	}
	delete(props, property)
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32,
}

// computeFontSize turns a declared font-size into px, resolving em and %
// against the parent. Undecodable values keep the parent's size.
func computeFontSize(value string, parent *ComputedStyle) string {
	parentSize := DefaultFontSize
	if parent != nil {
		parentSize = parent.FontSize()
	}
	if px, ok := fontSizeKeywords[strings.ToLower(strings.TrimSpace(value))]; ok {
		return formatPx(px)
	}
	size, ok := ResolveLength(value, parentSize, parentSize)
	if !ok || size < 0 {
		size = parentSize
	}
	return formatPx(size)
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
