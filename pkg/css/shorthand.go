package css

import (
	"strings"
	"unicode"
)

var sides = [4]string{"top", "right", "bottom", "left"}

// ExpandShorthand rewrites shorthand properties into their longhands.
// Anything that is not a recognized shorthand is returned unchanged.
func ExpandShorthand(decl Declaration) []Declaration {
	switch decl.Property {
	case "margin", "padding":
		// margin: 10px -> margin-top/right/bottom/left: 10px
		return expandBoxProperty(decl.Property, "", decl.Value)
	case "border-width":
		return expandBoxProperty("border", "-width", decl.Value)
	case "border-style":
		return expandBoxProperty("border", "-style", decl.Value)
	case "border-color":
		return expandBoxProperty("border", "-color", decl.Value)
	case "border":
		return expandBorderProperty(sides[:], decl.Value)
	case "border-top", "border-right", "border-bottom", "border-left":
		return expandBorderProperty([]string{strings.TrimPrefix(decl.Property, "border-")}, decl.Value)
	case "background":
		return expandBackground(decl.Value)
	}
	return []Declaration{decl}
}

// splitComponents splits a shorthand value on whitespace that is not
// inside parentheses, so "2px solid rgb(255, 0, 0)" yields three parts.
func splitComponents(value string) []string {
	var parts []string
	depth, start := 0, -1
	for i, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && unicode.IsSpace(r):
			if start >= 0 {
				parts = append(parts, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, value[start:])
	}
	return parts
}

// expandBoxProperty expands a one-to-four value shorthand.
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(prefix, suffix, value string) []Declaration {
	parts := splitComponents(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return nil
	}
	return []Declaration{
		{Property: prefix + "-top" + suffix, Value: top},
		{Property: prefix + "-right" + suffix, Value: right},
		{Property: prefix + "-bottom" + suffix, Value: bottom},
		{Property: prefix + "-left" + suffix, Value: left},
	}
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "solid": true, "dashed": true, "dotted": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

var borderWidthKeywords = map[string]string{
	"thin": "1px", "medium": "3px", "thick": "5px",
}

// expandBorderProperty expands border shorthand
// Format: "1px solid black" or "2px dotted #FF0000". Omitted parts reset
// to their initial values, as the shorthand requires.
func expandBorderProperty(which []string, value string) []Declaration {
	width, style, color := "3px", "none", "currentcolor"
	for _, part := range splitComponents(value) {
		lower := strings.ToLower(part)
		switch {
		case borderStyles[lower]:
			style = lower
		case borderWidthKeywords[lower] != "":
			width = borderWidthKeywords[lower]
		default:
			if _, ok := ParseLength(lower); ok {
				width = part
			} else if _, ok := ResolveLength(lower, 0, DefaultFontSize); ok {
				width = part
			} else {
				color = part
			}
		}
	}
	out := make([]Declaration, 0, 3*len(which))
	for _, side := range which {
		out = append(out,
			Declaration{Property: "border-" + side + "-width", Value: width},
			Declaration{Property: "border-" + side + "-style", Value: style},
			Declaration{Property: "border-" + side + "-color", Value: color},
		)
	}
	return out
}

// expandBackground keeps only the color component of a background
// shorthand; images and positioning are not rendered.
func expandBackground(value string) []Declaration {
	if _, ok := ParseColor(value); ok {
		return []Declaration{{Property: "background-color", Value: value}}
	}
	for _, part := range splitComponents(value) {
		if _, ok := ParseColor(part); ok {
			return []Declaration{{Property: "background-color", Value: part}}
		}
	}
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return []Declaration{{Property: "background-color", Value: "transparent"}}
	}
	return nil
}
