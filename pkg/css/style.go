package css

import (
	"math"
	"strings"
)

// ComputedStyle is the resolved property map of one node. It is built once
// by the Resolver and only read afterwards.
type ComputedStyle struct {
	properties map[string]string
}

// NewComputedStyle builds a style from explicit values on top of the
// initial values. It is meant for tests and synthetic boxes.
func NewComputedStyle(values map[string]string) *ComputedStyle {
	props := make(map[string]string, len(InitialValues)+len(values))
	for k, v := range InitialValues {
		props[k] = v
	}
	for k, v := range values {
		props[k] = v
	}
	return &ComputedStyle{properties: props}
}

// Get returns the computed value, or "" for a property the engine has no
// initial value for and no rule set.
func (s *ComputedStyle) Get(property string) string {
	if s == nil {
		return InitialValues[property]
	}
	if v, ok := s.properties[property]; ok {
		return v
	}
	return InitialValues[property]
}

// Lookup returns the computed value and whether one exists.
func (s *ComputedStyle) Lookup(property string) (string, bool) {
	if s == nil {
		v, ok := InitialValues[property]
		return v, ok
	}
	v, ok := s.properties[property]
	return v, ok
}

// Properties returns a copy of the computed property map.
func (s *ComputedStyle) Properties() map[string]string {
	out := make(map[string]string, len(s.properties))
	for k, v := range s.properties {
		out[k] = v
	}
	return out
}

type Display string

const (
	DisplayBlock  Display = "block"
	DisplayInline Display = "inline"
	DisplayNone   Display = "none"
)

// Display folds the display value onto the three kinds the layout engine
// distinguishes. Anything that is not inline or none lays out as a block.
func (s *ComputedStyle) Display() Display {
	switch strings.ToLower(s.Get("display")) {
	case "inline", "inline-block":
		return DisplayInline
	case "none":
		return DisplayNone
	}
	return DisplayBlock
}

// FontSize returns the computed font size in px.
func (s *ComputedStyle) FontSize() float64 {
	if v, ok := ParseLength(s.Get("font-size")); ok && v > 0 {
		return v
	}
	return DefaultFontSize
}

// IsAuto reports whether a length property is auto.
func (s *ComputedStyle) IsAuto(property string) bool {
	return strings.EqualFold(strings.TrimSpace(s.Get(property)), "auto")
}

// Length resolves a length property to px; percentages are taken of
// reference. It reports false for auto or an undecodable value.
func (s *ComputedStyle) Length(property string, reference float64) (float64, bool) {
	return ResolveLength(s.Get(property), reference, s.FontSize())
}

// lengthOrZero treats auto, garbage, NaN and negative results as zero.
func (s *ComputedStyle) lengthOrZero(property string, reference float64) float64 {
	v, ok := s.Length(property, reference)
	if !ok || math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// GetMargin returns the margin values for all four sides. Auto margins
// report zero; the layout engine checks IsAuto separately.
func (s *ComputedStyle) GetMargin(reference float64) BoxEdge {
	return BoxEdge{
		Top:    s.signedLength("margin-top", reference),
		Right:  s.signedLength("margin-right", reference),
		Bottom: s.signedLength("margin-bottom", reference),
		Left:   s.signedLength("margin-left", reference),
	}
}

// signedLength permits negative margins but still maps NaN and auto to 0.
func (s *ComputedStyle) signedLength(property string, reference float64) float64 {
	v, ok := s.Length(property, reference)
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

// GetPadding returns the padding values for all four sides
func (s *ComputedStyle) GetPadding(reference float64) BoxEdge {
	return BoxEdge{
		Top:    s.lengthOrZero("padding-top", reference),
		Right:  s.lengthOrZero("padding-right", reference),
		Bottom: s.lengthOrZero("padding-bottom", reference),
		Left:   s.lengthOrZero("padding-left", reference),
	}
}

// GetBorderWidth returns the border width for all four sides. A side whose
// style is none or hidden has no border.
func (s *ComputedStyle) GetBorderWidth() BoxEdge {
	side := func(name string) float64 {
		switch strings.ToLower(s.Get("border-" + name + "-style")) {
		case "none", "hidden", "":
			return 0
		}
		return s.lengthOrZero("border-"+name+"-width", 0)
	}
	return BoxEdge{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}

// GetColor returns the text color (default: black)
func (s *ComputedStyle) GetColor() Color {
	if color, ok := ParseColor(s.Get("color")); ok {
		return color
	}
	return Color{0, 0, 0, 255}
}

// GetBackgroundColor returns the background color (default: transparent).
func (s *ComputedStyle) GetBackgroundColor() Color {
	if color, ok := ParseColor(s.Get("background-color")); ok {
		return color
	}
	return Transparent
}

// GetBorderColor returns the color of one border side; currentcolor and
// unparseable values fall back to the text color.
func (s *ComputedStyle) GetBorderColor(side string) Color {
	if color, ok := ParseColor(s.Get("border-" + side + "-color")); ok {
		return color
	}
	return s.GetColor()
}

// IsVisible reports whether the box itself paints.
func (s *ComputedStyle) IsVisible() bool {
	switch strings.ToLower(s.Get("visibility")) {
	case "hidden", "collapse":
		return false
	}
	return true
}
