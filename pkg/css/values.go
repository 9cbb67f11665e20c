package css

import (
	"math"
	"strconv"
	"strings"
)

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns Left + Right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

// DefaultFontSize is the font size in px of an element nobody styled.
const DefaultFontSize = 16.0

// ParseLength parses an absolute length value (e.g., "100px" or "100").
// Relative units are handled by ResolveLength.
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

// ResolveLength converts a length to px. Percentages resolve against
// reference, em against fontSize. "auto" and anything unparseable report
// false.
func ResolveLength(val string, reference, fontSize float64) (float64, bool) {
	val = strings.TrimSpace(strings.ToLower(val))
	switch {
	case val == "" || val == "auto":
		return 0, false
	case strings.HasSuffix(val, "%"):
		n, ok := ParseLength(strings.TrimSuffix(val, "%"))
		if !ok {
			return 0, false
		}
		return n * reference / 100, true
	case strings.HasSuffix(val, "rem"):
		n, ok := ParseLength(strings.TrimSuffix(val, "rem"))
		if !ok {
			return 0, false
		}
		return n * DefaultFontSize, true
	case strings.HasSuffix(val, "em"):
		n, ok := ParseLength(strings.TrimSuffix(val, "em"))
		if !ok {
			return 0, false
		}
		return n * fontSize, true
	case strings.HasSuffix(val, "pt"):
		n, ok := ParseLength(strings.TrimSuffix(val, "pt"))
		if !ok {
			return 0, false
		}
		return n * 4 / 3, true
	}
	return ParseLength(val)
}

// Color is an sRGB color with 8-bit alpha.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the initial background color.
var Transparent = Color{}

// Opaque reports whether the color fully covers what is beneath it.
func (c Color) Opaque() bool { return c.A == 255 }

var namedColors = map[string]Color{
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"white":   {255, 255, 255, 255},
	"black":   {0, 0, 0, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {128, 0, 128, 255},
	"pink":    {255, 192, 203, 255},
	"brown":   {165, 42, 42, 255},
	"lime":    {0, 255, 0, 255},
	"navy":    {0, 0, 128, 255},
	"teal":    {0, 128, 128, 255},
	"silver":  {192, 192, 192, 255},
	"maroon":  {128, 0, 0, 255},
	"olive":   {128, 128, 0, 255},
	"aqua":    {0, 255, 255, 255},
	"fuchsia": {255, 0, 255, 255},
}

// ParseColor decodes named colors, #rgb, #rrggbb, #rrggbbaa, rgb() and
// rgba().
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "transparent" {
		return Transparent, true
	}
	if color, ok := namedColors[colorStr]; ok {
		return color, true
	}
	if strings.HasPrefix(colorStr, "#") {
		return parseHexColor(colorStr[1:])
	}
	if strings.HasPrefix(colorStr, "rgb(") || strings.HasPrefix(colorStr, "rgba(") {
		return parseRGBFunction(colorStr)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(hex) == 8 {
		return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
}

func parseRGBFunction(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Color{}, false
	}
	args := strings.FieldsFunc(s[open+1:len(s)-1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(args[i])
		if !ok {
			return Color{}, false
		}
		channels[i] = v
	}
	alpha := uint8(255)
	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return Color{}, false
		}
		alpha = a
	}
	return Color{channels[0], channels[1], channels[2], alpha}, true
}

func parseChannel(arg string) (uint8, bool) {
	if strings.HasSuffix(arg, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clampByte(n * 255 / 100), true
	}
	n, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	return clampByte(n), true
}

func parseAlpha(arg string) (uint8, bool) {
	if strings.HasSuffix(arg, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clampByte(n * 255 / 100), true
	}
	n, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	return clampByte(n * 255), true
}

func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
