package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputedStyle_Defaults(t *testing.T) {
	var nilStyle *ComputedStyle
	assert.Equal(t, "block", nilStyle.Get("display"))

	s := NewComputedStyle(nil)
	assert.Equal(t, DisplayBlock, s.Display())
	assert.True(t, s.IsAuto("width"))
	assert.Equal(t, Transparent, s.GetBackgroundColor())
	assert.Equal(t, BoxEdge{}, s.GetBorderWidth())
	assert.True(t, s.IsVisible())
}

func TestComputedStyle_Display(t *testing.T) {
	for value, want := range map[string]Display{
		"inline":       DisplayInline,
		"inline-block": DisplayInline,
		"NONE":         DisplayNone,
		"block":        DisplayBlock,
		"flex":         DisplayBlock,
	} {
		assert.Equal(t, want, NewComputedStyle(map[string]string{"display": value}).Display(), value)
	}
}

func TestComputedStyle_MarginAndPadding(t *testing.T) {
	s := NewComputedStyle(map[string]string{
		"margin-top":     "-5px",
		"margin-left":    "10%",
		"margin-right":   "auto",
		"margin-bottom":  "2em",
		"padding-top":    "-3px",
		"padding-left":   "garbage",
		"padding-right":  "25%",
		"padding-bottom": "4px",
		"font-size":      "10px",
	})
	assert.Equal(t, BoxEdge{Top: -5, Right: 0, Bottom: 20, Left: 20}, s.GetMargin(200))
	assert.Equal(t, BoxEdge{Top: 0, Right: 50, Bottom: 4, Left: 0}, s.GetPadding(200))
}

func TestComputedStyle_BorderWidthNeedsStyle(t *testing.T) {
	s := NewComputedStyle(map[string]string{
		"border-top-width":    "4px",
		"border-top-style":    "solid",
		"border-right-width":  "4px",
		"border-right-style":  "none",
		"border-bottom-width": "4px",
		"border-bottom-style": "hidden",
		"border-left-width":   "-2px",
		"border-left-style":   "dashed",
	})
	assert.Equal(t, BoxEdge{Top: 4}, s.GetBorderWidth())
}

func TestComputedStyle_Colors(t *testing.T) {
	s := NewComputedStyle(map[string]string{
		"color":            "navy",
		"background-color": "#ff000080",
		"border-top-color": "red",
	})
	assert.Equal(t, Color{0, 0, 128, 255}, s.GetColor())
	assert.Equal(t, Color{255, 0, 0, 128}, s.GetBackgroundColor())
	assert.Equal(t, Color{255, 0, 0, 255}, s.GetBorderColor("top"))
	assert.Equal(t, Color{0, 0, 128, 255}, s.GetBorderColor("left"), "currentcolor falls back to color")
}

func TestComputedStyle_Visibility(t *testing.T) {
	assert.False(t, NewComputedStyle(map[string]string{"visibility": "hidden"}).IsVisible())
	assert.False(t, NewComputedStyle(map[string]string{"visibility": "collapse"}).IsVisible())
}

func TestComputedStyle_PropertiesIsACopy(t *testing.T) {
	s := NewComputedStyle(map[string]string{"color": "red"})
	props := s.Properties()
	props["color"] = "blue"
	assert.Equal(t, "red", s.Get("color"))
}
