package layout

import (
	"math"

	"blockrender/pkg/html"
	"blockrender/pkg/limits"
)

// depthOf returns the nesting level of child, a box directly inside a box
// at parent. Only element boxes open a level: text runs and anonymous
// wrappers share their parent's, matching the element nesting the tree
// builder and the style resolver count.
func depthOf(child *LayoutBox, parent limits.Depth) (limits.Depth, error) {
	if child.Node == nil || child.Node.Type != html.ElementNode {
		return parent, nil
	}
	return parent.Descend()
}

// layoutLine places inline-level boxes left to right on one line starting
// at (x, y) and returns the line's width and height. Lines do not wrap:
// text has no measured extent, so nothing here can overflow on its own.
func (e *Engine) layoutLine(boxes []*LayoutBox, x, y, available float64, depth limits.Depth) (float64, float64, error) {
	cursorX := x
	lineHeight := 0.0
	for _, box := range boxes {
		boxDepth, err := depthOf(box, depth)
		if err != nil {
			return 0, 0, err
		}
		if err := e.layoutInline(box, cursorX, y, available, boxDepth); err != nil {
			return 0, 0, err
		}
		outer := box.Dimensions.MarginBox()
		cursorX += outer.Width
		lineHeight = math.Max(lineHeight, outer.Height)
	}
	return nonNegative(cursorX - x), lineHeight, nil
}

// layoutInline sizes an inline box to its content unless width or height
// are given. Vertical margins and padding do not apply to inline boxes.
func (e *Engine) layoutInline(box *LayoutBox, x, y, available float64, depth limits.Depth) error {
	d := &box.Dimensions
	if box.Node != nil && box.Node.Type == html.TextNode {
		d.Content = Rect{X: x, Y: y}
		return nil
	}

	style := box.Style
	d.Padding = style.GetPadding(available)
	d.Padding.Top, d.Padding.Bottom = 0, 0
	d.Border = style.GetBorderWidth()
	d.Margin = style.GetMargin(available)
	d.Margin.Top, d.Margin.Bottom = 0, 0

	d.Content.X = x + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = y + d.Border.Top

	var contentWidth, contentHeight float64
	if len(box.Children) > 0 {
		var err error
		contentWidth, contentHeight, err = e.layoutLine(box.Children, d.Content.X, d.Content.Y, available, depth)
		if err != nil {
			return err
		}
	}

	if width, ok := style.Length("width", available); ok {
		contentWidth = nonNegative(width)
	}
	d.Content.Width = contentWidth
	d.Content.Height = contentHeight
	if height, ok := specifiedHeight(box); ok {
		d.Content.Height = height
	}
	return nil
}
