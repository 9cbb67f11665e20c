package layout

import (
	"blockrender/pkg/css"
	"blockrender/pkg/html"
)

// BoxType tags the kind of a LayoutBox. The set is closed; code that
// switches on it handles every case.
type BoxType int

const (
	BlockBox       BoxType = iota // element whose display is not inline
	InlineBox                     // inline element or text run
	AnonymousBlock                // wrapper around an inline run between block siblings
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "Block"
	case InlineBox:
		return "Inline"
	case AnonymousBlock:
		return "AnonymousBlock"
	}
	return "Unknown"
}

// Rect represents a rectangular region
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ExpandedBy returns the rect grown outward by edge on every side.
func (r Rect) ExpandedBy(edge css.BoxEdge) Rect {
	return Rect{
		X:      r.X - edge.Left,
		Y:      r.Y - edge.Top,
		Width:  r.Width + edge.Left + edge.Right,
		Height: r.Height + edge.Top + edge.Bottom,
	}
}

// Dimensions is the box model of one box: the content rect and the three
// edges around it.
type Dimensions struct {
	Content Rect
	Padding css.BoxEdge
	Border  css.BoxEdge
	Margin  css.BoxEdge
}

// PaddingBox is the content area plus padding.
func (d Dimensions) PaddingBox() Rect { return d.Content.ExpandedBy(d.Padding) }

// BorderBox is the content area plus padding and borders.
func (d Dimensions) BorderBox() Rect { return d.PaddingBox().ExpandedBy(d.Border) }

// MarginBox is the outer extent of the box. Its height is what a box
// contributes to its parent's running cursor.
func (d Dimensions) MarginBox() Rect { return d.BorderBox().ExpandedBy(d.Margin) }

// LayoutBox is one node of the layout tree. Block-level elements map to
// boxes 1:1; anonymous blocks have no Node.
type LayoutBox struct {
	Type       BoxType
	Dimensions Dimensions
	Node       *html.Node
	Style      *css.ComputedStyle
	Children   []*LayoutBox
}

// IsBlockLevel reports whether the box stacks vertically in its parent.
func (b *LayoutBox) IsBlockLevel() bool {
	return b.Type != InlineBox
}

// Count returns the number of boxes in the subtree rooted at b.
func (b *LayoutBox) Count() int {
	count := 0
	stack := []*LayoutBox{b}
	for len(stack) > 0 {
		box := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, box.Children...)
	}
	return count
}
