package render

import (
	"blockrender/pkg/css"
	"blockrender/pkg/layout"
)

// Options tunes painting.
type Options struct {
	// DebugOutlines strokes every box's border box in the theme accent.
	DebugOutlines bool
}

type Renderer struct {
	canvas *Canvas
	opts   Options
}

func NewRenderer(width, height int, opts Options) *Renderer {
	return &Renderer{canvas: NewCanvas(width, height), opts: opts}
}

// Paint rasterizes a layout tree onto a fresh white canvas.
func Paint(root *layout.LayoutBox, width, height int, opts Options) *Canvas {
	r := NewRenderer(width, height, opts)
	r.Render(root)
	return r.Canvas()
}

func (r *Renderer) Canvas() *Canvas {
	return r.canvas
}

// Render paints the tree in pre-order so that descendants cover their
// ancestors. It walks an explicit stack, so nesting depth costs heap, not
// goroutine stack.
func (r *Renderer) Render(root *layout.LayoutBox) {
	if root == nil {
		return
	}
	stack := []*layout.LayoutBox{root}
	for len(stack) > 0 {
		box := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r.drawBox(box)
		for i := len(box.Children) - 1; i >= 0; i-- {
			stack = append(stack, box.Children[i])
		}
	}
}

func (r *Renderer) drawBox(box *layout.LayoutBox) {
	if box.Style != nil && box.Style.IsVisible() {
		r.drawBackground(box)
		r.drawBorder(box)
	}
	if r.opts.DebugOutlines {
		r.drawOutline(box)
	}
}

// drawBackground fills the padding box; margins and borders stay clear.
func (r *Renderer) drawBackground(box *layout.LayoutBox) {
	bg := box.Style.GetBackgroundColor()
	if bg.A == 0 {
		return
	}
	pb := box.Dimensions.PaddingBox()
	r.canvas.FillRect(pb.X, pb.Y, pb.Width, pb.Height, bg)
}

// drawBorder fills the four border bands. Top and bottom span the full
// border box; left and right fit between them so corners paint once.
func (r *Renderer) drawBorder(box *layout.LayoutBox) {
	d := box.Dimensions
	b := d.Border
	if b.Top <= 0 && b.Right <= 0 && b.Bottom <= 0 && b.Left <= 0 {
		return
	}
	bb := d.BorderBox()
	style := box.Style

	if b.Top > 0 {
		r.canvas.FillRect(bb.X, bb.Y, bb.Width, b.Top, style.GetBorderColor("top"))
	}
	if b.Bottom > 0 {
		r.canvas.FillRect(bb.X, bb.Y+bb.Height-b.Bottom, bb.Width, b.Bottom, style.GetBorderColor("bottom"))
	}
	innerY := bb.Y + b.Top
	innerHeight := bb.Height - b.Top - b.Bottom
	if b.Left > 0 {
		r.canvas.FillRect(bb.X, innerY, b.Left, innerHeight, style.GetBorderColor("left"))
	}
	if b.Right > 0 {
		r.canvas.FillRect(bb.X+bb.Width-b.Right, innerY, b.Right, innerHeight, style.GetBorderColor("right"))
	}
}

func (r *Renderer) drawOutline(box *layout.LayoutBox) {
	bb := box.Dimensions.BorderBox()
	if bb.Width <= 0 && bb.Height <= 0 {
		return
	}
	accent := css.AccentColor
	r.canvas.FillRect(bb.X, bb.Y, bb.Width, 1, accent)
	r.canvas.FillRect(bb.X, bb.Y+bb.Height-1, bb.Width, 1, accent)
	r.canvas.FillRect(bb.X, bb.Y, 1, bb.Height, accent)
	r.canvas.FillRect(bb.X+bb.Width-1, bb.Y, 1, bb.Height, accent)
}
