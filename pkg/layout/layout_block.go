package layout

import (
	"strings"

	"blockrender/pkg/limits"
)

// layoutBlock lays out a block-level box inside the content rect of its
// containing block, with the top of its margin box at cursorY. Width and
// position are computed top-down before the children; height bottom-up
// after them.
func (e *Engine) layoutBlock(box *LayoutBox, containing Rect, cursorY float64, depth limits.Depth) error {
	calculateBlockWidth(box, containing)
	calculateBlockPosition(box, containing, cursorY)
	if err := e.layoutBlockChildren(box, depth); err != nil {
		return err
	}
	calculateBlockHeight(box)
	return nil
}

// calculateBlockWidth resolves width and horizontal margins so that
// margin + border + padding + width equals the containing width. An auto
// width fills; auto margins around a fixed width center the box; an
// over-constrained box gives the difference to margin-right.
func calculateBlockWidth(box *LayoutBox, containing Rect) {
	style := box.Style
	d := &box.Dimensions
	available := containing.Width

	d.Padding = style.GetPadding(available)
	d.Border = style.GetBorderWidth()
	margin := style.GetMargin(available)
	autoLeft := style.IsAuto("margin-left")
	autoRight := style.IsAuto("margin-right")

	width, explicit := style.Length("width", available)
	autoWidth := !explicit
	width = nonNegative(width)

	total := margin.Left + margin.Right + d.Border.Horizontal() + d.Padding.Horizontal()
	if !autoWidth {
		total += width
		if total > available {
			autoLeft, autoRight = false, false
		}
	}
	underflow := available - total

	switch {
	case autoWidth:
		if underflow >= 0 {
			width = underflow
		} else {
			width = 0
			margin.Right += underflow
		}
	case !autoLeft && !autoRight:
		margin.Right += underflow
	case autoLeft && !autoRight:
		margin.Left = underflow
	case !autoLeft && autoRight:
		margin.Right = underflow
	default:
		margin.Left = underflow / 2
		margin.Right = underflow / 2
	}

	d.Content.Width = width
	d.Margin = margin
}

// calculateBlockPosition places the content box below the cursor. The
// vertical margins were resolved by calculateBlockWidth.
func calculateBlockPosition(box *LayoutBox, containing Rect, cursorY float64) {
	d := &box.Dimensions
	d.Content.X = containing.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = cursorY + d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutBlockChildren lays out the children either as a vertical stack of
// blocks or as one line of inline boxes, and records their extent as the
// provisional content height.
func (e *Engine) layoutBlockChildren(box *LayoutBox, depth limits.Depth) error {
	d := &box.Dimensions
	d.Content.Height = 0
	if len(box.Children) == 0 {
		return nil
	}

	if !box.Children[0].IsBlockLevel() {
		_, height, err := e.layoutLine(box.Children, d.Content.X, d.Content.Y, d.Content.Width, depth)
		if err != nil {
			return err
		}
		d.Content.Height = height
		return nil
	}

	cursor := d.Content.Y
	for _, child := range box.Children {
		childDepth, err := depthOf(child, depth)
		if err != nil {
			return err
		}
		if err := e.layoutBlock(child, d.Content, cursor, childDepth); err != nil {
			return err
		}
		cursor += child.Dimensions.MarginBox().Height
	}
	d.Content.Height = nonNegative(cursor - d.Content.Y)
	return nil
}

// calculateBlockHeight replaces the height of the children with an
// explicit height when one is set. Children may then overflow.
func calculateBlockHeight(box *LayoutBox) {
	if height, ok := specifiedHeight(box); ok {
		box.Dimensions.Content.Height = height
	}
}

// specifiedHeight returns the explicit height of a box. Percentages count
// as auto: no containing block here has a definite height.
func specifiedHeight(box *LayoutBox) (float64, bool) {
	value := strings.TrimSpace(box.Style.Get("height"))
	if strings.HasSuffix(value, "%") {
		return 0, false
	}
	height, ok := box.Style.Length("height", 0)
	if !ok {
		return 0, false
	}
	return nonNegative(height), true
}
