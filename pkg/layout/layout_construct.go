package layout

import (
	"blockrender/pkg/css"
	"blockrender/pkg/html"
	"blockrender/pkg/limits"
)

// buildRoot generates the tree for the document root, which is a Block box
// whatever its computed display.
func (e *Engine) buildRoot(node *html.Node, styles css.StyleMap) (*LayoutBox, error) {
	if node == nil {
		return &LayoutBox{Type: BlockBox, Style: css.NewComputedStyle(nil)}, nil
	}
	style := styleOf(node, nil, styles)
	root := &LayoutBox{Type: BlockBox, Node: node, Style: style}
	if style.Display() == css.DisplayNone {
		return root, nil
	}
	children, err := e.buildChildren(node, style, styles, limits.NewDepth("layout", e.maxDepth))
	if err != nil {
		return nil, err
	}
	root.Children = arrangeChildren(root, children)
	return root, nil
}

// buildBox generates the box subtree for node, or nil when the node
// generates no box (display: none).
func (e *Engine) buildBox(node *html.Node, parent *css.ComputedStyle, styles css.StyleMap, depth limits.Depth) (*LayoutBox, error) {
	style := styleOf(node, parent, styles)
	box := &LayoutBox{Node: node, Style: style}

	if node.Type == html.TextNode {
		box.Type = InlineBox
		return box, nil
	}
	switch style.Display() {
	case css.DisplayNone:
		return nil, nil
	case css.DisplayInline:
		box.Type = InlineBox
	default:
		box.Type = BlockBox
	}

	children, err := e.buildChildren(node, style, styles, depth)
	if err != nil {
		return nil, err
	}
	box.Children = arrangeChildren(box, children)
	return box, nil
}

func (e *Engine) buildChildren(node *html.Node, style *css.ComputedStyle, styles css.StyleMap, depth limits.Depth) ([]*LayoutBox, error) {
	if len(node.Children) == 0 {
		return nil, nil
	}
	children := make([]*LayoutBox, 0, len(node.Children))
	for _, child := range node.Children {
		childDepth := depth
		if child.Type == html.ElementNode {
			next, err := depth.Descend()
			if err != nil {
				return nil, err
			}
			childDepth = next
		}
		childBox, err := e.buildBox(child, style, styles, childDepth)
		if err != nil {
			return nil, err
		}
		if childBox != nil {
			children = append(children, childBox)
		}
	}
	return children, nil
}

// arrangeChildren leaves uniform child lists alone and wraps each run of
// inline-level boxes that sits next to a block sibling in one anonymous
// block. An inline box that ends up holding block-level children is laid
// out as a block.
func arrangeChildren(box *LayoutBox, children []*LayoutBox) []*LayoutBox {
	hasBlock, hasInline := false, false
	for _, child := range children {
		if child.IsBlockLevel() {
			hasBlock = true
		} else {
			hasInline = true
		}
	}
	if hasBlock && box.Type == InlineBox {
		box.Type = BlockBox
	}
	if !hasBlock || !hasInline {
		return children
	}

	arranged := make([]*LayoutBox, 0, len(children))
	var run *LayoutBox
	for _, child := range children {
		if child.IsBlockLevel() {
			run = nil
			arranged = append(arranged, child)
			continue
		}
		if run == nil {
			run = &LayoutBox{
				Type:  AnonymousBlock,
				Style: css.InheritedStyle(box.Style, css.DisplayBlock),
			}
			arranged = append(arranged, run)
		}
		run.Children = append(run.Children, child)
	}
	return arranged
}

// styleOf returns the resolved style of node, or what it would inherit
// when the style map has no entry for it.
func styleOf(node *html.Node, parent *css.ComputedStyle, styles css.StyleMap) *css.ComputedStyle {
	if style := styles[node]; style != nil {
		return style
	}
	if node.Type == html.TextNode {
		return css.InheritedStyle(parent, css.DisplayInline)
	}
	return css.InheritedStyle(parent, css.DisplayBlock)
}
