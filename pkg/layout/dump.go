package layout

import (
	"fmt"

	"github.com/xlab/treeprint"

	"blockrender/pkg/html"
)

// Dump renders the box tree with each box's content rect, for debugging
// and golden tests.
func (b *LayoutBox) Dump() string {
	tree := treeprint.NewWithRoot(describeBox(b))
	dumpBoxes(tree, b)
	return tree.String()
}

func dumpBoxes(tree treeprint.Tree, b *LayoutBox) {
	for _, child := range b.Children {
		if len(child.Children) == 0 {
			tree.AddNode(describeBox(child))
			continue
		}
		dumpBoxes(tree.AddBranch(describeBox(child)), child)
	}
}

func describeBox(b *LayoutBox) string {
	c := b.Dimensions.Content
	return fmt.Sprintf("%s %s x=%g y=%g w=%g h=%g", b.Type, getNodeName(b.Node), c.X, c.Y, c.Width, c.Height)
}

// getNodeName returns a debug string for a node
func getNodeName(node *html.Node) string {
	if node == nil {
		return "(anonymous)"
	}
	if node.Type == html.TextNode {
		return fmt.Sprintf("TEXT(%q)", truncateString(node.Text, 20))
	}
	return "<" + node.TagName + ">"
}

// truncateString truncates a string to maxLen runes
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
