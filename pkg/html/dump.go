package html

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump renders the document as an indented tree for debugging.
func (d *Document) Dump() string {
	tree := treeprint.NewWithRoot(describeNode(d.Root))
	dumpChildren(tree, d.Root)
	return tree.String()
}

func dumpChildren(tree treeprint.Tree, n *Node) {
	for _, child := range n.Children {
		if child.Type == TextNode || len(child.Children) == 0 {
			tree.AddNode(describeNode(child))
			continue
		}
		dumpChildren(tree.AddBranch(describeNode(child)), child)
	}
}

func describeNode(n *Node) string {
	if n.Type == TextNode {
		return fmt.Sprintf("%q", n.Text)
	}
	if len(n.Attributes) == 0 {
		return "<" + n.TagName + ">"
	}
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, n.Attributes[k]))
	}
	return "<" + n.TagName + " " + strings.Join(parts, " ") + ">"
}
