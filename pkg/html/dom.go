package html

import (
	"sort"
	"strings"
)

// Node is a closed sum over element and text nodes. Parents own their
// children exclusively; there are no back-pointers, so a Document is a pure
// tree that later stages can read without coordination.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	}
	return "unknown"
}

// RootTag names the synthetic element at the top of every Document.
const RootTag = "document"

type Document struct {
	Root        *Node
	Stylesheets []string // contents of <style> elements, in source order
}

func NewDocument() *Document {
	return &Document{
		Root:        NewElement(RootTag, nil),
		Stylesheets: make([]string, 0),
	}
}

// Title returns the whitespace-trimmed text of the first <title> element,
// or "" when the document has none.
func (d *Document) Title() string {
	stack := []*Node{d.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == ElementNode && n.TagName == "title" {
			return strings.TrimSpace(n.TextContent())
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return ""
}

// NewElement creates a childless element node.
func NewElement(tag string, attrs map[string]string) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    tag,
		Attributes: attrs,
		Children:   make([]*Node, 0),
	}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// ID returns the element's id attribute, or "" when absent.
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// Classes returns the whitespace-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	cls, ok := n.GetAttribute("class")
	if !ok {
		return nil
	}
	return strings.Fields(cls)
}

// AppendChild adds a child node.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// AppendText adds text to the node, extending the last child when it is
// already a text node so that character data never splits across siblings.
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	if last := n.LastChild(); last != nil && last.Type == TextNode {
		last.Text += text
		return
	}
	n.Children = append(n.Children, NewText(text))
}

// LastChild returns the final child or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// ElementDepth returns the number of element levels below n, counting n's
// children as depth 1. Text nodes do not add depth.
func (n *Node) ElementDepth() int {
	depth := 0
	for _, child := range n.Children {
		if child.Type != ElementNode {
			continue
		}
		if d := child.ElementDepth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// Serialize returns the serialized HTML of all child nodes, but not the
// node's own tags.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		serializeNode(&sb, child)
	}
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName)

	// Sort attributes for deterministic output
	if len(n.Attributes) > 0 {
		keys := make([]string, 0, len(n.Attributes))
		for k := range n.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteByte(' ')
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(escapeAttr(n.Attributes[k]))
			sb.WriteByte('"')
		}
	}

	if IsVoidElement(n.TagName) {
		sb.WriteString(">")
		return
	}

	sb.WriteByte('>')
	for _, child := range n.Children {
		serializeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteByte('>')
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// IsVoidElement reports whether tag never has children and is therefore
// never pushed onto the open-element stack.
func IsVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}
