package html

import (
	gohtml "html"
	"strings"
	"unicode"

	"blockrender/pkg/limits"
)

// Options tunes the tree builder.
type Options struct {
	// MaxDepth bounds element nesting; deeper documents fail with a
	// limits.StructureError. Zero selects limits.DefaultMaxDepth.
	MaxDepth int
}

// TreeBuilder turns a token stream into a Document. Its only state is the
// stack of open elements, which holds non-owning references into the tree
// rooted at the Document, plus character data awaiting attachment.
type TreeBuilder struct {
	doc      *Document
	stack    []*Node
	pending  strings.Builder
	maxDepth int
}

func NewTreeBuilder(opts Options) *TreeBuilder {
	doc := NewDocument()
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = limits.DefaultMaxDepth
	}
	return &TreeBuilder{
		doc:      doc,
		stack:    []*Node{doc.Root},
		maxDepth: maxDepth,
	}
}

// Process applies one token. The only failure is nesting beyond MaxDepth.
func (b *TreeBuilder) Process(token Token) error {
	switch token.Type {
	case TokenCharacter:
		b.pending.WriteRune(token.Char)

	case TokenStartTag:
		b.flushText()
		// The stack holds the root plus every open element, so its length
		// is the nesting level of the new element.
		if err := limits.Check("html", len(b.stack), b.maxDepth); err != nil {
			return err
		}
		node := NewElement(token.TagName, token.Attributes)
		b.currentParent().AppendChild(node)
		if IsVoidElement(token.TagName) || token.SelfClosing {
			return nil
		}
		b.push(node)

	case TokenEndTag:
		idx := b.findOpen(token.TagName)
		if idx < 0 {
			// Unmatched end tag; leave the stack alone.
			return nil
		}
		b.flushText()
		b.stack = b.stack[:idx]

	case TokenEOF:
		b.flushText()
		b.stack = b.stack[:1]
	}
	return nil
}

// Finish closes every open element and returns the Document.
func (b *TreeBuilder) Finish() *Document {
	b.flushText()
	b.stack = b.stack[:1]
	return b.doc
}

// AddStylesheet records the contents of a <style> element.
func (b *TreeBuilder) AddStylesheet(css string) {
	b.doc.Stylesheets = append(b.doc.Stylesheets, css)
}

// currentParent returns the current parent node (top of stack)
func (b *TreeBuilder) currentParent() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *TreeBuilder) push(node *Node) {
	b.stack = append(b.stack, node)
}

// findOpen returns the stack index of the innermost open element named tag,
// or -1. The synthetic root is never matched.
func (b *TreeBuilder) findOpen(tag string) int {
	for i := len(b.stack) - 1; i >= 1; i-- {
		if b.stack[i].TagName == tag {
			return i
		}
	}
	return -1
}

// flushText attaches pending character data to the stack top, decoding
// entities and collapsing whitespace. Whitespace-only runs are dropped.
func (b *TreeBuilder) flushText() {
	if b.pending.Len() == 0 {
		return
	}
	raw := b.pending.String()
	b.pending.Reset()
	if strings.TrimSpace(raw) == "" {
		return
	}
	text := gohtml.UnescapeString(normalizeWhitespace(raw))
	b.currentParent().AppendText(text)
}

// normalizeWhitespace collapses runs of whitespace to a single space,
// preserving a single space at boundaries.
func normalizeWhitespace(s string) string {
	hasLeading := len(s) > 0 && unicode.IsSpace(rune(s[0]))
	hasTrailing := len(s) > 0 && unicode.IsSpace(rune(s[len(s)-1]))

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	result := strings.Join(fields, " ")
	if hasLeading {
		result = " " + result
	}
	if hasTrailing {
		result = result + " "
	}
	return result
}

// Parser drives a Tokenizer into a TreeBuilder. It owns the raw-text
// handling for <style> and <script>, whose contents are not markup.
type Parser struct {
	tokenizer *Tokenizer
	builder   *TreeBuilder
}

func NewParser(html string, opts Options) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		builder:   NewTreeBuilder(opts),
	}
}

func (p *Parser) Parse() (*Document, error) {
	for {
		token := p.tokenizer.NextToken()
		if token.Type == TokenEOF {
			break
		}
		if token.Type == TokenStartTag && !token.SelfClosing {
			switch token.TagName {
			case "style":
				p.builder.AddStylesheet(p.tokenizer.ReadRawUntil("style"))
				continue
			case "script":
				p.tokenizer.ReadRawUntil("script")
				continue
			}
		}
		if err := p.builder.Process(token); err != nil {
			return nil, err
		}
	}
	return p.builder.Finish(), nil
}

// Parse builds a Document with default options.
func Parse(html string) (*Document, error) {
	return ParseWithOptions(html, Options{})
}

func ParseWithOptions(html string, opts Options) (*Document, error) {
	return NewParser(html, opts).Parse()
}
