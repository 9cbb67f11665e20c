package css

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockrender/pkg/html"
	"blockrender/pkg/limits"
)

func resolve(t *testing.T, src string, sheets ...string) (*html.Document, StyleMap) {
	t.Helper()
	doc, err := html.Parse(src)
	require.NoError(t, err)
	parsed := make([]*Stylesheet, 0, len(sheets))
	for _, s := range sheets {
		parsed = append(parsed, Parse(s))
	}
	styles, err := Resolve(doc, parsed, ResolveOptions{})
	require.NoError(t, err)
	return doc, styles
}

// find returns the first element with the given tag in document order.
func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.TagName == tag {
		return n
	}
	for _, c := range n.Children {
		if found := find(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestCascade_IDBeatsClassRegardlessOfOrder(t *testing.T) {
	for _, css := range []string{
		"#x { color: red; } .c { color: blue; }",
		".c { color: blue; } #x { color: red; }",
	} {
		doc, styles := resolve(t, `<p id="x" class="c">t</p>`, css)
		assert.Equal(t, "red", styles[find(doc.Root, "p")].Get("color"), css)
	}
}

func TestCascade_ClassBeatsTag(t *testing.T) {
	doc, styles := resolve(t, `<p class="c">t</p>`, ".c { color: blue; } p { color: red; }")
	assert.Equal(t, "blue", styles[find(doc.Root, "p")].Get("color"))
}

func TestCascade_SourceOrderBreaksTies(t *testing.T) {
	doc, styles := resolve(t, `<p>t</p>`, "p { color: red; } p { color: blue; }")
	assert.Equal(t, "blue", styles[find(doc.Root, "p")].Get("color"))

	// Order carries across stylesheets: later sheets come later.
	doc, styles = resolve(t, `<p>t</p>`, "p { color: red; }", "p { color: green; }")
	assert.Equal(t, "green", styles[find(doc.Root, "p")].Get("color"))
}

func TestCascade_LaterDeclarationInRuleWins(t *testing.T) {
	doc, styles := resolve(t, `<p>t</p>`, "p { margin: 1px; margin-left: 5px; }")
	s := styles[find(doc.Root, "p")]
	assert.Equal(t, "1px", s.Get("margin-top"))
	assert.Equal(t, "5px", s.Get("margin-left"))
}

func TestCascade_Inheritance(t *testing.T) {
	doc, styles := resolve(t, `<div><p>x</p></div>`, "div { color: red; margin-top: 5px; }")
	p := find(doc.Root, "p")
	assert.Equal(t, "red", styles[p].Get("color"))
	assert.Equal(t, "0", styles[p].Get("margin-top"), "margins are not inherited")

	text := p.Children[0]
	require.Equal(t, html.TextNode, text.Type)
	assert.Equal(t, "red", styles[text].Get("color"))
	assert.Equal(t, DisplayInline, styles[text].Display())
}

func TestCascade_InlineStyleWins(t *testing.T) {
	doc, styles := resolve(t, `<p id="x" style="color: green; padding: 2px">t</p>`, "#x { color: red; }")
	s := styles[find(doc.Root, "p")]
	assert.Equal(t, "green", s.Get("color"))
	assert.Equal(t, "2px", s.Get("padding-left"))
}

func TestCascade_InheritAndInitialKeywords(t *testing.T) {
	doc, styles := resolve(t, `<div><p>t</p></div>`,
		"div { background-color: red; color: blue; } p { background-color: inherit; color: initial; }")
	s := styles[find(doc.Root, "p")]
	assert.Equal(t, "red", s.Get("background-color"))
	assert.Equal(t, InitialValues["color"], s.Get("color"))
}

func TestCascade_FontSizeComputedToPx(t *testing.T) {
	tests := []struct {
		name string
		css  string
		want float64
	}{
		{"em", "div { font-size: 20px; } p { font-size: 1.5em; }", 30},
		{"percent", "div { font-size: 20px; } p { font-size: 50%; }", 10},
		{"keyword", "p { font-size: large; }", 18},
		{"inherited", "div { font-size: 2em; }", 32},
		{"garbage keeps parent", "div { font-size: 20px; } p { font-size: huge; }", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, styles := resolve(t, `<div><p>t</p></div>`, tt.css)
			p := find(doc.Root, "p")
			assert.Equal(t, tt.want, styles[p].FontSize())
			assert.Equal(t, tt.want, styles[p.Children[0]].FontSize())
		})
	}
}

func TestCascade_EveryNodeStyled(t *testing.T) {
	doc, styles := resolve(t, `<div>a<span>b</span><br><p>c</p></div>`, DefaultTheme)
	count := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		count++
		assert.NotNil(t, styles[n], "missing style for %s", n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc.Root)
	assert.Len(t, styles, count)
	assert.Equal(t, DisplayInline, styles[find(doc.Root, "span")].Display())
	assert.Equal(t, DisplayBlock, styles[find(doc.Root, "p")].Display())
}

func TestCascade_MaxDepth(t *testing.T) {
	src := strings.Repeat("<div>", 10) + strings.Repeat("</div>", 10)
	doc, err := html.Parse(src)
	require.NoError(t, err)

	_, err = Resolve(doc, nil, ResolveOptions{MaxDepth: 3})
	var structErr *limits.StructureError
	require.True(t, errors.As(err, &structErr), "expected StructureError, got %v", err)
	assert.Equal(t, "style", structErr.Stage)

	_, err = Resolve(doc, nil, ResolveOptions{MaxDepth: 10})
	assert.NoError(t, err)
}

func TestCascade_TextDoesNotAddDepth(t *testing.T) {
	doc, err := html.Parse(strings.Repeat("<div>", 10) + "text" + strings.Repeat("</div>", 10))
	require.NoError(t, err)

	styles, err := Resolve(doc, nil, ResolveOptions{MaxDepth: 10})
	require.NoError(t, err)
	assert.Len(t, styles, 12, "root, ten divs and the text node")
}
