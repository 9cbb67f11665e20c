package layout

import (
	"math"

	"blockrender/pkg/css"
	"blockrender/pkg/html"
	"blockrender/pkg/limits"
)

// Options tunes the layout engine.
type Options struct {
	// MaxDepth bounds box nesting; zero selects limits.DefaultMaxDepth.
	MaxDepth int
}

// Engine lays out documents against a fixed viewport. It holds no state
// between calls, so one Engine may serve concurrent documents.
type Engine struct {
	viewportWidth float64
	maxDepth      int
}

func NewEngine(viewportWidth float64, opts Options) *Engine {
	return &Engine{
		viewportWidth: nonNegative(viewportWidth),
		maxDepth:      opts.MaxDepth,
	}
}

// Layout generates the box tree for doc and positions every box. The
// document root always becomes a Block box whose containing block is the
// viewport: x=0, y=0 and the viewport width.
func Layout(doc *html.Document, styles css.StyleMap, viewportWidth float64, opts Options) (*LayoutBox, error) {
	return NewEngine(viewportWidth, opts).Layout(doc, styles)
}

func (e *Engine) Layout(doc *html.Document, styles css.StyleMap) (*LayoutBox, error) {
	var rootNode *html.Node
	if doc != nil {
		rootNode = doc.Root
	}
	root, err := e.buildRoot(rootNode, styles)
	if err != nil {
		return nil, err
	}
	viewport := Rect{Width: e.viewportWidth}
	if err := e.layoutBlock(root, viewport, 0, limits.NewDepth("layout", e.maxDepth)); err != nil {
		return nil, err
	}
	return root, nil
}

// nonNegative clamps NaN and negative lengths to zero.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat32
	}
	return v
}
