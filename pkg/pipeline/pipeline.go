// Package pipeline runs the whole rendering pipeline: bytes to text, text
// to DOM, DOM and stylesheets to computed styles, styles to a layout tree
// and the layout tree to pixels.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"blockrender/pkg/css"
	"blockrender/pkg/html"
	"blockrender/pkg/layout"
	"blockrender/pkg/render"
)

const (
	DefaultViewportWidth = 800
	DefaultCanvasWidth   = 800
	DefaultCanvasHeight  = 600
)

// Options configures a Pipeline. Zero sizes select the defaults above and
// canvas sides are capped at render.MaxCanvasDimension.
type Options struct {
	ViewportWidth float64
	CanvasWidth   int
	CanvasHeight  int
	MaxDepth      int

	// DefaultStylesheet is applied before the document's own <style>
	// blocks; AuthorCSS after them.
	DefaultStylesheet string
	AuthorCSS         string

	DebugOutlines bool
	Logger        *zap.Logger
}

// Result holds the output of every stage for one document.
type Result struct {
	Document    *html.Document
	Stylesheets []*css.Stylesheet
	Styles      css.StyleMap
	Layout      *layout.LayoutBox
	Canvas      *render.Canvas
}

// Pipeline is immutable after New and safe for concurrent use; each call
// builds its own document, styles, boxes and canvas.
type Pipeline struct {
	opts   Options
	logger *zap.Logger
	theme  *css.Stylesheet
	author *css.Stylesheet
}

func New(opts Options) *Pipeline {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.CanvasWidth <= 0 {
		opts.CanvasWidth = DefaultCanvasWidth
	}
	if opts.CanvasHeight <= 0 {
		opts.CanvasHeight = DefaultCanvasHeight
	}
	opts.CanvasWidth = min(opts.CanvasWidth, render.MaxCanvasDimension)
	opts.CanvasHeight = min(opts.CanvasHeight, render.MaxCanvasDimension)
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		opts:   opts,
		logger: logger.Named("pipeline"),
		theme:  css.Parse(opts.DefaultStylesheet),
		author: css.Parse(opts.AuthorCSS),
	}
}

// Render decodes raw and runs every stage with the given options.
func Render(raw []byte, contentType string, opts Options) (*Result, error) {
	return New(opts).Render(raw, contentType)
}

func (p *Pipeline) Render(raw []byte, contentType string) (*Result, error) {
	text, err := Decode(raw, contentType)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("decoded document", zap.Int("bytes", len(raw)), zap.Int("chars", len(text)))
	return p.RenderString(text)
}

// RenderString runs the pipeline on already decoded text.
func (p *Pipeline) RenderString(src string) (*Result, error) {
	start := time.Now()

	doc, err := html.ParseWithOptions(src, html.Options{MaxDepth: p.opts.MaxDepth})
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	p.logger.Debug("parsed document",
		zap.Int("nodes", countNodes(doc.Root)),
		zap.Int("depth", doc.Root.ElementDepth()),
		zap.Int("style_blocks", len(doc.Stylesheets)))

	sheets := p.stylesheets(doc)
	rules := 0
	for _, sheet := range sheets {
		rules += len(sheet.Rules)
	}
	p.logger.Debug("parsed stylesheets", zap.Int("sheets", len(sheets)), zap.Int("rules", rules))

	styles, err := css.Resolve(doc, sheets, css.ResolveOptions{MaxDepth: p.opts.MaxDepth})
	if err != nil {
		return nil, fmt.Errorf("resolving styles: %w", err)
	}
	p.logger.Debug("resolved styles", zap.Int("styled_nodes", len(styles)))

	root, err := layout.Layout(doc, styles, p.opts.ViewportWidth, layout.Options{MaxDepth: p.opts.MaxDepth})
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	p.logger.Debug("laid out document",
		zap.Int("boxes", root.Count()),
		zap.Float64("height", root.Dimensions.MarginBox().Height))

	canvas := render.Paint(root, p.opts.CanvasWidth, p.opts.CanvasHeight, render.Options{DebugOutlines: p.opts.DebugOutlines})

	p.logger.Info("rendered document",
		zap.String("title", doc.Title()),
		zap.Int("width", canvas.Width),
		zap.Int("height", canvas.Height),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{
		Document:    doc,
		Stylesheets: sheets,
		Styles:      styles,
		Layout:      root,
		Canvas:      canvas,
	}, nil
}

// stylesheets returns the sheets in cascade order: default theme, the
// document's <style> blocks, then author CSS.
func (p *Pipeline) stylesheets(doc *html.Document) []*css.Stylesheet {
	sheets := make([]*css.Stylesheet, 0, len(doc.Stylesheets)+2)
	sheets = append(sheets, p.theme)
	for _, text := range doc.Stylesheets {
		sheets = append(sheets, css.Parse(text))
	}
	return append(sheets, p.author)
}

func countNodes(root *html.Node) int {
	count := 0
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}
