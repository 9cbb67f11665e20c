package visualtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blockrender/pkg/css"
	"blockrender/pkg/html"
	"blockrender/pkg/pipeline"
	"blockrender/pkg/render"
)

// RenderHTML renders HTML content with the default theme onto a canvas of
// the given size. The viewport is as wide as the canvas.
func RenderHTML(htmlContent string, width, height int) (*render.Canvas, error) {
	result, err := pipeline.New(pipeline.Options{
		ViewportWidth:     float64(width),
		CanvasWidth:       width,
		CanvasHeight:      height,
		DefaultStylesheet: css.DefaultTheme,
	}).RenderString(htmlContent)
	if err != nil {
		return nil, err
	}
	return result.Canvas, nil
}

// RenderHTMLFile renders an HTML file to an image file; the encoding
// follows the output extension.
func RenderHTMLFile(htmlPath, outputPath string, width, height int) error {
	htmlContent, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to read HTML file: %w", err)
	}
	canvas, err := RenderHTML(string(htmlContent), width, height)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return canvas.Save(outputPath)
}

// FindRefLink returns the href of the document's <link rel="match">, or ""
// when it has none.
func FindRefLink(htmlContent string) string {
	doc, err := html.Parse(htmlContent)
	if err != nil {
		return ""
	}
	stack := []*html.Node{doc.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode && n.TagName == "link" {
			if rel, _ := n.GetAttribute("rel"); strings.EqualFold(rel, "match") {
				href, _ := n.GetAttribute("href")
				return href
			}
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return ""
}

// Reftest renders a test document and the reference it links to and
// compares the two images. A failing comparison writes a diff image next
// to the test when diffDir is set.
func Reftest(testPath string, width, height int, diffDir string) (*CompareResult, error) {
	content, err := os.ReadFile(testPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read test: %w", err)
	}
	ref := FindRefLink(string(content))
	if ref == "" {
		return nil, fmt.Errorf("%s has no <link rel=\"match\">", testPath)
	}
	refPath := filepath.Join(filepath.Dir(testPath), filepath.FromSlash(ref))
	refContent, err := os.ReadFile(refPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}

	actual, err := RenderHTML(string(content), width, height)
	if err != nil {
		return nil, fmt.Errorf("rendering test: %w", err)
	}
	expected, err := RenderHTML(string(refContent), width, height)
	if err != nil {
		return nil, fmt.Errorf("rendering reference: %w", err)
	}

	opts := ExactOptions()
	if diffDir != "" {
		name := strings.TrimSuffix(filepath.Base(testPath), filepath.Ext(testPath))
		opts.DiffImagePath = filepath.Join(diffDir, name+"-diff.png")
	}
	return CompareImages(actual, expected, opts)
}
