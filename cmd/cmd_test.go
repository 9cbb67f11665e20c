package cmd

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBoxes = `<style>.a { height: 5px; background-color: red } .b { height: 5px; background: #00f }</style>
<div class="a"></div><div class="b"></div>`

// execute runs a fresh command tree with quiet logging and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	rootCmd := NewRootCommand()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ppmHeader(t *testing.T, data []byte) string {
	t.Helper()
	lines := strings.SplitN(string(data), "\n", 4)
	require.GreaterOrEqual(t, len(lines), 4)
	return strings.Join(lines[:3], "\n")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestRootCmd_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"render", "batch", "dump"} {
		assert.Contains(t, out, sub)
	}
}

func TestRenderCmd_WritesPPM(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "page.html", twoBoxes)
	outPath := filepath.Join(dir, "page.ppm")

	out, err := execute(t, "render", in, "-o", outPath, "--width", "4", "--height", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully rendered")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "P3\n4 12\n255", ppmHeader(t, data))
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")[3:]
	require.Len(t, lines, 48)
	assert.Equal(t, "255 0 0", lines[0])
	assert.Equal(t, "0 0 255", lines[5*4])
	assert.Equal(t, "255 255 255", lines[10*4])
}

func TestRenderCmd_Stdout(t *testing.T) {
	in := writeFile(t, t.TempDir(), "page.html", twoBoxes)
	out, err := execute(t, "render", in, "-o", "-", "--width", "2", "--height", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "P3\n2 2\n255\n"), out)
}

func TestRenderCmd_PNG(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "page.html", twoBoxes)
	outPath := filepath.Join(dir, "page.png")

	_, err := execute(t, "render", in, "-o", outPath, "--width", "8", "--height", "8")
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestRenderCmd_AuthorCSS(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "page.html", `<div id="x"></div>`)
	sheet := writeFile(t, dir, "extra.css", "#x { height: 3px; background-color: lime }")

	out, err := execute(t, "render", in, "-o", "-", "--css", sheet, "--width", "1", "--height", "4")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "0 255 0", lines[3])
	assert.Equal(t, "255 255 255", lines[6])
}

func TestRenderCmd_FlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "page.html", twoBoxes)
	cfg := writeFile(t, dir, "blockrender.yaml", "render:\n  canvas_width: 3\n  canvas_height: 7\n")

	out, err := execute(t, "--config", cfg, "render", in, "-o", "-", "--width", "5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "P3\n5 7\n255\n"), "flag width wins, file height kept: %q", out[:12])
}

func TestRenderCmd_InvalidConfig(t *testing.T) {
	in := writeFile(t, t.TempDir(), "page.html", twoBoxes)
	_, err := execute(t, "render", in, "-o", "-", "--max-depth", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.max_depth")
}

func TestRenderCmd_CanvasTooLarge(t *testing.T) {
	in := writeFile(t, t.TempDir(), "page.html", twoBoxes)
	_, err := execute(t, "render", in, "-o", "-", "--width", "100000", "--height", "100000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed")
}

func TestRenderCmd_StructureError(t *testing.T) {
	in := writeFile(t, t.TempDir(), "deep.html", strings.Repeat("<div>", 20))
	_, err := execute(t, "render", in, "-o", "-", "--max-depth", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth")
}

func TestRenderCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.html"), "-o", "-")
	assert.Error(t, err)
}

func TestRenderCmd_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(twoBoxes))
	}))
	defer srv.Close()

	out, err := execute(t, "render", srv.URL+"/page.html", "-o", "-", "--width", "1", "--height", "1")
	require.NoError(t, err)
	assert.Equal(t, "P3\n1 1\n255\n255 0 0\n", out)
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.html", twoBoxes)
	b := writeFile(t, dir, "b.html", `<div style="height: 2px; background: black"></div>`)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "batch", a, b, "--out-dir", outDir, "--format", "png", "-w", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "a -> ")
	assert.Contains(t, out, "b -> ")
	for _, name := range []string{"a.png", "b.png"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestBatchCmd_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.html", twoBoxes)
	missing := filepath.Join(dir, "missing.html")

	_, err := execute(t, "batch", good, missing, "--out-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")
	_, statErr := os.Stat(filepath.Join(dir, "good.ppm"))
	assert.NoError(t, statErr, "the good document is still written")
}

func TestBatchCmd_BadFormat(t *testing.T) {
	in := writeFile(t, t.TempDir(), "a.html", twoBoxes)
	_, err := execute(t, "batch", in, "--format", "gif")
	assert.Error(t, err)
}

func TestJobNames(t *testing.T) {
	got := jobNames([]string{
		"docs/index.html",
		"other/index.html",
		"https://example.com/",
		"https://example.com/a/page.htm?q=1",
		"file:///tmp/x.html",
	})
	assert.Equal(t, []string{"index", "index-2", "example", "page", "x"}, got)
}

func TestDumpCmd(t *testing.T) {
	in := writeFile(t, t.TempDir(), "page.html", `<div id="main"><p>Hi</p></div>`)

	out, err := execute(t, "dump", in)
	require.NoError(t, err)
	assert.Contains(t, out, "document")
	assert.Contains(t, out, `<div id="main">`)
	assert.Contains(t, out, `"Hi"`)

	out, err = execute(t, "dump", in, "--layout", "--viewport-width", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "Block <div> x=0 y=0 w=300")
	assert.Contains(t, out, "TEXT(")

	out, err = execute(t, "dump", in, "--html")
	require.NoError(t, err)
	assert.Equal(t, "<div id=\"main\"><p>Hi</p></div>\n", out)
}
