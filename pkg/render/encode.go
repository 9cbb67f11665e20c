package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
)

// Format names an output image encoding.
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatPPM, FormatPNG, FormatBMP:
		return Format(ext), nil
	}
	return "", fmt.Errorf("render: unsupported image format %q", filepath.Ext(path))
}

// WritePPM serializes the canvas as an ASCII PPM: "P3", the dimensions,
// the maximum channel value 255, then one "r g b" line per pixel in
// row-major order.
func (c *Canvas) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", c.Width, c.Height); err != nil {
		return err
	}
	line := make([]byte, 0, 16)
	for _, p := range c.pixels {
		line = strconv.AppendUint(line[:0], uint64(p.R), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(p.G), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(p.B), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return gg.NewContextForImage(c).EncodePNG(w)
}

// EncodeBMP writes the canvas as an uncompressed BMP.
func (c *Canvas) EncodeBMP(w io.Writer) error {
	return bmp.Encode(w, c)
}

// Encode writes the canvas in the given format.
func (c *Canvas) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatPPM:
		return c.WritePPM(w)
	case FormatPNG:
		return c.EncodePNG(w)
	case FormatBMP:
		return c.EncodeBMP(w)
	}
	return fmt.Errorf("render: unsupported image format %q", string(format))
}

// SavePNG writes the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	return gg.SavePNG(path, c)
}

// Save writes the canvas to path, choosing the encoding from the file
// extension.
func (c *Canvas) Save(path string) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatPNG {
		return c.SavePNG(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return c.Encode(f, format)
}
