// Package indicator draws the small numbered badge that shows which
// included device is the current default.
package indicator

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	ico "github.com/sergeymakinen/go-ico"
)

// Size is the edge length Render draws at
const Size = 32

const (
	radius = 14
	scale  = 2
)

var (
	background = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	foreground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// 3x5 bitmap glyphs, one row per string
var digits = [10][5]string{
	{"###", "#.#", "#.#", "#.#", "###"},
	{".#.", "##.", ".#.", ".#.", "###"},
	{"###", "..#", "###", "#..", "###"},
	{"###", "..#", "###", "..#", "###"},
	{"#.#", "#.#", "###", "..#", "..#"},
	{"###", "#..", "###", "..#", "###"},
	{"###", "#..", "###", "#.#", "###"},
	{"###", "..#", "..#", ".#.", ".#."},
	{"###", "#.#", "###", "#.#", "###"},
	{"###", "#.#", "###", "..#", "###"},
}

// Render draws position n (1-based) as a white digit on a dark disc.
// Positions above 9 are drawn as 9; n <= 0 draws the disc alone.
func Render(n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))

	c := Size / 2
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, background)
			}
		}
	}

	if n <= 0 {
		return img
	}
	if n > 9 {
		n = 9
	}

	x0 := (Size - 3*scale) / 2
	y0 := (Size - 5*scale) / 2
	for r, row := range digits[n] {
		for col, px := range row {
			if px != '#' {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x0+col*scale+dx, y0+r*scale+dy, foreground)
				}
			}
		}
	}
	return img
}

// Image renders n at the requested edge length
func Image(n, size int) image.Image {
	img := Render(n)
	if size <= 0 || size == Size {
		return img
	}
	return resize.Resize(uint(size), uint(size), img, resize.NearestNeighbor)
}

// EncodeICO writes the badge as a single-image .ico
func EncodeICO(w io.Writer, n, size int) error {
	if err := ico.Encode(w, Image(n, size)); err != nil {
		return fmt.Errorf("failed to encode icon: %w", err)
	}
	return nil
}

// EncodePNG writes the badge as a PNG
func EncodePNG(w io.Writer, n, size int) error {
	if err := png.Encode(w, Image(n, size)); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WriteFile renders n to path, choosing the format from the extension.
// The file is replaced atomically so a tray reading it never sees a partial image.
func WriteFile(path string, n, size int) error {
	var encode func(io.Writer, int, int) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ico":
		encode = EncodeICO
	case ".png":
		encode = EncodePNG
	default:
		return fmt.Errorf("unsupported indicator format: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create indicator directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".indicator-*")
	if err != nil {
		return fmt.Errorf("failed to create indicator file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, n, size); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write indicator file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace indicator file: %w", err)
	}
	return nil
}
