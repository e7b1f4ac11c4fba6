// Package snapshot renders the packed universe to an image.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"packedlife/src/engine"
)

var (
	DeadColor  = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	AliveColor = color.RGBA{0x00, 0xA7, 0xE1, 0xFF}
)

const (
	deadIndex  = 0
	aliveIndex = 1
)

// Render draws one pixel per cell and scales the result by scale using nearest neighbour.
func Render(f engine.Frame, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	palette := color.Palette{DeadColor, AliveColor}
	cells := image.NewPaletted(image.Rect(0, 0, f.Width, f.Height), palette)
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			if f.Alive(row, col) {
				cells.SetColorIndex(col, row, aliveIndex)
			}
		}
	}
	if scale == 1 {
		return cells
	}
	dst := image.NewPaletted(image.Rect(0, 0, f.Width*scale, f.Height*scale), palette)
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), cells, cells.Bounds(), xdraw.Src, nil)
	return dst
}

// WritePNG renders the frame and saves it as PNG.
func WritePNG(path string, f engine.Frame, scale int) error {
	if f.Width == 0 || f.Height == 0 {
		return fmt.Errorf("snapshot %s: empty universe", path)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(out, Render(f, scale)); err != nil {
		out.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return out.Close()
}
