// Package frame turns captured screen images into coarse color grids and
// computes the rectangle deltas that get shipped over the wire. The pipeline
// is quantize → diff → merge → chunk; each stage is a pure function over the
// types in this package.
package frame

import "image"

// Color is one cell of a frame grid, 8 bits per channel.
type Color struct {
	R, G, B uint8
}

// Point addresses a single cell within a frame grid.
type Point struct {
	X, Y int
}

// Frame is a fixed-size grid of colors backed by a flat slice. The zero
// color is black, which doubles as the baseline a fresh session diffs its
// first capture against.
type Frame struct {
	Width  int
	Height int
	pix    []Color
}

// New returns an all-black frame of the given dimensions.
func New(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		pix:    make([]Color, width*height),
	}
}

// FromImage copies the pixels of src into a frame of the same dimensions.
// Alpha is dropped; screen content is opaque.
func FromImage(src *image.RGBA) *Frame {
	bounds := src.Bounds()
	f := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := src.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			f.pix[y*f.Width+x] = Color{R: c.R, G: c.G, B: c.B}
		}
	}
	return f
}

// At returns the color at (x, y). Callers must stay within bounds.
func (f *Frame) At(x, y int) Color {
	return f.pix[y*f.Width+x]
}

// Set writes the color at (x, y).
func (f *Frame) Set(x, y int, c Color) {
	f.pix[y*f.Width+x] = c
}
