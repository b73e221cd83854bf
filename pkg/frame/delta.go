package frame

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when two frames in a diff do not share
// the same dimensions. A capture source changing size mid-session is fatal
// to that session.
var ErrDimensionMismatch = errors.New("frame dimension mismatch")

// Delta is the set of cells whose quantized color differs between two
// frames of equal dimensions. It exists only within one diff pass.
type Delta struct {
	Width  int
	Height int
	Pixels map[Point]Color
}

// Empty reports whether the delta contains no changed cells. An empty
// delta means nothing is sent for that cycle.
func (d *Delta) Empty() bool {
	return len(d.Pixels) == 0
}

// Diff quantizes every cell of next and compares it against prev, which
// must already hold quantized colors (the capture loop stores the quantized
// frame as the new previous). Cells whose quantized color differs are
// returned with their new color; identical consecutive captures therefore
// yield an empty delta.
func Diff(prev, next *Frame, levels int) (*Delta, error) {
	if prev.Width != next.Width || prev.Height != next.Height {
		return nil, fmt.Errorf("%w: previous %dx%d, next %dx%d",
			ErrDimensionMismatch, prev.Width, prev.Height, next.Width, next.Height)
	}
	d := &Delta{
		Width:  prev.Width,
		Height: prev.Height,
		Pixels: make(map[Point]Color),
	}
	for y := 0; y < prev.Height; y++ {
		for x := 0; x < prev.Width; x++ {
			q := QuantizeColor(next.At(x, y), levels)
			if q != prev.At(x, y) {
				d.Pixels[Point{X: x, Y: y}] = q
			}
		}
	}
	return d, nil
}
