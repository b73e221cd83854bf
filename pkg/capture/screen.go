package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	"golang.org/x/image/draw"

	"github.com/speccast/speccast/pkg/frame"
)

// Screen captures one display and downscales it to the stream resolution.
// The viewer renders a coarse grid of colored rectangles rather than raw
// pixels, so the downscale is where the bandwidth reduction happens.
type Screen struct {
	display int
	width   int
	height  int
}

// NewScreen returns a source streaming the given display index at the
// given stream resolution.
func NewScreen(display, width, height int) (*Screen, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays")
	}
	if display < 0 || display >= n {
		return nil, fmt.Errorf("display %d out of range (%d available)", display, n)
	}
	return &Screen{display: display, width: width, height: height}, nil
}

// Size returns the stream resolution, not the display's native size.
func (s *Screen) Size() (int, int) {
	return s.width, s.height
}

// Capture grabs the display and scales it down. CatmullRom keeps thin
// high-contrast content (terminal text, window borders) from aliasing
// into flicker that the delta stage would then re-send every cycle.
func (s *Screen) Capture() (*frame.Frame, error) {
	img, err := screenshot.CaptureDisplay(s.display)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", s.display, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return frame.FromImage(dst), nil
}
