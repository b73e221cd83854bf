package capture

import (
	"sync"

	"github.com/speccast/speccast/pkg/frame"
)

var syntheticPalette = []frame.Color{
	{R: 230, G: 80, B: 80},
	{R: 80, G: 200, B: 120},
	{R: 90, G: 140, B: 230},
	{R: 230, G: 200, B: 90},
}

// Synthetic renders a deterministic moving block on a dark backdrop. It
// exercises the whole pipeline without touching a real display, which is
// what demo mode and the tests want.
type Synthetic struct {
	width  int
	height int

	mu   sync.Mutex
	tick int
}

// NewSynthetic returns a synthetic source of the given dimensions.
func NewSynthetic(width, height int) *Synthetic {
	return &Synthetic{width: width, height: height}
}

// Size returns the configured dimensions.
func (s *Synthetic) Size() (int, int) {
	return s.width, s.height
}

// Capture renders the next step of the pattern. Each call advances the
// block one step, so consecutive frames always differ somewhere.
func (s *Synthetic) Capture() (*frame.Frame, error) {
	s.mu.Lock()
	tick := s.tick
	s.tick++
	s.mu.Unlock()

	f := frame.New(s.width, s.height)
	backdrop := frame.Color{R: 20, G: 20, B: 40}
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			f.Set(x, y, backdrop)
		}
	}

	side := s.width / 8
	if side < 1 {
		side = 1
	}
	bx := 0
	if span := s.width - side; span > 0 {
		bx = (tick * 2) % span
	}
	by := 0
	if span := s.height - side; span > 0 {
		by = tick % span
	}
	color := syntheticPalette[(tick/8)%len(syntheticPalette)]
	for y := by; y < by+side && y < s.height; y++ {
		for x := bx; x < bx+side && x < s.width; x++ {
			f.Set(x, y, color)
		}
	}
	return f, nil
}
