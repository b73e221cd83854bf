package capture

import "testing"

func TestSyntheticSize(t *testing.T) {
	s := NewSynthetic(64, 36)
	w, h := s.Size()
	if w != 64 || h != 36 {
		t.Fatalf("Size() = %dx%d, want 64x36", w, h)
	}
	f, err := s.Capture()
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if f.Width != 64 || f.Height != 36 {
		t.Fatalf("Frame is %dx%d, want 64x36", f.Width, f.Height)
	}
}

func TestSyntheticIsDeterministic(t *testing.T) {
	a := NewSynthetic(32, 18)
	b := NewSynthetic(32, 18)

	fa, _ := a.Capture()
	fb, _ := b.Capture()
	for y := 0; y < 18; y++ {
		for x := 0; x < 32; x++ {
			if fa.At(x, y) != fb.At(x, y) {
				t.Fatalf("Two fresh sources diverge at (%d,%d)", x, y)
			}
		}
	}
}

func TestSyntheticAdvances(t *testing.T) {
	s := NewSynthetic(32, 18)
	first, _ := s.Capture()
	second, _ := s.Capture()

	for y := 0; y < 18; y++ {
		for x := 0; x < 32; x++ {
			if first.At(x, y) != second.At(x, y) {
				return // pattern moved, as intended
			}
		}
	}
	t.Fatal("Consecutive synthetic frames are identical; the pipeline would never emit a delta")
}

func TestSyntheticTinyDimensions(t *testing.T) {
	s := NewSynthetic(1, 1)
	f, err := s.Capture()
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if f.Width != 1 || f.Height != 1 {
		t.Fatalf("Frame is %dx%d, want 1x1", f.Width, f.Height)
	}
}
