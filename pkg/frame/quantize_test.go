package frame

import "testing"

func TestQuantizeChannelBucketCenters(t *testing.T) {
	tests := []struct {
		name   string
		value  uint8
		levels int
		want   uint8
	}{
		{"zero maps to first bucket center", 0, 16, 8},
		{"top of first bucket", 15, 16, 8},
		{"bottom of second bucket", 16, 16, 24},
		{"max value", 255, 16, 248},
		{"two levels low half", 100, 2, 64},
		{"two levels high half", 200, 2, 192},
		{"sixteen levels mid gray", 128, 16, 136},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quantizeChannel(tt.value, 256/tt.levels)
			if got != tt.want {
				t.Errorf("quantizeChannel(%d, levels=%d) = %d, want %d", tt.value, tt.levels, got, tt.want)
			}
		})
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	// Includes level counts that do not divide 256 evenly; the top bucket
	// clamps to 255 and must still be a fixed point.
	for _, levels := range []int{2, 4, 6, 8, 16, 32, 100, 256} {
		for v := 0; v < 256; v++ {
			c := Color{R: uint8(v), G: uint8(255 - v), B: uint8(v / 2)}
			once := QuantizeColor(c, levels)
			twice := QuantizeColor(once, levels)
			if once != twice {
				t.Fatalf("levels=%d value=%d: quantize not idempotent: %v -> %v", levels, v, once, twice)
			}
		}
	}
}

func TestQuantizeFrame(t *testing.T) {
	f := New(2, 1)
	f.Set(0, 0, Color{R: 3, G: 17, B: 250})
	f.Set(1, 0, Color{R: 8, G: 24, B: 248})

	q := f.Quantize(16)

	want := Color{R: 8, G: 24, B: 248}
	if q.At(0, 0) != want {
		t.Errorf("At(0,0) = %v, want %v", q.At(0, 0), want)
	}
	if q.At(1, 0) != want {
		t.Errorf("At(1,0) = %v, want %v", q.At(1, 0), want)
	}
	// The source frame is untouched.
	if f.At(0, 0) != (Color{R: 3, G: 17, B: 250}) {
		t.Errorf("Quantize mutated its receiver: %v", f.At(0, 0))
	}
}
