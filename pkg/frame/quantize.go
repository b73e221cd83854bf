package frame

// DefaultLevels is the default number of quantization buckets per channel.
// Capture noise shifts near-identical colors by a unit or two; 16 buckets
// absorbs that without making the stream look posterized on the viewer.
const DefaultLevels = 16

// QuantizeColor maps each channel of c to the midpoint of its bucket, with
// levels buckets spanning 0-255. The mapping is idempotent: quantizing an
// already-quantized color returns it unchanged, so a stored frame never
// produces spurious deltas against a re-quantized capture.
func QuantizeColor(c Color, levels int) Color {
	step := 256 / levels
	return Color{
		R: quantizeChannel(c.R, step),
		G: quantizeChannel(c.G, step),
		B: quantizeChannel(c.B, step),
	}
}

func quantizeChannel(v uint8, step int) uint8 {
	q := (int(v)/step)*step + step/2
	if q > 255 {
		q = 255
	}
	return uint8(q)
}

// Quantize returns a copy of f with every cell quantized to levels buckets
// per channel.
func (f *Frame) Quantize(levels int) *Frame {
	out := New(f.Width, f.Height)
	for i, c := range f.pix {
		out.pix[i] = QuantizeColor(c, levels)
	}
	return out
}
