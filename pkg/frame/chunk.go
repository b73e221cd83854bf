package frame

// DefaultChunkSize bounds how many rectangles ride in one wire packet.
// Busy frames split across several packets so no single message balloons.
const DefaultChunkSize = 50

// SplitRects slices rects into chunks of at most size rectangles each,
// preserving order. The final chunk may be smaller; an empty input yields
// no chunks at all, never one empty chunk. A non-positive size puts
// everything in a single chunk.
func SplitRects(rects []Rect, size int) [][]Rect {
	if len(rects) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]Rect{rects}
	}
	chunks := make([][]Rect, 0, (len(rects)+size-1)/size)
	for start := 0; start < len(rects); start += size {
		end := start + size
		if end > len(rects) {
			end = len(rects)
		}
		chunks = append(chunks, rects[start:end])
	}
	return chunks
}
