package frame

// Rect is a solid-color axis-aligned block covering one or more changed
// cells of the same quantized color. W and H are always at least 1.
type Rect struct {
	X, Y  int
	W, H  int
	Color Color
}

// MergeRects collapses a delta into solid-color rectangles with a greedy
// row-major scan: from each unvisited changed cell, grow rightward while
// the next cell matches, then grow downward one full row at a time. A row
// is accepted only if every column of the rectangle's span matches
// (all-or-nothing), so a single mismatching cell blocks further downward
// growth. Growth therefore always prefers width over height.
//
// Every changed cell lands in exactly one rectangle, rectangles never
// overlap, and each rectangle covers only cells of its own color. The
// cover is not guaranteed minimal; the single greedy pass keeps this
// O(cells) instead of chasing an optimal decomposition.
func MergeRects(d *Delta) []Rect {
	if d.Empty() {
		return nil
	}
	visited := make(map[Point]bool, len(d.Pixels))
	var rects []Rect

	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			seed := Point{X: x, Y: y}
			color, changed := d.Pixels[seed]
			if !changed || visited[seed] {
				continue
			}

			// Grow rightward from the seed.
			maxX := x
			for maxX+1 < d.Width {
				next := Point{X: maxX + 1, Y: y}
				c, ok := d.Pixels[next]
				if !ok || visited[next] || c != color {
					break
				}
				maxX++
			}

			// Grow downward, accepting only complete rows.
			maxY := y
			for maxY+1 < d.Height {
				if !rowMatches(d, visited, x, maxX, maxY+1, color) {
					break
				}
				maxY++
			}

			for ry := y; ry <= maxY; ry++ {
				for rx := x; rx <= maxX; rx++ {
					visited[Point{X: rx, Y: ry}] = true
				}
			}
			rects = append(rects, Rect{
				X:     x,
				Y:     y,
				W:     maxX - x + 1,
				H:     maxY - y + 1,
				Color: color,
			})
		}
	}
	return rects
}

// rowMatches reports whether every cell of row y in [x0, x1] is changed,
// unvisited, and of the given color.
func rowMatches(d *Delta, visited map[Point]bool, x0, x1, y int, color Color) bool {
	for x := x0; x <= x1; x++ {
		p := Point{X: x, Y: y}
		c, ok := d.Pixels[p]
		if !ok || visited[p] || c != color {
			return false
		}
	}
	return true
}
