// Package capture provides the frame sources that feed the stream
// pipeline: the real display grabber and a synthetic pattern generator
// for demo mode and tests.
package capture

import "github.com/speccast/speccast/pkg/frame"

// Source produces frames on demand for a stream session. Capture may be
// slow; callers must not assume bounded latency. Implementations must
// tolerate concurrent calls: during an eviction the outgoing session can
// overlap the incoming one by a single grab.
type Source interface {
	// Size returns the fixed dimensions of the frames this source produces.
	Size() (width, height int)
	// Capture grabs the next frame.
	Capture() (*frame.Frame, error)
}
