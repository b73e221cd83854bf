// Package protocol defines the JSON packets exchanged with the viewer.
// Every JSON packet carries a "type" discriminator; conversation updates
// travel as bare text frames with no JSON wrapper. Consumers dispatch on
// the discriminator and ignore unknown fields.
package protocol

import (
	"encoding/json"

	"github.com/speccast/speccast/pkg/frame"
)

// Packet type discriminators.
const (
	TypeInit       = "init"
	TypeRectangles = "rectangle_packet"
)

// RGBA is a display color with channels in [0, 1], the form the viewer's
// renderer consumes for its ambient backdrop.
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Init is the first packet of every session: stream dimensions, the
// ambient color and phase for the viewer's backdrop, and the last
// conversation update so a reconnecting viewer starts current.
type Init struct {
	Type        string `json:"type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Color       RGBA   `json:"color"`
	Phase       string `json:"phase"`
	LastMessage string `json:"lastMessage"`
}

// NewInit builds an init packet with the type tag filled in.
func NewInit(width, height int, color RGBA, phase, lastMessage string) Init {
	return Init{
		Type:        TypeInit,
		Width:       width,
		Height:      height,
		Color:       color,
		Phase:       phase,
		LastMessage: lastMessage,
	}
}

// Rectangle is one solid-color block in stream coordinates, channels 0-255.
type Rectangle struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// RectanglePacket carries one chunk of merged delta rectangles. The
// packetizer never produces one with an empty rectangle list.
type RectanglePacket struct {
	Type       string      `json:"type"`
	Rectangles []Rectangle `json:"rectangles"`
}

// NewRectanglePacket converts one chunk of merged rectangles into its
// wire form.
func NewRectanglePacket(rects []frame.Rect) RectanglePacket {
	out := make([]Rectangle, len(rects))
	for i, r := range rects {
		out[i] = Rectangle{
			X: r.X,
			Y: r.Y,
			W: r.W,
			H: r.H,
			R: int(r.Color.R),
			G: int(r.Color.G),
			B: int(r.Color.B),
		}
	}
	return RectanglePacket{Type: TypeRectangles, Rectangles: out}
}

// Kind extracts the type discriminator from a raw inbound frame. Plain
// text conversation frames and anything else that is not a JSON object
// with a type field report the empty string.
func Kind(data []byte) string {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	return probe.Type
}
