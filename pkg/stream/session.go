package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/speccast/speccast/pkg/frame"
	"github.com/speccast/speccast/pkg/protocol"
)

// ErrSessionClosed reports a send on a session that already terminated.
var ErrSessionClosed = errors.New("session closed")

// State identifies where a session is in its lifecycle.
type State int32

const (
	StateInitializing State = iota
	StateAwaitingAck
	StateStreaming
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAwaitingAck:
		return "awaiting ack"
	case StateStreaming:
		return "streaming"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session owns one viewer connection: it sends the init packet, waits for
// the viewer's acknowledgement, then runs the capture→diff→merge→send
// loop until a send fails, the viewer disconnects, or a newer connection
// evicts it. Terminated is terminal; a session is never restarted.
//
// Two goroutines write to the connection (the stream loop and the
// broadcaster) and one reads from it (the ack/liveness pump); writes are
// serialized by writeMu.
type Session struct {
	ID         string
	RemoteAddr string
	StartedAt  time.Time

	conn   *websocket.Conn
	server *Server

	width    int
	height   int
	levels   int
	chunk    int
	interval time.Duration

	writeMu sync.Mutex
	state   atomic.Int32

	ackCh     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// State returns the session's current lifecycle state.
func (sess *Session) State() State {
	return State(sess.state.Load())
}

// setState advances the state machine. Terminated is sticky: once a
// session has terminated, no transition may resurrect it.
func (sess *Session) setState(next State) bool {
	for {
		cur := sess.state.Load()
		if State(cur) == StateTerminated {
			return false
		}
		if sess.state.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// run drives the state machine. lastMessage is the most recent
// conversation update, replayed inside the init packet.
func (sess *Session) run(lastMessage string) {
	if err := sess.sendInit(lastMessage); err != nil {
		log.Printf("Session %s: init failed: %v", sess.ID, err)
		sess.Terminate()
		return
	}
	if !sess.setState(StateAwaitingAck) {
		return
	}
	go sess.readPump()

	// Block until the viewer proves liveness with any message. No
	// timeout beyond the transport's own close semantics.
	select {
	case <-sess.ackCh:
	case <-sess.done:
		return
	}
	if !sess.setState(StateStreaming) {
		return
	}
	log.Printf("Session %s: viewer acknowledged, streaming %dx%d to %s",
		sess.ID, sess.width, sess.height, sess.RemoteAddr)
	sess.server.emit(fmt.Sprintf("session %s streaming to %s", sess.ID, sess.RemoteAddr))
	sess.streamLoop()
}

// sendInit sends the session's opening packet: dimensions, the ambient
// color for the viewer's backdrop, and the last conversation update.
func (sess *Session) sendInit(lastMessage string) error {
	color, phase := sess.server.cfg.Clock.Current(time.Now())
	pkt := protocol.NewInit(sess.width, sess.height, protocol.RGBA{
		R: color.R, G: color.G, B: color.B, A: color.A,
	}, phase, lastMessage)
	data, err := json.Marshal(pkt)
	if err != nil {
		return fmt.Errorf("encoding init: %w", err)
	}
	return sess.write(websocket.TextMessage, data)
}

// readPump consumes inbound messages for the session's lifetime. The
// first message is the viewer's acknowledgement; everything after only
// proves the peer is still there. A read error of any kind (including
// the peer closing) terminates the session.
func (sess *Session) readPump() {
	defer sess.Terminate()
	acked := false
	for {
		if _, _, err := sess.conn.ReadMessage(); err != nil {
			return
		}
		if !acked {
			acked = true
			close(sess.ackCh)
		}
	}
}

// streamLoop repeats capture→diff→merge→packetize→send until the session
// dies. A zero interval runs back-to-back; a positive one paces the loop
// with a ticker.
func (sess *Session) streamLoop() {
	var ticker *time.Ticker
	if sess.interval > 0 {
		ticker = time.NewTicker(sess.interval)
		defer ticker.Stop()
	}

	// The first real frame diffs against all-black and therefore goes
	// out in full.
	previous := frame.New(sess.width, sess.height)
	for {
		select {
		case <-sess.done:
			return
		default:
		}

		next, err := sess.streamFrame(previous)
		if err != nil {
			log.Printf("Session %s: %v", sess.ID, err)
			sess.Terminate()
			return
		}
		previous = next

		if ticker != nil {
			select {
			case <-sess.done:
				return
			case <-ticker.C:
			}
		}
	}
}

// streamFrame runs one capture cycle and returns the frame to diff the
// next cycle against. An unchanged screen sends nothing and keeps the
// stored frame. A failure anywhere (capture, size change, send) is fatal
// to the session and abandons the rest of that frame's packets.
func (sess *Session) streamFrame(previous *frame.Frame) (*frame.Frame, error) {
	counters := sess.server.cfg.Counters

	img, err := sess.server.cfg.Source.Capture()
	if err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}
	counters.FramesCaptured.Add(1)

	delta, err := frame.Diff(previous, img, sess.levels)
	if err != nil {
		return nil, err
	}
	if delta.Empty() {
		counters.EmptyDeltas.Add(1)
		return previous, nil
	}

	rects := frame.MergeRects(delta)
	counters.Rectangles.Add(int64(len(rects)))
	for _, chunk := range frame.SplitRects(rects, sess.chunk) {
		data, err := json.Marshal(protocol.NewRectanglePacket(chunk))
		if err != nil {
			return nil, fmt.Errorf("encoding packet: %w", err)
		}
		if err := sess.write(websocket.TextMessage, data); err != nil {
			return nil, err
		}
		counters.PacketsSent.Add(1)
		counters.BytesSent.Add(int64(len(data)))
	}
	return img.Quantize(sess.levels), nil
}

// SendText delivers a conversation update as a bare text frame,
// interleaved with the rectangle stream. Only sessions past init accept
// it; a send failure terminates the session.
func (sess *Session) SendText(text string) error {
	if st := sess.State(); st != StateAwaitingAck && st != StateStreaming {
		return ErrSessionClosed
	}
	if err := sess.write(websocket.TextMessage, []byte(text)); err != nil {
		sess.Terminate()
		return err
	}
	return nil
}

// write serializes all connection writes across the stream loop and the
// broadcaster.
func (sess *Session) write(messageType int, data []byte) error {
	if sess.State() == StateTerminated {
		return ErrSessionClosed
	}
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if err := sess.conn.WriteMessage(messageType, data); err != nil {
		return fmt.Errorf("writing to viewer: %w", err)
	}
	return nil
}

// Terminate closes the connection and marks the session terminated.
// Idempotent: eviction, the read pump, and the stream loop may all race
// to call it. Closing the connection unblocks any in-flight read or
// write, which drives the other goroutines out.
func (sess *Session) Terminate() {
	sess.closeOnce.Do(func() {
		sess.state.Store(int32(StateTerminated))
		close(sess.done)
		sess.conn.Close()
		sess.server.sessionEnded(sess)
	})
}
