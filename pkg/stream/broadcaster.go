package stream

import (
	"log"
	"sync"
)

// Broadcaster delivers conversation updates to whichever session is
// currently active. It remembers the last accepted text both for
// deduplication and so a later viewer can replay it from its init
// packet.
type Broadcaster struct {
	server *Server

	mu   sync.Mutex
	last string
}

// Last returns the most recently accepted text.
func (b *Broadcaster) Last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Publish forwards text to the active session. A repeat of the last
// accepted text is a no-op. The text is remembered even when no session
// is active, so the next viewer picks it up at init. A send failure
// terminates that session only.
func (b *Broadcaster) Publish(text string) {
	b.mu.Lock()
	if text == b.last {
		b.mu.Unlock()
		return
	}
	b.last = text
	b.mu.Unlock()

	sess := b.server.activeSession()
	if sess == nil {
		return
	}
	if err := sess.SendText(text); err != nil {
		log.Printf("Session %s: broadcast failed: %v", sess.ID, err)
		return
	}
	b.server.cfg.Counters.Broadcasts.Add(1)
	b.server.emit("broadcast: " + text)
}
