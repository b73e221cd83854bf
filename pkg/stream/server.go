// Package stream accepts viewer connections and streams screen deltas to
// exactly one of them at a time. A newer connection from the allowed
// viewer evicts the current session; everyone else is rejected before the
// WebSocket handshake completes.
package stream

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/speccast/speccast/pkg/capture"
	"github.com/speccast/speccast/pkg/frame"
	"github.com/speccast/speccast/pkg/stats"
	"github.com/speccast/speccast/pkg/suncolor"
)

// Config carries everything a Server needs to run sessions.
type Config struct {
	// Source provides frames; its size fixes the session dimensions.
	Source capture.Source
	// Clock supplies the ambient color for init packets.
	Clock *suncolor.Clock
	// Counters receives pipeline totals. Optional.
	Counters *stats.Counters
	// AllowedIP is the one viewer address admitted. Empty admits any.
	AllowedIP string
	// Levels is the quantization bucket count per channel.
	Levels int
	// ChunkSize bounds rectangles per packet.
	ChunkSize int
	// Interval paces the capture loop; zero runs back-to-back.
	Interval time.Duration
}

// Event is one line for the TUI's activity log.
type Event struct {
	Time    time.Time
	Message string
}

// Status is a point-in-time view of the active session for display.
type Status struct {
	Active     bool
	ID         string
	RemoteAddr string
	State      string
	StartedAt  time.Time
}

// Server gates inbound connections and owns the single active-session
// slot. At most one session is ever active; installing a new one
// terminates the old one first.
type Server struct {
	cfg         Config
	upgrader    websocket.Upgrader
	broadcaster *Broadcaster

	mu     sync.Mutex
	active *Session

	events chan Event
}

// NewServer builds a server from cfg, applying pipeline defaults for
// unset tuning fields.
func NewServer(cfg Config) *Server {
	if cfg.Counters == nil {
		cfg.Counters = &stats.Counters{}
	}
	if cfg.Clock == nil {
		cfg.Clock = suncolor.NewClock(nil)
	}
	if cfg.Levels < 2 || cfg.Levels > 256 {
		cfg.Levels = frame.DefaultLevels
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = frame.DefaultChunkSize
	}
	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // the allow-list is the access control here
			},
		},
		events: make(chan Event, 32),
	}
	s.broadcaster = &Broadcaster{server: s}
	if cfg.AllowedIP == "" {
		log.Printf("Warning: no allowed viewer configured, any address may connect")
	}
	return s
}

// Broadcaster returns the conversation-update fanout for this server.
func (s *Server) Broadcaster() *Broadcaster {
	return s.broadcaster
}

// Events returns the activity feed consumed by the TUI. Messages are
// dropped, not queued, when nobody drains the channel.
func (s *Server) Events() <-chan Event {
	return s.events
}

func (s *Server) emit(message string) {
	select {
	case s.events <- Event{Time: time.Now(), Message: message}:
	default:
	}
}

// Handler returns the server's HTTP routes: the WebSocket endpoint at /,
// a liveness probe at /healthz, and optionally a metrics handler.
func (s *Server) Handler(metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	mux.HandleFunc("/", s.HandleWebSocket)
	return mux
}

// HandleWebSocket admits or rejects a viewer. Rejection happens before
// the upgrade, so a non-allowed source never sees a single packet. An
// admitted connection replaces whatever session is active: the old
// session is fully terminated before the new one sends its init.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.permitted(r.RemoteAddr) {
		s.cfg.Counters.Rejected.Add(1)
		log.Printf("Rejected connection from %s (allowed: %s)", r.RemoteAddr, s.cfg.AllowedIP)
		s.emit("rejected " + r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	width, height := s.cfg.Source.Size()
	sess := &Session{
		ID:         uuid.NewString()[:8],
		RemoteAddr: r.RemoteAddr,
		StartedAt:  time.Now(),
		conn:       conn,
		server:     s,
		width:      width,
		height:     height,
		levels:     s.cfg.Levels,
		chunk:      s.cfg.ChunkSize,
		interval:   s.cfg.Interval,
		ackCh:      make(chan struct{}),
		done:       make(chan struct{}),
	}

	s.install(sess)
	log.Printf("Session %s: viewer connected from %s", sess.ID, sess.RemoteAddr)
	s.emit(fmt.Sprintf("viewer connected from %s", sess.RemoteAddr))
	go sess.run(s.broadcaster.Last())
}

// install swaps sess into the active slot. The previous session is
// terminated outside the lock (its termination callback takes it too)
// but before install returns, so the caller may start the new session
// knowing the old one is gone.
func (s *Server) install(sess *Session) {
	s.mu.Lock()
	old := s.active
	s.active = sess
	s.mu.Unlock()

	s.cfg.Counters.SessionsStarted.Add(1)
	s.cfg.Counters.ActiveSessions.Store(1)

	if old != nil {
		log.Printf("Session %s: evicted by new connection from %s", old.ID, sess.RemoteAddr)
		s.emit(fmt.Sprintf("session %s evicted", old.ID))
		old.Terminate()
	}
}

// sessionEnded is the termination callback: it clears the active slot if
// sess still owns it. An evicted session finds a newer occupant and
// leaves it alone.
func (s *Server) sessionEnded(sess *Session) {
	s.mu.Lock()
	if s.active == sess {
		s.active = nil
		s.cfg.Counters.ActiveSessions.Store(0)
	}
	s.mu.Unlock()

	s.cfg.Counters.SessionsEnded.Add(1)
	log.Printf("Session %s: terminated", sess.ID)
	s.emit(fmt.Sprintf("session %s ended", sess.ID))
}

func (s *Server) activeSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// permitted applies the allow-list to a remote address. The configured
// value matches either the bare host or the full host:port form.
func (s *Server) permitted(remoteAddr string) bool {
	allowed := s.cfg.AllowedIP
	if allowed == "" {
		return true
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return host == allowed || remoteAddr == allowed
}

// Status reports the active session for display.
func (s *Server) Status() Status {
	s.mu.Lock()
	sess := s.active
	s.mu.Unlock()

	if sess == nil {
		return Status{}
	}
	return Status{
		Active:     true,
		ID:         sess.ID,
		RemoteAddr: sess.RemoteAddr,
		State:      sess.State().String(),
		StartedAt:  sess.StartedAt,
	}
}

// Kick terminates the active session, if any. The viewer may reconnect.
func (s *Server) Kick() {
	if sess := s.activeSession(); sess != nil {
		log.Printf("Session %s: kicked", sess.ID)
		sess.Terminate()
	}
}
