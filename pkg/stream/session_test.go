package stream

import "testing"

func TestPermitted(t *testing.T) {
	tests := []struct {
		name    string
		allowed string
		remote  string
		want    bool
	}{
		{"empty list admits anyone", "", "203.0.113.7:5011", true},
		{"matching host", "203.0.113.7", "203.0.113.7:5011", true},
		{"matching host other port", "203.0.113.7", "203.0.113.7:60000", true},
		{"non-matching host", "203.0.113.7", "198.51.100.9:5011", false},
		{"bare address match", "203.0.113.7", "203.0.113.7", true},
		{"ipv6 loopback", "::1", "[::1]:5011", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{AllowedIP: tt.allowed})
			if got := s.permitted(tt.remote); got != tt.want {
				t.Errorf("permitted(%q) with allow %q = %v, want %v", tt.remote, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateInitializing, "initializing"},
		{StateAwaitingAck, "awaiting ack"},
		{StateStreaming, "streaming"},
		{StateTerminated, "terminated"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
