package convo

import (
	"fmt"
	"strings"
)

// maxSummaryRunes caps how much of a turn travels to the viewer; the lens
// renders a single caption line, not a transcript.
const maxSummaryRunes = 280

// Format renders an event as the one-line update sent to the viewer:
// a short time prefix, a role label, and a content summary, with tool
// invocations as bracketed tags. It returns "" for events that produce
// no update (unknown kinds, empty content); callers drop those.
func Format(ev Event) string {
	var label string
	switch ev.Kind {
	case KindUser:
		label = "user"
	case KindAssistant, KindToolUse:
		label = "assistant"
	case KindToolResult:
		label = "user"
	case KindSystem:
		label = "system"
	default:
		return ""
	}

	var parts []string
	if s := summarize(ev.Text); s != "" {
		parts = append(parts, s)
	}
	for _, tool := range ev.Tools {
		parts = append(parts, "["+tool+"]")
	}
	if ev.Kind == KindToolResult {
		parts = append(parts, "[tool result]")
	}
	if len(parts) == 0 {
		return ""
	}

	body := fmt.Sprintf("%s: %s", label, strings.Join(parts, " "))
	if ev.Timestamp.IsZero() {
		return body
	}
	return ev.Timestamp.Local().Format("15:04") + " " + body
}

// summarize collapses all whitespace runs to single spaces and truncates
// to maxSummaryRunes.
func summarize(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	runes := []rune(s)
	if len(runes) <= maxSummaryRunes {
		return s
	}
	return string(runes[:maxSummaryRunes]) + "…"
}
