// Package convo extracts the most recent event from Claude-style session
// logs (JSONL, append-only) and renders it as a one-line update for the
// viewer.
package convo

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind classifies a session log event.
type Kind string

const (
	KindUser       Kind = "user"
	KindAssistant  Kind = "assistant"
	KindToolUse    Kind = "tool_use"
	KindToolResult Kind = "tool_result"
	KindSystem     Kind = "system"
	KindUnknown    Kind = "unknown"
)

// Event is one parsed session log entry. Unknown entry types keep the
// raw line so nothing is silently lost.
type Event struct {
	Kind      Kind
	Timestamp time.Time
	Text      string
	Tools     []string
	Raw       string
}

// envelope mirrors the top level of a session log line.
type envelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Message   json.RawMessage `json:"message"`
	Content   string          `json:"content"`
}

type messageBody struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// ParseEvent parses a single log line. User turns that carry only tool
// results classify as tool_result; assistant turns with tool calls and no
// text classify as tool_use. Entry types this package does not recognize
// come back as KindUnknown rather than an error; only lines that fail to
// parse at all are errors.
func ParseEvent(line []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Event{}, fmt.Errorf("parsing log line envelope: %w", err)
	}

	ev := Event{Timestamp: env.Timestamp}
	switch env.Type {
	case "user":
		text, tools, results := parseMessage(env.Message)
		ev.Text = text
		ev.Tools = tools
		if text == "" && len(tools) == 0 && results > 0 {
			ev.Kind = KindToolResult
		} else {
			ev.Kind = KindUser
		}
	case "assistant":
		text, tools, _ := parseMessage(env.Message)
		ev.Text = text
		ev.Tools = tools
		if text == "" && len(tools) > 0 {
			ev.Kind = KindToolUse
		} else {
			ev.Kind = KindAssistant
		}
	case "system":
		ev.Kind = KindSystem
		text, _, _ := parseMessage(env.Message)
		if text == "" {
			text = env.Content
		}
		ev.Text = text
	default:
		ev.Kind = KindUnknown
		ev.Raw = string(line)
	}
	return ev, nil
}

// parseMessage pulls the text blocks, tool names, and tool-result count
// out of a message payload. Content is either a bare string or an array
// of typed blocks.
func parseMessage(raw json.RawMessage) (text string, tools []string, results int) {
	if len(raw) == 0 {
		return "", nil, 0
	}
	var msg messageBody
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", nil, 0
	}

	var plain string
	if err := json.Unmarshal(msg.Content, &plain); err == nil {
		return plain, nil, 0
	}

	var blocks []contentBlock
	if err := json.Unmarshal(msg.Content, &blocks); err != nil {
		return "", nil, 0
	}
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if text == "" {
				text = b.Text
			} else {
				text += " " + b.Text
			}
		case "tool_use":
			tools = append(tools, b.Name)
		case "tool_result":
			results++
		}
	}
	return text, tools, results
}
