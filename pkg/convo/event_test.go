package convo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventUserPlainText(t *testing.T) {
	line := `{"type":"user","timestamp":"2026-08-25T14:02:11.000Z","message":{"role":"user","content":"run the tests please"}}`

	ev, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, KindUser, ev.Kind)
	assert.Equal(t, "run the tests please", ev.Text)
	assert.Empty(t, ev.Tools)
	assert.True(t, ev.Timestamp.Equal(time.Date(2026, 8, 25, 14, 2, 11, 0, time.UTC)))
}

func TestParseEventUserTextBlocks(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":[{"type":"text","text":"look at"},{"type":"text","text":"this"}]}}`

	ev, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, KindUser, ev.Kind)
	assert.Equal(t, "look at this", ev.Text)
}

func TestParseEventToolResultOnly(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_1","content":"ok"}]}}`

	ev, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, KindToolResult, ev.Kind)
	assert.Empty(t, ev.Text)
}

func TestParseEventAssistantTextAndTools(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Running them now."},{"type":"tool_use","id":"toolu_1","name":"Bash","input":{"command":"go test"}}]}}`

	ev, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, KindAssistant, ev.Kind)
	assert.Equal(t, "Running them now.", ev.Text)
	assert.Equal(t, []string{"Bash"}, ev.Tools)
}

func TestParseEventAssistantToolUseOnly(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"toolu_2","name":"Read","input":{}},{"type":"tool_use","id":"toolu_3","name":"Grep","input":{}}]}}`

	ev, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, KindToolUse, ev.Kind)
	assert.Equal(t, []string{"Read", "Grep"}, ev.Tools)
}

func TestParseEventSystem(t *testing.T) {
	line := `{"type":"system","timestamp":"2026-08-25T09:00:00Z","content":"Compacting conversation"}`

	ev, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, KindSystem, ev.Kind)
	assert.Equal(t, "Compacting conversation", ev.Text)
}

func TestParseEventUnknownKeepsRaw(t *testing.T) {
	line := `{"type":"summary","summary":"Fixing the build","leafUuid":"abc"}`

	ev, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, KindUnknown, ev.Kind)
	assert.Equal(t, line, ev.Raw)
}

func TestParseEventMalformed(t *testing.T) {
	_, err := ParseEvent([]byte(`{"type":"user",`))
	assert.Error(t, err)
}
