package convo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLine(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"trailing newline", "first\nsecond\n", "second"},
		{"no trailing newline", "first\nsecond", "second"},
		{"blank lines at the end", "first\nsecond\n\n\n", "second"},
		{"single line", "only", "only"},
		{"empty file", "", ""},
		{"only whitespace", " \n\t\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write("case.jsonl", tt.content)
			line, err := lastLine(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(line))
		})
	}
}

func TestLastLineMissingFile(t *testing.T) {
	_, err := lastLine(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func waitForUpdate(t *testing.T, updates <-chan string) string {
	t.Helper()
	select {
	case text := <-updates:
		return text
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for a tailer update")
		return ""
	}
}

func startTailer(t *testing.T, root string) <-chan string {
	t.Helper()
	updates := make(chan string, 16)
	tailer := NewTailer(root, func(text string) { updates <- text })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tailer.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to register the tree.
	time.Sleep(100 * time.Millisecond)
	return updates
}

func TestTailerPublishesLatestEvent(t *testing.T) {
	root := t.TempDir()
	updates := startTailer(t, root)

	line := `{"type":"user","message":{"role":"user","content":"hello there"}}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "session.jsonl"), []byte(line+"\n"), 0o644))

	assert.Equal(t, "user: hello there", waitForUpdate(t, updates))
}

func TestTailerSkipsMalformedLines(t *testing.T) {
	root := t.TempDir()
	updates := startTailer(t, root)

	path := filepath.Join(root, "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json\n"), 0o644))
	time.Sleep(200 * time.Millisecond)

	// The malformed line is skipped without killing the watch; a later
	// valid line still comes through.
	valid := `{"type":"user","message":{"role":"user","content":"still alive"}}`
	require.NoError(t, os.WriteFile(path, []byte("{not json\n"+valid+"\n"), 0o644))

	assert.Equal(t, "user: still alive", waitForUpdate(t, updates))
}

func TestTailerIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	updates := startTailer(t, root)

	line := `{"type":"user","message":{"role":"user","content":"wrong file"}}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte(line+"\n"), 0o644))

	select {
	case text := <-updates:
		t.Fatalf("Unexpected update for a non-log file: %q", text)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestTailerWatchesNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	updates := startTailer(t, root)

	sub := filepath.Join(root, "project-a")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Let the watcher pick up the new directory before writing into it.
	time.Sleep(300 * time.Millisecond)

	line := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Bash","input":{}}]}}`
	require.NoError(t, os.WriteFile(filepath.Join(sub, "session.jsonl"), []byte(line+"\n"), 0o644))

	assert.Equal(t, "assistant: [Bash]", waitForUpdate(t, updates))
}
