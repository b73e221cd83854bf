package convo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// logExtension is the session log suffix the tailer reacts to.
const logExtension = ".jsonl"

// Tailer watches a directory tree for appended session logs. On each
// qualifying change it reads the file's last line, parses and formats it,
// and hands the result to publish. Malformed lines are skipped; the watch
// itself never dies because of one bad file.
type Tailer struct {
	root    string
	publish func(string)
}

// NewTailer returns a tailer over root. publish receives each formatted
// update; it must be safe to call from the watcher goroutine.
func NewTailer(root string, publish func(string)) *Tailer {
	return &Tailer{root: root, publish: publish}
}

// Run watches until ctx is cancelled. Session logs nest one directory per
// project, so subdirectories created while running join the watch too.
func (t *Tailer) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, t.root); err != nil {
		return fmt.Errorf("watching %s: %w", t.root, err)
	}
	log.Printf("Watching %s for session updates", t.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			t.handle(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (t *Tailer) handle(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(watcher, event.Name); err != nil {
				log.Printf("Failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(event.Name, logExtension) {
		return
	}
	t.process(event.Name)
}

func (t *Tailer) process(path string) {
	line, err := lastLine(path)
	if err != nil {
		log.Printf("Failed to read %s: %v", path, err)
		return
	}
	if len(line) == 0 {
		return
	}
	ev, err := ParseEvent(line)
	if err != nil {
		log.Printf("Skipping malformed line in %s: %v", path, err)
		return
	}
	if text := Format(ev); text != "" {
		t.publish(text)
	}
}

// addTree registers dir and every directory below it with the watcher.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// lastLine returns the final non-empty line of the file at path. Session
// logs are append-only, so the last line is always the newest event.
func lastLine(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var last []byte
	for scanner.Scan() {
		if line := bytes.TrimSpace(scanner.Bytes()); len(line) > 0 {
			last = append(last[:0], line...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return last, nil
}
