package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	events := make(chan tcell.Event, 16)
	post := func(ev tcell.Event) error {
		events <- ev
		return nil
	}
	stop, err := watchFile(path, post, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("watchFile: %v", err)
	}
	defer stop()

	// Writes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"name": "x"}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		intr, ok := ev.(*tcell.EventInterrupt)
		if !ok {
			t.Fatalf("posted %T", ev)
		}
		r, ok := intr.Data().(reloadEvent)
		if !ok || r.path != path {
			t.Errorf("reload event = %+v", intr.Data())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event")
	}
}
