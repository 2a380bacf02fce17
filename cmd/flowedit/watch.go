package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

// reloadEvent is posted as interrupt data when the open file changes on disk.
type reloadEvent struct {
	path string
}

// watchFile posts a reloadEvent whenever path is written or replaced. The
// parent directory is watched so saves that rename over the file are seen.
func watchFile(path string, post func(tcell.Event) error, log *slog.Logger) (func() error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					log.Debug("file changed", "path", target, "op", ev.Op.String())
					post(tcell.NewEventInterrupt(reloadEvent{path: target}))
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watch error", "err", err)
			}
		}
	}()
	return w.Close, nil
}
