// Package watch notifies about changes to note files in a directory.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events such as editor save sequences.
const DefaultDebounce = 200 * time.Millisecond

// Matcher decides which filenames are notes.
type Matcher interface {
	Match(name string) bool
}

// ChangeFunc is called once per debounced burst with the note names that
// changed, in arrival order without duplicates.
type ChangeFunc func(ctx context.Context, changed []string)

// Watch starts an fsnotify watcher on dir and calls onChange after each quiet
// period of debounce following note events, until ctx is cancelled.
// Subdirectories are not watched, matching the non-recursive listing.
func Watch(ctx context.Context, dir string, m Matcher, debounce time.Duration, logger *slog.Logger, onChange ChangeFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger.Info("watcher: started", slog.String("root", dir))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending []string
		seen    = make(map[string]struct{})
	)

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			changed := pending
			pending = nil
			clear(seen)
			logger.Debug("watcher: change burst", slog.Int("notes", len(changed)))
			onChange(ctx, changed)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !m.Match(name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: event", slog.String("note", name), slog.String("op", ev.Op.String()))
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				pending = append(pending, name)
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
