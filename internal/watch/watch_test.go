package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type suffixMatcher string

func (s suffixMatcher) Match(name string) bool { return strings.HasSuffix(name, string(s)) }

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu     sync.Mutex
	bursts [][]string
}

func (r *recorder) onChange(_ context.Context, changed []string) {
	r.mu.Lock()
	r.bursts = append(r.bursts, changed)
	r.mu.Unlock()
}

func (r *recorder) all() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.bursts...)
}

func startWatch(t *testing.T, dir string, rec *recorder) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, dir, suffixMatcher(".md"), 50*time.Millisecond, logger, rec.onChange)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
}

func TestWatch_NewNoteTriggers(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatch(t, dir, rec)

	_ = os.WriteFile(filepath.Join(dir, "new.md"), []byte("# New"), 0o644)

	eventually(t, 5*time.Second, 25*time.Millisecond, func() bool {
		for _, b := range rec.all() {
			for _, n := range b {
				if n == "new.md" {
					return true
				}
			}
		}
		return false
	}, "expected a burst containing new.md")
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatch(t, dir, rec)

	_ = os.WriteFile(filepath.Join(dir, "image.png"), []byte("x"), 0o644)
	time.Sleep(300 * time.Millisecond)

	if got := rec.all(); len(got) != 0 {
		t.Errorf("unexpected bursts %v", got)
	}
}

func TestWatch_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatch(t, dir, rec)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(dir, "busy.md"), []byte(strings.Repeat("x", i+1)), 0o644)
	}

	eventually(t, 5*time.Second, 25*time.Millisecond, func() bool {
		return len(rec.all()) > 0
	}, "expected at least one burst")

	first := rec.all()[0]
	if len(first) != 1 || first[0] != "busy.md" {
		t.Errorf("first burst = %v, want [busy.md] without duplicates", first)
	}
}

func TestWatch_RemoveTriggers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	_ = os.WriteFile(path, []byte("bye"), 0o644)

	rec := &recorder{}
	startWatch(t, dir, rec)
	_ = os.Remove(path)

	eventually(t, 5*time.Second, 25*time.Millisecond, func() bool {
		return len(rec.all()) > 0
	}, "expected a burst after removal")
}
