package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cinder/internal/adapters/watcher"
	"go.trai.ch/cinder/internal/core/ports"
)

func startWatcher(t *testing.T, roots ...string) *watcher.Watcher {
	t.Helper()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), roots))
	return w
}

// collectUntil drains events until match returns true or the deadline expires.
func collectUntil(t *testing.T, w *watcher.Watcher, match func(ports.WatchEvent) bool) []ports.WatchEvent {
	t.Helper()

	var collected []ports.WatchEvent
	found := make(chan struct{})

	go func() {
		for event := range w.Events() {
			collected = append(collected, event)
			if match(event) {
				close(found)
				return
			}
		}
	}()

	select {
	case <-found:
		return collected
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for event, collected %d so far", len(collected))
		return nil
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "main.scss")
	require.NoError(t, os.WriteFile(file, []byte("a { b: c }"), 0o600))

	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(file, []byte("a { b: d }"), 0o600))

	events := collectUntil(t, w, func(e ports.WatchEvent) bool {
		return e.Path == file && (e.Operation == ports.OpWrite || e.Operation == ports.OpCreate)
	})
	assert.NotEmpty(t, events)
}

func TestWatcher_DetectsCreateInNewSubdirectory(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	sub := filepath.Join(root, "components")
	require.NoError(t, os.Mkdir(sub, 0o750))

	// The new directory must be picked up dynamically.
	file := filepath.Join(sub, "_card.scss")
	require.Eventually(t, func() bool {
		return os.WriteFile(file, []byte("x"), 0o600) == nil
	}, time.Second, 10*time.Millisecond)

	// Keep touching the file until an event for it arrives, the watch on a
	// just-created directory races with the first write.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = os.WriteFile(file, []byte("y"), 0o600)
			}
		}
	}()

	events := collectUntil(t, w, func(e ports.WatchEvent) bool {
		return e.Path == file
	})
	close(done)
	assert.NotEmpty(t, events)
}

func TestWatcher_DetectsRemove(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "main.scss")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	w := startWatcher(t, root)

	require.NoError(t, os.Remove(file))

	events := collectUntil(t, w, func(e ports.WatchEvent) bool {
		return e.Path == file && e.Operation == ports.OpRemove
	})
	assert.NotEmpty(t, events)
}

func TestWatcher_WatchesMultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	w := startWatcher(t, rootA, rootB)

	fileA := filepath.Join(rootA, "a.scss")
	fileB := filepath.Join(rootB, "b.scss")
	require.NoError(t, os.WriteFile(fileA, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(fileB, []byte("b"), 0o600))

	seen := map[string]bool{}
	collectUntil(t, w, func(e ports.WatchEvent) bool {
		seen[e.Path] = true
		return seen[fileA] && seen[fileB]
	})
}

func TestWatcher_SkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	ignored := filepath.Join(root, "node_modules")
	require.NoError(t, os.Mkdir(ignored, 0o750))

	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(ignored, "pkg.js"), []byte("x"), 0o600))

	marker := filepath.Join(root, "marker.scss")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o600))

	events := collectUntil(t, w, func(e ports.WatchEvent) bool {
		return e.Path == marker
	})
	for _, e := range events {
		assert.NotContains(t, e.Path, "node_modules")
	}
}

func TestWatcher_StopClosesEventStream(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, w.Stop())

	done := make(chan struct{})
	go func() {
		for range w.Events() {
			continue
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not close after Stop")
	}
}
