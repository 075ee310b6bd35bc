package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftops/plugsync/internal/config"
)

type stubTrigger struct {
	calls chan struct{}
}

func (s *stubTrigger) Run(ctx context.Context) { s.calls <- struct{}{} }

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	py := filepath.Join(dir, "plugin.py")
	txt := filepath.Join(dir, "readme.txt")
	require.NoError(t, os.WriteFile(py, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))

	w := New(&config.Config{WatchSuffixes: []string{".py"}}, nil)

	assert.True(t, w.relevant(py))
	assert.False(t, w.relevant(txt))
	assert.False(t, w.relevant(dir), "directory events must not trigger uploads")
}

func TestRelevantMultipleSuffixes(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(yml, []byte("a: 1"), 0o644))

	w := New(&config.Config{WatchSuffixes: []string{".py", ".yml"}}, nil)
	assert.True(t, w.relevant(yml))
}

func TestRunTriggersOnRelevantWrite(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	py := filepath.Join(sub, "plugin.py")
	txt := filepath.Join(dir, "readme.txt")
	require.NoError(t, os.WriteFile(py, []byte("VALUE = 1"), 0o644))
	require.NoError(t, os.WriteFile(txt, []byte("notes"), 0o644))

	cfg := &config.Config{PluginDir: dir, WatchSuffixes: []string{".py"}}
	trig := &stubTrigger{calls: make(chan struct{}, 16)}
	w := New(cfg, trig)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the subscription a moment to establish.
	time.Sleep(200 * time.Millisecond)

	// A change to a watched file in a subdirectory triggers a cycle.
	appendTo(t, py, "\nVALUE = 2\n")
	select {
	case <-trig.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("expected an upload cycle after modifying plugin.py")
	}

	// Drain duplicate events the same write may have produced.
	time.Sleep(300 * time.Millisecond)
	for {
		select {
		case <-trig.calls:
			continue
		default:
		}
		break
	}

	// A change to an unwatched file triggers nothing.
	appendTo(t, txt, "\nmore notes\n")
	select {
	case <-trig.calls:
		t.Fatal("readme.txt must not trigger an upload cycle")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestRunMissingDirectory(t *testing.T) {
	cfg := &config.Config{
		PluginDir:     filepath.Join(t.TempDir(), "missing"),
		WatchSuffixes: []string{".py"},
	}
	err := New(cfg, &stubTrigger{calls: make(chan struct{}, 1)}).Run(context.Background())
	require.Error(t, err)
}

func appendTo(t *testing.T, path, s string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(s)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
