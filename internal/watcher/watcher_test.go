package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventSink struct {
	mutex   sync.Mutex
	batches [][]ChangeEvent
}

func (s *eventSink) handle(events []ChangeEvent) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.batches = append(s.batches, events)
	return nil
}

func (s *eventSink) batchCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.batches)
}

func (s *eventSink) allEvents() []ChangeEvent {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var out []ChangeEvent
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestManifestWatcher_DetectsModification(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "elements.yml")
	require.NoError(t, os.WriteFile(manifest, []byte("elements: []\n"), 0o644))

	mw, err := NewManifestWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer mw.Close()

	sink := &eventSink{}
	mw.AddHandler(sink.handle)
	require.NoError(t, mw.AddManifest(manifest))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mw.Start(ctx)

	require.NoError(t, os.WriteFile(manifest, []byte("elements:\n  - tag: weld-x\n"), 0o644))

	require.True(t, waitFor(t, 3*time.Second, func() bool {
		return sink.batchCount() > 0
	}), "no change batch delivered")

	events := sink.allEvents()
	require.NotEmpty(t, events)
	abs, _ := filepath.Abs(manifest)
	assert.Equal(t, abs, events[0].Path)
}

func TestManifestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "elements.yml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("elements: []\n"), 0o644))

	mw, err := NewManifestWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer mw.Close()

	sink := &eventSink{}
	mw.AddHandler(sink.handle)
	require.NoError(t, mw.AddManifest(manifest))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mw.Start(ctx)

	// A sibling file in the watched directory must not produce a batch
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, sink.batchCount())
}

func TestManifestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "elements.yml")
	require.NoError(t, os.WriteFile(manifest, []byte("v0"), 0o644))

	mw, err := NewManifestWatcher(150 * time.Millisecond)
	require.NoError(t, err)
	defer mw.Close()

	sink := &eventSink{}
	mw.AddHandler(sink.handle)
	require.NoError(t, mw.AddManifest(manifest))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mw.Start(ctx)

	// Rapid successive writes, well inside the debounce window
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(manifest, []byte{byte('a' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.True(t, waitFor(t, 3*time.Second, func() bool {
		return sink.batchCount() > 0
	}))
	// The burst collapsed into one handler call carrying several events
	assert.Equal(t, 1, sink.batchCount())
	assert.GreaterOrEqual(t, len(sink.allEvents()), 1)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "unknown", EventType(9).String())
}
