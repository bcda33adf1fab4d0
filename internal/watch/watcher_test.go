package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mvp-joe/adapta-compat/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for HeaderWatcher:
// - NewHeaderWatcher fails for a missing root
// - a header write fires the callback after the debounce
// - rapid changes to several headers are batched into one sorted callback
// - non-header files, ignored directories and the generated header are filtered
// - headers in newly created directories are picked up
// - Stop is idempotent and safe without Start

const testDebounce = 50 * time.Millisecond

func newWatcher(t *testing.T, root string) HeaderWatcher {
	t.Helper()
	sc, err := scanner.New(root, scanner.Options{Exclude: "adw-compat.h", Ignore: []string{"build/**"}})
	require.NoError(t, err)

	w, err := NewHeaderWatcher(sc, testDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	return w
}

type batchRecorder struct {
	mu      sync.Mutex
	batches [][]string
	fired   chan struct{}
}

func newBatchRecorder() *batchRecorder {
	return &batchRecorder{fired: make(chan struct{}, 16)}
}

func (r *batchRecorder) callback(files []string) {
	r.mu.Lock()
	r.batches = append(r.batches, files)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *batchRecorder) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Callback not called after timeout")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[len(r.batches)-1]
}

func (r *batchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestNewHeaderWatcher_MissingRoot(t *testing.T) {
	t.Parallel()

	sc, err := scanner.New(filepath.Join(t.TempDir(), "missing"), scanner.Options{})
	require.NoError(t, err)

	w, err := NewHeaderWatcher(sc, testDebounce)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestHeaderWatcher_SingleChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newWatcher(t, root)
	rec := newBatchRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))

	time.Sleep(100 * time.Millisecond)

	header := filepath.Join(root, "adap-window.h")
	require.NoError(t, os.WriteFile(header, []byte("#define ADAP_X 1\n"), 0644))

	assert.Equal(t, []string{header}, rec.wait(t))
}

func TestHeaderWatcher_BatchesChanges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newWatcher(t, root)
	rec := newBatchRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))

	time.Sleep(100 * time.Millisecond)

	b := filepath.Join(root, "b.h")
	a := filepath.Join(root, "a.h")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(b, []byte("x"), 0644))
		require.NoError(t, os.WriteFile(a, []byte("x"), 0644))
	}

	assert.Equal(t, []string{a, b}, rec.wait(t))

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, rec.count())
}

func TestHeaderWatcher_FiltersEvents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0755))

	w := newWatcher(t, root)
	rec := newBatchRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "adap-window.c"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "adw-compat.h"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "adap-enums.h"), []byte("x"), 0644))

	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, rec.count())

	header := filepath.Join(root, "adap-bin.h")
	require.NoError(t, os.WriteFile(header, []byte("x"), 0644))
	assert.Equal(t, []string{header}, rec.wait(t))
}

func TestHeaderWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := newWatcher(t, root)
	rec := newBatchRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))

	time.Sleep(100 * time.Millisecond)

	dir := filepath.Join(root, "widgets")
	require.NoError(t, os.Mkdir(dir, 0755))
	// Give the event loop time to add the directory
	time.Sleep(100 * time.Millisecond)

	header := filepath.Join(dir, "adap-tab-view.h")
	require.NoError(t, os.WriteFile(header, []byte("x"), 0644))

	assert.Contains(t, rec.wait(t), header)
}

func TestHeaderWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sc, err := scanner.New(root, scanner.Options{})
	require.NoError(t, err)

	unstarted, err := NewHeaderWatcher(sc, testDebounce)
	require.NoError(t, err)
	assert.NoError(t, unstarted.Stop())
	assert.NoError(t, unstarted.Stop())

	started, err := NewHeaderWatcher(sc, testDebounce)
	require.NoError(t, err)
	require.NoError(t, started.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Stop()
		}()
	}
	wg.Wait()
}
