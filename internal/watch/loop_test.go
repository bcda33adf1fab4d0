package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mvp-joe/adapta-compat/internal/pipeline"
	"github.com/mvp-joe/adapta-compat/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Loop:
// - Run generates once before watching
// - each batch from the watcher triggers one regeneration
// - a failed generation is reported and the loop keeps running
// - context cancellation stops the watcher and returns ctx.Err()
// - a watcher that fails to start aborts Run and is stopped
// - end to end: editing a header on disk rewrites the compat header

// mockWatcher implements HeaderWatcher for testing.
type mockWatcher struct {
	mu         sync.Mutex
	callback   func(files []string)
	startErr   error
	stopCalled bool
	started    chan struct{}
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{started: make(chan struct{})}
}

func (m *mockWatcher) Start(ctx context.Context, callback func(files []string)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.callback = callback
	close(m.started)
	return nil
}

func (m *mockWatcher) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return nil
}

func (m *mockWatcher) trigger(files []string) {
	m.mu.Lock()
	callback := m.callback
	m.mu.Unlock()
	callback(files)
}

// mockGenerator implements Generator for testing.
type mockGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockGenerator) Generate(ctx context.Context) (*pipeline.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &pipeline.Result{}, nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestLoop_GeneratesOnStartAndOnChange(t *testing.T) {
	t.Parallel()

	w := newMockWatcher()
	gen := &mockGenerator{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- NewLoop(w, gen, nil).Run(ctx) }()

	<-w.started
	assert.Equal(t, 1, gen.callCount())

	w.trigger([]string{"src/adap-window.h"})
	w.trigger([]string{"src/adap-bin.h", "src/adap-window.h"})
	assert.Equal(t, 3, gen.callCount())

	cancel()
	assert.Equal(t, context.Canceled, <-done)

	w.mu.Lock()
	assert.True(t, w.stopCalled)
	w.mu.Unlock()
}

func TestLoop_ReportsFailuresAndContinues(t *testing.T) {
	t.Parallel()

	w := newMockWatcher()
	gen := &mockGenerator{err: pipeline.ErrNoHeaders}

	var mu sync.Mutex
	var errs []error
	onResult := func(_ *pipeline.Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- NewLoop(w, gen, onResult).Run(ctx) }()

	<-w.started
	gen.mu.Lock()
	gen.err = nil
	gen.mu.Unlock()
	w.trigger([]string{"src/adap-window.h"})

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], pipeline.ErrNoHeaders)
	assert.NoError(t, errs[1])
}

func TestLoop_WatcherStartFails(t *testing.T) {
	t.Parallel()

	w := newMockWatcher()
	w.startErr = errors.New("too many open files")

	err := NewLoop(w, &mockGenerator{}, nil).Run(context.Background())
	assert.EqualError(t, err, "too many open files")

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.True(t, w.stopCalled, "watcher must be released when Start fails")
}

func TestLoop_EndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	header := filepath.Join(src, "adap-window.h")
	require.NoError(t, os.WriteFile(header, []byte("#define ADAP_VERSION 1\n"), 0644))

	p, err := pipeline.New(&pipeline.Config{
		RootDir:    root,
		OutputPath: filepath.Join("src", "adw-compat.h"),
		Naming:     symbols.DefaultNaming(),
	}, nil)
	require.NoError(t, err)

	w, err := NewHeaderWatcher(p.Scanner(), testDebounce)
	require.NoError(t, err)

	results := make(chan *pipeline.Result, 8)
	onResult := func(r *pipeline.Result, err error) {
		if err == nil {
			results <- r
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- NewLoop(w, p, onResult).Run(ctx) }()

	first := waitResult(t, results)
	assert.NotContains(t, string(first.Content), "ADW_TYPE_WINDOW")

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(header,
		[]byte("#define ADAP_VERSION 1\n#define ADAP_TYPE_WINDOW (adap_window_get_type ())\n"), 0644))

	second := waitResult(t, results)
	assert.Contains(t, string(second.Content), "#define ADW_TYPE_WINDOW(obj) ADAP_TYPE_WINDOW(obj)")

	written, err := os.ReadFile(filepath.Join(src, "adw-compat.h"))
	require.NoError(t, err)
	assert.Equal(t, second.Content, written)

	cancel()
	<-done
}

func waitResult(t *testing.T, results chan *pipeline.Result) *pipeline.Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("No generation result after timeout")
		return nil
	}
}
