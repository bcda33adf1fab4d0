// Package watch regenerates the compat header whenever a header under the root changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/mvp-joe/adapta-compat/internal/scanner"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 500 * time.Millisecond

// HeaderWatcher reports debounced batches of changed header files.
type HeaderWatcher interface {
	// Start begins watching, calling callback with each batch of changed headers.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and cleans up resources.
	Stop() error
}

// headerWatcher implements HeaderWatcher on top of fsnotify.
type headerWatcher struct {
	watcher       *fsnotify.Watcher
	scanner       *scanner.Scanner // Decides which paths matter
	debounceTime  time.Duration    // Quiet period before firing callback
	callback      func(files []string)
	ctx           context.Context
	cancel        context.CancelFunc
	accumulated   map[string]bool // Changed headers since the last callback
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{} // Closed when the watch goroutine has finished
}

// NewHeaderWatcher watches every directory the scanner would descend into.
// A debounce of zero selects DefaultDebounce.
func NewHeaderWatcher(sc *scanner.Scanner, debounce time.Duration) (HeaderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	hw := &headerWatcher{
		watcher:      watcher,
		scanner:      sc,
		debounceTime: debounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := hw.addDirectoriesRecursively(sc.Root()); err != nil {
		watcher.Close()
		return nil, err
	}

	return hw, nil
}

// Start begins watching for header changes.
func (hw *headerWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	hw.callback = callback
	hw.ctx, hw.cancel = context.WithCancel(ctx)

	go hw.watch()
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (hw *headerWatcher) Stop() error {
	var err error
	hw.stopOnce.Do(func() {
		if hw.cancel != nil {
			hw.cancel()
			<-hw.doneCh
		} else {
			// Never started
			close(hw.doneCh)
		}

		err = hw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (hw *headerWatcher) watch() {
	defer close(hw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-hw.ctx.Done():
			hw.stopDebounceTimer()
			return

		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}

			// New directories join the watch set
			if event.Op&fsnotify.Create != 0 {
				if rel, ok := hw.relative(event.Name); ok && !hw.scanner.ShouldIgnore(rel) {
					if isDir(event.Name) {
						if err := hw.addDirectoriesRecursively(event.Name); err != nil {
							log.Warn().Err(err).Str("dir", event.Name).Msg("Failed to watch new directory")
						}
					}
				}
			}

			if !hw.shouldProcessEvent(event) {
				continue
			}

			hw.accumulatedMu.Lock()
			hw.accumulated[event.Name] = true
			hw.accumulatedMu.Unlock()

			hw.resetDebounceTimer(fireCh)

		case <-fireCh:
			hw.handleDebounceExpired()

		case err, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// handleDebounceExpired fires the callback with the accumulated headers.
func (hw *headerWatcher) handleDebounceExpired() {
	hw.accumulatedMu.Lock()
	if len(hw.accumulated) == 0 {
		hw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(hw.accumulated))
	for file := range hw.accumulated {
		files = append(files, file)
	}
	hw.accumulated = make(map[string]bool)
	hw.accumulatedMu.Unlock()

	sort.Strings(files)
	hw.callback(files)
}

// resetDebounceTimer restarts the quiet period.
func (hw *headerWatcher) resetDebounceTimer(fireCh chan struct{}) {
	hw.timerMu.Lock()
	defer hw.timerMu.Unlock()

	if hw.debounceTimer != nil {
		hw.debounceTimer.Stop()
	}

	hw.debounceTimer = time.AfterFunc(hw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (hw *headerWatcher) stopDebounceTimer() {
	hw.timerMu.Lock()
	defer hw.timerMu.Unlock()

	if hw.debounceTimer != nil {
		hw.debounceTimer.Stop()
		hw.debounceTimer = nil
	}
}

// shouldProcessEvent keeps writes, creations, removals and renames of headers the
// scanner would return. The generated header is excluded by the scanner.
func (hw *headerWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, ok := hw.relative(event.Name)
	if !ok {
		return false
	}
	return hw.scanner.IsHeader(rel)
}

func (hw *headerWatcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(hw.scanner.Root(), path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addDirectoriesRecursively adds every non-ignored directory in the tree to the watcher.
func (hw *headerWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// If it's the root path, fail immediately
			if path == rootPath {
				return err
			}
			log.Debug().Err(err).Str("path", path).Msg("Error accessing path")
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if rel, ok := hw.relative(path); ok && rel != "." && hw.scanner.ShouldIgnore(rel) {
			return filepath.SkipDir
		}

		if err := hw.watcher.Add(path); err != nil {
			log.Warn().Err(err).Str("dir", path).Msg("Failed to watch directory")
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
