package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports settled changes to one configuration file. It watches the
// file's parent directory rather than the file itself, because editors and
// atomic-save tools replace the inode (write to temp, rename over), which
// silently detaches a direct file watch.
type Watcher struct {
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	path     string
	dir      string
	onChange func()

	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}

	mu      sync.Mutex
	pending map[string]time.Time
	running bool
	stopped bool
}

// New creates a watcher for the given file. onChange fires on the watcher's
// goroutine once a burst of filesystem events has settled.
func New(logger *slog.Logger, path string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		logger:      logger.With("component", "watch"),
		watcher:     fsw,
		path:        abs,
		dir:         filepath.Dir(abs),
		onChange:    onChange,
		debounceDur: 500 * time.Millisecond,
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs on its own
// goroutine until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.logger.Debug("Watching configuration directory.", "dir", w.dir, "file", filepath.Base(w.path))

	go w.run(ctx)
	return nil
}

// Stop terminates the event loop and waits for it to finish. Safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running || w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("Closing filesystem watcher failed.", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// Rapid save bursts (editor temp files, rename-over) collapse into one
	// change notification once the file has been quiet for debounceDur.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Filesystem watcher error.", "error", err)

		case <-ticker.C:
			w.fireSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.logger.Debug("Configuration file event.", "op", event.Op.String())

	w.mu.Lock()
	w.pending[w.path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) fireSettled() {
	w.mu.Lock()
	now := time.Now()
	fire := false
	for path, eventTime := range w.pending {
		if now.Sub(eventTime) >= w.debounceDur {
			delete(w.pending, path)
			fire = true
		}
	}
	w.mu.Unlock()

	if fire {
		w.logger.Info("Configuration file changed.", "path", w.path)
		w.onChange()
	}
}
