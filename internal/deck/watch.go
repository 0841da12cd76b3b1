package deck

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"carousel/internal/eventbus"
)

// DefaultDebounce batches the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// Watcher publishes DeckChangedEvent when the deck file changes on disk
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	bus      eventbus.EventBus
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the deck at path. The parent directory is watched
// so editors that replace the file on save are still seen.
func NewWatcher(path string, bus eventbus.EventBus, logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deck path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:  fsw,
		path:     abs,
		bus:      bus,
		logger:   logger.Named("watch"),
		debounce: debounce,
		doneCh:   make(chan struct{}),
	}, nil
}

// Start runs the event loop until ctx is cancelled
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.run(ctx)
}

// Wait blocks until the event loop has exited and the underlying watcher is closed
func (w *Watcher) Wait() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		w.watcher.Close()
		return
	}
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("deck event", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			w.logger.Info("deck changed", zap.String("path", w.path))
			if w.bus != nil {
				w.bus.Publish(eventbus.DeckChangedEvent{Path: w.path})
			}
		}
	}
}
