package retrieval

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 400 * time.Millisecond

// Watcher keeps the document index in sync with a set of directories of
// plain-text policy documents. Writes are debounced so editors that save in
// multiple steps index once.
type Watcher struct {
	roots      []string
	extensions []string
	retriever  *Retriever
	logger     *zap.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	debounce map[string]*time.Timer
}

// NewWatcher creates a watcher over roots. extensions filters which files
// are ingested (empty means all).
func NewWatcher(roots, extensions []string, retriever *Retriever, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		roots:      roots,
		extensions: extensions,
		retriever:  retriever,
		logger:     logger,
		debounce:   make(map[string]*time.Timer),
	}
}

// Start indexes existing files under the roots, then watches for changes
// until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.watcher = fsw
	w.mu.Unlock()

	for _, root := range w.roots {
		if err := w.addRoot(ctx, root); err != nil {
			_ = fsw.Close()
			return err
		}
	}
	go w.run(ctx)
	return nil
}

func (w *Watcher) addRoot(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		if err := w.retriever.IndexFile(ctx, path, w.extensions); err != nil {
			w.logger.Warn("initial index failed", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.watcher.Add(ev.Name)
			return
		}
		w.scheduleIndex(ctx, ev.Name)
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		if err := w.retriever.DeleteDocument(ctx, FileDocID(ev.Name)); err != nil {
			w.logger.Debug("watch delete failed", zap.String("path", ev.Name), zap.Error(err))
		}
	}
}

func (w *Watcher) scheduleIndex(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounce[path]; ok {
		t.Stop()
	}
	w.debounce[path] = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()
		if err := w.retriever.IndexFile(ctx, path, w.extensions); err != nil {
			w.logger.Warn("watch index failed", zap.String("path", path), zap.Error(err))
		}
	})
}
