package catalog

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Loader produces a fresh catalog.
type Loader func(ctx context.Context) (*Catalog, error)

// Cache is a read-through, load-once catalog holder. The catalog is reloaded
// only after Invalidate, which Watch calls when the source file changes.
type Cache struct {
	load Loader

	mu  sync.Mutex
	cur *Catalog
}

// NewCache creates a Cache backed by load.
func NewCache(load Loader) *Cache {
	return &Cache{load: load}
}

// Get returns the cached catalog, loading it on first use. Failed loads are
// not cached.
func (c *Cache) Get(ctx context.Context) (*Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != nil {
		return c.cur, nil
	}
	cat, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.cur = cat
	return cat, nil
}

// Invalidate drops the cached catalog so the next Get reloads it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cur = nil
	c.mu.Unlock()
}

// Watch invalidates the cache whenever the file at path is written, created,
// renamed, or removed. It blocks until ctx is done.
func (c *Cache) Watch(ctx context.Context, path string) error {
	w, err := c.watcher(path)
	if err != nil {
		return err
	}
	return c.watchLoop(ctx, w, path)
}

// watcher watches the parent directory so editors that replace the file
// atomically are still observed.
func (c *Cache) watcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "catalog: create watcher")
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close() //nolint:errcheck
		return nil, eris.Wrapf(err, "catalog: watch %s", path)
	}
	return w, nil
}

func (c *Cache) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string) error {
	defer w.Close() //nolint:errcheck

	target := filepath.Clean(path)
	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Op.Has(relevant) {
				continue
			}
			zap.L().Info("catalog: source changed, invalidating cache",
				zap.String("path", ev.Name),
				zap.String("op", ev.Op.String()),
			)
			c.Invalidate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			zap.L().Warn("catalog: watcher error", zap.Error(err))
		}
	}
}
