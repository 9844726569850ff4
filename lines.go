package main

import (
	"log/slog"

	"gitlab.com/tinyland/lab/device-info/pkg/cache"
	"gitlab.com/tinyland/lab/device-info/pkg/kernel"
)

// cachedLine is the persisted form of a successfully read line.
type cachedLine struct {
	Line string `json:"line"`
}

func lineKey(path string) string {
	return "first_line:" + path
}

// cachedLines memoizes successful reads in a cache store. Read failures
// are never cached.
type cachedLines struct {
	store  *cache.Store
	next   kernel.LineReader
	logger *slog.Logger
}

// newCachedLines wraps next with store. A nil store returns next.
func newCachedLines(store *cache.Store, next kernel.LineReader, logger *slog.Logger) kernel.LineReader {
	if store == nil {
		return next
	}
	return &cachedLines{store: store, next: next, logger: logger}
}

// ReadFirstLine implements kernel.LineReader.
func (c *cachedLines) ReadFirstLine(path string) (string, error) {
	key := lineKey(path)
	if v, ok := cache.GetTyped[cachedLine](c.store, key); ok {
		return v.Line, nil
	}
	line, err := c.next.ReadFirstLine(path)
	if err != nil {
		return "", err
	}
	if err := cache.PutTyped(c.store, key, cachedLine{Line: line}); err != nil {
		c.logger.Debug("cache first line", "path", path, "error", err)
	}
	return line, nil
}

// invalidateLine drops the cached line for path.
func invalidateLine(store *cache.Store, path string) {
	if store != nil {
		store.Delete(lineKey(path))
	}
}
