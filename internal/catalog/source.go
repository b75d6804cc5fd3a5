package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/solentmarks/markquiz/internal/gpx"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

// GPXFile reads marks from a GPX file on every call.
type GPXFile struct {
	Path string
}

func (f GPXFile) Marks(_ context.Context) ([]markquiz.Mark, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening gpx: %w", err)
	}
	defer file.Close()

	marks, err := gpx.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Path, err)
	}
	return marks, nil
}

// Cached loads from its source once and then keeps serving the same slice.
// Concurrent first callers share a single load. Failures and empty results
// are not cached, so a later call retries.
type Cached struct {
	src    Source
	group  singleflight.Group
	mu     sync.RWMutex
	marks  []markquiz.Mark
	loaded bool
}

func NewCached(src Source) *Cached {
	return &Cached{src: src}
}

func (c *Cached) Marks(ctx context.Context) ([]markquiz.Mark, error) {
	c.mu.RLock()
	if c.loaded {
		marks := c.marks
		c.mu.RUnlock()
		return marks, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("marks", func() (any, error) {
		marks, err := c.src.Marks(ctx)
		if err != nil {
			return nil, err
		}
		if len(marks) == 0 {
			return nil, ErrNoData
		}

		c.mu.Lock()
		c.marks, c.loaded = marks, true
		c.mu.Unlock()
		return marks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]markquiz.Mark), nil
}

// Seed fills store from the GPX file at path when the store is empty.
// Idempotent: does nothing if the chart already has marks.
func Seed(ctx context.Context, logger *slog.Logger, store *Store, path string) error {
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting marks: %w", err)
	}
	if n > 0 || path == "" {
		return nil
	}

	marks, err := GPXFile{Path: path}.Marks(ctx)
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		return fmt.Errorf("seeding from %s: %w", path, ErrNoData)
	}
	if err := store.ReplaceMarks(ctx, marks); err != nil {
		return fmt.Errorf("seeding marks: %w", err)
	}

	logger.Info("chart seeded", "path", path, "marks", len(marks))
	return nil
}
