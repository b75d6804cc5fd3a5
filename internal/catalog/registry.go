package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/solentmarks/markquiz/internal/database"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)

// ValidSlug reports whether s can name a chart (and its database file).
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Registry opens one SQLite database per chart under dir, on first use.
// An empty dir keeps every chart in memory.
type Registry struct {
	dir    string
	mu     sync.RWMutex
	stores map[string]*Store
}

func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:    dir,
		stores: make(map[string]*Store),
	}
}

// Get returns the store for an existing chart. Charts that were never
// created report ErrNotFound.
func (r *Registry) Get(ctx context.Context, chart string) (*Store, error) {
	return r.get(ctx, chart, false)
}

// Create returns the store for chart, creating its database if needed.
func (r *Registry) Create(ctx context.Context, chart string) (*Store, error) {
	return r.get(ctx, chart, true)
}

func (r *Registry) get(ctx context.Context, chart string, create bool) (*Store, error) {
	if !ValidSlug(chart) {
		return nil, fmt.Errorf("chart %q: %w", chart, ErrNotFound)
	}

	r.mu.RLock()
	s, ok := r.stores[chart]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if s, ok := r.stores[chart]; ok {
		return s, nil
	}
	if !create && !r.exists(chart) {
		return nil, fmt.Errorf("chart %q: %w", chart, ErrNotFound)
	}

	s, err := r.open(ctx, chart)
	if err != nil {
		return nil, err
	}
	r.stores[chart] = s
	return s, nil
}

// Opened returns the stores opened so far, keyed by chart.
func (r *Registry) Opened() map[string]*Store {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Store, len(r.stores))
	for chart, s := range r.stores {
		out[chart] = s
	}
	return out
}

// exists reports whether chart has a database file. In-memory charts exist
// only once created.
func (r *Registry) exists(chart string) bool {
	if r.dir == "" {
		return false
	}
	_, err := os.Stat(r.path(chart))
	return err == nil
}

func (r *Registry) path(chart string) string {
	if r.dir == "" {
		return ":memory:"
	}
	return filepath.Join(r.dir, chart+".db")
}

func (r *Registry) open(ctx context.Context, chart string) (*Store, error) {
	db, err := database.Open(ctx, r.path(chart))
	if err != nil {
		return nil, fmt.Errorf("opening chart db %q: %w", chart, err)
	}
	store, err := NewStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing chart store %q: %w", chart, err)
	}
	return store, nil
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for chart, s := range r.stores {
		s.Close()
		delete(r.stores, chart)
	}
	return nil
}
