package catalog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/solentmarks/markquiz/internal/database"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

var sampleMarks = []markquiz.Mark{
	{ID: "mark-0", Name: "Bramble Bank", Lat: 50.7234, Lon: -1.3123, Symbol: markquiz.SymbolGreen, Description: "Shallow Bank"},
	{ID: "mark-1", Name: "Racing Buoy", Lat: 50.78, Lon: -1.25, Symbol: markquiz.SymbolRed, Description: "Acme * Racing Buoy", Sponsor: "Acme", SponsorHintSuppressed: true},
	{ID: "mark-2", Name: "East Knoll", Lat: 50.74, Lon: -1.27, Symbol: markquiz.SymbolYellowBlackYel, Description: "Cardinal"},
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(ctx, db)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.ReplaceMarks(ctx, sampleMarks); err != nil {
		t.Fatalf("ReplaceMarks: %v", err)
	}

	got, err := store.Marks(ctx)
	if err != nil {
		t.Fatalf("Marks: %v", err)
	}
	if len(got) != len(sampleMarks) {
		t.Fatalf("got %d marks, want %d", len(got), len(sampleMarks))
	}
	for i := range sampleMarks {
		if got[i] != sampleMarks[i] {
			t.Errorf("mark %d = %+v, want %+v", i, got[i], sampleMarks[i])
		}
	}

	m, err := store.Mark(ctx, "mark-1")
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if !m.SponsorHintSuppressed || m.Sponsor != "Acme" {
		t.Errorf("mark-1 = %+v, want sponsor flags preserved", m)
	}
}

func TestStoreReplaceDropsOldMarks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.ReplaceMarks(ctx, sampleMarks); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := store.ReplaceMarks(ctx, sampleMarks[:1]); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	if _, err := store.Mark(ctx, "mark-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Mark(mark-2) err = %v, want ErrNotFound", err)
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(t.TempDir())
	t.Cleanup(func() { reg.Close() })

	if _, err := reg.Get(ctx, "solent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Create err = %v, want ErrNotFound", err)
	}

	a, err := reg.Create(ctx, "solent")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := reg.Get(ctx, "solent")
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if a != b {
		t.Error("Get returned a different store for the same chart")
	}
	if len(reg.Opened()) != 1 {
		t.Errorf("Opened = %d stores, want 1", len(reg.Opened()))
	}

	for _, bad := range []string{"", "../etc", "Solent", "a/b"} {
		if _, err := reg.Create(ctx, bad); !errors.Is(err, ErrNotFound) {
			t.Errorf("Create(%q) err = %v, want ErrNotFound", bad, err)
		}
	}
}

func TestRegistryReopensExistingFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewRegistry(dir)
	store, err := first.Create(ctx, "solent")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.ReplaceMarks(ctx, sampleMarks); err != nil {
		t.Fatalf("ReplaceMarks: %v", err)
	}
	first.Close()

	second := NewRegistry(dir)
	t.Cleanup(func() { second.Close() })
	store, err = second.Get(ctx, "solent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != len(sampleMarks) {
		t.Errorf("Count = %d, want %d", n, len(sampleMarks))
	}
}

type countingSource struct {
	calls atomic.Int32
	marks []markquiz.Mark
	err   error
}

func (s *countingSource) Marks(context.Context) ([]markquiz.Mark, error) {
	s.calls.Add(1)
	return s.marks, s.err
}

func TestCachedLoadsOnce(t *testing.T) {
	src := &countingSource{marks: sampleMarks}
	cached := NewCached(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			marks, err := cached.Marks(context.Background())
			if err != nil {
				t.Errorf("Marks: %v", err)
				return
			}
			if len(marks) != len(sampleMarks) {
				t.Errorf("got %d marks, want %d", len(marks), len(sampleMarks))
			}
		}()
	}
	wg.Wait()

	if _, err := cached.Marks(context.Background()); err != nil {
		t.Fatalf("Marks: %v", err)
	}
	if n := src.calls.Load(); n < 1 || n > 8 {
		t.Fatalf("source called %d times", n)
	}
	before := src.calls.Load()
	cached.Marks(context.Background())
	if src.calls.Load() != before {
		t.Error("cached source reloaded after a successful load")
	}
}

func TestCachedEmptyIsNoData(t *testing.T) {
	src := &countingSource{}
	cached := NewCached(src)

	if _, err := cached.Marks(context.Background()); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}

	src.marks = sampleMarks
	marks, err := cached.Marks(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(marks) != len(sampleMarks) {
		t.Errorf("got %d marks after retry, want %d", len(marks), len(sampleMarks))
	}
}

func TestCachedPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	cached := NewCached(&countingSource{err: boom})

	if _, err := cached.Marks(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

const seedGPX = `<gpx>
  <wpt lat="50.7595" lon="-1.2944"><name>Squadron</name><desc>Castle Tower</desc><sym>Y</sym></wpt>
  <wpt lat="50.7234" lon="-1.3123"><name>Bramble</name><desc>Bank</desc><sym>G</sym></wpt>
</gpx>`

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	path := filepath.Join(t.TempDir(), "marks.gpx")
	if err := os.WriteFile(path, []byte(seedGPX), 0o644); err != nil {
		t.Fatalf("writing gpx: %v", err)
	}

	if err := Seed(ctx, slog.Default(), store, path); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	n, _ := store.Count(ctx)
	if n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}

	// Already seeded: a missing file must not matter.
	if err := Seed(ctx, slog.Default(), store, filepath.Join(t.TempDir(), "missing.gpx")); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
}

func TestGPXFileMissing(t *testing.T) {
	_, err := GPXFile{Path: filepath.Join(t.TempDir(), "nope.gpx")}.Marks(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}
