package index

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matst80/node-finder/pkg/storage"
	"github.com/matst80/node-finder/pkg/types"
)

type failingStore struct{}

func (failingStore) Load(context.Context, string) (types.Preferences, error) {
	return types.Preferences{}, errors.New("unavailable")
}

func (failingStore) Save(context.Context, string, types.Preferences) error {
	return errors.New("unavailable")
}

// gatedStore holds the first save until release is closed.
type gatedStore struct {
	types.PreferenceStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) Save(ctx context.Context, key string, prefs types.Preferences) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.PreferenceStore.Save(ctx, key, prefs)
}

func newTestSession(t *testing.T, store types.PreferenceStore, opts SessionOptions) *Session {
	t.Helper()
	idx := NewNodeIndex()
	idx.Replace(testNodes())
	s := NewSession("test", idx, types.DefaultEngineConfig(), store, types.PreferenceKey("admin", "nodes"), opts)
	t.Cleanup(s.Close)
	return s
}

func TestSessionDefaultsWithoutPreferences(t *testing.T) {
	s := newTestSession(t, storage.NewMemoryPreferenceStore(), SessionOptions{})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	state := s.State()
	if len(state.Sorters) != 1 || state.Sorters[0].Name != "roles" {
		t.Errorf("Expected default roles sorter, got %+v", state.Sorters)
	}
	if s.ViewMode() != types.ViewModeStandard {
		t.Errorf("Expected standard view mode, got %s", s.ViewMode())
	}
}

func TestSessionLoadsStoredPreferences(t *testing.T) {
	store := storage.NewMemoryPreferenceStore()
	key := types.PreferenceKey("admin", "nodes")
	_ = store.Save(context.Background(), key, types.Preferences{
		Sort:     []map[string]types.SortOrder{{"status": types.Asc}},
		Filter:   map[string][]any{"status": {"error"}},
		ViewMode: types.ViewModeCompact,
	})
	s := newTestSession(t, store, SessionOptions{})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	result := s.Result()
	if got := ids(result.Nodes); !equalIds(got, []types.NodeId{2, 4}) {
		t.Errorf("Expected error nodes, got %v", got)
	}
	if len(result.Groups) != 1 {
		t.Errorf("Expected one group, got %d", len(result.Groups))
	}
	if s.ViewMode() != types.ViewModeCompact {
		t.Errorf("Expected compact view mode, got %s", s.ViewMode())
	}
}

func TestSessionLoadError(t *testing.T) {
	s := newTestSession(t, failingStore{}, SessionOptions{})
	if err := s.Load(context.Background()); err == nil {
		t.Error("Expected load error")
	}
}

func TestSessionMutationsPersist(t *testing.T) {
	store := storage.NewMemoryPreferenceStore()
	s := newTestSession(t, store, SessionOptions{})
	ctx := context.Background()
	key := types.PreferenceKey("admin", "nodes")

	if err := s.AddFilter(ctx, types.Filter{Name: "status", Values: []string{types.StatusError}}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSorter(ctx, types.Sorter{Name: "name"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleSorter(ctx, types.AttributeKey{Name: "name"}); err != nil {
		t.Fatal(err)
	}
	if err := s.MoveSorter(ctx, types.AttributeKey{Name: "name"}, 0); err != nil {
		t.Fatal(err)
	}

	prefs, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Expected stored preferences: %v", err)
	}
	if len(prefs.Sort) != 2 || prefs.Sort[0]["name"] != types.Desc || prefs.Sort[1]["roles"] != types.Asc {
		t.Errorf("Unexpected stored sort %v", prefs.Sort)
	}
	if len(prefs.Filter["status"]) != 1 || prefs.Filter["status"][0] != types.StatusError {
		t.Errorf("Unexpected stored filter %v", prefs.Filter)
	}

	if err := s.ChangeFilter(ctx, types.AttributeKey{Name: "status"}, []string{types.StatusReady}); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Result().Nodes); !equalIds(got, []types.NodeId{1, 3}) {
		t.Errorf("Expected ready nodes, got %v", got)
	}

	if err := s.RemoveFilter(ctx, types.AttributeKey{Name: "status"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveSorter(ctx, types.AttributeKey{Name: "roles"}); err != nil {
		t.Fatal(err)
	}
	prefs, _ = store.Load(ctx, key)
	if len(prefs.Filter) != 0 || len(prefs.Sort) != 1 {
		t.Errorf("Unexpected stored preferences %+v", prefs)
	}
}

func TestSessionSavesInChangeOrder(t *testing.T) {
	store := &gatedStore{
		PreferenceStore: storage.NewMemoryPreferenceStore(),
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	s := newTestSession(t, store, SessionOptions{})
	ctx := context.Background()
	done := make(chan error, 2)

	go func() {
		done <- s.AddFilter(ctx, types.Filter{Name: "status", Values: []string{types.StatusError}})
	}()
	<-store.entered
	go func() {
		done <- s.AddSorter(ctx, types.Sorter{Name: "name"})
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	for range 2 {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}

	prefs, err := store.Load(ctx, types.PreferenceKey("admin", "nodes"))
	if err != nil {
		t.Fatalf("Expected stored preferences: %v", err)
	}
	if len(prefs.Sort) != 2 || len(prefs.Filter["status"]) != 1 {
		t.Errorf("Expected the latest state to be stored, got %+v", prefs)
	}
}

func TestTransientSessionDoesNotPersist(t *testing.T) {
	store := storage.NewMemoryPreferenceStore()
	s := newTestSession(t, store, SessionOptions{Transient: true})
	ctx := context.Background()
	if err := s.AddSorter(ctx, types.Sorter{Name: "status"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetViewMode(ctx, types.ViewModeCompact); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, types.PreferenceKey("admin", "nodes")); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Transient session stored preferences: %v", err)
	}
	if len(s.State().Sorters) != 2 {
		t.Errorf("Expected the sorter in memory, got %+v", s.State().Sorters)
	}
}

func TestSessionSaveError(t *testing.T) {
	s := newTestSession(t, failingStore{}, SessionOptions{})
	err := s.AddSorter(context.Background(), types.Sorter{Name: "status"})
	if err == nil {
		t.Fatal("Expected save error")
	}
	if len(s.State().Sorters) != 2 {
		t.Error("State should change even when saving fails")
	}
}

func TestSessionSearchIsDebounced(t *testing.T) {
	applied := make(chan Result, 4)
	s := newTestSession(t, storage.NewMemoryPreferenceStore(), SessionOptions{
		SearchDebounce: 20 * time.Millisecond,
		OnSearchApplied: func(r Result) {
			applied <- r
		},
	})
	s.SetSearch("10.")
	s.SetSearch("10.0")
	s.SetSearch("192")

	select {
	case r := <-applied:
		if got := ids(r.Nodes); !equalIds(got, []types.NodeId{3, 4}) {
			t.Errorf("Expected only the last search applied, got %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Search was never applied")
	}
	select {
	case r := <-applied:
		t.Errorf("Expected a single application, got another with %d nodes", len(r.Nodes))
	case <-time.After(100 * time.Millisecond):
	}
	if s.State().Search != "192" {
		t.Errorf("Expected search 192, got %q", s.State().Search)
	}
}

func TestSessionFlushSearch(t *testing.T) {
	s := newTestSession(t, storage.NewMemoryPreferenceStore(), SessionOptions{SearchDebounce: time.Hour})
	s.SetSearch("node-5")
	if s.State().Search != "" {
		t.Fatal("Search applied before the debounce window")
	}
	s.FlushSearch()
	if s.State().Search != "node-5" {
		t.Errorf("Expected flushed search, got %q", s.State().Search)
	}
	if got := ids(s.Result().Nodes); !equalIds(got, []types.NodeId{5}) {
		t.Errorf("Expected node 5, got %v", got)
	}
}

func TestSessionOptionsAndBounds(t *testing.T) {
	s := newTestSession(t, nil, SessionOptions{})
	ctx := context.Background()
	_ = s.AddFilter(ctx, types.Filter{Name: "status", Values: []string{types.StatusError}})

	bounds := s.Bounds("ram")
	if bounds.Min != 0 || bounds.Max != 8 {
		t.Errorf("Expected bounds over the full collection, got %+v", bounds)
	}
	options := s.Options("manufacturer", false)
	if len(options) != 1 || options[0].Name != "Dell" {
		t.Errorf("Unexpected manufacturer options %+v", options)
	}
	if s.Options("cores", false) != nil {
		t.Error("Number ranges have no options")
	}
}
