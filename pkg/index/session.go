package index

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/matst80/node-finder/pkg/common"
	"github.com/matst80/node-finder/pkg/facet"
	"github.com/matst80/node-finder/pkg/types"
)

const DefaultSearchDebounce = 200 * time.Millisecond

type SessionOptions struct {
	// Transient sessions keep their state in memory only, as the add nodes
	// workflow does.
	Transient      bool
	SearchDebounce time.Duration
	// OnSearchApplied is called with the new view once a debounced search
	// change has been applied.
	OnSearchApplied func(Result)
}

// Session is the state of one node screen: the active filters, sorters and
// search over a shared node index. Filter and sorter changes apply at once,
// search changes after the debounce window.
type Session struct {
	mu sync.RWMutex
	// saveMu orders changes with their saves so the store ends on the
	// latest state.
	saveMu    sync.Mutex
	Id        string
	index     *NodeIndex
	cfg       types.EngineConfig
	store     types.PreferenceStore
	key       string
	opts      SessionOptions
	state     ViewState
	viewMode  string
	debouncer *common.Debouncer
	bounds    *facet.BoundsCache
	lastUsed  time.Time
}

func NewSession(id string, idx *NodeIndex, cfg types.EngineConfig, store types.PreferenceStore, key string, opts SessionOptions) *Session {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	defaults := types.DefaultPreferences()
	return &Session{
		Id:        id,
		index:     idx,
		cfg:       cfg,
		store:     store,
		key:       key,
		opts:      opts,
		state:     ViewStateFromPreferences(defaults),
		viewMode:  defaults.ViewMode,
		debouncer: common.NewDebouncer(opts.SearchDebounce),
		bounds:    facet.NewBoundsCache(),
		lastUsed:  time.Now(),
	}
}

// Load reads the stored preferences. Transient sessions and users without
// stored preferences keep the defaults.
func (s *Session) Load(ctx context.Context) error {
	if s.opts.Transient || s.store == nil {
		return nil
	}
	prefs, err := s.store.Load(ctx, s.key)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ViewStateFromPreferences(prefs)
	if prefs.ViewMode != "" {
		s.viewMode = prefs.ViewMode
	}
	return nil
}

func (s *Session) IsTransient() bool {
	return s.opts.Transient
}

// LastUsed is the time of the last view or change.
func (s *Session) LastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

func (s *Session) State() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) ViewMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewMode
}

func (s *Session) Preferences() types.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preferencesUnsafe()
}

func (s *Session) preferencesUnsafe() types.Preferences {
	return types.NewPreferences(s.state.Filters, s.state.Sorters, s.state.Search, s.viewMode)
}

// Result derives the current view from scratch.
func (s *Session) Result() Result {
	s.mu.Lock()
	s.lastUsed = time.Now()
	state := s.state
	s.mu.Unlock()
	return DeriveFromIndex(s.index, state, s.cfg)
}

func (s *Session) update(ctx context.Context, fn func(ViewState) ViewState) error {
	return s.apply(ctx, func() {
		s.state = fn(s.state)
	})
}

// apply runs fn under the state lock and saves the preferences it produced.
func (s *Session) apply(ctx context.Context, fn func()) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	fn()
	s.lastUsed = time.Now()
	prefs := s.preferencesUnsafe()
	s.mu.Unlock()
	return s.persist(ctx, prefs)
}

func (s *Session) persist(ctx context.Context, prefs types.Preferences) error {
	if s.opts.Transient || s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.key, prefs); err != nil {
		return fmt.Errorf("save preferences %s: %w", s.key, err)
	}
	return nil
}

// AddFilter adds the filter or replaces the filter with the same key.
func (s *Session) AddFilter(ctx context.Context, filter types.Filter) error {
	return s.update(ctx, func(v ViewState) ViewState {
		v.Filters = v.Filters.With(filter)
		return v
	})
}

func (s *Session) ChangeFilter(ctx context.Context, key types.AttributeKey, values []string) error {
	return s.update(ctx, func(v ViewState) ViewState {
		v.Filters = v.Filters.WithValues(key, values)
		return v
	})
}

func (s *Session) RemoveFilter(ctx context.Context, key types.AttributeKey) error {
	return s.update(ctx, func(v ViewState) ViewState {
		v.Filters = v.Filters.Without(key)
		return v
	})
}

func (s *Session) AddSorter(ctx context.Context, sorter types.Sorter) error {
	return s.update(ctx, func(v ViewState) ViewState {
		v.Sorters = v.Sorters.With(sorter)
		return v
	})
}

func (s *Session) RemoveSorter(ctx context.Context, key types.AttributeKey) error {
	return s.update(ctx, func(v ViewState) ViewState {
		v.Sorters = v.Sorters.Without(key)
		return v
	})
}

func (s *Session) ToggleSorter(ctx context.Context, key types.AttributeKey) error {
	return s.update(ctx, func(v ViewState) ViewState {
		v.Sorters = v.Sorters.Toggle(key)
		return v
	})
}

func (s *Session) MoveSorter(ctx context.Context, key types.AttributeKey, to int) error {
	return s.update(ctx, func(v ViewState) ViewState {
		v.Sorters = v.Sorters.Move(key, to)
		return v
	})
}

func (s *Session) SetViewMode(ctx context.Context, mode string) error {
	return s.apply(ctx, func() {
		s.viewMode = mode
	})
}

// SetSearch schedules the search text. Every call restarts the debounce
// window, only the last text is applied.
func (s *Session) SetSearch(text string) {
	s.debouncer.Trigger(func() {
		if err := s.update(context.Background(), func(v ViewState) ViewState {
			v.Search = text
			return v
		}); err != nil {
			log.Printf("Failed to persist search for %s: %v", s.key, err)
		}
		if s.opts.OnSearchApplied != nil {
			s.opts.OnSearchApplied(s.Result())
		}
	})
}

// FlushSearch applies a pending search change immediately.
func (s *Session) FlushSearch() {
	s.debouncer.Flush()
}

// Close drops a pending search change.
func (s *Session) Close() {
	s.debouncer.Stop()
}

// Options lists the values a filter picker can offer, drawn from the whole
// collection.
func (s *Session) Options(name string, isLabel bool) []facet.Option {
	return facet.AvailableOptions(name, isLabel, s.index.All(), s.cfg)
}

// Bounds returns slider bounds over the whole collection, they only change
// when the collection does.
func (s *Session) Bounds(name string) facet.NumberRange[float64] {
	nodes, version := s.index.Snapshot()
	return s.bounds.Get(version, name, nodes)
}

func (s *Session) LabelKeys() []string {
	return facet.LabelKeys(s.index.All())
}
