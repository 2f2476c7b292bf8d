package index

import (
	"time"

	"github.com/matst80/node-finder/pkg/facet"
	"github.com/matst80/node-finder/pkg/search"
	"github.com/matst80/node-finder/pkg/sorting"
	"github.com/matst80/node-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewDerivations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nodefinder_view_derivations_total",
		Help: "The total number of derived node views",
	})
	viewDeriveSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nodefinder_view_derive_seconds",
		Help:    "Time spent filtering, sorting and grouping a node view",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
	})
)

// ViewState is the active filter, sorter and search state of a node screen.
type ViewState struct {
	Filters types.FilterSet `json:"filters"`
	Sorters types.SorterSet `json:"sorters"`
	Search  string          `json:"search"`
}

func ViewStateFromPreferences(p types.Preferences) ViewState {
	return ViewState{
		Filters: p.Filters(),
		Sorters: p.Sorters(),
		Search:  p.Search,
	}
}

type Result struct {
	Nodes   []*types.Node     `json:"nodes"`
	Groups  []types.NodeGroup `json:"groups"`
	Total   int               `json:"total"`
	Version uint64            `json:"version"`
}

// FilterNodes keeps the nodes passing the search and every active filter,
// in collection order.
func FilterNodes(nodes []*types.Node, state ViewState) []*types.Node {
	active := state.Filters.Active()
	ret := make([]*types.Node, 0, len(nodes))
	for _, n := range nodes {
		if search.MatchesSearch(n, state.Search) && facet.MatchesAll(n, active) {
			ret = append(ret, n)
		}
	}
	return ret
}

// Derive computes the filtered list and its groups from scratch. It never
// modifies the nodes or the state.
func Derive(nodes []*types.Node, state ViewState, cfg types.EngineConfig) Result {
	start := time.Now()
	filtered := FilterNodes(nodes, state)
	groups := sorting.GroupAndOrder(filtered, state.Sorters, cfg)
	viewDerivations.Inc()
	viewDeriveSeconds.Observe(time.Since(start).Seconds())
	return Result{
		Nodes:  filtered,
		Groups: groups,
		Total:  len(nodes),
	}
}

// DeriveFromIndex derives a view over the current collection.
func DeriveFromIndex(idx *NodeIndex, state ViewState, cfg types.EngineConfig) Result {
	nodes, version := idx.Snapshot()
	r := Derive(nodes, state, cfg)
	r.Version = version
	return r
}
