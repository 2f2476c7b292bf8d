package server

import (
	"github.com/matst80/node-finder/pkg/index"
	"github.com/matst80/node-finder/pkg/types"
)

type GroupResult struct {
	Label string        `json:"label"`
	Nodes []*types.Node `json:"nodes"`
}

// ViewResponse is a derived node view. Groups hold the nodes in display
// order, Ids lists the filtered nodes in collection order.
type ViewResponse struct {
	Ids            []types.NodeId  `json:"ids"`
	Groups         []GroupResult   `json:"groups"`
	Count          int             `json:"count"`
	Total          int             `json:"total"`
	Version        uint64          `json:"version"`
	State          index.ViewState `json:"state"`
	InvalidFilters []string        `json:"invalidFilters,omitempty"`
}

type SessionResponse struct {
	Id        string       `json:"id"`
	Screen    string       `json:"screen"`
	User      string       `json:"user"`
	Transient bool         `json:"transient"`
	ViewMode  string       `json:"viewMode"`
	View      ViewResponse `json:"view"`
}

type SearchRequest struct {
	Search string `json:"search"`
	// Flush applies the search at once instead of after the debounce window.
	Flush bool `json:"flush,omitempty"`
}

type ChangeFilterRequest struct {
	Values []string `json:"values"`
}

type MoveSorterRequest struct {
	To int `json:"to"`
}

type ViewModeRequest struct {
	ViewMode string `json:"view_mode"`
}

func newViewResponse(result index.Result, state index.ViewState) ViewResponse {
	ids := make([]types.NodeId, len(result.Nodes))
	for i, n := range result.Nodes {
		ids[i] = n.Id
	}
	groups := make([]GroupResult, len(result.Groups))
	for i, g := range result.Groups {
		groups[i] = GroupResult{Label: g.Label, Nodes: g.Nodes}
	}
	invalid := []string{}
	for _, f := range state.Filters {
		if err := f.Validate(); err != nil {
			invalid = append(invalid, f.Name)
		}
	}
	if state.Filters == nil {
		state.Filters = types.FilterSet{}
	}
	if state.Sorters == nil {
		state.Sorters = types.SorterSet{}
	}
	return ViewResponse{
		Ids:            ids,
		Groups:         groups,
		Count:          len(ids),
		Total:          result.Total,
		Version:        result.Version,
		State:          state,
		InvalidFilters: invalid,
	}
}
