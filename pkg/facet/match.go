package facet

import (
	"math"
	"slices"

	"github.com/matst80/node-finder/pkg/types"
)

// ResourceValue is the value a node is filtered and bounded by. Byte valued
// resources are converted to whole GiB.
func ResourceValue(node *types.Node, name string) float64 {
	v := node.Resource(name)
	if types.IsByteResource(name) {
		return math.Floor(v / types.GiB)
	}
	return v
}

// Matches reports whether the node passes the filter. Inactive filters
// match everything.
func Matches(node *types.Node, filter types.Filter) bool {
	if !filter.IsActive() {
		return true
	}
	if filter.IsLabel {
		return slices.Contains(filter.Values, node.Label(filter.Name).Token())
	}
	switch filter.Name {
	case "roles":
		return slices.ContainsFunc(filter.Values, node.HasRole)
	case "status", "manufacturer", "group_id", "cluster":
		value, _ := node.Attribute(filter.Name)
		return slices.Contains(filter.Values, value)
	}
	return filter.Range().Contains(ResourceValue(node, filter.Name))
}

// MatchesAll is the conjunction of every filter in the set.
func MatchesAll(node *types.Node, filters types.FilterSet) bool {
	for _, f := range filters {
		if !Matches(node, f) {
			return false
		}
	}
	return true
}
