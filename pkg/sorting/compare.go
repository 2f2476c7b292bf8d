package sorting

import (
	"cmp"
	"slices"

	"github.com/matst80/node-finder/pkg/facet"
	"github.com/matst80/node-finder/pkg/types"
)

type compareFunc func(a, b *types.Node, name string, cfg types.EngineConfig) int

var comparators = map[string]compareFunc{
	"roles":        compareRoles,
	"status":       compareStatus,
	"name":         compareAttribute,
	"mac":          compareAttribute,
	"ip":           compareAttribute,
	"manufacturer": compareAttribute,
	"disks":        compareDisks,
	"group_id":     compareOptionalId,
	"cluster":      compareOptionalId,
}

// Compare orders two nodes by one sorter, honouring its direction.
// Attributes without a dedicated comparator are compared as numeric
// resources, unknown names compare as equal zero values.
func Compare(a, b *types.Node, sorter types.Sorter, cfg types.EngineConfig) int {
	if sorter.IsLabel {
		return sorter.Apply(compareLabels(a.Label(sorter.Name), b.Label(sorter.Name)))
	}
	fn, ok := comparators[sorter.Name]
	if !ok {
		fn = compareResource
	}
	return sorter.Apply(fn(a, b, sorter.Name, cfg))
}

// CompareChain applies the sorters in order, the first non-zero result wins.
func CompareChain(a, b *types.Node, sorters types.SorterSet, cfg types.EngineConfig) int {
	for _, s := range sorters {
		if c := Compare(a, b, s, cfg); c != 0 {
			return c
		}
	}
	return 0
}

func compareResource(a, b *types.Node, name string, _ types.EngineConfig) int {
	return cmp.Compare(facet.ResourceValue(a, name), facet.ResourceValue(b, name))
}

func compareAttribute(a, b *types.Node, name string, _ types.EngineConfig) int {
	av, _ := a.Attribute(name)
	bv, _ := b.Attribute(name)
	return types.NaturalCompare(av, bv)
}

func compareStatus(a, b *types.Node, _ string, cfg types.EngineConfig) int {
	return cmp.Compare(cfg.StatusIndex(a.StatusSummary()), cfg.StatusIndex(b.StatusSummary()))
}

func compareDisks(a, b *types.Node, _ string, _ types.EngineConfig) int {
	return types.NaturalCompare(diskSizesText(a), diskSizesText(b))
}

// compareOptionalId puts nodes without the id after nodes with one.
func compareOptionalId(a, b *types.Node, name string, _ types.EngineConfig) int {
	av, aok := a.Attribute(name)
	bv, bok := b.Attribute(name)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return types.NaturalCompare(av, bv)
}

// compareRoles walks both nodes' roles in cluster role order. Nodes without
// roles go last, then the node with fewer remaining roles first.
func compareRoles(a, b *types.Node, _ string, cfg types.EngineConfig) int {
	ar := sortedRoles(a, cfg)
	br := sortedRoles(b, cfg)
	switch {
	case len(ar) == 0 && len(br) == 0:
		return 0
	case len(ar) == 0:
		return 1
	case len(br) == 0:
		return -1
	}
	for i := 0; i < len(ar) && i < len(br); i++ {
		if c := compareRoleNames(ar[i], br[i], cfg); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ar), len(br))
}

func roleRank(role string, cfg types.EngineConfig) int {
	if idx := cfg.RoleIndex(role); idx != -1 {
		return idx
	}
	return len(cfg.RoleOrder)
}

func compareRoleNames(a, b string, cfg types.EngineConfig) int {
	if c := cmp.Compare(roleRank(a, cfg), roleRank(b, cfg)); c != 0 {
		return c
	}
	return types.NaturalCompare(a, b)
}

func sortedRoles(n *types.Node, cfg types.EngineConfig) []string {
	roles := n.AllRoles()
	slices.SortFunc(roles, func(a, b string) int {
		return compareRoleNames(a, b, cfg)
	})
	return roles
}

// compareLabels orders not assigned before not specified before any
// concrete value, concrete values naturally.
func compareLabels(a, b types.LabelValue) int {
	if c := cmp.Compare(a.State, b.State); c != 0 {
		return c
	}
	if a.State != types.LabelStateValue {
		return 0
	}
	return types.NaturalCompare(a.Value, b.Value)
}
