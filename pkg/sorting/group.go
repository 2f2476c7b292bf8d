package sorting

import (
	"slices"

	"github.com/matst80/node-finder/pkg/types"
)

// GroupAndOrder partitions the nodes into groups sharing every grouping
// sorter's value, orders each group's members by the unique-valued sorters
// and orders the groups by their first member over all sorters.
// Without sorters all nodes form one group in collection order.
func GroupAndOrder(nodes []*types.Node, sorters types.SorterSet, cfg types.EngineConfig) []types.NodeGroup {
	if len(nodes) == 0 {
		return []types.NodeGroup{}
	}
	if len(sorters) == 0 {
		return []types.NodeGroup{{Label: "", Nodes: slices.Clone(nodes)}}
	}
	grouping := sorters.Grouping()
	unique := sorters.Unique()

	groups := []types.NodeGroup{}
	byKey := map[string]int{}
	for _, n := range nodes {
		key := PartitionKey(n, grouping, cfg)
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, types.NodeGroup{Label: GroupLabel(n, grouping, cfg)})
		}
		groups[idx].Nodes = append(groups[idx].Nodes, n)
	}

	if len(unique) > 0 {
		for i := range groups {
			slices.SortStableFunc(groups[i].Nodes, func(a, b *types.Node) int {
				return CompareChain(a, b, unique, cfg)
			})
		}
	}
	slices.SortStableFunc(groups, func(a, b types.NodeGroup) int {
		return CompareChain(a.Nodes[0], b.Nodes[0], sorters, cfg)
	})
	return groups
}

// SortNodes returns a sorted copy of the nodes using all sorters as a
// lexicographic chain.
func SortNodes(nodes []*types.Node, sorters types.SorterSet, cfg types.EngineConfig) []*types.Node {
	ret := slices.Clone(nodes)
	if len(sorters) > 0 {
		slices.SortStableFunc(ret, func(a, b *types.Node) int {
			return CompareChain(a, b, sorters, cfg)
		})
	}
	return ret
}
