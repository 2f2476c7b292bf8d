package index

import (
	"slices"
	"sync"

	"github.com/matst80/node-finder/pkg/types"
)

// NodeIndex is the in-memory node collection. Stored nodes are never
// modified, an update swaps in a new copy, so snapshots stay valid.
type NodeIndex struct {
	mu      sync.RWMutex
	nodes   map[types.NodeId]*types.Node
	order   []types.NodeId
	version uint64
}

func NewNodeIndex() *NodeIndex {
	return &NodeIndex{
		nodes: make(map[types.NodeId]*types.Node),
		order: make([]types.NodeId, 0),
	}
}

func (i *NodeIndex) upsertUnsafe(node types.Node) {
	n := node
	if _, ok := i.nodes[n.Id]; !ok {
		i.order = append(i.order, n.Id)
	}
	i.nodes[n.Id] = &n
}

// Upsert adds or replaces nodes, new nodes are appended to the collection
// order.
func (i *NodeIndex) Upsert(nodes ...types.Node) {
	if len(nodes) == 0 {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, n := range nodes {
		i.upsertUnsafe(n)
	}
	i.version++
}

func (i *NodeIndex) Delete(ids ...types.NodeId) {
	i.mu.Lock()
	defer i.mu.Unlock()
	changed := false
	for _, id := range ids {
		if _, ok := i.nodes[id]; ok {
			delete(i.nodes, id)
			changed = true
		}
	}
	if !changed {
		return
	}
	i.order = slices.DeleteFunc(i.order, func(id types.NodeId) bool {
		_, ok := i.nodes[id]
		return !ok
	})
	i.version++
}

// Replace swaps the whole collection, keeping the backend's order.
func (i *NodeIndex) Replace(nodes []types.Node) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.nodes = make(map[types.NodeId]*types.Node, len(nodes))
	i.order = make([]types.NodeId, 0, len(nodes))
	for _, n := range nodes {
		i.upsertUnsafe(n)
	}
	i.version++
}

// HandleNodes implements types.NodeHandler.
func (i *NodeIndex) HandleNodes(nodes []types.Node) {
	i.Upsert(nodes...)
}

// DeleteNodes implements types.NodeHandler.
func (i *NodeIndex) DeleteNodes(ids []types.NodeId) {
	i.Delete(ids...)
}

func (i *NodeIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.order)
}

// Version changes on every mutation of the collection.
func (i *NodeIndex) Version() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.version
}

func (i *NodeIndex) Get(id types.NodeId) (*types.Node, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, ok := i.nodes[id]
	return n, ok
}

// All returns the nodes in collection order.
func (i *NodeIndex) All() []*types.Node {
	return i.Filter(nil)
}

// Snapshot returns the nodes and the version they belong to.
func (i *NodeIndex) Snapshot() ([]*types.Node, uint64) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.filterUnsafe(nil), i.version
}

func (i *NodeIndex) Filter(predicate func(*types.Node) bool) []*types.Node {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.filterUnsafe(predicate)
}

func (i *NodeIndex) filterUnsafe(predicate func(*types.Node) bool) []*types.Node {
	ret := make([]*types.Node, 0, len(i.order))
	for _, id := range i.order {
		n := i.nodes[id]
		if predicate == nil || predicate(n) {
			ret = append(ret, n)
		}
	}
	return ret
}

// Pluck reads one attribute from every node in collection order. Built-in
// attributes yield strings (nil when missing), anything else the numeric
// resource.
func (i *NodeIndex) Pluck(attribute string) []any {
	nodes := i.All()
	ret := make([]any, len(nodes))
	for idx, n := range nodes {
		if v, ok := n.Attribute(attribute); ok {
			ret[idx] = v
			continue
		}
		switch attribute {
		case "manufacturer", "group_id", "cluster":
			ret[idx] = nil
		default:
			ret[idx] = n.Resource(attribute)
		}
	}
	return ret
}

func (i *NodeIndex) Resource(id types.NodeId, name string) (float64, bool) {
	n, ok := i.Get(id)
	if !ok {
		return 0, false
	}
	return n.Resource(name), true
}

// Nodes copies the collection out, used for snapshots.
func (i *NodeIndex) Nodes() []types.Node {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ret := make([]types.Node, 0, len(i.order))
	for _, id := range i.order {
		ret = append(ret, *i.nodes[id])
	}
	return ret
}
