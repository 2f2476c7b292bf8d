package facet

import (
	"math"
	"sync"

	"github.com/matst80/node-finder/pkg/types"
)

type FieldNumberValue interface {
	int | float64
}

type NumberRange[V FieldNumberValue] struct {
	Min V `json:"min"`
	Max V `json:"max"`
}

// GetBounds scans the nodes for the slider bounds of a number range
// attribute. Byte valued resources are floored at the low end and ceiled at
// the high end so every node stays inside the bounds.
func GetBounds(name string, nodes []*types.Node) NumberRange[float64] {
	if len(nodes) == 0 {
		return NumberRange[float64]{}
	}
	isBytes := types.IsByteResource(name)
	r := NumberRange[float64]{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, n := range nodes {
		v := n.Resource(name)
		low, high := v, v
		if isBytes {
			low = math.Floor(v / types.GiB)
			high = math.Ceil(v / types.GiB)
		}
		r.Min = min(r.Min, low)
		r.Max = max(r.Max, high)
	}
	return r
}

type boundsKey struct {
	version uint64
	name    string
}

// BoundsCache memoizes bounds per collection version. Bounds follow the
// whole candidate pool and only change when the collection does.
type BoundsCache struct {
	mu      sync.Mutex
	version uint64
	bounds  map[boundsKey]NumberRange[float64]
}

func NewBoundsCache() *BoundsCache {
	return &BoundsCache{
		bounds: make(map[boundsKey]NumberRange[float64]),
	}
}

// Get returns the bounds of the nodes, which must be the collection at the
// given version. Results for versions older than the cached one are computed
// but not stored.
func (c *BoundsCache) Get(version uint64, name string, nodes []*types.Node) NumberRange[float64] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version < c.version {
		return GetBounds(name, nodes)
	}
	if version > c.version {
		clear(c.bounds)
		c.version = version
	}
	key := boundsKey{version: version, name: name}
	if r, ok := c.bounds[key]; ok {
		return r
	}
	r := GetBounds(name, nodes)
	c.bounds[key] = r
	return r
}
