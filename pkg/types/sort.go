package types

import (
	"slices"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func (o SortOrder) Reversed() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

type Sorter struct {
	Name    string    `json:"name"`
	Order   SortOrder `json:"order"`
	IsLabel bool      `json:"isLabel,omitempty"`
}

func (s Sorter) Key() AttributeKey {
	return AttributeKey{Name: s.Name, IsLabel: s.IsLabel}
}

func (s Sorter) IsUnique() bool {
	return !s.IsLabel && IsUniqueAttribute(s.Name)
}

// Apply orients a natural comparison result by the sort direction.
func (s Sorter) Apply(result int) int {
	if s.Order == Desc {
		return -result
	}
	return result
}

type SorterSet []Sorter

func (s SorterSet) Find(key AttributeKey) (Sorter, bool) {
	idx := s.Index(key)
	if idx == -1 {
		return Sorter{}, false
	}
	return s[idx], true
}

func (s SorterSet) Index(key AttributeKey) int {
	return slices.IndexFunc(s, func(o Sorter) bool { return o.Key() == key })
}

// With appends the sorter, or replaces the direction of an existing sorter
// with the same key in place.
func (s SorterSet) With(sorter Sorter) SorterSet {
	if sorter.Order == "" {
		sorter.Order = Asc
	}
	ret := slices.Clone(s)
	if idx := ret.Index(sorter.Key()); idx != -1 {
		ret[idx] = sorter
		return ret
	}
	return append(ret, sorter)
}

func (s SorterSet) Without(key AttributeKey) SorterSet {
	ret := make(SorterSet, 0, len(s))
	for _, o := range s {
		if o.Key() != key {
			ret = append(ret, o)
		}
	}
	return ret
}

func (s SorterSet) Toggle(key AttributeKey) SorterSet {
	ret := slices.Clone(s)
	if idx := ret.Index(key); idx != -1 {
		ret[idx].Order = ret[idx].Order.Reversed()
	}
	return ret
}

// Move returns a copy with the keyed sorter moved to position to, clamped to
// the bounds of the set.
func (s SorterSet) Move(key AttributeKey, to int) SorterSet {
	idx := s.Index(key)
	if idx == -1 {
		return slices.Clone(s)
	}
	sorter := s[idx]
	ret := s.Without(key)
	to = max(0, min(to, len(ret)))
	return slices.Insert(ret, to, sorter)
}

// Unique returns the sorters on unique-valued attributes, in listed order.
func (s SorterSet) Unique() SorterSet {
	ret := make(SorterSet, 0, len(s))
	for _, o := range s {
		if o.IsUnique() {
			ret = append(ret, o)
		}
	}
	return ret
}

// Grouping returns the sorters that partition nodes into groups.
func (s SorterSet) Grouping() SorterSet {
	ret := make(SorterSet, 0, len(s))
	for _, o := range s {
		if !o.IsUnique() {
			ret = append(ret, o)
		}
	}
	return ret
}
