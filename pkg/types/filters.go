package types

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var ErrInvalidRange = errors.New("range minimum is greater than maximum")

// Attributes filtered by value membership rather than by number range.
var CategoricalFilters = []string{"roles", "status", "manufacturer", "group_id", "cluster"}

// Attributes that are unique per node; they order nodes but never group them.
var UniqueAttributes = []string{"name", "mac", "ip"}

// Attributes that hold byte values and are filtered and shown in GiB.
var ByteResources = []string{"ram", "hdd"}

var DefaultFilters = []string{"roles", "status", "manufacturer", "cores", "ht_cores", "hdd", "disks_amount", "ram", "interfaces", "group_id", "cluster"}
var DefaultSorters = []string{"roles", "status", "name", "mac", "ip", "manufacturer", "cores", "ht_cores", "hdd", "disks", "ram", "interfaces", "group_id", "cluster"}

func IsUniqueAttribute(name string) bool {
	return slices.Contains(UniqueAttributes, name)
}

func IsByteResource(name string) bool {
	return slices.Contains(ByteResources, name)
}

type Filter struct {
	Name    string   `json:"name"`
	Values  []string `json:"values"`
	IsLabel bool     `json:"isLabel,omitempty"`
}

func (f Filter) IsNumberRange() bool {
	return !f.IsLabel && !slices.Contains(CategoricalFilters, f.Name)
}

func (f Filter) IsActive() bool {
	if f.IsNumberRange() {
		r := f.Range()
		return r.Min != nil || r.Max != nil
	}
	return len(f.Values) > 0
}

func (f Filter) Key() AttributeKey {
	return AttributeKey{Name: f.Name, IsLabel: f.IsLabel}
}

type NumberRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func (r NumberRange) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Range parses the [min, max] pair of a number range filter. Missing or
// unparsable ends are unbounded.
func (f Filter) Range() NumberRange {
	r := NumberRange{}
	if len(f.Values) > 0 {
		r.Min = parseBound(f.Values[0])
	}
	if len(f.Values) > 1 {
		r.Max = parseBound(f.Values[1])
	}
	return r
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func FormatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func NewRangeFilter(name string, minValue, maxValue *float64) Filter {
	return Filter{Name: name, Values: []string{FormatBound(minValue), FormatBound(maxValue)}}
}

// Validate reports input the user should be warned about. The engine still
// evaluates invalid filters.
func (f Filter) Validate() error {
	if !f.IsNumberRange() {
		return nil
	}
	r := f.Range()
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("filter %s: %w", f.Name, ErrInvalidRange)
	}
	return nil
}

// AttributeKey identifies a filter or sorter. A label and a built-in
// attribute may share a name.
type AttributeKey struct {
	Name    string `json:"name"`
	IsLabel bool   `json:"isLabel,omitempty"`
}

type FilterSet []Filter

func (s FilterSet) Find(key AttributeKey) (Filter, bool) {
	idx := slices.IndexFunc(s, func(f Filter) bool { return f.Key() == key })
	if idx == -1 {
		return Filter{}, false
	}
	return s[idx], true
}

// With returns a copy with the filter added, or replacing the filter with
// the same key.
func (s FilterSet) With(filter Filter) FilterSet {
	ret := make(FilterSet, 0, len(s)+1)
	replaced := false
	for _, f := range s {
		if f.Key() == filter.Key() {
			ret = append(ret, filter.clone())
			replaced = true
			continue
		}
		ret = append(ret, f)
	}
	if !replaced {
		ret = append(ret, filter.clone())
	}
	return ret
}

func (s FilterSet) Without(key AttributeKey) FilterSet {
	ret := make(FilterSet, 0, len(s))
	for _, f := range s {
		if f.Key() != key {
			ret = append(ret, f)
		}
	}
	return ret
}

// WithValues returns a copy where the values of the keyed filter are
// replaced. Unknown keys leave the set unchanged.
func (s FilterSet) WithValues(key AttributeKey, values []string) FilterSet {
	ret := slices.Clone(s)
	for i, f := range ret {
		if f.Key() == key {
			ret[i].Values = slices.Clone(values)
		}
	}
	return ret
}

// Active returns the filters that can exclude nodes.
func (s FilterSet) Active() FilterSet {
	ret := make(FilterSet, 0, len(s))
	for _, f := range s {
		if f.IsActive() {
			ret = append(ret, f)
		}
	}
	return ret
}

func (f Filter) clone() Filter {
	f.Values = slices.Clone(f.Values)
	return f
}
