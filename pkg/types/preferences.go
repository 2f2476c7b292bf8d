package types

import (
	"maps"
	"slices"
	"strconv"
)

const (
	ViewModeStandard = "standard"
	ViewModeCompact  = "compact"
)

// Preferences is the per-user node screen settings bag in the format the
// backend's user settings resource stores it.
type Preferences struct {
	Sort           []map[string]SortOrder `json:"sort"`
	SortByLabels   []map[string]SortOrder `json:"sort_by_labels"`
	Filter         map[string][]any       `json:"filter"`
	FilterByLabels map[string][]any       `json:"filter_by_labels"`
	Search         string                 `json:"search"`
	ViewMode       string                 `json:"view_mode"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Sort:           []map[string]SortOrder{{"roles": Asc}},
		SortByLabels:   []map[string]SortOrder{},
		Filter:         map[string][]any{},
		FilterByLabels: map[string][]any{},
		ViewMode:       ViewModeStandard,
	}
}

// Sorters returns the built-in sorters followed by the label sorters.
func (p Preferences) Sorters() SorterSet {
	ret := SorterSet{}
	add := func(entries []map[string]SortOrder, isLabel bool) {
		for _, entry := range entries {
			for _, name := range slices.Sorted(maps.Keys(entry)) {
				ret = ret.With(Sorter{Name: name, Order: entry[name], IsLabel: isLabel})
			}
		}
	}
	add(p.Sort, false)
	add(p.SortByLabels, true)
	return ret
}

func (p Preferences) Filters() FilterSet {
	ret := FilterSet{}
	for _, name := range slices.Sorted(maps.Keys(p.Filter)) {
		f := Filter{Name: name}
		values := p.Filter[name]
		if f.IsNumberRange() {
			f.Values = []string{"", ""}
			for i := 0; i < len(values) && i < 2; i++ {
				f.Values[i] = tokenFromAny(values[i])
			}
		} else {
			f.Values = make([]string, 0, len(values))
			for _, v := range values {
				if v == nil {
					continue
				}
				f.Values = append(f.Values, tokenFromAny(v))
			}
		}
		ret = append(ret, f)
	}
	for _, name := range slices.Sorted(maps.Keys(p.FilterByLabels)) {
		f := Filter{Name: name, IsLabel: true, Values: []string{}}
		for _, v := range p.FilterByLabels[name] {
			f.Values = append(f.Values, labelTokenFromAny(v))
		}
		ret = append(ret, f)
	}
	return ret
}

// NewPreferences builds the settings bag from engine state.
func NewPreferences(filters FilterSet, sorters SorterSet, search string, viewMode string) Preferences {
	p := Preferences{
		Sort:           []map[string]SortOrder{},
		SortByLabels:   []map[string]SortOrder{},
		Filter:         map[string][]any{},
		FilterByLabels: map[string][]any{},
		Search:         search,
		ViewMode:       viewMode,
	}
	if p.ViewMode == "" {
		p.ViewMode = ViewModeStandard
	}
	for _, s := range sorters {
		entry := map[string]SortOrder{s.Name: s.Order}
		if s.IsLabel {
			p.SortByLabels = append(p.SortByLabels, entry)
		} else {
			p.Sort = append(p.Sort, entry)
		}
	}
	for _, f := range filters {
		values := make([]any, 0, len(f.Values))
		switch {
		case f.IsLabel:
			for _, v := range f.Values {
				values = append(values, labelTokenToAny(v))
			}
			p.FilterByLabels[f.Name] = values
		case f.IsNumberRange():
			r := f.Range()
			values = append(values, floatOrNil(r.Min), floatOrNil(r.Max))
			p.Filter[f.Name] = values
		default:
			for _, v := range f.Values {
				values = append(values, categoricalToAny(f.Name, v))
			}
			p.Filter[f.Name] = values
		}
	}
	return p
}

func tokenFromAny(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	}
	return ""
}

func labelTokenFromAny(v any) string {
	switch typed := v.(type) {
	case nil:
		return LabelNotSpecified
	case bool:
		if !typed {
			return LabelNotAssigned
		}
		return "true"
	}
	return tokenFromAny(v)
}

func labelTokenToAny(token string) any {
	switch token {
	case LabelNotAssigned:
		return false
	case LabelNotSpecified:
		return nil
	}
	return token
}

func categoricalToAny(name, value string) any {
	if name == "group_id" || name == "cluster" {
		if id, err := strconv.Atoi(value); err == nil {
			return float64(id)
		}
	}
	return value
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
