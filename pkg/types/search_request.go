package types

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

// ViewRequest is a stateless request for a filtered and grouped node view.
//
// Query format:
//
//	search=10.0
//	str=status:ready||error
//	lbl=env:prod||$not_assigned
//	rng=ram:4-16      (either side may be empty)
//	sort=status:asc   (repeatable, order is precedence)
//	lsort=env:desc
type ViewRequest struct {
	Search   string    `json:"search" schema:"search"`
	User     string    `json:"user" schema:"user"`
	Screen   string    `json:"screen" schema:"screen,default:nodes"`
	Filters  FilterSet `json:"filters" schema:"-"`
	Sorters  SorterSet `json:"sorters" schema:"-"`
	explicit bool
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// HasState reports whether the request carried its own filter, sorter or
// search state. Requests without it fall back to stored preferences.
func (v *ViewRequest) HasState() bool {
	return v.explicit
}

func (v *ViewRequest) Sanitize() {
	v.Search = strings.TrimSpace(v.Search)
	if v.Screen == "" {
		v.Screen = "nodes"
	}
	if v.Filters == nil {
		v.Filters = FilterSet{}
	}
	if v.Sorters == nil {
		v.Sorters = SorterSet{}
	}
}

func GetViewRequest(r *http.Request) (*ViewRequest, error) {
	vr := &ViewRequest{}
	var err error
	if r.Method == http.MethodGet {
		err = viewRequestFromQuery(r.URL.Query(), vr)
	} else {
		err = json.NewDecoder(r.Body).Decode(vr)
		vr.explicit = true
	}
	vr.Sanitize()
	return vr, err
}

func viewRequestFromQuery(query url.Values, result *ViewRequest) error {
	if err := decoder.Decode(result, query); err != nil {
		return err
	}
	for _, key := range []string{"search", "str", "lbl", "rng", "sort", "lsort"} {
		if query.Has(key) {
			result.explicit = true
		}
	}
	result.Filters = decodeFilters(query)
	result.Sorters = decodeSorters(query)
	return nil
}

func decodeFilters(query url.Values) FilterSet {
	ret := FilterSet{}
	parseValues := func(params []string, isLabel bool) {
		for _, v := range params {
			name, value, ok := strings.Cut(v, ":")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				continue
			}
			values := []string{}
			for part := range strings.SplitSeq(value, "||") {
				if part = strings.TrimSpace(part); part != "" {
					values = append(values, part)
				}
			}
			ret = ret.With(Filter{Name: name, Values: values, IsLabel: isLabel})
		}
	}
	parseValues(query["str"], false)
	parseValues(query["lbl"], true)

	for _, v := range query["rng"] {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		low, high, _ := strings.Cut(value, "-")
		ret = ret.With(Filter{Name: name, Values: []string{strings.TrimSpace(low), strings.TrimSpace(high)}})
	}
	return ret
}

func decodeSorters(query url.Values) SorterSet {
	ret := SorterSet{}
	parse := func(params []string, isLabel bool) {
		for _, v := range params {
			name, order, _ := strings.Cut(v, ":")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			o := Asc
			if strings.EqualFold(strings.TrimSpace(order), string(Desc)) {
				o = Desc
			}
			ret = ret.With(Sorter{Name: name, Order: o, IsLabel: isLabel})
		}
	}
	parse(query["sort"], false)
	parse(query["lsort"], true)
	return ret
}
