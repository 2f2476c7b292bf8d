package facet

import (
	"slices"
	"strings"

	"github.com/matst80/node-finder/pkg/types"
)

// Option is an entry in a filter value picker.
type Option struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// AvailableOptions lists the values a categorical or label filter can take,
// ordered by label. Number range attributes have no discrete options, use
// GetBounds for them.
func AvailableOptions(name string, isLabel bool, nodes []*types.Node, cfg types.EngineConfig) []Option {
	if (types.Filter{Name: name, IsLabel: isLabel}).IsNumberRange() {
		return nil
	}
	seen := map[string]Option{}
	add := func(value, label string) {
		if _, ok := seen[value]; !ok {
			seen[value] = Option{Name: value, Label: label}
		}
	}
	switch {
	case isLabel:
		for _, n := range nodes {
			v := n.Label(name)
			add(v.Token(), v.Text())
		}
	case name == "status":
		for _, s := range cfg.StatusVocabulary {
			add(s, StatusText(s))
		}
	case name == "roles":
		for _, n := range nodes {
			for _, r := range n.AllRoles() {
				add(r, r)
			}
		}
	default:
		for _, n := range nodes {
			if v, ok := n.Attribute(name); ok {
				add(v, AttributeValueText(name, v))
			}
		}
	}
	ret := make([]Option, 0, len(seen))
	for _, o := range seen {
		ret = append(ret, o)
	}
	slices.SortFunc(ret, func(a, b Option) int {
		if c := types.NaturalCompare(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return ret
}

// LabelKeys returns every label key carried by any node, naturally ordered.
func LabelKeys(nodes []*types.Node) []string {
	keys := []string{}
	for _, n := range nodes {
		for k := range n.Labels {
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	slices.SortFunc(keys, types.NaturalCompare)
	return keys
}

func StatusText(status string) string {
	if status == "" {
		return ""
	}
	text := strings.ReplaceAll(status, "_", " ")
	return strings.ToUpper(text[:1]) + text[1:]
}

func AttributeValueText(name, value string) string {
	switch name {
	case "group_id":
		return "Node group " + value
	case "cluster":
		return "Environment " + value
	case "status":
		return StatusText(value)
	}
	return value
}
