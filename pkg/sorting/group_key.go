package sorting

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matst80/node-finder/pkg/facet"
	"github.com/matst80/node-finder/pkg/types"
)

var resourceTitles = map[string]string{
	"cores":        "CPU (real)",
	"ht_cores":     "CPU (total)",
	"ram":          "RAM",
	"hdd":          "HDD",
	"disks_amount": "Disks amount",
	"interfaces":   "Interfaces",
}

// GroupKey is the human readable value of one sorter for a node, used as a
// part of the group heading.
func GroupKey(n *types.Node, sorter types.Sorter, cfg types.EngineConfig) string {
	if sorter.IsLabel {
		return sorter.Name + ": " + n.Label(sorter.Name).Text()
	}
	switch sorter.Name {
	case "roles":
		roles := sortedRoles(n, cfg)
		if len(roles) == 0 {
			return "No roles"
		}
		return "Roles: " + strings.Join(roles, ", ")
	case "status":
		return "Status: " + facet.StatusText(n.StatusSummary())
	case "name", "mac", "ip":
		v, _ := n.Attribute(sorter.Name)
		return strings.ToUpper(sorter.Name[:1]) + sorter.Name[1:] + ": " + v
	case "manufacturer":
		if n.Manufacturer == "" {
			return "Manufacturer: Not specified"
		}
		return "Manufacturer: " + n.Manufacturer
	case "group_id":
		if v, ok := n.Attribute("group_id"); ok {
			return facet.AttributeValueText("group_id", v)
		}
		return "No node group"
	case "cluster":
		if v, ok := n.Attribute("cluster"); ok {
			return facet.AttributeValueText("cluster", v)
		}
		return "No environment"
	case "disks":
		text := diskSizesText(n)
		if text == "" {
			return "Disks: none"
		}
		return "Disks: " + text
	}
	title, ok := resourceTitles[sorter.Name]
	if !ok {
		title = sorter.Name
	}
	value := strconv.FormatFloat(facet.ResourceValue(n, sorter.Name), 'f', -1, 64)
	if types.IsByteResource(sorter.Name) {
		return fmt.Sprintf("%s: %s GB", title, value)
	}
	return title + ": " + value
}

// GroupLabel joins the group keys of the grouping sorters.
func GroupLabel(n *types.Node, sorters types.SorterSet, cfg types.EngineConfig) string {
	parts := make([]string, 0, len(sorters))
	for _, s := range sorters {
		parts = append(parts, GroupKey(n, s, cfg))
	}
	return strings.Join(parts, types.GroupLabelDelimiter)
}

// partitionKey identifies the group value of one sorter for a node. Unlike
// GroupKey it keeps missing values apart from concrete values that happen to
// read the same.
func partitionKey(n *types.Node, sorter types.Sorter, cfg types.EngineConfig) string {
	if sorter.IsLabel {
		l := n.Label(sorter.Name)
		return strconv.Itoa(int(l.State)) + strconv.Quote(l.Value)
	}
	switch sorter.Name {
	case "manufacturer", "group_id", "cluster":
		if v, ok := n.Attribute(sorter.Name); ok && v != "" {
			return "1" + strconv.Quote(v)
		}
		return "0"
	}
	return strconv.Quote(GroupKey(n, sorter, cfg))
}

// PartitionKey is the key nodes are grouped by, one part per grouping sorter.
func PartitionKey(n *types.Node, sorters types.SorterSet, cfg types.EngineConfig) string {
	parts := make([]string, 0, len(sorters))
	for _, s := range sorters {
		parts = append(parts, partitionKey(n, s, cfg))
	}
	return strings.Join(parts, "|")
}

func diskSizesText(n *types.Node) string {
	sizes := n.DiskSizes()
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = formatSize(s)
	}
	return strings.Join(parts, ", ")
}

func formatSize(bytes int64) string {
	gb := float64(bytes) / types.GiB
	if gb >= 1024 {
		return strconv.FormatFloat(math.Round(gb/1024*10)/10, 'f', -1, 64) + " TB"
	}
	return strconv.FormatFloat(math.Round(gb*10)/10, 'f', -1, 64) + " GB"
}
