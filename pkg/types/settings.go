package types

import (
	"slices"
	"strings"
)

// EngineConfig carries the cluster level context the filter, sort and group
// engine needs. It is passed explicitly to every entry point.
type EngineConfig struct {
	// RoleOrder is the cluster's role order, used when sorting by roles.
	RoleOrder []string `json:"roleOrder"`
	// StatusPriority is the fixed sort order of node statuses.
	StatusPriority []string `json:"statusPriority"`
	// StatusVocabulary lists the statuses offered as filter options even
	// when no node currently has them.
	StatusVocabulary []string `json:"statusVocabulary"`
}

func DefaultEngineConfig() EngineConfig {
	statuses := []string{
		StatusReady,
		StatusPendingAddition,
		StatusPendingDeletion,
		StatusProvisioned,
		StatusProvisioning,
		StatusDeploying,
		StatusRemoving,
		StatusStopped,
		StatusDiscover,
		StatusError,
		StatusOffline,
	}
	return EngineConfig{
		RoleOrder:        []string{"controller", "compute", "cinder", "ceph-osd", "mongo", "base-os", "virt"},
		StatusPriority:   statuses,
		StatusVocabulary: slices.Clone(statuses),
	}
}

func (c EngineConfig) RoleIndex(role string) int {
	return slices.Index(c.RoleOrder, role)
}

// StatusIndex is the position in the priority list, unknown statuses sort
// after every known one.
func (c EngineConfig) StatusIndex(status string) int {
	idx := slices.Index(c.StatusPriority, status)
	if idx == -1 {
		return len(c.StatusPriority)
	}
	return idx
}

// ParseList splits a comma separated config value, dropping empty parts.
func ParseList(value string) []string {
	ret := []string{}
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ret = append(ret, part)
		}
	}
	return ret
}
