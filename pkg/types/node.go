package types

import (
	"slices"
	"strconv"
)

type NodeId uint32

const GiB = 1 << 30

type CpuInfo struct {
	Real  int `json:"real"`
	Total int `json:"total"`
}

type MemoryDevice struct {
	Size int64 `json:"size"`
}

type MemoryInfo struct {
	Total   int64          `json:"total"`
	Devices []MemoryDevice `json:"devices,omitempty"`
}

type Disk struct {
	Name string `json:"name,omitempty"`
	Size int64  `json:"size"`
}

type Interface struct {
	Name string `json:"name,omitempty"`
	Mac  string `json:"mac,omitempty"`
}

type NodeMeta struct {
	Cpu        CpuInfo     `json:"cpu"`
	Memory     MemoryInfo  `json:"memory"`
	Disks      []Disk      `json:"disks,omitempty"`
	Interfaces []Interface `json:"interfaces,omitempty"`
}

// Node is the inventory record as served by the backend. The engine only
// reads it.
type Node struct {
	Id              NodeId             `json:"id"`
	Name            string             `json:"name"`
	Mac             string             `json:"mac"`
	Ip              string             `json:"ip"`
	Manufacturer    string             `json:"manufacturer"`
	Status          string             `json:"status"`
	Online          *bool              `json:"online,omitempty"`
	PendingAddition bool               `json:"pending_addition,omitempty"`
	PendingDeletion bool               `json:"pending_deletion,omitempty"`
	Roles           []string           `json:"roles,omitempty"`
	PendingRoles    []string           `json:"pending_roles,omitempty"`
	Labels          map[string]*string `json:"labels,omitempty"`
	GroupId         *int               `json:"group_id,omitempty"`
	Cluster         *int               `json:"cluster,omitempty"`
	Meta            NodeMeta           `json:"meta"`
}

const (
	StatusReady           = "ready"
	StatusDiscover        = "discover"
	StatusProvisioning    = "provisioning"
	StatusProvisioned     = "provisioned"
	StatusDeploying       = "deploying"
	StatusStopped         = "stopped"
	StatusRemoving        = "removing"
	StatusError           = "error"
	StatusOffline         = "offline"
	StatusPendingAddition = "pending_addition"
	StatusPendingDeletion = "pending_deletion"
)

// IsOnline reports the backend online flag. Records without the flag count as
// online.
func (n *Node) IsOnline() bool {
	return n.Online == nil || *n.Online
}

// StatusSummary is the status shown and filtered on, folding the online and
// pending flags into the raw status.
func (n *Node) StatusSummary() string {
	switch {
	case !n.IsOnline():
		return StatusOffline
	case n.Status == StatusError:
		return StatusError
	case n.PendingAddition:
		return StatusPendingAddition
	case n.PendingDeletion:
		return StatusPendingDeletion
	}
	return n.Status
}

func (n *Node) AllRoles() []string {
	ret := make([]string, 0, len(n.Roles)+len(n.PendingRoles))
	for _, r := range n.Roles {
		if !slices.Contains(ret, r) {
			ret = append(ret, r)
		}
	}
	for _, r := range n.PendingRoles {
		if !slices.Contains(ret, r) {
			ret = append(ret, r)
		}
	}
	return ret
}

func (n *Node) HasRole(role string) bool {
	return slices.Contains(n.Roles, role) || slices.Contains(n.PendingRoles, role)
}

// Resource returns a numeric metric by name. Byte valued resources (ram,
// hdd) are returned in bytes. Unknown names yield 0.
func (n *Node) Resource(name string) float64 {
	switch name {
	case "cores":
		return float64(n.Meta.Cpu.Real)
	case "ht_cores":
		return float64(n.Meta.Cpu.Total)
	case "ram":
		if n.Meta.Memory.Total > 0 {
			return float64(n.Meta.Memory.Total)
		}
		var total int64
		for _, d := range n.Meta.Memory.Devices {
			total += d.Size
		}
		return float64(total)
	case "hdd":
		var total int64
		for _, d := range n.Meta.Disks {
			total += d.Size
		}
		return float64(total)
	case "disks", "disks_amount":
		return float64(len(n.Meta.Disks))
	case "interfaces":
		return float64(len(n.Meta.Interfaces))
	}
	return 0
}

// DiskSizes returns the disk sizes in bytes, sorted ascending.
func (n *Node) DiskSizes() []int64 {
	sizes := make([]int64, len(n.Meta.Disks))
	for i, d := range n.Meta.Disks {
		sizes[i] = d.Size
	}
	slices.Sort(sizes)
	return sizes
}

func (n *Node) Label(key string) LabelValue {
	v, ok := n.Labels[key]
	if !ok {
		return LabelValue{State: LabelStateNotAssigned}
	}
	if v == nil {
		return LabelValue{State: LabelStateNotSpecified}
	}
	return LabelValue{State: LabelStateValue, Value: *v}
}

// Attribute returns the textual value of a built-in attribute, ok is false
// when the node does not carry it.
func (n *Node) Attribute(name string) (string, bool) {
	switch name {
	case "name":
		return n.Name, true
	case "mac":
		return n.Mac, true
	case "ip":
		return n.Ip, true
	case "manufacturer":
		return n.Manufacturer, n.Manufacturer != ""
	case "status":
		return n.StatusSummary(), true
	case "group_id":
		return optionalId(n.GroupId)
	case "cluster":
		return optionalId(n.Cluster)
	}
	return "", false
}

func optionalId(v *int) (string, bool) {
	if v == nil {
		return "", false
	}
	return strconv.Itoa(*v), true
}

type LabelState uint8

const (
	LabelStateNotAssigned LabelState = iota
	LabelStateNotSpecified
	LabelStateValue
)

// Filter tokens for the two non-string label states.
const (
	LabelNotAssigned  = "$not_assigned"
	LabelNotSpecified = "$not_specified"
)

type LabelValue struct {
	State LabelState
	Value string
}

// Token is the filter token the value is matched by.
func (l LabelValue) Token() string {
	switch l.State {
	case LabelStateNotAssigned:
		return LabelNotAssigned
	case LabelStateNotSpecified:
		return LabelNotSpecified
	}
	return l.Value
}

func (l LabelValue) Text() string {
	switch l.State {
	case LabelStateNotAssigned:
		return "Not assigned"
	case LabelStateNotSpecified:
		return "Not specified"
	}
	return l.Value
}

func LabelValueFromToken(token string) LabelValue {
	switch token {
	case LabelNotAssigned:
		return LabelValue{State: LabelStateNotAssigned}
	case LabelNotSpecified:
		return LabelValue{State: LabelStateNotSpecified}
	}
	return LabelValue{State: LabelStateValue, Value: token}
}
