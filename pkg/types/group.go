package types

const GroupLabelDelimiter = "; "

// NodeGroup is a run of nodes sharing the same value for every grouping
// sorter. It only lives for one derivation.
type NodeGroup struct {
	Label string  `json:"label"`
	Nodes []*Node `json:"nodes"`
}
