package types

// NodeHandler receives node collection changes.
type NodeHandler interface {
	HandleNodes(nodes []Node)
	DeleteNodes(ids []NodeId)
}
