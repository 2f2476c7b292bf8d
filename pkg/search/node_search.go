package search

import (
	"strings"

	"github.com/matst80/node-finder/pkg/types"
)

// MatchesSearch does a case-insensitive substring match of the text against
// the node name, MAC and IP address. Empty text matches every node.
func MatchesSearch(node *types.Node, text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	for _, field := range []string{node.Name, node.Mac, node.Ip} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}
