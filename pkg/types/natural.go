package types

import (
	"strings"

	"github.com/maruel/natural"
)

// NaturalCompare orders strings the way humans expect ("node2" before
// "node10"), ignoring case.
func NaturalCompare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 0
	}
	if natural.Less(a, b) {
		return -1
	}
	if natural.Less(b, a) {
		return 1
	}
	return strings.Compare(a, b)
}
