package parser

import (
	"sort"
	"strconv"
)

// NodeIndex maps node names from the edge files onto dense indices.
// Index order is the fixed node ordering used for canonicalization and
// for enumerating node pairs.
type NodeIndex struct {
	OriginalToNormalized map[string]int
	NormalizedToOriginal []string
}

// NewNodeIndex builds an index over the given node names. Duplicates are ignored.
func NewNodeIndex(names []string) *NodeIndex {
	seen := make(map[string]bool, len(names))
	nodes := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			nodes = append(nodes, name)
		}
	}

	// Sort numerically if all nodes are integers, lexicographically otherwise
	if allNodesAreIntegers(nodes) {
		sort.Slice(nodes, func(i, j int) bool {
			a, _ := strconv.ParseInt(nodes[i], 10, 64)
			b, _ := strconv.ParseInt(nodes[j], 10, 64)
			if a != b {
				return a < b
			}
			return nodes[i] < nodes[j] // "7" and "007"
		})
	} else {
		sort.Strings(nodes)
	}

	idx := &NodeIndex{
		OriginalToNormalized: make(map[string]int, len(nodes)),
		NormalizedToOriginal: nodes,
	}
	for i, node := range nodes {
		idx.OriginalToNormalized[node] = i
	}
	return idx
}

// Len returns the number of nodes
func (idx *NodeIndex) Len() int {
	return len(idx.NormalizedToOriginal)
}

// GetNormalizedID returns the dense index of a node name
func (idx *NodeIndex) GetNormalizedID(name string) (int, bool) {
	id, ok := idx.OriginalToNormalized[name]
	return id, ok
}

// GetOriginalID returns the node name of a dense index
func (idx *NodeIndex) GetOriginalID(id int) (string, bool) {
	if id < 0 || id >= len(idx.NormalizedToOriginal) {
		return "", false
	}
	return idx.NormalizedToOriginal[id], true
}

func allNodesAreIntegers(nodes []string) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, node := range nodes {
		if _, err := strconv.ParseInt(node, 10, 64); err != nil {
			return false
		}
	}
	return true
}
