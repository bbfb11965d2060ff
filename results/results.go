package results

import (
	"strings"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/dataset"
)

// NodeKind tags the variant of a results tree node.
type NodeKind int

const (
	// KindLeaf holds per-depth outcome data and protocol fits.
	KindLeaf NodeKind = iota
	// KindSimultaneous holds children keyed by qubit subset.
	KindSimultaneous
	// KindCombined holds children keyed by string.
	KindCombined
)

// Node is one node of a results tree. The tree mirrors the design
// composition tree exactly: string keys at combined levels, qubit-subset
// keys at simultaneous levels, leaf data at the bottom. Nodes are read-only
// after reconstruction.
type Node struct {
	kind NodeKind

	stringOrder    []string
	stringChildren map[string]*Node

	subsetKeys     []circuit.Subset
	subsetChildren []*Node

	leaf *LeafResults
}

// Kind returns the node's variant.
func (n *Node) Kind() NodeKind { return n.kind }

// Keys returns the string keys of a combined node, in composition order.
func (n *Node) Keys() []string {
	return append([]string(nil), n.stringOrder...)
}

// Child returns the child under a combined node's string key.
func (n *Node) Child(key string) (*Node, bool) {
	c, ok := n.stringChildren[key]

	return c, ok
}

// SubsetKeys returns the qubit-subset keys of a simultaneous node, in
// composition order.
func (n *Node) SubsetKeys() []circuit.Subset {
	return append([]circuit.Subset(nil), n.subsetKeys...)
}

// ChildBySubset returns the child under a simultaneous node's subset key.
func (n *Node) ChildBySubset(key circuit.Subset) (*Node, bool) {
	for i, k := range n.subsetKeys {
		if k.Equal(key) {
			return n.subsetChildren[i], true
		}
	}

	return nil, false
}

// Leaf returns the leaf payload, or nil for interior nodes.
func (n *Node) Leaf() *LeafResults { return n.leaf }

// LeafResults holds one leaf's reconstructed data: raw per-circuit counts
// grouped by depth, derived success probabilities, and the protocol fits
// named by the leaf's recorded metadata.
type LeafResults struct {
	Lines    []circuit.Label
	Protocol string
	PerDepth []DepthResults
	Fits     map[string]FitResult
}

// DepthResults aggregates the circuits sampled at one depth.
type DepthResults struct {
	Depth    int
	Circuits []CircuitResult
	// SuccessProbability is the mean over the depth's circuits.
	SuccessProbability float64
	// Polarization rescales the success probability to [0,1] relative to
	// the depolarized baseline 1/2^n.
	Polarization float64
}

// CircuitResult is the raw and derived data of one circuit.
type CircuitResult struct {
	ID     circuit.ID
	Target string
	Counts dataset.OutcomeCounts
	// SuccessProbability is the fraction of shots matching the target.
	SuccessProbability float64
}

// SuccessSeries returns the per-depth (depth, mean success probability)
// series, the input to decay plotting.
func (l *LeafResults) SuccessSeries() ([]int, []float64) {
	depths := make([]int, len(l.PerDepth))
	probs := make([]float64, len(l.PerDepth))
	for i, dr := range l.PerDepth {
		depths[i] = dr.Depth
		probs[i] = dr.SuccessProbability
	}

	return depths, probs
}

// KeyPath locates a node in the composition tree for diagnostics: string
// keys for combined levels, subset tuples for simultaneous levels.
type KeyPath []string

// String renders the path as "1Q-SRB/(Q0)". An empty path is the root.
//
// Implements the fmt.Stringer interface.
func (p KeyPath) String() string {
	if len(p) == 0 {
		return "(root)"
	}

	return strings.Join(p, "/")
}

// child returns the path extended by one key.
func (p KeyPath) child(key string) KeyPath {
	out := make(KeyPath, 0, len(p)+1)
	out = append(out, p...)

	return append(out, key)
}
