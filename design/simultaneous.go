package design

import (
	"github.com/orqa-labs/characterization-framework/circuit"
)

// Simultaneous merges qubit-disjoint child designs into one design whose
// circuits run the children's circuits in parallel. Children are matched by
// position in their flattened circuit lists, not by depth value; shorter
// child circuits are padded with idle layers up to the longest sibling.
type Simultaneous struct {
	children []Design
	keys     []circuit.Subset
	subset   circuit.Subset
	merged   []SampledCircuit
}

var _ Design = &Simultaneous{}

// NewSimultaneous builds the layer-wise union of the children. It fails with
// a ConfigurationError if the children's qubit subsets are not pairwise
// disjoint, if a combined design is given as a child, or if the children's
// circuit lists differ in length.
func NewSimultaneous(children []Design) (*Simultaneous, error) {
	if len(children) == 0 {
		return nil, newConfigErrf("simultaneous design needs at least one child")
	}

	keys := make([]circuit.Subset, len(children))
	union := circuit.NewSubset()
	for i, child := range children {
		if _, ok := child.(*Combined); ok {
			return nil, newConfigErrf("simultaneous child %d is a combined design; only leaf or simultaneous children are mergeable", i)
		}
		keys[i] = child.QubitSubset()
		if !union.Disjoint(keys[i]) {
			return nil, newConfigErrf("simultaneous child %s overlaps an earlier child's qubits", keys[i])
		}
		union = union.Union(keys[i])
	}

	count := children[0].NumCircuits()
	for i, child := range children[1:] {
		if child.NumCircuits() != count {
			return nil, newConfigErrf("simultaneous children have mismatched circuit counts: child %s has %d, child %s has %d",
				keys[0], count, keys[i+1], child.NumCircuits())
		}
	}

	lists := make([][]SampledCircuit, len(children))
	for i, child := range children {
		lists[i] = child.Circuits()
	}

	merged := make([]SampledCircuit, count)
	for idx := range count {
		row := make([]SampledCircuit, len(children))
		for i := range children {
			row[i] = lists[i][idx]
		}
		mc, err := mergeParallel(row)
		if err != nil {
			return nil, newConfigErrf("merging circuits at index %d: %v", idx, err)
		}
		merged[idx] = mc
	}

	return &Simultaneous{
		children: children,
		keys:     keys,
		subset:   union,
		merged:   merged,
	}, nil
}

// mergeParallel pads each child circuit with idle layers up to the longest
// sibling and unions the layers across the disjoint qubit subsets. The
// merged target is the concatenation of the children's targets, aligned with
// the concatenated line order.
func mergeParallel(row []SampledCircuit) (SampledCircuit, error) {
	var lines []circuit.Label
	maxLayers := 0
	target := ""
	for _, sc := range row {
		lines = append(lines, sc.Circuit.Lines()...)
		if n := sc.Circuit.NumLayers(); n > maxLayers {
			maxLayers = n
		}
		target += sc.Target
	}

	layers := make([]circuit.Layer, maxLayers)
	for _, sc := range row {
		for l, layer := range sc.Circuit.Layers() {
			layers[l] = append(layers[l], layer...)
		}
	}

	c, err := circuit.New(lines, layers)
	if err != nil {
		return SampledCircuit{}, err
	}

	return SampledCircuit{Circuit: c, Target: target}, nil
}

// Children returns the child designs in composition order.
func (s *Simultaneous) Children() []Design {
	return append([]Design(nil), s.children...)
}

// ChildKeys returns the children's qubit subsets in composition order; these
// are the child keys in a reconstructed results tree.
func (s *Simultaneous) ChildKeys() []circuit.Subset {
	return append([]circuit.Subset(nil), s.keys...)
}

// Child returns the child design with the given qubit subset key.
func (s *Simultaneous) Child(key circuit.Subset) (Design, bool) {
	for i, k := range s.keys {
		if k.Equal(key) {
			return s.children[i], true
		}
	}

	return nil, false
}

// QubitSubset returns the union of the children's qubit subsets.
func (s *Simultaneous) QubitSubset() circuit.Subset { return s.subset }

// Circuits returns the merged circuit list, index-aligned with every child's
// own circuit list.
func (s *Simultaneous) Circuits() []SampledCircuit {
	return append([]SampledCircuit(nil), s.merged...)
}

// NumCircuits returns the number of merged circuits.
func (s *Simultaneous) NumCircuits() int { return len(s.merged) }
