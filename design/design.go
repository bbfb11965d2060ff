// Package design composes benchmarking experiments: leaf designs hold the
// depth-indexed circuits of one (processor, subset, sampler) combination,
// simultaneous designs merge qubit-disjoint children layer-wise, and combined
// designs bundle independently keyed children behind one deduplicated circuit
// pool. Designs are built bottom-up and frozen once composed.
package design

import (
	"github.com/orqa-labs/characterization-framework/circuit"
)

// SampledCircuit is one circuit with its target outcome and the auxiliary
// data recorded at sampling time.
type SampledCircuit struct {
	Circuit *circuit.Circuit
	// Target is the expected measurement bitstring over the circuit's lines.
	Target string
	Aux    map[string]string
}

// Design is a node of the experiment composition tree: a *Leaf, a
// *Simultaneous or a *Combined.
type Design interface {
	// QubitSubset returns the union of qubit labels the design acts on.
	QubitSubset() circuit.Subset
	// Circuits returns the design's ordered, flattened circuit list.
	// For a combined design the list concatenates children in key order and
	// may repeat circuit content; use BuildPool for the deduplicated set.
	Circuits() []SampledCircuit
	// NumCircuits returns len(Circuits()) without materializing the list.
	NumCircuits() int
}

// ProtocolMetadata names the analysis protocol that should run on a leaf's
// data once outcomes are available, with the generation-time parameters the
// protocol needs, so analysis never re-derives them.
type ProtocolMetadata struct {
	Name   string
	Params map[string]string
}

// BuildPool collects every circuit reachable from the design into a sealed,
// deduplicated pool.
func BuildPool(d Design) CircuitSet {
	pool := NewPool()
	for _, sc := range d.Circuits() {
		pool.Add(sc.Circuit)
	}

	return pool.Seal()
}
