// Package sampler generates benchmarking circuits: pure functions of a
// processor spec, a depth, a qubit subset, sampler parameters and a seed.
// Identical inputs always produce bit-identical circuits and targets.
package sampler

import (
	"math/rand/v2"
	"strings"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/clifford"
	"github.com/orqa-labs/characterization-framework/processor"
)

// Kind names a circuit sampling algorithm.
type Kind string

const (
	// KindMirror is direct/edge-based sampling of self-inverting circuits:
	// random layers followed by their inverses in reverse order.
	KindMirror Kind = "mirror"
	// KindCliffordRB samples depth+2 uniformly random Clifford elements
	// whose product is the identity (or a randomized Pauli), each compiled
	// to native gates.
	KindCliffordRB Kind = "clifford"
)

// Params carries the per-kind sampling parameters. Unused fields are ignored
// by kinds that do not read them.
type Params struct {
	// TwoQubitGateDensity is the mirror sampler's target mean two-qubit gate
	// density ξ: the expected number of two-qubit gates per sampled layer is
	// ξ·n/2 for an n-qubit subset.
	TwoQubitGateDensity float64

	// RandomizeOutput makes the Clifford RB product a uniformly random Pauli
	// rather than the identity, randomizing the target bitstring.
	RandomizeOutput bool
	// CompileAlgorithm, CompileIterations and CompileCost configure the
	// Clifford compiler; zero values select ROGGE, 1, and total gate count.
	CompileAlgorithm  clifford.Algorithm
	CompileIterations int
	CompileCost       clifford.CostKey
}

// Result is one sampled circuit with its target outcome and auxiliary
// generation-time data.
type Result struct {
	Circuit *circuit.Circuit
	// Target is the expected measurement bitstring, ordered like the
	// circuit's lines.
	Target string
	Aux    map[string]string
}

// Sample draws one circuit. It is a pure function of its inputs: no ambient
// randomness is read, so concurrent calls are safe and repeatable.
func Sample(
	spec *processor.Spec, depth int, subset []circuit.Label, kind Kind, params Params, seed uint64,
) (*Result, error) {
	if depth < 0 {
		return nil, newSamplingErrf(subset, depth, "depth must be non-negative")
	}
	if len(subset) == 0 {
		return nil, newSamplingErrf(subset, depth, "empty qubit subset")
	}
	sub := circuit.NewSubset(subset...)
	if sub.Length() != len(subset) {
		return nil, newSamplingErrf(subset, depth, "duplicate qubit in subset")
	}
	if !spec.QubitSubset().ContainsAll(sub) {
		return nil, newSamplingErrf(subset, depth, "subset not contained in processor qubits %s", spec.QubitSubset())
	}

	rng := rand.New(rand.NewPCG(seed, seedStream))

	switch kind {
	case KindMirror:
		return sampleMirror(spec, depth, subset, params, rng)
	case KindCliffordRB:
		return sampleCliffordRB(spec, depth, subset, params, rng)
	default:
		return nil, newSamplingErrf(subset, depth, "unknown sampler kind %q", kind)
	}
}

// seedStream is the fixed second PCG seed word; the caller-provided seed is
// the first. Changing it changes every sampled circuit.
const seedStream = 0xda3e39cb94b95bdb

// zeroTarget is the all-zeros bitstring over n qubits.
func zeroTarget(n int) string {
	return strings.Repeat("0", n)
}
