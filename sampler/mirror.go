package sampler

import (
	"math/rand/v2"
	"strconv"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/processor"
)

// sampleMirror builds depth random layers with the edgegrab procedure and
// appends their inverses in reverse order, so the circuit composes to the
// identity by construction and its target is the all-zeros bitstring.
func sampleMirror(
	spec *processor.Spec, depth int, subset []circuit.Label, params Params, rng *rand.Rand,
) (*Result, error) {
	if params.TwoQubitGateDensity < 0 || params.TwoQubitGateDensity > 1 {
		return nil, newSamplingErrf(subset, depth, "two-qubit gate density %v outside [0,1]", params.TwoQubitGateDensity)
	}

	sub := circuit.NewSubset(subset...)
	edges := spec.EdgesWithin(sub)
	meanTwoQ := params.TwoQubitGateDensity * float64(len(subset)) / 2

	if meanTwoQ > 0 && len(edges) == 0 {
		return nil, newSamplingErrf(subset, depth, "two-qubit gate density %v requested but no multi-qubit gate connects the subset", params.TwoQubitGateDensity)
	}

	oneQ := make(map[circuit.Label][]string)
	for _, q := range subset {
		for _, name := range spec.OneQubitGates() {
			if spec.CanApply(name, q) {
				oneQ[q] = append(oneQ[q], name)
			}
		}
	}

	forward := make([]circuit.Layer, depth)
	twoQTotal := 0
	for i := range depth {
		layer, count := edgegrabLayer(subset, edges, oneQ, meanTwoQ, rng)
		forward[i] = layer
		twoQTotal += count
	}

	layers := make([]circuit.Layer, 0, 2*depth)
	layers = append(layers, forward...)
	for i := depth - 1; i >= 0; i-- {
		inv, err := invertLayer(spec, forward[i])
		if err != nil {
			return nil, newSamplingErrf(subset, depth, "%v", err)
		}
		layers = append(layers, inv)
	}

	c, err := circuit.New(subset, layers)
	if err != nil {
		return nil, newSamplingErrf(subset, depth, "%v", err)
	}

	return &Result{
		Circuit: c,
		Target:  zeroTarget(len(subset)),
		Aux: map[string]string{
			"sampler":       string(KindMirror),
			"twoQubitGates": strconv.Itoa(2 * twoQTotal),
		},
	}, nil
}

// edgegrabLayer selects a random maximal matching of the availability edges,
// prunes it so the expected kept-edge count equals meanTwoQ, and fills the
// remaining qubits with random single-qubit gates. The expected two-qubit
// gate count per layer converges to meanTwoQ as samples grow, provided the
// matching is large enough to support it.
func edgegrabLayer(
	subset []circuit.Label,
	edges []processor.Edge,
	oneQ map[circuit.Label][]string,
	meanTwoQ float64,
	rng *rand.Rand,
) (circuit.Layer, int) {
	order := rng.Perm(len(edges))
	used := circuit.NewSubset()
	var matching []processor.Edge
	for _, i := range order {
		e := edges[i]
		free := true
		for _, q := range e.Qubits {
			if used.Contains(q) {
				free = false

				break
			}
		}
		if free {
			matching = append(matching, e)
			used.Add(e.Qubits...)
		}
	}

	keepProb := 1.0
	if len(matching) > 0 && meanTwoQ < float64(len(matching)) {
		keepProb = meanTwoQ / float64(len(matching))
	}
	if meanTwoQ == 0 {
		keepProb = 0
	}

	var layer circuit.Layer
	occupied := circuit.NewSubset()
	for _, e := range matching {
		if rng.Float64() < keepProb {
			layer = append(layer, circuit.NewGate(e.Gate, e.Qubits...))
			occupied.Add(e.Qubits...)
		}
	}
	twoQCount := len(layer)

	for _, q := range subset {
		if occupied.Contains(q) {
			continue
		}
		gates := oneQ[q]
		if len(gates) == 0 {
			continue // no single-qubit gate declared; leave the qubit idle
		}
		layer = append(layer, circuit.NewGate(gates[rng.IntN(len(gates))], q))
	}

	return layer, twoQCount
}

// invertLayer maps every gate in the layer to its inverse gate on the same
// qubits. Gates within a layer act on disjoint qubits, so the inverted layer
// as a whole inverts the original.
func invertLayer(spec *processor.Spec, layer circuit.Layer) (circuit.Layer, error) {
	inv := make(circuit.Layer, len(layer))
	for i, g := range layer {
		name, ok := spec.Inverse(g.Name)
		if !ok {
			return nil, &inverseError{gate: g.Name}
		}
		inv[i] = circuit.NewGate(name, g.Qubits...)
	}

	return inv, nil
}

type inverseError struct {
	gate string
}

func (e *inverseError) Error() string {
	return "gate " + e.gate + " has no declared inverse in the processor spec"
}
