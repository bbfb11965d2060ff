// Package simbackend synthesizes demonstration outcome data for benchmarking
// circuits. It is a test harness implementing execution.Runner, not part of
// the core: the core only ever consumes opaque outcome counts.
package simbackend

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/clifford"
	"github.com/orqa-labs/characterization-framework/dataset"
)

// Backend computes each circuit's ideal outcome from its Clifford tableau
// and mixes in a global depolarizing channel: every gate application keeps
// the state with probability 1-ErrorRate, and a depolarized shot yields a
// uniformly random outcome. Circuits must compose to a Pauli (true for all
// self-inverting and RB circuits), so the ideal outcome is a basis state.
type Backend struct {
	ErrorRate float64
	Seed      uint64
}

// New creates a Backend with the given per-gate depolarizing strength.
func New(errorRate float64, seed uint64) *Backend {
	return &Backend{ErrorRate: errorRate, Seed: seed}
}

// Submit implements execution.Runner. Counts are deterministic in the
// backend seed and circuit content.
func (b *Backend) Submit(
	_ context.Context, circuits []*circuit.Circuit, shots int,
) (map[circuit.ID]dataset.OutcomeCounts, error) {
	out := make(map[circuit.ID]dataset.OutcomeCounts, len(circuits))
	for _, c := range circuits {
		counts, err := b.sample(c, shots)
		if err != nil {
			return nil, err
		}
		out[c.ID()] = counts
	}

	return out, nil
}

func (b *Backend) sample(c *circuit.Circuit, shots int) (dataset.OutcomeCounts, error) {
	total, err := clifford.FromCircuit(c)
	if err != nil {
		return nil, fmt.Errorf("simbackend: circuit %s: %w", c.ID(), err)
	}
	bits, ok := total.StateOutcome()
	if !ok {
		return nil, fmt.Errorf("simbackend: circuit %s does not compose to a Pauli", c.ID())
	}

	ideal := make([]byte, len(bits))
	for i, bit := range bits {
		ideal[i] = '0'
		if bit {
			ideal[i] = '1'
		}
	}

	gates := 0
	for _, layer := range c.Layers() {
		gates += len(layer)
	}
	keep := math.Pow(1-b.ErrorRate, float64(gates))

	rng := rand.New(rand.NewPCG(b.Seed, circuitSeed(c.ID())))
	n := len(bits)
	counts := make(dataset.OutcomeCounts)
	for range shots {
		if rng.Float64() < keep {
			counts[string(ideal)]++

			continue
		}
		random := make([]byte, n)
		for i := range random {
			random[i] = byte('0' + rng.IntN(2))
		}
		counts[string(random)]++
	}

	return counts, nil
}

func circuitSeed(id circuit.ID) uint64 {
	raw := []byte(id)
	if len(raw) >= 8 {
		return binary.BigEndian.Uint64(raw[:8])
	}

	var padded [8]byte
	copy(padded[:], raw)

	return binary.BigEndian.Uint64(padded[:])
}
