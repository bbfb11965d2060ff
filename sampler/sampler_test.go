package sampler

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/clifford"
	"github.com/orqa-labs/characterization-framework/processor"
)

// testSpec declares a four-qubit ring with the gates both samplers need.
func testSpec(t *testing.T) *processor.Spec {
	t.Helper()

	spec, err := processor.New(
		[]circuit.Label{"Q0", "Q1", "Q2", "Q3"},
		[]processor.Gate{
			{Name: "Gh", Arity: 1},
			{Name: "Gp", Arity: 1},
			{Name: "Gpdag", Arity: 1},
			{Name: "Gxpi", Arity: 1},
			{Name: "Gypi", Arity: 1},
			{Name: "Gzpi", Arity: 1},
			{Name: "Gxpi2", Arity: 1},
			{Name: "Gxmpi2", Arity: 1},
			{Name: "Gzpi2", Arity: 1},
			{Name: "Gzmpi2", Arity: 1},
			{Name: "Gcnot", Arity: 2},
			{Name: "Gcphase", Arity: 2},
		},
		processor.WithAvailability(map[string][][]circuit.Label{
			"Gcnot": {
				{"Q0", "Q1"}, {"Q1", "Q0"},
				{"Q1", "Q2"}, {"Q2", "Q1"},
				{"Q2", "Q3"}, {"Q3", "Q2"},
				{"Q3", "Q0"}, {"Q0", "Q3"},
			},
			"Gcphase": {
				{"Q0", "Q1"}, {"Q1", "Q2"}, {"Q2", "Q3"}, {"Q3", "Q0"},
			},
		}),
	)
	require.NoError(t, err)

	return spec
}

func Test_Sample_Validation(t *testing.T) {
	t.Parallel()

	spec := testSpec(t)

	tests := []struct {
		name       string
		giveDepth  int
		giveSubset []circuit.Label
		giveKind   Kind
		wantErr    string
	}{
		{
			name:       "negative depth",
			giveDepth:  -1,
			giveSubset: []circuit.Label{"Q0"},
			giveKind:   KindMirror,
			wantErr:    "depth must be non-negative",
		},
		{
			name:      "empty subset",
			giveDepth: 2,
			giveKind:  KindMirror,
			wantErr:   "empty qubit subset",
		},
		{
			name:       "duplicate qubit in subset",
			giveDepth:  2,
			giveSubset: []circuit.Label{"Q0", "Q0"},
			giveKind:   KindMirror,
			wantErr:    "duplicate qubit",
		},
		{
			name:       "subset outside processor",
			giveDepth:  2,
			giveSubset: []circuit.Label{"Q0", "Q9"},
			giveKind:   KindMirror,
			wantErr:    "not contained in processor qubits",
		},
		{
			name:       "unknown kind",
			giveDepth:  2,
			giveSubset: []circuit.Label{"Q0"},
			giveKind:   Kind("nope"),
			wantErr:    "unknown sampler kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Sample(spec, tt.giveDepth, tt.giveSubset, tt.giveKind, Params{}, 1)
			require.ErrorContains(t, err, tt.wantErr)

			var sampErr *SamplingError
			require.ErrorAs(t, err, &sampErr)
			assert.Equal(t, tt.giveDepth, sampErr.Depth)
		})
	}
}

func Test_Sample_Deterministic(t *testing.T) {
	t.Parallel()

	spec := testSpec(t)
	subset := []circuit.Label{"Q0", "Q1"}

	for _, kind := range []Kind{KindMirror, KindCliffordRB} {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			params := Params{TwoQubitGateDensity: 0.5}
			a, err := Sample(spec, 4, subset, kind, params, 7)
			require.NoError(t, err)
			b, err := Sample(spec, 4, subset, kind, params, 7)
			require.NoError(t, err)
			c, err := Sample(spec, 4, subset, kind, params, 8)
			require.NoError(t, err)

			assert.Equal(t, a.Circuit.ID(), b.Circuit.ID())
			assert.Equal(t, a.Target, b.Target)
			assert.NotEqual(t, a.Circuit.ID(), c.Circuit.ID())
		})
	}
}

func Test_Mirror(t *testing.T) {
	t.Parallel()

	spec := testSpec(t)

	t.Run("mirror structure composes to the identity", func(t *testing.T) {
		t.Parallel()

		for depth := range 6 {
			res, err := Sample(
				spec, depth, []circuit.Label{"Q0", "Q1", "Q2"}, KindMirror,
				Params{TwoQubitGateDensity: 0.6}, uint64(depth)+1,
			)
			require.NoError(t, err)

			assert.Equal(t, 2*depth, res.Circuit.NumLayers())
			assert.Equal(t, "000", res.Target)

			e, err := clifford.FromCircuit(res.Circuit)
			require.NoError(t, err)
			assert.True(t, e.IsIdentity(), "depth %d", depth)
		}
	})

	t.Run("density outside range", func(t *testing.T) {
		t.Parallel()

		_, err := Sample(
			spec, 2, []circuit.Label{"Q0", "Q1"}, KindMirror,
			Params{TwoQubitGateDensity: 1.5}, 1,
		)
		require.ErrorContains(t, err, "outside [0,1]")
	})

	t.Run("positive density with no connecting edge", func(t *testing.T) {
		t.Parallel()

		// Q0 and Q2 are opposite corners of the ring: no two-qubit gate
		// connects them directly.
		_, err := Sample(
			spec, 2, []circuit.Label{"Q0", "Q2"}, KindMirror,
			Params{TwoQubitGateDensity: 0.5}, 1,
		)
		require.ErrorContains(t, err, "no multi-qubit gate connects the subset")

		var sampErr *SamplingError
		require.ErrorAs(t, err, &sampErr)
	})

	t.Run("zero density never emits two-qubit gates", func(t *testing.T) {
		t.Parallel()

		res, err := Sample(spec, 8, []circuit.Label{"Q0", "Q2"}, KindMirror, Params{}, 3)
		require.NoError(t, err)

		for _, layer := range res.Circuit.Layers() {
			for _, g := range layer {
				assert.Len(t, g.Qubits, 1)
			}
		}
		assert.Equal(t, "0", res.Aux["twoQubitGates"])
	})
}

func Test_Mirror_TwoQubitGateDensity(t *testing.T) {
	t.Parallel()

	spec := testSpec(t)
	subset := []circuit.Label{"Q0", "Q1", "Q2", "Q3"}
	edges := spec.EdgesWithin(circuit.NewSubset(subset...))
	require.NotEmpty(t, edges)

	oneQ := make(map[circuit.Label][]string)
	for _, q := range subset {
		for _, name := range spec.OneQubitGates() {
			if spec.CanApply(name, q) {
				oneQ[q] = append(oneQ[q], name)
			}
		}
	}

	// Density 0.5 on four qubits asks for 0.5*4/2 = 1 two-qubit gate per
	// layer on average. The ring always admits a size-2 maximal matching,
	// so the expectation is attainable and the sample mean approaches it.
	const layers = 20000
	meanTwoQ := 0.5 * float64(len(subset)) / 2

	rng := rand.New(rand.NewPCG(31, 0x9e3779b97f4a7c15))
	total := 0
	for range layers {
		_, count := edgegrabLayer(subset, edges, oneQ, meanTwoQ, rng)
		total += count
	}

	assert.InDelta(t, meanTwoQ, float64(total)/layers, 0.05)
}

func Test_CliffordRB(t *testing.T) {
	t.Parallel()

	spec := testSpec(t)

	t.Run("circuit composes to the target outcome", func(t *testing.T) {
		t.Parallel()

		for _, depth := range []int{0, 1, 2, 4} {
			for n := 1; n <= 2; n++ {
				subset := []circuit.Label{"Q0", "Q1"}[:n]
				res, err := Sample(spec, depth, subset, KindCliffordRB, Params{}, uint64(depth*10+n))
				require.NoError(t, err)

				e, err := clifford.FromCircuit(res.Circuit)
				require.NoError(t, err)
				assert.True(t, e.IsIdentity(), "depth %d n %d", depth, n)
				assert.Equal(t, zeroTarget(n), res.Target)
				assert.Equal(t, fmt.Sprintf("%d", depth+2), res.Aux["elements"])
			}
		}
	})

	t.Run("randomized output sets the target from the composed pauli", func(t *testing.T) {
		t.Parallel()

		res, err := Sample(
			spec, 2, []circuit.Label{"Q0", "Q1"}, KindCliffordRB,
			Params{RandomizeOutput: true}, 11,
		)
		require.NoError(t, err)

		e, err := clifford.FromCircuit(res.Circuit)
		require.NoError(t, err)
		bits, ok := e.StateOutcome()
		require.True(t, ok, "composed circuit must be a pauli")

		want := ""
		for _, b := range bits {
			if b {
				want += "1"
			} else {
				want += "0"
			}
		}
		assert.Equal(t, want, res.Target)
	})

	t.Run("missing compile gate", func(t *testing.T) {
		t.Parallel()

		bare, err := processor.New(
			[]circuit.Label{"Q0"},
			[]processor.Gate{{Name: "Gxpi2", Arity: 1}},
		)
		require.NoError(t, err)

		_, err = Sample(bare, 2, []circuit.Label{"Q0"}, KindCliffordRB, Params{}, 1)
		require.ErrorContains(t, err, "Clifford compilation requires gate")
	})

	t.Run("connectivity violations are rejected", func(t *testing.T) {
		t.Parallel()

		// Q0 and Q2 have no direct edge; any compiled entangling gate between
		// them must be rejected rather than silently emitted.
		sawRejection := false
		for seed := uint64(0); seed < 20; seed++ {
			res, err := Sample(
				spec, 3, []circuit.Label{"Q0", "Q2"}, KindCliffordRB, Params{}, seed,
			)
			if err != nil {
				require.ErrorContains(t, err, "outside processor connectivity")
				sawRejection = true

				continue
			}
			// The rare all-local draw is fine as long as it really is local.
			for _, layer := range res.Circuit.Layers() {
				for _, g := range layer {
					assert.Len(t, g.Qubits, 1)
				}
			}
		}
		assert.True(t, sawRejection)
	})
}
