package results

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/dataset"
	"github.com/orqa-labs/characterization-framework/design"
	"github.com/orqa-labs/characterization-framework/internal/simbackend"
	"github.com/orqa-labs/characterization-framework/processor"
	"github.com/orqa-labs/characterization-framework/sampler"
)

func testSpec(t *testing.T) *processor.Spec {
	t.Helper()

	spec, err := processor.New(
		[]circuit.Label{"Q0", "Q1", "Q2", "Q3"},
		[]processor.Gate{
			{Name: "Gxpi2", Arity: 1},
			{Name: "Gxmpi2", Arity: 1},
			{Name: "Gzpi2", Arity: 1},
			{Name: "Gzmpi2", Arity: 1},
			{Name: "Gcphase", Arity: 2},
		},
		processor.WithAvailability(map[string][][]circuit.Label{
			"Gcphase": {{"Q0", "Q1"}, {"Q1", "Q2"}, {"Q2", "Q3"}},
		}),
	)
	require.NoError(t, err)

	return spec
}

func mirrorLeaf(t *testing.T, spec *processor.Spec, subset []circuit.Label, density float64, seed uint64) *design.Leaf {
	t.Helper()

	leaf, err := design.NewLeaf(
		spec, []int{0, 2, 4}, 3, subset, sampler.KindMirror,
		sampler.Params{TwoQubitGateDensity: density}, design.WithSeed(seed),
	)
	require.NoError(t, err)

	return leaf
}

// testDesign builds a full benchmarking suite: width-1 through width-4
// leaves plus a simultaneous group running one leaf per qubit.
func testDesign(t *testing.T, spec *processor.Spec) *design.Combined {
	t.Helper()

	srbLeaves := make([]design.Design, 0, 4)
	for i, q := range []circuit.Label{"Q0", "Q1", "Q2", "Q3"} {
		srbLeaves = append(srbLeaves, mirrorLeaf(t, spec, []circuit.Label{q}, 0, uint64(10+i)))
	}
	srb, err := design.NewSimultaneous(srbLeaves)
	require.NoError(t, err)

	comb, err := design.NewCombined([]design.Keyed{
		{Key: "1Q-RB", Design: mirrorLeaf(t, spec, []circuit.Label{"Q0"}, 0, 1)},
		{Key: "2Q-RB", Design: mirrorLeaf(t, spec, []circuit.Label{"Q0", "Q1"}, 0.5, 2)},
		{Key: "3Q-RB", Design: mirrorLeaf(t, spec, []circuit.Label{"Q0", "Q1", "Q2"}, 0.5, 3)},
		{Key: "4Q-RB", Design: mirrorLeaf(t, spec, []circuit.Label{"Q0", "Q1", "Q2", "Q3"}, 0.5, 4)},
		{Key: "1Q-SRB", Design: srb},
	})
	require.NoError(t, err)

	return comb
}

func collect(t *testing.T, d design.Design) *dataset.MemoryDataset {
	t.Helper()

	backend := simbackend.New(0.02, 99)
	counts, err := backend.Submit(context.Background(), design.BuildPool(d).Circuits(), 400)
	require.NoError(t, err)

	store := dataset.NewMemoryDataset()
	for id, oc := range counts {
		store.Upsert(id, oc)
	}

	return store
}

func Test_Reconstruct(t *testing.T) {
	t.Parallel()

	spec := testSpec(t)
	d := testDesign(t, spec)
	store := collect(t, d)

	root, err := Reconstruct(d, store.Seal())
	require.NoError(t, err)

	t.Run("tree mirrors the composition keys", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, KindCombined, root.Kind())
		assert.Equal(t, []string{"1Q-RB", "2Q-RB", "3Q-RB", "4Q-RB", "1Q-SRB"}, root.Keys())

		srbNode, ok := root.Child("1Q-SRB")
		require.True(t, ok)
		require.Equal(t, KindSimultaneous, srbNode.Kind())

		keys := srbNode.SubsetKeys()
		require.Len(t, keys, 4)
		for i, want := range []string{"(Q0)", "(Q1)", "(Q2)", "(Q3)"} {
			assert.Equal(t, want, keys[i].String())
		}

		for _, key := range keys {
			child, ok := srbNode.ChildBySubset(key)
			require.True(t, ok)
			assert.Equal(t, KindLeaf, child.Kind())
			require.NotNil(t, child.Leaf())
		}
	})

	t.Run("leaf statistics and fit", func(t *testing.T) {
		t.Parallel()

		node, ok := root.Child("2Q-RB")
		require.True(t, ok)
		leaf := node.Leaf()
		require.NotNil(t, leaf)

		assert.Equal(t, []circuit.Label{"Q0", "Q1"}, leaf.Lines)
		assert.Equal(t, "rb-decay", leaf.Protocol)
		require.Len(t, leaf.PerDepth, 3)

		depths, probs := leaf.SuccessSeries()
		assert.Equal(t, []int{0, 2, 4}, depths)
		for i, dr := range leaf.PerDepth {
			require.Len(t, dr.Circuits, 3)
			assert.GreaterOrEqual(t, dr.SuccessProbability, 0.0)
			assert.LessOrEqual(t, dr.SuccessProbability, 1.0)
			assert.Equal(t, dr.SuccessProbability, probs[i])
			for _, cr := range dr.Circuits {
				assert.Equal(t, 400, cr.Counts.Total())
			}
		}

		// Depth zero circuits are empty and noiseless in the simulation.
		assert.InDelta(t, 1.0, leaf.PerDepth[0].SuccessProbability, 1e-12)
		assert.InDelta(t, 1.0, leaf.PerDepth[0].Polarization, 1e-12)

		fit, ok := leaf.Fits["rb-decay"]
		require.True(t, ok)
		assert.Equal(t, "rb-decay", fit.Protocol)
	})

	t.Run("marginalized children see their own success probabilities", func(t *testing.T) {
		t.Parallel()

		srbNode, _ := root.Child("1Q-SRB")
		for _, q := range []circuit.Label{"Q0", "Q1", "Q2", "Q3"} {
			child, ok := srbNode.ChildBySubset(circuit.NewSubset(q))
			require.True(t, ok)

			leaf := child.Leaf()
			require.NotNil(t, leaf)
			assert.Equal(t, []circuit.Label{q}, leaf.Lines)
			for di, dr := range leaf.PerDepth {
				for _, cr := range dr.Circuits {
					assert.Len(t, cr.Target, 1, "marginal targets live on the child lines")
					total := cr.Counts.Total()
					if di == 0 {
						// All depth-0 slots merge to one executed circuit;
						// its shots count once, not once per slot.
						assert.Equal(t, 400, total)
					} else {
						// Child content re-sampled in several slots pools
						// the shots of each distinct merged execution.
						assert.GreaterOrEqual(t, total, 400)
						assert.Zero(t, total%400)
					}
				}
			}
		}
	})
}

func Test_Reconstruct_MissingData(t *testing.T) {
	t.Parallel()

	spec := testSpec(t)
	d := testDesign(t, spec)
	store := collect(t, d)

	// Drop the counts of one circuit owned by the first leaf.
	leafDesign, ok := d.Child("1Q-RB")
	require.True(t, ok)
	victim := leafDesign.Circuits()[4].Circuit.ID()
	store.Delete(victim)

	_, err := Reconstruct(d, store.Seal())
	require.Error(t, err)

	var missing *MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, victim, missing.CircuitID)
	assert.Equal(t, "1Q-RB", missing.Path.String())
	assert.Contains(t, err.Error(), string(victim))
}

func Test_KeyPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(root)", KeyPath{}.String())
	assert.Equal(t, "1Q-SRB/(Q0)", KeyPath{"1Q-SRB", "(Q0)"}.String())

	base := KeyPath{"a"}
	extended := base.child("b")
	assert.Equal(t, "a/b", extended.String())
	assert.Equal(t, "a", base.String(), "child must not mutate the base path")
}
