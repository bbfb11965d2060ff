package results

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RBDecayFit_ExactDecay(t *testing.T) {
	t.Parallel()

	// Noise-free P(d) = 0.25 + 0.7·0.95^d over two qubits; the log-linear
	// fit must recover the parameters to numerical precision.
	depths := []int{0, 2, 4, 8, 16, 32}
	probs := make([]float64, len(depths))
	for i, d := range depths {
		probs[i] = 0.25 + 0.7*math.Pow(0.95, float64(d))
	}

	proto := &rbDecayProtocol{}
	fit, err := proto.Fit(LeafData{NumQubits: 2, Depths: depths, SuccessProbabilities: probs}, nil)
	require.NoError(t, err)

	assert.Equal(t, "rb-decay", fit.Protocol)
	assert.Equal(t, "1.0.0", fit.Version)

	assert.InDelta(t, 0.25, fit.FixedAsymptote.Asymptote, 1e-12)
	assert.InDelta(t, 0.95, fit.FixedAsymptote.DecayRate, 1e-9)
	assert.InDelta(t, 0.7, fit.FixedAsymptote.Amplitude, 1e-9)
	assert.InDelta(t, 0.75*(1-0.95), fit.FixedAsymptote.ErrorRate, 1e-9)

	assert.InDelta(t, 0.25, fit.Full.Asymptote, 1e-6)
	assert.InDelta(t, 0.95, fit.Full.DecayRate, 1e-6)
}

func Test_RBDecayFit_Degenerate(t *testing.T) {
	t.Parallel()

	proto := &rbDecayProtocol{}

	t.Run("probabilities at the asymptote yield NaN estimates", func(t *testing.T) {
		t.Parallel()

		fit, err := proto.Fit(LeafData{
			NumQubits:            1,
			Depths:               []int{0, 4, 8},
			SuccessProbabilities: []float64{0.5, 0.5, 0.5},
		}, nil)
		require.NoError(t, err)

		assert.True(t, math.IsNaN(fit.FixedAsymptote.DecayRate))
		assert.InDelta(t, 0.5, fit.FixedAsymptote.Asymptote, 1e-12)
	})

	t.Run("growing success probability clamps the decay rate at one", func(t *testing.T) {
		t.Parallel()

		fit, err := proto.Fit(LeafData{
			NumQubits:            1,
			Depths:               []int{0, 4, 8},
			SuccessProbabilities: []float64{0.8, 0.9, 0.95},
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1.0, fit.FixedAsymptote.DecayRate)
		assert.Equal(t, 0.0, fit.FixedAsymptote.ErrorRate)
	})
}

func Test_Registry(t *testing.T) {
	t.Parallel()

	t.Run("default registry resolves the decay protocol", func(t *testing.T) {
		t.Parallel()

		proto, err := DefaultRegistry().Retrieve("rb-decay")
		require.NoError(t, err)
		assert.Equal(t, "rb-decay", proto.Def().ID)
	})

	t.Run("unknown protocol", func(t *testing.T) {
		t.Parallel()

		_, err := DefaultRegistry().Retrieve("nope")
		require.ErrorIs(t, err, ErrProtocolNotFound)
	})

	t.Run("register extends retrieval", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		_, err := r.Retrieve("rb-decay")
		require.Error(t, err)

		r.Register(&rbDecayProtocol{})
		_, err = r.Retrieve("rb-decay")
		require.NoError(t, err)
	})
}
