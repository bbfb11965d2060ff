package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/design"
	"github.com/orqa-labs/characterization-framework/pkg/logger"
)

const suiteYAML = `
processor:
  qubits: [Q0, Q1, Q2, Q3]
  gates:
    - name: Gxpi2
      arity: 1
    - name: Gxmpi2
      arity: 1
    - name: Gzpi2
      arity: 1
    - name: Gzmpi2
      arity: 1
    - name: Gcphase
      arity: 2
  availability:
    - gate: Gcphase
      tuples:
        - [Q0, Q1]
        - [Q1, Q2]
        - [Q2, Q3]

shots: 512

designs:
  - key: 2Q-RB
    sampler: mirror
    subset: [Q0, Q1]
    depths: [0, 2, 4]
    k: 3
    seed: 7
    twoQubitGateDensity: 0.5
  - key: 1Q-SRB
    simultaneous:
      - subset: [Q0]
        sampler: mirror
        depths: [0, 2, 4]
        k: 3
        seed: 8
      - subset: [Q3]
        sampler: mirror
        depths: [0, 2, 4]
        k: 3
        seed: 9
`

func writeSuite(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func Test_Load(t *testing.T) {
	t.Parallel()

	t.Run("valid suite", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(writeSuite(t, suiteYAML))
		require.NoError(t, err)

		assert.Equal(t, 512, cfg.Shots)
		assert.Len(t, cfg.Processor.Qubits, 4)
		require.Len(t, cfg.Designs, 2)
		require.Len(t, cfg.Processor.Availability, 1)
		assert.Equal(t, "Gcphase", cfg.Processor.Availability[0].Gate)
		assert.Equal(t, "2Q-RB", cfg.Designs[0].Key)
		assert.InDelta(t, 0.5, cfg.Designs[0].TwoQubitGateDensity, 1e-12)
		assert.Len(t, cfg.Designs[1].Simultaneous, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("no qubits", func(t *testing.T) {
		t.Parallel()

		_, err := Load(writeSuite(t, "processor:\n  gates: []\ndesigns:\n  - key: x\n"))
		require.ErrorContains(t, err, "no qubits")
	})

	t.Run("duplicate design key", func(t *testing.T) {
		t.Parallel()

		doc := `
processor:
  qubits: [Q0]
  gates: [{name: Gxpi2, arity: 1}]
designs:
  - key: dup
    subset: [Q0]
    depths: [2]
    k: 1
  - key: dup
    subset: [Q0]
    depths: [2]
    k: 1
`
		_, err := Load(writeSuite(t, doc))
		require.ErrorContains(t, err, `duplicate design key "dup"`)
	})
}

func Test_Build(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeSuite(t, suiteYAML))
	require.NoError(t, err)

	spec, comb, err := cfg.Build(logger.Test(t))
	require.NoError(t, err)

	assert.Equal(t, 4, spec.NumQubits())
	assert.True(t, spec.CanApply("Gcphase", "Q1", "Q2"))
	assert.False(t, spec.CanApply("Gcphase", "Q0", "Q2"))

	require.Equal(t, []string{"2Q-RB", "1Q-SRB"}, comb.Keys())

	child, ok := comb.Child("2Q-RB")
	require.True(t, ok)
	leaf, ok := child.(*design.Leaf)
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 4}, leaf.Depths())
	assert.Equal(t, 3, leaf.K())
	assert.Equal(t, uint64(7), leaf.Seed())

	srb, ok := comb.Child("1Q-SRB")
	require.True(t, ok)
	sim, ok := srb.(*design.Simultaneous)
	require.True(t, ok)
	assert.True(t, sim.QubitSubset().Equal(circuit.NewSubset("Q0", "Q3")))
	assert.Equal(t, 9, sim.NumCircuits())
}

func Test_Build_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown sampler", func(t *testing.T) {
		t.Parallel()

		doc := `
processor:
  qubits: [Q0]
  gates: [{name: Gxpi2, arity: 1}]
designs:
  - key: bad
    sampler: nope
    subset: [Q0]
    depths: [2]
    k: 1
`
		cfg, err := Load(writeSuite(t, doc))
		require.NoError(t, err)

		_, _, err = cfg.Build(logger.Test(t))
		require.ErrorContains(t, err, `unknown sampler "nope"`)
	})

	t.Run("nested simultaneous", func(t *testing.T) {
		t.Parallel()

		doc := `
processor:
  qubits: [Q0, Q1]
  gates: [{name: Gxpi2, arity: 1}, {name: Gxmpi2, arity: 1}]
designs:
  - key: bad
    simultaneous:
      - simultaneous:
          - subset: [Q0]
            depths: [2]
            k: 1
`
		cfg, err := Load(writeSuite(t, doc))
		require.NoError(t, err)

		_, _, err = cfg.Build(logger.Test(t))
		require.ErrorContains(t, err, "nesting is not supported")
	})

	t.Run("invalid processor", func(t *testing.T) {
		t.Parallel()

		doc := `
processor:
  qubits: [Q0, Q0]
  gates: [{name: Gxpi2, arity: 1}]
designs:
  - key: x
    subset: [Q0]
    depths: [2]
    k: 1
`
		cfg, err := Load(writeSuite(t, doc))
		require.NoError(t, err)

		_, _, err = cfg.Build(logger.Test(t))
		require.ErrorContains(t, err, "duplicate qubit label")
	})
}
