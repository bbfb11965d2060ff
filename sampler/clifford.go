package sampler

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/clifford"
	"github.com/orqa-labs/characterization-framework/processor"
)

// oneQubitCompileGates are the single-qubit gates the Clifford compiler emits.
var oneQubitCompileGates = []string{"Gh", "Gp", "Gpdag", "Gxpi", "Gypi", "Gzpi"}

// sampleCliffordRB samples depth+2 uniformly random n-qubit Clifford
// elements whose ordered product is the identity (or, with RandomizeOutput,
// a uniformly random Pauli) and compiles each element independently into
// native gates.
func sampleCliffordRB(
	spec *processor.Spec, depth int, subset []circuit.Label, params Params, rng *rand.Rand,
) (*Result, error) {
	for _, name := range oneQubitCompileGates {
		if !spec.HasGate(name) {
			return nil, newSamplingErrf(subset, depth, "Clifford compilation requires gate %s, not in processor spec", name)
		}
	}
	twoQubitGate := ""
	switch {
	case len(subset) == 1:
		// No entangling gate needed on a single qubit.
	case spec.HasGate("Gcnot"):
		twoQubitGate = "Gcnot"
	case spec.HasGate("Gcphase"):
		twoQubitGate = "Gcphase"
	case spec.HasGate("Gcz"):
		twoQubitGate = "Gcz"
	default:
		return nil, newSamplingErrf(subset, depth, "Clifford compilation requires Gcnot or Gcphase, neither in processor spec")
	}

	n := len(subset)
	m := depth + 2

	elems := make([]*clifford.Element, m)
	composite := clifford.Identity(n)
	for k := range depth + 1 {
		elems[k] = clifford.Random(n, rng)
		composite = clifford.Compose(composite, elems[k])
	}

	target := zeroTarget(n)
	last := composite.Inverse()
	if params.RandomizeOutput {
		pauli, bits := clifford.RandomPauli(n, rng)
		last = clifford.Compose(last, pauli)
		target = bitsToString(bits)
	}
	elems[m-1] = last

	cfg := clifford.CompileConfig{
		Algorithm:    params.CompileAlgorithm,
		Iterations:   params.CompileIterations,
		Cost:         params.CompileCost,
		TwoQubitGate: twoQubitGate,
	}
	if cfg.TwoQubitGate == "" {
		cfg.TwoQubitGate = "Gcnot"
	}
	if cfg.TwoQubitGate == "Gcz" {
		cfg.TwoQubitGate = "Gcphase"
	}

	var layers []circuit.Layer
	for _, e := range elems {
		compiled, err := clifford.Compile(e, subset, rng, cfg)
		if err != nil {
			return nil, newSamplingErrf(subset, depth, "compiling Clifford element: %v", err)
		}
		layers = append(layers, compiled.Layers()...)
	}

	if twoQubitGate == "Gcz" {
		layers = renameGate(layers, "Gcphase", "Gcz")
	}

	c, err := circuit.New(subset, layers)
	if err != nil {
		return nil, newSamplingErrf(subset, depth, "%v", err)
	}

	if err := checkConnectivity(spec, c, subset, depth); err != nil {
		return nil, err
	}

	return &Result{
		Circuit: c,
		Target:  target,
		Aux: map[string]string{
			"sampler":  string(KindCliffordRB),
			"elements": strconv.Itoa(m),
		},
	}, nil
}

// checkConnectivity verifies every emitted multi-qubit gate is available on
// its qubit tuple (in either orientation for symmetric gates). The compiler
// assumes all-to-all connectivity within the subset; processors without it
// fail here rather than producing an unrunnable circuit.
func checkConnectivity(spec *processor.Spec, c *circuit.Circuit, subset []circuit.Label, depth int) error {
	for _, layer := range c.Layers() {
		for _, g := range layer {
			if len(g.Qubits) < 2 {
				continue
			}
			if spec.CanApply(g.Name, g.Qubits...) {
				continue
			}
			if symmetricGate(g.Name) && len(g.Qubits) == 2 && spec.CanApply(g.Name, g.Qubits[1], g.Qubits[0]) {
				continue
			}

			return newSamplingErrf(subset, depth, "compiled circuit needs %s on %v, outside processor connectivity", g.Name, g.Qubits)
		}
	}

	return nil
}

func symmetricGate(name string) bool {
	return name == "Gcphase" || name == "Gcz"
}

func renameGate(layers []circuit.Layer, from, to string) []circuit.Layer {
	for i, layer := range layers {
		for j, g := range layer {
			if g.Name == from {
				layers[i][j].Name = to
			}
		}
	}

	return layers
}

func bitsToString(bits []bool) string {
	var sb strings.Builder
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}
