package clifford

import (
	"fmt"
	"math/rand/v2"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// Algorithm selects the compilation strategy.
type Algorithm string

const (
	// AlgROGGE is randomized-order global Gaussian elimination: pivot
	// choices are drawn from the rng, so repeated compilations of the same
	// element yield different circuits. The default, and the best general
	// choice for 1-20 qubits.
	AlgROGGE Algorithm = "ROGGE"
	// AlgOGGE is the deterministic variant: first eligible pivot, always.
	AlgOGGE Algorithm = "OGGE"
)

// CostKey orders candidate compilations of the same element; lower is better.
type CostKey func(c *circuit.Circuit) int

// TotalGateCount is the default CostKey: the number of gate applications.
func TotalGateCount(c *circuit.Circuit) int {
	total := 0
	for _, layer := range c.Layers() {
		total += len(layer)
	}

	return total
}

// TwoQubitGateCount counts only multi-qubit gate applications.
func TwoQubitGateCount(c *circuit.Circuit) int {
	total := 0
	for _, layer := range c.Layers() {
		for _, g := range layer {
			if len(g.Qubits) > 1 {
				total++
			}
		}
	}

	return total
}

// CompileConfig configures Compile. The zero value selects ROGGE, a single
// iteration, TotalGateCount and Gcnot as the entangling gate.
type CompileConfig struct {
	Algorithm Algorithm
	// Iterations > 1 produces that many independent randomized compilations
	// and keeps the best under Cost, trading generation time for shorter
	// circuits.
	Iterations int
	Cost       CostKey
	// TwoQubitGate is the entangling gate to emit: "Gcnot" or "Gcphase".
	TwoQubitGate string
}

func (cfg *CompileConfig) withDefaults() CompileConfig {
	out := *cfg
	if out.Algorithm == "" {
		out.Algorithm = AlgROGGE
	}
	if out.Iterations < 1 {
		out.Iterations = 1
	}
	if out.Cost == nil {
		out.Cost = TotalGateCount
	}
	if out.TwoQubitGate == "" {
		out.TwoQubitGate = "Gcnot"
	}

	return out
}

type gateOp struct {
	name   string
	qubits []int
}

// Compile synthesizes a circuit over lines implementing the element exactly,
// using Gh/Gp/Gpdag, the configured entangling gate and Pauli gates. The
// circuit acts on lines in order: line i is qubit index i of the element.
func Compile(e *Element, lines []circuit.Label, rng *rand.Rand, cfg CompileConfig) (*circuit.Circuit, error) {
	c := cfg.withDefaults()
	if len(lines) != e.n {
		return nil, fmt.Errorf("clifford: compiling %d-qubit element onto %d lines", e.n, len(lines))
	}
	if c.TwoQubitGate != "Gcnot" && c.TwoQubitGate != "Gcphase" {
		return nil, fmt.Errorf("clifford: unsupported entangling gate %s", c.TwoQubitGate)
	}

	var best *circuit.Circuit
	for range c.Iterations {
		ops, err := reduceToIdentity(e, rng, c.Algorithm)
		if err != nil {
			return nil, err
		}
		cand, err := materialize(ops, lines, c.TwoQubitGate)
		if err != nil {
			return nil, err
		}
		if best == nil || c.Cost(cand) < c.Cost(best) {
			best = cand
		}
	}

	return best, nil
}

// reduceToIdentity left-composes gates onto a copy of e until the result is
// the identity element, returning the applied gates in application order.
// The compiled circuit for e is then the reversed, inverted gate sequence.
func reduceToIdentity(e *Element, rng *rand.Rand, alg Algorithm) ([]gateOp, error) {
	n := e.n
	t := e.Copy()
	var ops []gateOp

	emit := func(name string, qubits ...int) {
		ge, err := GateElement(name, n, qubits...)
		if err != nil {
			panic(err)
		}
		t = Compose(t, ge)
		ops = append(ops, gateOp{name: name, qubits: qubits})
	}

	for i := range n {
		// Bring the image of X_i to a pure X with a pivot at qubit i.
		vx := t.xout[i]
		var xCands, zCands []int
		for q := i; q < n; q++ {
			if vx.X[q] {
				xCands = append(xCands, q)
			} else if vx.Z[q] {
				zCands = append(zCands, q)
			}
		}
		if len(xCands) == 0 && len(zCands) == 0 {
			return nil, fmt.Errorf("clifford: element is not symplectic at qubit %d", i)
		}
		pivot, fromZ := choosePivot(xCands, zCands, rng, alg)
		if fromZ {
			emit("Gh", pivot)
		}
		if pivot != i {
			emit("Gcnot", i, pivot)
			emit("Gcnot", pivot, i)
			emit("Gcnot", i, pivot)
		}
		for j := i + 1; j < n; j++ {
			if t.xout[i].X[j] {
				emit("Gcnot", i, j)
			}
		}
		hasZ := false
		for q := i; q < n; q++ {
			if t.xout[i].Z[q] {
				hasZ = true

				break
			}
		}
		if hasZ {
			if !t.xout[i].Z[i] {
				emit("Gp", i)
			}
			for j := i + 1; j < n; j++ {
				if t.xout[i].Z[j] {
					emit("Gcnot", j, i)
				}
			}
			emit("Gp", i)
		}

		// The image of Z_i now has its Z bit set at i; clear everything else
		// without touching the X_i image.
		for j := i + 1; j < n; j++ {
			if t.zout[i].X[j] {
				if t.zout[i].Z[j] {
					emit("Gp", j)
				}
				emit("Gh", j)
			}
		}
		for j := i + 1; j < n; j++ {
			if t.zout[i].Z[j] {
				emit("Gcnot", j, i)
			}
		}
		if t.zout[i].X[i] {
			emit("Gh", i)
			emit("Gp", i)
			emit("Gh", i)
		}
	}

	// Bit content is now the identity; cancel the remaining signs with a
	// single Pauli layer.
	for i := range n {
		px := t.xout[i].Phase == 2
		pz := t.zout[i].Phase == 2
		switch {
		case px && pz:
			emit("Gypi", i)
		case px:
			emit("Gzpi", i)
		case pz:
			emit("Gxpi", i)
		}
	}

	if !t.IsIdentity() {
		return nil, fmt.Errorf("clifford: reduction did not reach the identity")
	}

	return ops, nil
}

func choosePivot(xCands, zCands []int, rng *rand.Rand, alg Algorithm) (pivot int, fromZ bool) {
	if alg == AlgROGGE {
		k := rng.IntN(len(xCands) + len(zCands))
		if k < len(xCands) {
			return xCands[k], false
		}

		return zCands[k-len(xCands)], true
	}
	if len(xCands) > 0 {
		return xCands[0], false
	}

	return zCands[0], true
}

var inverseOp = map[string]string{
	"Gh":    "Gh",
	"Gp":    "Gpdag",
	"Gpdag": "Gp",
	"Gcnot": "Gcnot",
	"Gxpi":  "Gxpi",
	"Gypi":  "Gypi",
	"Gzpi":  "Gzpi",
}

// materialize reverses and inverts the reduction sequence into a circuit,
// one gate per layer, optionally rewriting CNOTs onto a CZ-native gate set.
func materialize(ops []gateOp, lines []circuit.Label, twoQubitGate string) (*circuit.Circuit, error) {
	var layers []circuit.Layer
	for m := len(ops) - 1; m >= 0; m-- {
		op := ops[m]
		inv, ok := inverseOp[op.name]
		if !ok {
			return nil, fmt.Errorf("clifford: no inverse for gate %s", op.name)
		}
		labels := make([]circuit.Label, len(op.qubits))
		for i, q := range op.qubits {
			labels[i] = lines[q]
		}
		if inv == "Gcnot" && twoQubitGate == "Gcphase" {
			c, t := labels[0], labels[1]
			layers = append(layers,
				circuit.Layer{circuit.NewGate("Gh", t)},
				circuit.Layer{circuit.NewGate("Gcphase", c, t)},
				circuit.Layer{circuit.NewGate("Gh", t)},
			)

			continue
		}
		layers = append(layers, circuit.Layer{circuit.NewGate(inv, labels...)})
	}

	return circuit.New(lines, layers)
}
