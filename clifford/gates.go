package clifford

import (
	"fmt"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// GateElement returns the Clifford element of the named gate acting on the
// given qubit indices of an n-qubit register. Gate names follow the native
// set used by the samplers (Gh, Gp, Gpdag, Gxpi2, Gcnot, Gcphase, ...).
func GateElement(name string, n int, qubits ...int) (*Element, error) {
	for _, q := range qubits {
		if q < 0 || q >= n {
			return nil, fmt.Errorf("clifford: gate %s: qubit index %d out of range [0,%d)", name, q, n)
		}
	}

	one := func(fn func(e *Element, q int)) (*Element, error) {
		if len(qubits) != 1 {
			return nil, fmt.Errorf("clifford: gate %s expects 1 qubit, got %d", name, len(qubits))
		}
		e := Identity(n)
		fn(e, qubits[0])

		return e, nil
	}
	two := func(fn func(e *Element, a, b int)) (*Element, error) {
		if len(qubits) != 2 {
			return nil, fmt.Errorf("clifford: gate %s expects 2 qubits, got %d", name, len(qubits))
		}
		e := Identity(n)
		fn(e, qubits[0], qubits[1])

		return e, nil
	}

	switch name {
	case "Gi":
		return one(func(e *Element, q int) {})
	case "Gh":
		return one(func(e *Element, q int) {
			e.xout[q] = zPauli(n, q)
			e.zout[q] = xPauli(n, q)
		})
	case "Gp", "Gzpi2":
		return one(func(e *Element, q int) {
			e.xout[q] = yPauli(n, q, false)
		})
	case "Gpdag", "Gzmpi2":
		return one(func(e *Element, q int) {
			e.xout[q] = yPauli(n, q, true)
		})
	case "Gxpi":
		return one(func(e *Element, q int) {
			e.zout[q].Phase = 2
		})
	case "Gypi":
		return one(func(e *Element, q int) {
			e.xout[q].Phase = 2
			e.zout[q].Phase = 2
		})
	case "Gzpi":
		return one(func(e *Element, q int) {
			e.xout[q].Phase = 2
		})
	case "Gxpi2":
		return one(func(e *Element, q int) {
			e.zout[q] = yPauli(n, q, true)
		})
	case "Gxmpi2":
		return one(func(e *Element, q int) {
			e.zout[q] = yPauli(n, q, false)
		})
	case "Gypi2":
		return one(func(e *Element, q int) {
			e.xout[q] = zPauli(n, q)
			e.xout[q].Phase = 2
			e.zout[q] = xPauli(n, q)
		})
	case "Gympi2":
		return one(func(e *Element, q int) {
			e.xout[q] = zPauli(n, q)
			e.zout[q] = xPauli(n, q)
			e.zout[q].Phase = 2
		})
	case "Gcnot":
		return two(func(e *Element, c, t int) {
			e.xout[c].X[t] = true
			e.zout[t].Z[c] = true
		})
	case "Gcphase", "Gcz":
		return two(func(e *Element, a, b int) {
			e.xout[a].Z[b] = true
			e.xout[b].Z[a] = true
		})
	default:
		return nil, fmt.Errorf("clifford: gate %s has no Clifford tableau", name)
	}
}

// yPauli returns ±Y_q on n qubits: i X Z for +Y, -i X Z rendered as phase 3.
func yPauli(n, q int, negative bool) Pauli {
	p := NewPauli(n)
	p.X[q] = true
	p.Z[q] = true
	p.Phase = 1
	if negative {
		p.Phase = 3
	}

	return p
}

// FromCircuit computes the Clifford element implemented by a circuit, with
// qubit indices taken from the circuit's line order. Fails if the circuit
// contains a gate without a Clifford tableau.
func FromCircuit(c *circuit.Circuit) (*Element, error) {
	lines := c.Lines()
	index := make(map[circuit.Label]int, len(lines))
	for i, l := range lines {
		index[l] = i
	}

	total := Identity(len(lines))
	for _, layer := range c.Layers() {
		for _, g := range layer {
			idx := make([]int, len(g.Qubits))
			for i, q := range g.Qubits {
				idx[i] = index[q]
			}
			ge, err := GateElement(g.Name, len(lines), idx...)
			if err != nil {
				return nil, err
			}
			total = Compose(total, ge)
		}
	}

	return total, nil
}
