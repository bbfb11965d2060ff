// Package clifford implements the n-qubit Clifford group in its symplectic
// (stabilizer tableau) representation: group elements as images of the Pauli
// generators under conjugation, with composition, inversion, uniform random
// sampling and compilation into native gate circuits.
package clifford

// Pauli is an n-qubit Pauli operator encoded as
//
//	i^Phase * prod_j X_j^{X[j]} Z_j^{Z[j]}
//
// with the per-qubit factor ordered X before Z. A Pauli with Y content k
// (positions where both bits are set) is hermitian iff Phase ≡ k (mod 2).
type Pauli struct {
	X     []bool
	Z     []bool
	Phase uint8 // exponent of i, mod 4
}

// NewPauli returns the identity Pauli on n qubits.
func NewPauli(n int) Pauli {
	return Pauli{X: make([]bool, n), Z: make([]bool, n)}
}

// NumQubits returns the number of qubits the Pauli acts on.
func (p Pauli) NumQubits() int { return len(p.X) }

// Copy returns a deep copy of the Pauli.
func (p Pauli) Copy() Pauli {
	return Pauli{
		X:     append([]bool(nil), p.X...),
		Z:     append([]bool(nil), p.Z...),
		Phase: p.Phase,
	}
}

// Mul returns the operator product p·q (p written to the left of q).
// Moving q's X factors left through p's Z factors contributes a factor
// (-1) per crossing, folded into the i-exponent.
func (p Pauli) Mul(q Pauli) Pauli {
	n := len(p.X)
	out := NewPauli(n)
	crossings := 0
	for j := range n {
		if p.Z[j] && q.X[j] {
			crossings++
		}
		out.X[j] = p.X[j] != q.X[j]
		out.Z[j] = p.Z[j] != q.Z[j]
	}
	out.Phase = uint8((int(p.Phase) + int(q.Phase) + 2*crossings) % 4)

	return out
}

// Equal reports whether two Paulis are identical operators.
func (p Pauli) Equal(q Pauli) bool {
	if len(p.X) != len(q.X) || p.Phase != q.Phase {
		return false
	}
	for j := range p.X {
		if p.X[j] != q.X[j] || p.Z[j] != q.Z[j] {
			return false
		}
	}

	return true
}

// BitsEqual reports whether two Paulis agree up to phase.
func (p Pauli) BitsEqual(q Pauli) bool {
	if len(p.X) != len(q.X) {
		return false
	}
	for j := range p.X {
		if p.X[j] != q.X[j] || p.Z[j] != q.Z[j] {
			return false
		}
	}

	return true
}

// yCount returns the number of qubits where both the X and Z bit are set.
func (p Pauli) yCount() int {
	k := 0
	for j := range p.X {
		if p.X[j] && p.Z[j] {
			k++
		}
	}

	return k
}

// xPauli returns the basis Pauli X_j on n qubits.
func xPauli(n, j int) Pauli {
	p := NewPauli(n)
	p.X[j] = true

	return p
}

// zPauli returns the basis Pauli Z_j on n qubits.
func zPauli(n, j int) Pauli {
	p := NewPauli(n)
	p.Z[j] = true

	return p
}
