package clifford

import "fmt"

// Element is an n-qubit Clifford group element, represented by the images of
// the Pauli generators under conjugation: XOut[j] = C X_j C†, ZOut[j] = C Z_j C†.
type Element struct {
	n    int
	xout []Pauli
	zout []Pauli
}

// Identity returns the identity element on n qubits.
func Identity(n int) *Element {
	e := &Element{n: n, xout: make([]Pauli, n), zout: make([]Pauli, n)}
	for j := range n {
		e.xout[j] = xPauli(n, j)
		e.zout[j] = zPauli(n, j)
	}

	return e
}

// NumQubits returns the number of qubits the element acts on.
func (e *Element) NumQubits() int { return e.n }

// XOut returns a copy of the image of X_j.
func (e *Element) XOut(j int) Pauli { return e.xout[j].Copy() }

// ZOut returns a copy of the image of Z_j.
func (e *Element) ZOut(j int) Pauli { return e.zout[j].Copy() }

// Copy returns a deep copy of the element.
func (e *Element) Copy() *Element {
	out := &Element{n: e.n, xout: make([]Pauli, e.n), zout: make([]Pauli, e.n)}
	for j := range e.n {
		out.xout[j] = e.xout[j].Copy()
		out.zout[j] = e.zout[j].Copy()
	}

	return out
}

// ApplyTo conjugates an arbitrary Pauli by the element: returns C p C†.
// The image is the ordered product of generator images selected by p's bits.
func (e *Element) ApplyTo(p Pauli) Pauli {
	out := NewPauli(e.n)
	out.Phase = p.Phase
	for j := range e.n {
		if p.X[j] {
			out = out.Mul(e.xout[j])
		}
		if p.Z[j] {
			out = out.Mul(e.zout[j])
		}
	}

	return out
}

// Compose returns the element second∘first: first applied first in time.
func Compose(first, second *Element) *Element {
	if first.n != second.n {
		panic(fmt.Sprintf("clifford: composing elements on %d and %d qubits", first.n, second.n))
	}
	out := &Element{n: first.n, xout: make([]Pauli, first.n), zout: make([]Pauli, first.n)}
	for j := range first.n {
		out.xout[j] = second.ApplyTo(first.xout[j])
		out.zout[j] = second.ApplyTo(first.zout[j])
	}

	return out
}

// Inverse returns the group inverse of the element. The symplectic part is
// inverted in closed form (S^-1 = Λ Sᵀ Λ); the phases of the inverse's
// generator images are then fixed so that e.ApplyTo(inverse image) lands
// exactly on the corresponding basis Pauli.
func (e *Element) Inverse() *Element {
	n := e.n
	dim := 2 * n

	// Column j of s holds the (x||z) bits of the image of X_j; column n+j
	// those of Z_j.
	s := make([][]bool, dim)
	for i := range s {
		s[i] = make([]bool, dim)
	}
	for j := range n {
		for i := range n {
			s[i][j] = e.xout[j].X[i]
			s[n+i][j] = e.xout[j].Z[i]
			s[i][n+j] = e.zout[j].X[i]
			s[n+i][n+j] = e.zout[j].Z[i]
		}
	}

	sw := func(i int) int {
		if i < n {
			return i + n
		}

		return i - n
	}

	out := &Element{n: n, xout: make([]Pauli, n), zout: make([]Pauli, n)}
	for col := range dim {
		q := NewPauli(n)
		for row := range dim {
			// (Λ Sᵀ Λ)[row][col] = S[sw(col)][sw(row)]
			if !s[sw(col)][sw(row)] {
				continue
			}
			if row < n {
				q.X[row] = true
			} else {
				q.Z[row-n] = true
			}
		}

		// e maps q (phase 0) to i^δ times the basis generator; setting q's
		// phase to -δ makes the inverse exact.
		img := e.ApplyTo(q)
		var want Pauli
		if col < n {
			want = xPauli(n, col)
		} else {
			want = zPauli(n, col-n)
		}
		if !img.BitsEqual(want) {
			panic("clifford: inverse of non-symplectic element")
		}
		q.Phase = uint8((4 - int(img.Phase)) % 4)

		if col < n {
			out.xout[col] = q
		} else {
			out.zout[col-n] = q
		}
	}

	return out
}

// Equal reports whether two elements are the same group element.
func (e *Element) Equal(other *Element) bool {
	if e.n != other.n {
		return false
	}
	for j := range e.n {
		if !e.xout[j].Equal(other.xout[j]) || !e.zout[j].Equal(other.zout[j]) {
			return false
		}
	}

	return true
}

// IsIdentity reports whether the element is the group identity.
func (e *Element) IsIdentity() bool {
	return e.Equal(Identity(e.n))
}

// PauliElement returns the Clifford element of conjugation by the Pauli
// operator X^a Z^b: it flips the sign of Z_j where a[j] is set and of X_j
// where b[j] is set.
func PauliElement(a, b []bool) *Element {
	n := len(a)
	e := Identity(n)
	for j := range n {
		if b[j] {
			e.xout[j].Phase = 2
		}
		if a[j] {
			e.zout[j].Phase = 2
		}
	}

	return e
}

// StateOutcome returns, for an element that is a Pauli (identity symplectic
// part), the computational basis outcome of applying it to |0…0⟩: bit j is 1
// where the Pauli's X part acts on qubit j. Returns false if the element is
// not a Pauli.
func (e *Element) StateOutcome() ([]bool, bool) {
	bits := make([]bool, e.n)
	for j := range e.n {
		if !e.xout[j].BitsEqual(xPauli(e.n, j)) || !e.zout[j].BitsEqual(zPauli(e.n, j)) {
			return nil, false
		}
		// Z_j image sign flips exactly when the Pauli has X support on j.
		bits[j] = e.zout[j].Phase == 2
	}

	return bits, true
}
