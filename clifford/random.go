package clifford

import "math/rand/v2"

// Random returns a uniformly random n-qubit Clifford element. The symplectic
// part is drawn with the Koenig-Smolin transvection construction; the Pauli
// part is 2n uniform sign bits. Identical rng streams yield identical
// elements, which is what makes seeded circuit generation reproducible.
func Random(n int, rng *rand.Rand) *Element {
	g := randomSymplectic(n, rng)

	// g rows are images of the basis vectors in the interleaved convention:
	// basis index 2j is X_j, 2j+1 is Z_j, and within a row the bit at 2q is
	// the X component on qubit q, at 2q+1 the Z component.
	e := &Element{n: n, xout: make([]Pauli, n), zout: make([]Pauli, n)}
	fromRow := func(row []bool) Pauli {
		p := NewPauli(n)
		for q := range n {
			p.X[q] = row[2*q]
			p.Z[q] = row[2*q+1]
		}

		return p
	}
	for j := range n {
		e.xout[j] = fromRow(g[2*j])
		e.zout[j] = fromRow(g[2*j+1])
	}

	for j := range n {
		e.xout[j].Phase = signedPhase(e.xout[j], rng.IntN(2) == 1)
		e.zout[j].Phase = signedPhase(e.zout[j], rng.IntN(2) == 1)
	}

	return e
}

// RandomPauli returns a uniformly random Pauli conjugation element and the
// computational basis outcome it maps |0…0⟩ to.
func RandomPauli(n int, rng *rand.Rand) (*Element, []bool) {
	a := make([]bool, n)
	b := make([]bool, n)
	for j := range n {
		a[j] = rng.IntN(2) == 1
		b[j] = rng.IntN(2) == 1
	}

	return PauliElement(a, b), a
}

// signedPhase gives the i-exponent of the hermitian Pauli with p's bit
// content and the chosen sign.
func signedPhase(p Pauli, negative bool) uint8 {
	ph := p.yCount() % 4
	if negative {
		ph = (ph + 2) % 4
	}

	return uint8(ph)
}

// The functions below implement the symplectic group sampling of Koenig and
// Smolin, "How to efficiently select an arbitrary Clifford group element"
// (J. Math. Phys. 55, 122202), with the index-decoding choices replaced by
// draws from rng. Vectors use the interleaved (x1,z1,x2,z2,…) convention.

// symplecticInner is the symplectic inner product in interleaved convention.
func symplecticInner(v, w []bool) bool {
	t := false
	for i := 0; i < len(v); i += 2 {
		if v[i] && w[i+1] {
			t = !t
		}
		if w[i] && v[i+1] {
			t = !t
		}
	}

	return t
}

// transvect returns v + <k,v> k.
func transvect(k, v []bool) []bool {
	out := append([]bool(nil), v...)
	if !symplecticInner(k, v) {
		return out
	}
	for i := range out {
		out[i] = out[i] != k[i]
	}

	return out
}

// findTransvection returns h1, h2 such that applying the transvection h1
// then h2 maps x to y. x and y must be nonzero.
func findTransvection(x, y []bool) (h1, h2 []bool) {
	dim := len(x)
	h1 = make([]bool, dim)
	h2 = make([]bool, dim)

	if boolsEqual(x, y) {
		return h1, h2
	}
	if symplecticInner(x, y) {
		for i := range dim {
			h1[i] = x[i] != y[i]
		}

		return h1, h2
	}

	z := make([]bool, dim)

	// Look for a qubit where both x and y have support.
	for i := 0; i < dim; i += 2 {
		if (x[i] || x[i+1]) && (y[i] || y[i+1]) {
			z[i] = x[i] != y[i]
			z[i+1] = x[i+1] != y[i+1]
			if !z[i] && !z[i+1] {
				// x and y agree on this qubit; pick any z anticommuting
				// with both.
				z[i+1] = true
				if x[i] != x[i+1] {
					z[i] = true
				}
			}

			return addVec(x, z), addVec(z, y)
		}
	}

	// No shared qubit: fix up a qubit with support in x and one in y.
	for i := 0; i < dim; i += 2 {
		if (x[i] || x[i+1]) && !y[i] && !y[i+1] {
			if x[i] == x[i+1] {
				z[i+1] = true
			} else {
				z[i+1] = x[i]
				z[i] = x[i+1]
			}

			break
		}
	}
	for i := 0; i < dim; i += 2 {
		if !x[i] && !x[i+1] && (y[i] || y[i+1]) {
			if y[i] == y[i+1] {
				z[i+1] = true
			} else {
				z[i+1] = y[i]
				z[i] = y[i+1]
			}

			break
		}
	}

	return addVec(x, z), addVec(z, y)
}

func addVec(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] != b[i]
	}

	return out
}

func boolsEqual(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// randomSymplectic draws a uniform element of Sp(2n, 2) as a 2n×2n bit
// matrix whose rows are the images of the basis vectors.
func randomSymplectic(n int, rng *rand.Rand) [][]bool {
	dim := 2 * n

	// Step 1: a random nonzero vector, the image of e1.
	f1 := make([]bool, dim)
	for {
		nonzero := false
		for i := range f1 {
			f1[i] = rng.IntN(2) == 1
			nonzero = nonzero || f1[i]
		}
		if nonzero {
			break
		}
	}

	e1 := make([]bool, dim)
	e1[0] = true
	t1, t2 := findTransvection(e1, f1)

	// Step 2: 2n-1 random bits select the image of e1's symplectic partner.
	bits := make([]bool, dim-1)
	for i := range bits {
		bits[i] = rng.IntN(2) == 1
	}

	eprime := append([]bool(nil), e1...)
	for j := 2; j < dim; j++ {
		eprime[j] = bits[j-1]
	}
	h0 := transvect(t1, eprime)
	h0 = transvect(t2, h0)

	if bits[0] {
		// Zero f1 so its transvection below becomes the identity.
		for i := range f1 {
			f1[i] = false
		}
	}

	// Step 3: recurse on the remaining n-1 qubits and lift with the
	// transvections fixed above.
	var g [][]bool
	if n == 1 {
		g = [][]bool{{true, false}, {false, true}}
	} else {
		inner := randomSymplectic(n-1, rng)
		g = make([][]bool, dim)
		for i := range dim {
			g[i] = make([]bool, dim)
		}
		g[0][0] = true
		g[1][1] = true
		for i, row := range inner {
			copy(g[i+2][2:], row)
		}
	}

	for j := range g {
		g[j] = transvect(t1, g[j])
		g[j] = transvect(t2, g[j])
		g[j] = transvect(h0, g[j])
		g[j] = transvect(f1, g[j])
	}

	return g
}
