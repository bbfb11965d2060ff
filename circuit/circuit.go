// Package circuit defines the immutable quantum circuit data model shared by
// samplers, experiment designs and results reconstruction: qubit labels and
// label subsets, gate applications, layers, and content-addressed circuits.
package circuit

import (
	"fmt"
	"strings"
)

// GateApplication is one gate acting on an ordered tuple of qubits at a
// single timestep.
type GateApplication struct {
	Name   string
	Qubits []Label
}

// NewGate returns a GateApplication of the named gate on the given qubits.
func NewGate(name string, qubits ...Label) GateApplication {
	return GateApplication{Name: name, Qubits: qubits}
}

// String renders the gate application as "Name:Q0:Q1".
func (g GateApplication) String() string {
	var sb strings.Builder
	sb.WriteString(g.Name)
	for _, q := range g.Qubits {
		sb.WriteByte(':')
		sb.WriteString(string(q))
	}

	return sb.String()
}

// Layer is the set of gate applications at one timestep. Qubits not touched
// by any gate are implicitly idle. An empty layer is a full idle timestep.
type Layer []GateApplication

// Qubits returns the subset of qubits touched by any gate in the layer.
func (l Layer) Qubits() Subset {
	s := NewSubset()
	for _, g := range l {
		s.Add(g.Qubits...)
	}

	return s
}

// Circuit is an ordered sequence of layers over a fixed, ordered set of qubit
// lines. Circuits are immutable once constructed; the content-addressed ID is
// computed at construction time.
type Circuit struct {
	lines  []Label
	layers []Layer
	id     ID
}

// New validates and constructs a Circuit. It fails if a gate references a
// qubit outside lines, or if a qubit appears in more than one gate within a
// single layer.
func New(lines []Label, layers []Layer) (*Circuit, error) {
	lineSet := NewSubset(lines...)
	if lineSet.Length() != len(lines) {
		return nil, fmt.Errorf("duplicate line label in %v", lines)
	}

	for i, layer := range layers {
		used := NewSubset()
		for _, g := range layer {
			for _, q := range g.Qubits {
				if !lineSet.Contains(q) {
					return nil, fmt.Errorf("layer %d: gate %s references qubit %s outside lines %v", i, g, q, lines)
				}
				if used.Contains(q) {
					return nil, fmt.Errorf("layer %d: qubit %s appears in more than one gate", i, q)
				}
				used.Add(q)
			}
		}
	}

	c := &Circuit{
		lines:  append([]Label(nil), lines...),
		layers: copyLayers(layers),
	}
	c.id = contentID(c)

	return c, nil
}

// MustNew is New that panics on error, for statically known-good circuits.
func MustNew(lines []Label, layers []Layer) *Circuit {
	c, err := New(lines, layers)
	if err != nil {
		panic(err)
	}

	return c
}

// ID returns the content-addressed identity of the circuit. Two circuits
// with identical lines and layers have equal IDs regardless of where they
// were sampled.
func (c *Circuit) ID() ID { return c.id }

// Lines returns a copy of the ordered qubit lines.
func (c *Circuit) Lines() []Label {
	return append([]Label(nil), c.lines...)
}

// LineSubset returns the circuit's qubit lines as a Subset.
func (c *Circuit) LineSubset() Subset {
	return NewSubset(c.lines...)
}

// NumLayers returns the number of layers.
func (c *Circuit) NumLayers() int { return len(c.layers) }

// Layer returns a copy of the i-th layer.
func (c *Circuit) Layer(i int) Layer {
	return append(Layer(nil), c.layers[i]...)
}

// Layers returns a copy of all layers.
func (c *Circuit) Layers() []Layer {
	return copyLayers(c.layers)
}

// Restrict returns the circuit restricted to the given lines: only gates
// acting entirely within sub are kept, and the line order is the given one.
// Gates straddling the boundary are an error.
func (c *Circuit) Restrict(lines []Label) (*Circuit, error) {
	sub := NewSubset(lines...)
	restricted := make([]Layer, len(c.layers))
	for i, layer := range c.layers {
		var rl Layer
		for _, g := range layer {
			in, out := 0, 0
			for _, q := range g.Qubits {
				if sub.Contains(q) {
					in++
				} else {
					out++
				}
			}
			switch {
			case in > 0 && out > 0:
				return nil, fmt.Errorf("layer %d: gate %s straddles restriction boundary %s", i, g, sub)
			case in > 0:
				rl = append(rl, g)
			}
		}
		restricted[i] = rl
	}

	return New(lines, restricted)
}

// TrimIdle returns the circuit with trailing fully-idle layers removed.
// Used when comparing a merged circuit's restriction against the original
// child circuit, which may be shorter than its padded siblings.
func (c *Circuit) TrimIdle() *Circuit {
	end := len(c.layers)
	for end > 0 && len(c.layers[end-1]) == 0 {
		end--
	}
	if end == len(c.layers) {
		return c
	}

	return MustNew(c.lines, c.layers[:end])
}

// Equal reports whether two circuits have identical content.
func (c *Circuit) Equal(other *Circuit) bool {
	return other != nil && c.id == other.id
}

func copyLayers(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[i] = append(Layer(nil), l...)
	}

	return out
}
