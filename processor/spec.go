// Package processor describes a quantum processor at the level samplers need:
// its qubit labels, its native gate set, and the qubit tuples each gate may
// act on.
package processor

import (
	"slices"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// Gate declares a native gate by name and arity (number of qubits it acts on).
type Gate struct {
	Name  string
	Arity int
}

// Edge is one qubit tuple a multi-qubit gate may act on.
type Edge struct {
	Gate   string
	Qubits []circuit.Label
}

// Spec is the static, read-only description of a processor: available qubits,
// native gates, and per-gate connectivity. Constructed once via New.
type Spec struct {
	qubits       []circuit.Label
	qubitSet     circuit.Subset
	gates        map[string]Gate
	availability map[string][][]circuit.Label
	inverses     map[string]string
}

// Option configures a Spec under construction.
type Option func(*specConfig)

type specConfig struct {
	availability map[string][][]circuit.Label
	inverses     map[string]string
}

// WithAvailability supplies the qubit tuples each gate may act on. Gates of
// arity > 1 require an entry; single-qubit gates default to every qubit.
func WithAvailability(availability map[string][][]circuit.Label) Option {
	return func(c *specConfig) { c.availability = availability }
}

// WithInverses adds gate inverse pairs on top of the built-in defaults.
// Keys and values are gate names; self-inverse gates map to themselves.
func WithInverses(inverses map[string]string) Option {
	return func(c *specConfig) {
		for k, v := range inverses {
			c.inverses[k] = v
		}
	}
}

// defaultInverses covers the standard native set used by the samplers.
var defaultInverses = map[string]string{
	"Gi":      "Gi",
	"Gxpi":    "Gxpi",
	"Gypi":    "Gypi",
	"Gzpi":    "Gzpi",
	"Gh":      "Gh",
	"Gxpi2":   "Gxmpi2",
	"Gxmpi2":  "Gxpi2",
	"Gypi2":   "Gympi2",
	"Gympi2":  "Gypi2",
	"Gzpi2":   "Gzmpi2",
	"Gzmpi2":  "Gzpi2",
	"Gp":      "Gpdag",
	"Gpdag":   "Gp",
	"Gcphase": "Gcphase",
	"Gcnot":   "Gcnot",
	"Gcz":     "Gcz",
	"Gswap":   "Gswap",
}

// New builds a Spec from the declared qubits and gates. It fails with a
// ConfigurationError if an availability entry references an undeclared qubit
// or gate, or if a multi-qubit gate has no availability entry.
func New(qubits []circuit.Label, gates []Gate, opts ...Option) (*Spec, error) {
	cfg := specConfig{inverses: make(map[string]string)}
	for k, v := range defaultInverses {
		cfg.inverses[k] = v
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	qubitSet := circuit.NewSubset(qubits...)
	if qubitSet.Length() != len(qubits) {
		return nil, newConfigErrf("duplicate qubit label in %v", qubits)
	}

	gateMap := make(map[string]Gate, len(gates))
	for _, g := range gates {
		if g.Arity < 1 {
			return nil, newConfigErrf("gate %s: arity must be >= 1, got %d", g.Name, g.Arity)
		}
		if _, ok := gateMap[g.Name]; ok {
			return nil, newConfigErrf("gate %s declared twice", g.Name)
		}
		gateMap[g.Name] = g
	}

	for name, tuples := range cfg.availability {
		g, ok := gateMap[name]
		if !ok {
			return nil, newConfigErrf("availability references undeclared gate %s", name)
		}
		for _, tuple := range tuples {
			if len(tuple) != g.Arity {
				return nil, newConfigErrf("gate %s: availability tuple %v does not match arity %d", name, tuple, g.Arity)
			}
			seen := circuit.NewSubset()
			for _, q := range tuple {
				if !qubitSet.Contains(q) {
					return nil, newConfigErrf("gate %s: availability references unknown qubit %s", name, q)
				}
				if seen.Contains(q) {
					return nil, newConfigErrf("gate %s: availability tuple %v repeats qubit %s", name, tuple, q)
				}
				seen.Add(q)
			}
		}
	}

	availability := make(map[string][][]circuit.Label, len(gateMap))
	for name, g := range gateMap {
		if tuples, ok := cfg.availability[name]; ok {
			availability[name] = copyTuples(tuples)
			continue
		}
		if g.Arity > 1 {
			return nil, newConfigErrf("gate %s acts on %d qubits but has no availability", name, g.Arity)
		}
		all := make([][]circuit.Label, len(qubits))
		for i, q := range qubits {
			all[i] = []circuit.Label{q}
		}
		availability[name] = all
	}

	return &Spec{
		qubits:       append([]circuit.Label(nil), qubits...),
		qubitSet:     qubitSet,
		gates:        gateMap,
		availability: availability,
		inverses:     cfg.inverses,
	}, nil
}

// Qubits returns the declared qubit labels in declaration order.
func (s *Spec) Qubits() []circuit.Label {
	return append([]circuit.Label(nil), s.qubits...)
}

// QubitSubset returns the declared qubits as a Subset.
func (s *Spec) QubitSubset() circuit.Subset { return s.qubitSet }

// NumQubits returns the number of declared qubits.
func (s *Spec) NumQubits() int { return len(s.qubits) }

// HasGate reports whether the named gate is declared.
func (s *Spec) HasGate(name string) bool {
	_, ok := s.gates[name]

	return ok
}

// Arity returns the arity of the named gate, or 0 if undeclared.
func (s *Spec) Arity(name string) int {
	return s.gates[name].Arity
}

// GateNames returns the declared gate names, sorted.
func (s *Spec) GateNames() []string {
	names := make([]string, 0, len(s.gates))
	for name := range s.gates {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// OneQubitGates returns the sorted names of the declared single-qubit gates.
func (s *Spec) OneQubitGates() []string {
	var names []string
	for name, g := range s.gates {
		if g.Arity == 1 {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	return names
}

// Availability returns a copy of the qubit tuples the named gate may act on.
func (s *Spec) Availability(name string) [][]circuit.Label {
	return copyTuples(s.availability[name])
}

// GatesOn returns, per gate, the availability tuples that touch only qubits
// in sub. Used by samplers to respect connectivity.
func (s *Spec) GatesOn(sub circuit.Subset) map[string][][]circuit.Label {
	out := make(map[string][][]circuit.Label)
	for name, tuples := range s.availability {
		var within [][]circuit.Label
		for _, tuple := range tuples {
			if tupleWithin(tuple, sub) {
				within = append(within, append([]circuit.Label(nil), tuple...))
			}
		}
		if len(within) > 0 {
			out[name] = within
		}
	}

	return out
}

// EdgesWithin returns every multi-qubit availability tuple lying entirely
// inside sub, in deterministic order.
func (s *Spec) EdgesWithin(sub circuit.Subset) []Edge {
	var edges []Edge
	for _, name := range s.GateNames() {
		if s.gates[name].Arity < 2 {
			continue
		}
		for _, tuple := range s.availability[name] {
			if tupleWithin(tuple, sub) {
				edges = append(edges, Edge{Gate: name, Qubits: append([]circuit.Label(nil), tuple...)})
			}
		}
	}

	return edges
}

// CanApply reports whether the named gate may act on the exact qubit tuple.
func (s *Spec) CanApply(name string, qubits ...circuit.Label) bool {
	for _, tuple := range s.availability[name] {
		if slices.Equal(tuple, qubits) {
			return true
		}
	}

	return false
}

// Inverse returns the name of the gate inverting the named gate, if known.
func (s *Spec) Inverse(name string) (string, bool) {
	inv, ok := s.inverses[name]
	if ok && !s.HasGate(inv) {
		return "", false
	}

	return inv, ok
}

func tupleWithin(tuple []circuit.Label, sub circuit.Subset) bool {
	for _, q := range tuple {
		if !sub.Contains(q) {
			return false
		}
	}

	return true
}

func copyTuples(tuples [][]circuit.Label) [][]circuit.Label {
	out := make([][]circuit.Label, len(tuples))
	for i, t := range tuples {
		out[i] = append([]circuit.Label(nil), t...)
	}

	return out
}
