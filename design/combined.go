package design

import (
	"slices"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// Keyed pairs a combined design's child with its unique string key.
type Keyed struct {
	Key    string
	Design Design
}

// Combined bundles arbitrarily keyed, logically independent child designs
// behind a single deduplicated circuit pool for joint execution. No
// disjointness or depth compatibility is required of children.
type Combined struct {
	order    []string
	children map[string]Design
	pool     CircuitSet
}

var _ Design = &Combined{}

// NewCombined builds a combined design from keyed children, preserving the
// given order. Duplicate keys fail with a ConfigurationError.
func NewCombined(children []Keyed) (*Combined, error) {
	if len(children) == 0 {
		return nil, newConfigErrf("combined design needs at least one child")
	}

	byKey := make(map[string]Design, len(children))
	order := make([]string, 0, len(children))
	pool := NewPool()
	for _, kc := range children {
		if kc.Key == "" {
			return nil, newConfigErrf("combined child has empty key")
		}
		if _, ok := byKey[kc.Key]; ok {
			return nil, newConfigErrf("combined design has duplicate key %q", kc.Key)
		}
		byKey[kc.Key] = kc.Design
		order = append(order, kc.Key)
		for _, sc := range kc.Design.Circuits() {
			pool.Add(sc.Circuit)
		}
	}

	return &Combined{
		order:    order,
		children: byKey,
		pool:     pool.Seal(),
	}, nil
}

// NewCombinedFromMap builds a combined design from a key-to-child map, with
// children ordered by sorted key.
func NewCombinedFromMap(children map[string]Design) (*Combined, error) {
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	keyed := make([]Keyed, len(keys))
	for i, k := range keys {
		keyed[i] = Keyed{Key: k, Design: children[k]}
	}

	return NewCombined(keyed)
}

// Keys returns the child keys in composition order.
func (c *Combined) Keys() []string {
	return append([]string(nil), c.order...)
}

// Child returns the child design under the given key.
func (c *Combined) Child(key string) (Design, bool) {
	d, ok := c.children[key]

	return d, ok
}

// Pool returns the sealed, deduplicated circuit pool the execution and
// persistence boundaries consume.
func (c *Combined) Pool() CircuitSet { return c.pool }

// QubitSubset returns the union of all children's qubit subsets.
func (c *Combined) QubitSubset() circuit.Subset {
	union := circuit.NewSubset()
	for _, key := range c.order {
		union = union.Union(c.children[key].QubitSubset())
	}

	return union
}

// Circuits concatenates the children's circuit lists in key order. Identical
// circuit content owned by two children appears twice here; Pool holds each
// content exactly once.
func (c *Combined) Circuits() []SampledCircuit {
	var out []SampledCircuit
	for _, key := range c.order {
		out = append(out, c.children[key].Circuits()...)
	}

	return out
}

// NumCircuits returns the total child circuit count, duplicates included.
func (c *Combined) NumCircuits() int {
	total := 0
	for _, child := range c.children {
		total += child.NumCircuits()
	}

	return total
}
