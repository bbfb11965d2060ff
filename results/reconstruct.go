package results

import (
	"fmt"
	"math"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/dataset"
	"github.com/orqa-labs/characterization-framework/design"
	"github.com/orqa-labs/characterization-framework/pkg/logger"
)

// MissingDataError reports that reconstruction was requested before every
// circuit in the pool had outcome counts attached. It names the first
// circuit lacking data and the key path of its owning node.
type MissingDataError struct {
	CircuitID circuit.ID
	Path      KeyPath
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing outcome data for circuit %s (owner: %s)", e.CircuitID, e.Path)
}

// Option configures reconstruction.
type Option func(*reconstructConfig)

type reconstructConfig struct {
	lggr     logger.Logger
	registry *Registry
}

// WithLogger injects the logger used during reconstruction.
func WithLogger(lggr logger.Logger) Option {
	return func(c *reconstructConfig) { c.lggr = lggr }
}

// WithRegistry overrides the protocol registry resolving leaf metadata.
func WithRegistry(r *Registry) Option {
	return func(c *reconstructConfig) { c.registry = r }
}

// Reconstruct walks the design tree and builds the isomorphic results tree
// from collected outcome data. Every circuit reachable from the design must
// have counts in data; otherwise a MissingDataError is returned. Leaf
// protocol fits run with whichever protocols the leaves recorded at
// construction time.
func Reconstruct(d design.Design, data dataset.Dataset, opts ...Option) (*Node, error) {
	cfg := reconstructConfig{lggr: logger.Nop(), registry: DefaultRegistry()}
	for _, opt := range opts {
		opt(&cfg)
	}

	node, err := reconstructNode(d, data, KeyPath{}, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.lggr.Debugw("Reconstructed results tree", "circuits", d.NumCircuits())

	return node, nil
}

func reconstructNode(d design.Design, data dataset.Dataset, path KeyPath, cfg *reconstructConfig) (*Node, error) {
	switch t := d.(type) {
	case *design.Combined:
		return reconstructCombined(t, data, path, cfg)
	case *design.Simultaneous:
		return reconstructSimultaneous(t, data, path, cfg)
	case *design.Leaf:
		return reconstructLeaf(t, data, path, cfg)
	default:
		return nil, fmt.Errorf("results: unknown design node %T at %s", d, path)
	}
}

func reconstructCombined(d *design.Combined, data dataset.Dataset, path KeyPath, cfg *reconstructConfig) (*Node, error) {
	node := &Node{
		kind:           KindCombined,
		stringChildren: make(map[string]*Node),
	}
	for _, key := range d.Keys() {
		child, _ := d.Child(key)
		cn, err := reconstructNode(child, data, path.child(key), cfg)
		if err != nil {
			return nil, err
		}
		node.stringOrder = append(node.stringOrder, key)
		node.stringChildren[key] = cn
	}

	return node, nil
}

// reconstructSimultaneous derives each child's outcome data by marginalizing
// the merged circuits' counts onto the child's qubit lines, then recurses
// with a synthetic dataset keyed by the child's own circuit IDs.
func reconstructSimultaneous(d *design.Simultaneous, data dataset.Dataset, path KeyPath, cfg *reconstructConfig) (*Node, error) {
	merged := d.Circuits()
	for _, sc := range merged {
		if !data.Has(sc.Circuit.ID()) {
			return nil, &MissingDataError{CircuitID: sc.Circuit.ID(), Path: path}
		}
	}

	node := &Node{kind: KindSimultaneous}
	for i, child := range d.Children() {
		key := d.ChildKeys()[i]
		childCircuits := child.Circuits()

		// Content addressing can collapse several composition slots onto one
		// executed circuit (every depth-0 slot merges to the empty circuit),
		// so each (merged, child) pair contributes its shots exactly once.
		// Distinct merged circuits still sum into a shared child circuit:
		// those are separate executions of the same child content.
		type contribution struct{ merged, child circuit.ID }
		seen := make(map[contribution]struct{}, len(merged))

		childData := dataset.NewMemoryDataset()
		for idx, sc := range merged {
			childC := childCircuits[idx].Circuit
			pair := contribution{merged: sc.Circuit.ID(), child: childC.ID()}
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}

			counts, _ := data.Counts(sc.Circuit.ID())
			marginal, err := dataset.Marginalize(counts, sc.Circuit.Lines(), childC.Lines())
			if err != nil {
				return nil, fmt.Errorf("results at %s: %w", path.child(key.String()), err)
			}
			childData.Upsert(childC.ID(), marginal)
		}

		cn, err := reconstructNode(child, childData.Seal(), path.child(key.String()), cfg)
		if err != nil {
			return nil, err
		}
		node.subsetKeys = append(node.subsetKeys, key)
		node.subsetChildren = append(node.subsetChildren, cn)
	}

	return node, nil
}

func reconstructLeaf(l *design.Leaf, data dataset.Dataset, path KeyPath, cfg *reconstructConfig) (*Node, error) {
	depths := l.Depths()
	n := len(l.Lines())
	baseline := 1 / math.Pow(2, float64(n))

	perDepth := make([]DepthResults, len(depths))
	for di, depth := range depths {
		sampled := l.AtDepth(di)
		dr := DepthResults{Depth: depth, Circuits: make([]CircuitResult, len(sampled))}
		sum := 0.0
		for ci, sc := range sampled {
			id := sc.Circuit.ID()
			counts, ok := data.Counts(id)
			if !ok {
				return nil, &MissingDataError{CircuitID: id, Path: path}
			}
			prob := 0.0
			if total := counts.Total(); total > 0 {
				prob = float64(counts[sc.Target]) / float64(total)
			}
			dr.Circuits[ci] = CircuitResult{
				ID:                 id,
				Target:             sc.Target,
				Counts:             counts,
				SuccessProbability: prob,
			}
			sum += prob
		}
		dr.SuccessProbability = sum / float64(len(sampled))
		dr.Polarization = (dr.SuccessProbability - baseline) / (1 - baseline)
		perDepth[di] = dr
	}

	leaf := &LeafResults{
		Lines:    l.Lines(),
		Protocol: l.Protocol().Name,
		PerDepth: perDepth,
		Fits:     make(map[string]FitResult),
	}

	proto, err := cfg.registry.Retrieve(l.Protocol().Name)
	if err != nil {
		return nil, fmt.Errorf("results at %s: %w", path, err)
	}
	probs := make([]float64, len(perDepth))
	for i, dr := range perDepth {
		probs[i] = dr.SuccessProbability
	}
	fit, err := proto.Fit(LeafData{
		NumQubits:            n,
		Depths:               depths,
		SuccessProbabilities: probs,
	}, l.Protocol().Params)
	if err != nil {
		return nil, fmt.Errorf("results at %s: fitting %s: %w", path, l.Protocol().Name, err)
	}
	leaf.Fits[fit.Protocol] = fit

	return &Node{kind: KindLeaf, leaf: leaf}, nil
}
