package design

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/pkg/logger"
	"github.com/orqa-labs/characterization-framework/processor"
	"github.com/orqa-labs/characterization-framework/sampler"
)

// Leaf holds, for one (processor, qubit subset, sampler) combination, k
// independently sampled circuits at each requested depth, plus the metadata
// naming the analysis protocol that should later run on the data.
type Leaf struct {
	spec     *processor.Spec
	depths   []int
	k        int
	subset   []circuit.Label
	kind     sampler.Kind
	params   sampler.Params
	seed     uint64
	byDepth  [][]SampledCircuit
	protocol ProtocolMetadata
}

var _ Design = &Leaf{}

// LeafOption configures leaf construction.
type LeafOption func(*leafConfig)

type leafConfig struct {
	lggr     logger.Logger
	seed     uint64
	workers  int
	protocol *ProtocolMetadata
}

// WithLogger injects the logger used during generation.
func WithLogger(lggr logger.Logger) LeafOption {
	return func(c *leafConfig) { c.lggr = lggr }
}

// WithSeed sets the root seed the per-circuit seeds derive from. Two leaves
// built with identical arguments and seed hold bit-identical circuits.
func WithSeed(seed uint64) LeafOption {
	return func(c *leafConfig) { c.seed = seed }
}

// WithWorkers caps the number of parallel sampling workers. Defaults to
// GOMAXPROCS; generation order and output are identical regardless.
func WithWorkers(n int) LeafOption {
	return func(c *leafConfig) { c.workers = n }
}

// WithProtocol overrides the default analysis protocol recorded on the leaf.
func WithProtocol(meta ProtocolMetadata) LeafOption {
	return func(c *leafConfig) { c.protocol = &meta }
}

// NewLeaf samples k circuits at every depth and freezes them into a leaf
// design. Sampling runs in parallel; each (depth, repetition) task derives
// its own seed from the root seed, so the result does not depend on
// scheduling. A sampling failure aborts construction with the failing depth
// and repetition named.
func NewLeaf(
	spec *processor.Spec,
	depths []int,
	k int,
	subset []circuit.Label,
	kind sampler.Kind,
	params sampler.Params,
	opts ...LeafOption,
) (*Leaf, error) {
	cfg := leafConfig{lggr: logger.Nop(), workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(depths) == 0 {
		return nil, newConfigErrf("leaf on %v: no depths given", subset)
	}
	if k < 1 {
		return nil, newConfigErrf("leaf on %v: k must be >= 1, got %d", subset, k)
	}

	byDepth := make([][]SampledCircuit, len(depths))
	for i := range byDepth {
		byDepth[i] = make([]SampledCircuit, k)
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.workers)
	for di, depth := range depths {
		for rep := range k {
			g.Go(func() error {
				res, err := sampler.Sample(spec, depth, subset, kind, params, deriveSeed(cfg.seed, di, rep))
				if err != nil {
					return fmt.Errorf("depth %d repetition %d: %w", depth, rep, err)
				}
				byDepth[di][rep] = SampledCircuit{
					Circuit: res.Circuit,
					Target:  res.Target,
					Aux:     res.Aux,
				}

				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	protocol := defaultProtocol(kind, params)
	if cfg.protocol != nil {
		protocol = *cfg.protocol
	}

	cfg.lggr.Debugw("Sampled leaf design",
		"subset", fmt.Sprint(subset), "kind", string(kind), "depths", depths, "k", k, "seed", cfg.seed)

	return &Leaf{
		spec:     spec,
		depths:   append([]int(nil), depths...),
		k:        k,
		subset:   append([]circuit.Label(nil), subset...),
		kind:     kind,
		params:   params,
		seed:     cfg.seed,
		byDepth:  byDepth,
		protocol: protocol,
	}, nil
}

// defaultProtocol records the RB decay protocol with the generation-time
// conventions analysis needs, keyed by sampler kind.
func defaultProtocol(kind sampler.Kind, params sampler.Params) ProtocolMetadata {
	p := ProtocolMetadata{
		Name:   "rb-decay",
		Params: map[string]string{"sampler": string(kind)},
	}
	if kind == sampler.KindCliffordRB && params.RandomizeOutput {
		p.Params["randomized-output"] = "true"
	}

	return p
}

// deriveSeed mixes the root seed with the task position through a splitmix64
// finalizer, giving every (depth index, repetition) pair an independent seed.
func deriveSeed(root uint64, depthIndex, rep int) uint64 {
	x := root + 0x9e3779b97f4a7c15*uint64(depthIndex+1) + 0xbf58476d1ce4e5b9*uint64(rep+1)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31

	return x
}

// Depths returns the ordered list of sampled depths.
func (l *Leaf) Depths() []int {
	return append([]int(nil), l.depths...)
}

// K returns the number of circuits sampled per depth.
func (l *Leaf) K() int { return l.k }

// Kind returns the sampler kind the leaf was built with.
func (l *Leaf) Kind() sampler.Kind { return l.kind }

// Params returns the sampler parameters the leaf was built with.
func (l *Leaf) Params() sampler.Params { return l.params }

// Seed returns the root seed the leaf was built with.
func (l *Leaf) Seed() uint64 { return l.seed }

// Spec returns the processor spec the leaf was sampled against.
func (l *Leaf) Spec() *processor.Spec { return l.spec }

// Protocol returns the analysis protocol metadata recorded on the leaf.
func (l *Leaf) Protocol() ProtocolMetadata { return l.protocol }

// Lines returns the leaf's qubit lines in sampling order.
func (l *Leaf) Lines() []circuit.Label {
	return append([]circuit.Label(nil), l.subset...)
}

// QubitSubset returns the leaf's qubit subset.
func (l *Leaf) QubitSubset() circuit.Subset {
	return circuit.NewSubset(l.subset...)
}

// AtDepth returns the sampled circuits for the i-th depth.
func (l *Leaf) AtDepth(i int) []SampledCircuit {
	return append([]SampledCircuit(nil), l.byDepth[i]...)
}

// Circuits returns the flattened circuit list in depth-major order.
func (l *Leaf) Circuits() []SampledCircuit {
	out := make([]SampledCircuit, 0, l.NumCircuits())
	for _, scs := range l.byDepth {
		out = append(out, scs...)
	}

	return out
}

// NumCircuits returns the total circuit count.
func (l *Leaf) NumCircuits() int { return len(l.depths) * l.k }
