// Package config loads benchmarking suite definitions from YAML files and
// materializes them into processor specs and experiment designs.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/clifford"
	"github.com/orqa-labs/characterization-framework/design"
	"github.com/orqa-labs/characterization-framework/pkg/logger"
	"github.com/orqa-labs/characterization-framework/processor"
	"github.com/orqa-labs/characterization-framework/sampler"
)

// Config is a declarative benchmarking suite: one processor plus a set of
// keyed designs combined into a single experiment.
type Config struct {
	Processor ProcessorConfig `mapstructure:"processor"`
	Shots     int             `mapstructure:"shots"`
	Designs   []DesignConfig  `mapstructure:"designs"`
}

// ProcessorConfig declares the device model. Availability is a list of
// records rather than a map keyed by gate name: viper lowercases map keys,
// which would mangle the case-sensitive gate names.
type ProcessorConfig struct {
	Qubits       []string             `mapstructure:"qubits"`
	Gates        []GateConfig         `mapstructure:"gates"`
	Availability []AvailabilityConfig `mapstructure:"availability"`
}

// AvailabilityConfig restricts one gate to an explicit list of qubit tuples.
type AvailabilityConfig struct {
	Gate   string     `mapstructure:"gate"`
	Tuples [][]string `mapstructure:"tuples"`
}

// GateConfig declares one native gate.
type GateConfig struct {
	Name  string `mapstructure:"name"`
	Arity int    `mapstructure:"arity"`
}

// DesignConfig declares one keyed design. When Simultaneous is set the
// entry is a simultaneous group of leaves and the leaf fields at this
// level are ignored.
type DesignConfig struct {
	Key          string         `mapstructure:"key"`
	Simultaneous []DesignConfig `mapstructure:"simultaneous"`

	Sampler             string   `mapstructure:"sampler"`
	Subset              []string `mapstructure:"subset"`
	Depths              []int    `mapstructure:"depths"`
	K                   int      `mapstructure:"k"`
	Seed                uint64   `mapstructure:"seed"`
	TwoQubitGateDensity float64  `mapstructure:"twoQubitGateDensity"`
	RandomizeOutput     bool     `mapstructure:"randomizeOutput"`
	CompileAlgorithm    string   `mapstructure:"compileAlgorithm"`
	CompileIterations   int      `mapstructure:"compileIterations"`
}

// Load reads a suite definition from a YAML file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Processor.Qubits) == 0 {
		return fmt.Errorf("config: processor declares no qubits")
	}
	if len(c.Designs) == 0 {
		return fmt.Errorf("config: no designs declared")
	}
	seen := make(map[string]struct{}, len(c.Designs))
	for _, d := range c.Designs {
		if d.Key == "" {
			return fmt.Errorf("config: design with empty key")
		}
		if _, dup := seen[d.Key]; dup {
			return fmt.Errorf("config: duplicate design key %q", d.Key)
		}
		seen[d.Key] = struct{}{}
	}

	return nil
}

// BuildProcessor materializes the declared device model.
func (c *Config) BuildProcessor() (*processor.Spec, error) {
	qubits := toLabels(c.Processor.Qubits)
	gates := make([]processor.Gate, 0, len(c.Processor.Gates))
	for _, g := range c.Processor.Gates {
		gates = append(gates, processor.Gate{Name: g.Name, Arity: g.Arity})
	}

	var opts []processor.Option
	if len(c.Processor.Availability) > 0 {
		availability := make(map[string][][]circuit.Label, len(c.Processor.Availability))
		for _, av := range c.Processor.Availability {
			converted := make([][]circuit.Label, 0, len(av.Tuples))
			for _, tuple := range av.Tuples {
				converted = append(converted, toLabels(tuple))
			}
			availability[av.Gate] = converted
		}
		opts = append(opts, processor.WithAvailability(availability))
	}

	return processor.New(qubits, gates, opts...)
}

// Build materializes the full suite: the processor spec and the combined
// design holding every declared entry under its key.
func (c *Config) Build(lggr logger.Logger) (*processor.Spec, *design.Combined, error) {
	spec, err := c.BuildProcessor()
	if err != nil {
		return nil, nil, err
	}

	children := make([]design.Keyed, 0, len(c.Designs))
	for _, dc := range c.Designs {
		child, err := buildDesign(spec, dc, lggr)
		if err != nil {
			return nil, nil, fmt.Errorf("config: design %q: %w", dc.Key, err)
		}
		children = append(children, design.Keyed{Key: dc.Key, Design: child})
	}

	combined, err := design.NewCombined(children)
	if err != nil {
		return nil, nil, err
	}

	return spec, combined, nil
}

func buildDesign(spec *processor.Spec, dc DesignConfig, lggr logger.Logger) (design.Design, error) {
	if len(dc.Simultaneous) > 0 {
		leaves := make([]design.Design, 0, len(dc.Simultaneous))
		for i, cc := range dc.Simultaneous {
			if len(cc.Simultaneous) > 0 {
				return nil, fmt.Errorf("simultaneous entry %d: nesting is not supported", i)
			}
			leaf, err := buildLeaf(spec, cc, lggr)
			if err != nil {
				return nil, fmt.Errorf("simultaneous entry %d: %w", i, err)
			}
			leaves = append(leaves, leaf)
		}

		return design.NewSimultaneous(leaves)
	}

	return buildLeaf(spec, dc, lggr)
}

func buildLeaf(spec *processor.Spec, dc DesignConfig, lggr logger.Logger) (*design.Leaf, error) {
	kind, err := samplerKind(dc.Sampler)
	if err != nil {
		return nil, err
	}
	algorithm, err := compileAlgorithm(dc.CompileAlgorithm)
	if err != nil {
		return nil, err
	}

	params := sampler.Params{
		TwoQubitGateDensity: dc.TwoQubitGateDensity,
		RandomizeOutput:     dc.RandomizeOutput,
		CompileAlgorithm:    algorithm,
		CompileIterations:   dc.CompileIterations,
	}

	return design.NewLeaf(
		spec, dc.Depths, dc.K, toLabels(dc.Subset), kind, params,
		design.WithSeed(dc.Seed), design.WithLogger(lggr),
	)
}

func samplerKind(name string) (sampler.Kind, error) {
	switch sampler.Kind(name) {
	case sampler.KindMirror, sampler.KindCliffordRB:
		return sampler.Kind(name), nil
	case "":
		return sampler.KindMirror, nil
	default:
		return "", fmt.Errorf("unknown sampler %q", name)
	}
}

func compileAlgorithm(name string) (clifford.Algorithm, error) {
	switch name {
	case "", "rogge":
		return clifford.AlgROGGE, nil
	case "ogge":
		return clifford.AlgOGGE, nil
	default:
		return "", fmt.Errorf("unknown compile algorithm %q", name)
	}
}

func toLabels(names []string) []circuit.Label {
	labels := make([]circuit.Label, 0, len(names))
	for _, name := range names {
		labels = append(labels, circuit.Label(name))
	}

	return labels
}
