// Package template serializes experiment designs to a YAML interchange
// format. A template carries the deduplicated circuit pool plus per-node
// metadata; a collaborator executes the circuits and returns the same
// document with the counts fields populated.
package template

import (
	"fmt"
	"sort"
	"time"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/dataset"
	"github.com/orqa-labs/characterization-framework/design"
)

// Template is the document root. Circuits are listed once each; node
// records reference them by content ID.
type Template struct {
	ID       string          `yaml:"id"`
	Created  time.Time       `yaml:"created"`
	Nodes    []NodeRecord    `yaml:"nodes"`
	Circuits []CircuitRecord `yaml:"circuits"`
}

// NodeRecord preserves the metadata of one node of the design tree. Only
// executable nodes, meaning the root or a direct child of a combined root,
// reference circuits.
type NodeRecord struct {
	Path     string            `yaml:"path"`
	Kind     string            `yaml:"kind"`
	Protocol string            `yaml:"protocol,omitempty"`
	Params   map[string]string `yaml:"params,omitempty"`
	Subset   []string          `yaml:"subset,flow"`
	Circuits []string          `yaml:"circuits,omitempty"`
}

// CircuitRecord is one pooled circuit. Counts is empty on the outbound
// document and populated by the executing party, keyed by outcome
// bitstring.
type CircuitRecord struct {
	ID      string         `yaml:"id"`
	Text    string         `yaml:"text"`
	Targets []string       `yaml:"targets,flow,omitempty"`
	Counts  map[string]int `yaml:"counts,omitempty"`
}

// Write builds the outbound template for a design.
func Write(d design.Design) (*Template, error) {
	tpl := &Template{
		ID:      ksuid.New().String(),
		Created: time.Now().UTC(),
	}

	pool := design.BuildPool(d)
	targets := make(map[circuit.ID]map[string]struct{})
	collectTargets(d, targets)

	for _, id := range pool.IDs() {
		c, _ := pool.Get(id)
		rec := CircuitRecord{ID: string(id), Text: c.String()}
		for target := range targets[id] {
			rec.Targets = append(rec.Targets, target)
		}
		sort.Strings(rec.Targets)
		tpl.Circuits = append(tpl.Circuits, rec)
	}

	if err := appendNodes(tpl, d, "", true); err != nil {
		return nil, err
	}

	return tpl, nil
}

func collectTargets(d design.Design, into map[circuit.ID]map[string]struct{}) {
	for _, sc := range d.Circuits() {
		id := sc.Circuit.ID()
		if into[id] == nil {
			into[id] = make(map[string]struct{})
		}
		into[id][sc.Target] = struct{}{}
	}
}

func appendNodes(tpl *Template, d design.Design, path string, executable bool) error {
	switch t := d.(type) {
	case *design.Leaf:
		meta := t.Protocol()

		rec := NodeRecord{
			Path:     rootPath(path),
			Kind:     "leaf",
			Protocol: meta.Name,
			Params:   meta.Params,
			Subset:   labelStrings(t.QubitSubset()),
		}
		if executable {
			for _, sc := range t.Circuits() {
				rec.Circuits = append(rec.Circuits, string(sc.Circuit.ID()))
			}
		}
		tpl.Nodes = append(tpl.Nodes, rec)

	case *design.Simultaneous:
		rec := NodeRecord{
			Path:   rootPath(path),
			Kind:   "simultaneous",
			Subset: labelStrings(t.QubitSubset()),
		}
		if executable {
			for _, sc := range t.Circuits() {
				rec.Circuits = append(rec.Circuits, string(sc.Circuit.ID()))
			}
		}
		tpl.Nodes = append(tpl.Nodes, rec)

		for _, key := range t.ChildKeys() {
			child, _ := t.Child(key)
			if err := appendNodes(tpl, child, childPath(path, key.String()), false); err != nil {
				return err
			}
		}

	case *design.Combined:
		tpl.Nodes = append(tpl.Nodes, NodeRecord{
			Path:   rootPath(path),
			Kind:   "combined",
			Subset: labelStrings(t.QubitSubset()),
		})
		for _, key := range t.Keys() {
			child, _ := t.Child(key)
			if err := appendNodes(tpl, child, childPath(path, key), executable); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("template: unsupported design type %T", d)
	}

	return nil
}

func labelStrings(sub circuit.Subset) []string {
	labels := sub.List()
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}

	return out
}

func rootPath(path string) string {
	if path == "" {
		return "(root)"
	}

	return path
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "/" + key
}

// Marshal renders the template as YAML.
func (t *Template) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("template: marshal: %w", err)
	}

	return data, nil
}

// Read parses a template document. Outcome keys that a loose YAML writer
// left unquoted are coerced back to bitstrings before decoding.
func Read(data []byte) (*Template, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("template: parse: %w", err)
	}
	coerceOutcomeKeys(&doc)

	var tpl Template
	if err := doc.Decode(&tpl); err != nil {
		return nil, fmt.Errorf("template: decode: %w", err)
	}
	for i := range tpl.Circuits {
		rec := &tpl.Circuits[i]
		c, err := circuit.Parse(rec.Text)
		if err != nil {
			return nil, fmt.Errorf("template: circuit %s: %w", rec.ID, err)
		}
		if string(c.ID()) != rec.ID {
			return nil, fmt.Errorf("template: circuit %s: text does not match its id", rec.ID)
		}
		padOutcomeKeys(rec, c.Lines())
	}

	return &tpl, nil
}

func padOutcomeKeys(rec *CircuitRecord, lines []circuit.Label) {
	if len(rec.Counts) == 0 {
		return
	}
	width := len(lines)
	fixed := make(map[string]int, len(rec.Counts))
	for key, count := range rec.Counts {
		for len(key) < width {
			key = "0" + key
		}
		fixed[key] = count
	}
	rec.Counts = fixed
}

// Dataset collects the populated counts into a sealed dataset keyed by
// circuit content ID. Circuits without counts are skipped.
func (t *Template) Dataset() (dataset.Dataset, error) {
	store := dataset.NewMemoryDataset()
	for _, rec := range t.Circuits {
		if len(rec.Counts) == 0 {
			continue
		}
		counts := make(dataset.OutcomeCounts, len(rec.Counts))
		for outcome, count := range rec.Counts {
			if count < 0 {
				return nil, fmt.Errorf("template: circuit %s: negative count for %q", rec.ID, outcome)
			}
			counts[outcome] = count
		}
		store.Upsert(circuit.ID(rec.ID), counts)
	}

	return store.Seal(), nil
}
