package template

import "gopkg.in/yaml.v3"

// coerceOutcomeKeys walks a parsed document and retags outcome keys under
// counts mappings as strings. A loose writer that leaves keys like 0010
// unquoted produces integer scalars; the node still carries the literal
// text, so retagging recovers the bitstring exactly.
func coerceOutcomeKeys(node *yaml.Node) {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			coerceOutcomeKeys(child)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if key.Value == "counts" && value.Kind == yaml.MappingNode {
				coerceCountKeys(value)

				continue
			}
			coerceOutcomeKeys(value)
		}
	}
}

func coerceCountKeys(counts *yaml.Node) {
	for i := 0; i+1 < len(counts.Content); i += 2 {
		key := counts.Content[i]
		if key.Kind != yaml.ScalarNode || key.Tag == "!!str" {
			continue
		}
		if isBinary(key.Value) {
			key.Tag = "!!str"
		}
	}
}

func isBinary(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '0' && r != '1' {
			return false
		}
	}

	return true
}
