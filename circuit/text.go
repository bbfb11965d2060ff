package circuit

import (
	"fmt"
	"strings"
)

// String renders the circuit in its canonical text form:
//
//	[Gxpi2:Q0 Gzpi2:Q1][Gcphase:Q0:Q1][]@(Q0,Q1)
//
// Layers are bracketed, gates within a layer are space-separated, and the
// trailing @(...) names the circuit's lines in order. The text form is the
// input to content addressing and the persistence boundary's serialization.
//
// Implements the fmt.Stringer interface.
func (c *Circuit) String() string {
	var sb strings.Builder
	for _, layer := range c.layers {
		sb.WriteByte('[')
		for i, g := range layer {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(g.String())
		}
		sb.WriteByte(']')
	}
	sb.WriteString("@(")
	for i, l := range c.lines {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(l))
	}
	sb.WriteByte(')')

	return sb.String()
}

// Parse reconstructs a Circuit from its canonical text form. Parse is the
// inverse of String: Parse(c.String()) yields a circuit with the same ID.
func Parse(text string) (*Circuit, error) {
	at := strings.LastIndex(text, "@")
	if at < 0 {
		return nil, fmt.Errorf("circuit text %q: missing @(lines) suffix", text)
	}
	body, suffix := text[:at], text[at+1:]

	if !strings.HasPrefix(suffix, "(") || !strings.HasSuffix(suffix, ")") {
		return nil, fmt.Errorf("circuit text %q: malformed line suffix %q", text, suffix)
	}
	var lines []Label
	if inner := suffix[1 : len(suffix)-1]; inner != "" {
		for _, s := range strings.Split(inner, ",") {
			lines = append(lines, Label(s))
		}
	}

	layers, err := parseLayers(body)
	if err != nil {
		return nil, fmt.Errorf("circuit text %q: %w", text, err)
	}

	return New(lines, layers)
}

func parseLayers(body string) ([]Layer, error) {
	layers := []Layer{}
	rest := body
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("expected '[' at %q", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated layer at %q", rest)
		}
		layer, err := parseLayer(rest[1:end])
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
		rest = rest[end+1:]
	}

	return layers, nil
}

func parseLayer(inner string) (Layer, error) {
	var layer Layer
	for _, gs := range strings.Fields(inner) {
		parts := strings.Split(gs, ":")
		if parts[0] == "" {
			return nil, fmt.Errorf("gate %q: empty name", gs)
		}
		if len(parts) < 2 {
			return nil, fmt.Errorf("gate %q: no target qubits", gs)
		}
		qubits := make([]Label, len(parts)-1)
		for i, q := range parts[1:] {
			if q == "" {
				return nil, fmt.Errorf("gate %q: empty qubit label", gs)
			}
			qubits[i] = Label(q)
		}
		layer = append(layer, GateApplication{Name: parts[0], Qubits: qubits})
	}

	return layer, nil
}
