// Package dataset stores per-circuit measurement outcome counts keyed by
// circuit content ID, and provides the marginalization rule used to recover
// a child's outcome distribution from a merged simultaneous circuit.
package dataset

import (
	"fmt"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// OutcomeCounts maps measurement bitstrings to observed counts. Bitstrings
// are ordered like the measured circuit's lines.
type OutcomeCounts map[string]int

// Total returns the total number of shots in the counts.
func (oc OutcomeCounts) Total() int {
	total := 0
	for _, n := range oc {
		total += n
	}

	return total
}

// Clone returns a copy of the counts.
func (oc OutcomeCounts) Clone() OutcomeCounts {
	out := make(OutcomeCounts, len(oc))
	for k, v := range oc {
		out[k] = v
	}

	return out
}

// Dataset is the read-only view of collected outcome data.
type Dataset interface {
	// Counts returns the outcome counts for the circuit with the given ID.
	Counts(id circuit.ID) (OutcomeCounts, bool)
	// Has reports whether outcome data exists for the circuit.
	Has(id circuit.ID) bool
	// Size returns the number of circuits with data.
	Size() int
	// IDs returns the circuit IDs in first-insertion order.
	IDs() []circuit.ID
}

// Marginalize reduces outcome counts over lines to the kept qubits only,
// summing counts over all measurement outcomes on the remaining qubits. No
// post-selection is applied. The output bitstrings are ordered like keep.
func Marginalize(counts OutcomeCounts, lines []circuit.Label, keep []circuit.Label) (OutcomeCounts, error) {
	pos := make([]int, len(keep))
	for i, q := range keep {
		found := -1
		for j, l := range lines {
			if l == q {
				found = j

				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("marginalize: qubit %s not among measured lines %v", q, lines)
		}
		pos[i] = found
	}

	out := make(OutcomeCounts)
	for outcome, n := range counts {
		if len(outcome) != len(lines) {
			return nil, fmt.Errorf("marginalize: outcome %q length does not match %d lines", outcome, len(lines))
		}
		key := make([]byte, len(pos))
		for i, p := range pos {
			key[i] = outcome[p]
		}
		out[string(key)] += n
	}

	return out, nil
}
