package sampler

import (
	"fmt"

	"github.com/orqa-labs/characterization-framework/circuit"
)

// SamplingError reports that no valid circuit exists for the requested
// combination of subset, depth and parameters, e.g. an isolated qubit with a
// required two-qubit gate density, or a processor lacking the gates the
// sampler must emit. Distinct from configuration errors, which are raised at
// construction time.
type SamplingError struct {
	Subset []circuit.Label
	Depth  int
	Reason string
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("sampling on %v at depth %d: %s", e.Subset, e.Depth, e.Reason)
}

func newSamplingErrf(subset []circuit.Label, depth int, format string, args ...any) *SamplingError {
	return &SamplingError{
		Subset: append([]circuit.Label(nil), subset...),
		Depth:  depth,
		Reason: fmt.Sprintf(format, args...),
	}
}
