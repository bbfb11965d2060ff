package processor

import "fmt"

// ConfigurationError reports an invalid processor description: availability
// referencing unknown qubits or gates, or a multi-qubit gate with no
// availability. It is raised at construction time; no partial Spec is
// returned.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "processor configuration: " + e.Reason
}

func newConfigErrf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
