package design

import "fmt"

// ConfigurationError reports an invalid composition: non-disjoint qubit
// subsets in a simultaneous design, duplicate keys in a combined design, or
// children whose circuit lists cannot be aligned. Raised at construction;
// no partial design is returned.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "design configuration: " + e.Reason
}

func newConfigErrf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
