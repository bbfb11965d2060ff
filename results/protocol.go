// Package results reconstructs per-experiment results from raw outcome data:
// it walks a design composition tree, marginalizes simultaneous children,
// scores circuits against their targets and runs the analysis protocols
// recorded on each leaf.
package results

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Definition is the metadata of an analysis protocol: ID, version and
// description. A leaf's recorded protocol name is resolved against
// registered definitions at reconstruction time.
type Definition struct {
	ID          string          `json:"id"`
	Version     *semver.Version `json:"version"`
	Description string          `json:"description"`
}

// LeafData is the input handed to a protocol: per-depth aggregated success
// statistics for one leaf.
type LeafData struct {
	NumQubits            int
	Depths               []int
	SuccessProbabilities []float64
}

// Estimates are the fitted parameters of a success-probability decay
// P(d) = A + B·f^d, with the derived average error rate.
type Estimates struct {
	Asymptote float64 `json:"asymptote"` // A
	Amplitude float64 `json:"amplitude"` // B
	DecayRate float64 `json:"decayRate"` // f
	// ErrorRate is (2^n-1)/2^n · (1-f), the RB average error rate.
	ErrorRate float64 `json:"errorRate"`
}

// FitResult is a protocol's output for one leaf.
type FitResult struct {
	Protocol string `json:"protocol"`
	Version  string `json:"version"`
	// Full lets the asymptote float; FixedAsymptote pins it at 1/2^n.
	Full           Estimates `json:"full"`
	FixedAsymptote Estimates `json:"fixedAsymptote"`
}

// Protocol fits recorded leaf data. Implementations must be pure: identical
// data and params yield identical results.
type Protocol interface {
	Def() Definition
	Fit(data LeafData, params map[string]string) (FitResult, error)
}

// ErrProtocolNotFound is returned when a leaf names a protocol that is not
// registered.
var ErrProtocolNotFound = errors.New("protocol not found in registry")

// Registry stores protocols for retrieval by ID.
type Registry struct {
	protocols []Protocol
}

// NewRegistry creates a Registry with the provided protocols.
func NewRegistry(protocols ...Protocol) *Registry {
	return &Registry{protocols: protocols}
}

// DefaultRegistry returns a Registry with the built-in protocols.
func DefaultRegistry() *Registry {
	return NewRegistry(&rbDecayProtocol{})
}

// Register adds protocols to the registry.
func (r *Registry) Register(protocols ...Protocol) {
	r.protocols = append(r.protocols, protocols...)
}

// Retrieve returns the registered protocol with the given ID.
func (r *Registry) Retrieve(id string) (Protocol, error) {
	for _, p := range r.protocols {
		if p.Def().ID == id {
			return p, nil
		}
	}

	return nil, fmt.Errorf("retrieving %q: %w", id, ErrProtocolNotFound)
}
