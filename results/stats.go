package results

import (
	"fmt"
	"math"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/dataset"
)

// LogLikelihoodRatio returns the 2·ΔlogL statistic comparing two outcome
// count sources for the same circuit against the hypothesis that both were
// drawn from one distribution. Zero means identical frequencies; larger
// values mean stronger disagreement.
func LogLikelihoodRatio(a, b dataset.OutcomeCounts) float64 {
	na, nb := float64(a.Total()), float64(b.Total())
	if na == 0 || nb == 0 {
		return 0
	}

	outcomes := make(map[string]struct{})
	for o := range a {
		outcomes[o] = struct{}{}
	}
	for o := range b {
		outcomes[o] = struct{}{}
	}

	stat := 0.0
	for o := range outcomes {
		ca, cb := float64(a[o]), float64(b[o])
		pooled := (ca + cb) / (na + nb)
		if ca > 0 {
			stat += 2 * ca * math.Log(ca/(na*pooled))
		}
		if cb > 0 {
			stat += 2 * cb * math.Log(cb/(nb*pooled))
		}
	}

	return stat
}

// CompareDatasets computes the per-circuit log-likelihood comparison
// statistic over the given circuit IDs. Both datasets must hold counts for
// every ID.
func CompareDatasets(a, b dataset.Dataset, ids []circuit.ID) (map[circuit.ID]float64, error) {
	out := make(map[circuit.ID]float64, len(ids))
	for _, id := range ids {
		ca, ok := a.Counts(id)
		if !ok {
			return nil, fmt.Errorf("comparing datasets: first source has no counts for circuit %s", id)
		}
		cb, ok := b.Counts(id)
		if !ok {
			return nil, fmt.Errorf("comparing datasets: second source has no counts for circuit %s", id)
		}
		out[id] = LogLikelihoodRatio(ca, cb)
	}

	return out, nil
}
