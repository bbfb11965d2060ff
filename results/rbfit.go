package results

import (
	"math"

	"github.com/Masterminds/semver/v3"
)

// rbDecayProtocol fits the standard RB decay P(d) = A + B·f^d to a leaf's
// per-depth success probabilities, reporting both a free-asymptote fit and a
// fit with A pinned to the depolarized value 1/2^n.
type rbDecayProtocol struct{}

var _ Protocol = &rbDecayProtocol{}

func (p *rbDecayProtocol) Def() Definition {
	return Definition{
		ID:          "rb-decay",
		Version:     semver.MustParse("1.0.0"),
		Description: "Exponential decay fit of success probability versus RB depth",
	}
}

func (p *rbDecayProtocol) Fit(data LeafData, _ map[string]string) (FitResult, error) {
	def := p.Def()
	fixedA := 1 / math.Pow(2, float64(data.NumQubits))

	fixed := fitWithAsymptote(data.Depths, data.SuccessProbabilities, fixedA)
	full := fitFreeAsymptote(data.Depths, data.SuccessProbabilities, fixedA)

	scale := (math.Pow(2, float64(data.NumQubits)) - 1) / math.Pow(2, float64(data.NumQubits))
	fixed.ErrorRate = scale * (1 - fixed.DecayRate)
	full.ErrorRate = scale * (1 - full.DecayRate)

	return FitResult{
		Protocol:       def.ID,
		Version:        def.Version.String(),
		Full:           full,
		FixedAsymptote: fixed,
	}, nil
}

// fitWithAsymptote estimates B and f by least squares on
// log(P - A) = log B + d·log f, using only depths with P > A. With fewer
// than two usable points the estimates are NaN.
func fitWithAsymptote(depths []int, probs []float64, a float64) Estimates {
	var xs, ys []float64
	for i, d := range depths {
		if probs[i] > a {
			xs = append(xs, float64(d))
			ys = append(ys, math.Log(probs[i]-a))
		}
	}
	if len(xs) < 2 {
		return Estimates{Asymptote: a, Amplitude: math.NaN(), DecayRate: math.NaN(), ErrorRate: math.NaN()}
	}

	slope, intercept := linearFit(xs, ys)
	f := math.Exp(slope)
	if f > 1 {
		f = 1
	}

	return Estimates{
		Asymptote: a,
		Amplitude: math.Exp(intercept),
		DecayRate: f,
	}
}

// fitFreeAsymptote alternates between the log-linear (B, f) fit and a
// closed-form update of A until the asymptote settles.
func fitFreeAsymptote(depths []int, probs []float64, seed float64) Estimates {
	a := seed
	est := fitWithAsymptote(depths, probs, a)
	for range 25 {
		if math.IsNaN(est.DecayRate) {
			return est
		}
		sum := 0.0
		for i, d := range depths {
			sum += probs[i] - est.Amplitude*math.Pow(est.DecayRate, float64(d))
		}
		next := sum / float64(len(depths))
		if next < 0 {
			next = 0
		}
		if math.Abs(next-a) < 1e-9 {
			break
		}
		a = next
		est = fitWithAsymptote(depths, probs, a)
	}
	est.Asymptote = a

	return est
}

// linearFit returns the least-squares slope and intercept of y against x.
func linearFit(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0, sy / n
	}
	slope = (n*sxy - sx*sy) / den
	intercept = (sy - slope*sx) / n

	return slope, intercept
}
