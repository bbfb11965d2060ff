// Package execution defines the boundary to whatever actually runs circuits:
// submit a flat circuit list, receive per-circuit outcome counts. Transport,
// queuing and retry policy beyond the provided decorator belong to the
// collaborator implementing Runner.
package execution

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/orqa-labs/characterization-framework/circuit"
	"github.com/orqa-labs/characterization-framework/dataset"
	"github.com/orqa-labs/characterization-framework/design"
	"github.com/orqa-labs/characterization-framework/pkg/logger"
)

// Runner is the execution boundary: one synchronous batch round-trip.
type Runner interface {
	// Submit runs every circuit for the given number of shots and returns
	// outcome counts keyed by circuit content ID. A complete response holds
	// counts for every submitted circuit.
	Submit(ctx context.Context, circuits []*circuit.Circuit, shots int) (map[circuit.ID]dataset.OutcomeCounts, error)
}

// Report records one execution round-trip.
type Report struct {
	ID       string    `json:"id"`
	Circuits int       `json:"circuits"`
	Shots    int       `json:"shots"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// Option configures Execute.
type Option func(*execConfig)

type execConfig struct {
	lggr logger.Logger
}

// WithLogger injects the logger used around submission.
func WithLogger(lggr logger.Logger) Option {
	return func(c *execConfig) { c.lggr = lggr }
}

// Execute submits the design's deduplicated circuit pool through the runner
// and collects the returned counts into a sealed dataset ready for results
// reconstruction.
func Execute(
	ctx context.Context, runner Runner, d design.Design, shots int, opts ...Option,
) (dataset.Dataset, Report, error) {
	cfg := execConfig{lggr: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	pool := design.BuildPool(d)
	report := Report{
		ID:       uuid.NewString(),
		Circuits: pool.Size(),
		Shots:    shots,
		Started:  time.Now(),
	}

	cfg.lggr.Infow("Submitting circuit pool", "runId", report.ID, "circuits", report.Circuits, "shots", shots)
	counts, err := runner.Submit(ctx, pool.Circuits(), shots)
	report.Finished = time.Now()
	if err != nil {
		return nil, report, err
	}

	store := dataset.NewMemoryDataset()
	for id, oc := range counts {
		store.Upsert(id, oc)
	}
	sealed := store.Seal()
	cfg.lggr.Infow("Collected outcome data", "runId", report.ID, "circuitsWithData", sealed.Size())

	return sealed, report, nil
}
