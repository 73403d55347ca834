// Package report aggregates per-resource outcomes for one run and decides
// run-level success.
package report

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/cloudsweep/sweeper/types"
)

// Outcome records the terminal state of one top-level resource.
type Outcome struct {
	ID    string
	Kind  types.Kind
	State types.State
	Err   error
}

// Report is the ordered sequence of outcomes for a run. Appends are
// serialized so independent deletions may run concurrently.
type Report struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// New creates an empty report.
func New() *Report {
	return &Report{}
}

// Append records one outcome.
func (r *Report) Append(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Outcomes returns a copy of the recorded outcomes in append order.
func (r *Report) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Summary is the aggregate view of a run.
type Summary struct {
	Deleted  int
	Failed   int
	Skipped  int
	Failures []Outcome
}

// Summarize folds the outcomes into counts and the ordered failure list.
func (r *Report) Summarize() Summary {
	var s Summary
	for _, o := range r.Outcomes() {
		switch o.State {
		case types.StateDeleted:
			s.Deleted++
		case types.StateFailed:
			s.Failed++
			s.Failures = append(s.Failures, o)
		case types.StateSkipped:
			s.Skipped++
		}
	}
	return s
}

// OK reports run-level success: no failures. This is the sole input to
// the process exit status.
func (r *Report) OK() bool {
	return r.Summarize().Failed == 0
}

// Log writes the summary and every failure through the logger.
func (r *Report) Log(logger zerolog.Logger) {
	s := r.Summarize()
	logger.Info().
		Int("deleted", s.Deleted).
		Int("failed", s.Failed).
		Int("skipped", s.Skipped).
		Msg("batch complete")

	for _, f := range s.Failures {
		logger.Error().
			Str("kind", string(f.Kind)).
			Str("id", f.ID).
			Err(f.Err).
			Msg("resource not deleted")
	}
}
