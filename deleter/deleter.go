// Package deleter removes a candidate set safely: dependents before
// parents, individual failures isolated to their own subtree.
package deleter

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cloudsweep/sweeper/providers"
	"github.com/cloudsweep/sweeper/report"
	"github.com/cloudsweep/sweeper/retry"
	"github.com/cloudsweep/sweeper/types"
)

// deleteRetries bounds delete-site throttle retries. A single retry with
// backoff; discovery uses the larger default policy.
const deleteRetries = 2

// Deleter executes deletions through one adapter.
type Deleter struct {
	adapter providers.Adapter
	policy  retry.Policy
	dryRun  bool
	logger  zerolog.Logger

	// Workers bounds concurrent top-level deletions. Zero or one means
	// strictly sequential processing.
	Workers int
}

// New creates a deleter for the adapter's kind. Confirmation is the
// caller's concern; the deleter only needs to know about dry runs.
func New(adapter providers.Adapter, dryRun bool, logger zerolog.Logger) *Deleter {
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = deleteRetries
	return &Deleter{
		adapter: adapter,
		policy:  policy,
		dryRun:  dryRun,
		logger:  logger.With().Str("component", "deleter").Str("kind", string(adapter.Kind())).Logger(),
	}
}

// DeleteAll deletes every top-level resource, recording one outcome each.
// Within a resource's subtree children are deleted strictly before the
// parent; failures abort only their own subtree. Independent top-level
// resources may run concurrently when Workers > 1, sharing nothing but
// the report.
func (d *Deleter) DeleteAll(ctx context.Context, resources []*types.Resource) *report.Report {
	rep := report.New()

	if d.Workers > 1 {
		d.deleteConcurrent(ctx, resources, rep)
		return rep
	}
	for _, r := range resources {
		d.deleteTopLevel(ctx, r, rep)
	}
	return rep
}

func (d *Deleter) deleteConcurrent(ctx context.Context, resources []*types.Resource, rep *report.Report) {
	sem := make(chan struct{}, d.Workers)
	var wg sync.WaitGroup

	for _, r := range resources {
		wg.Add(1)
		go func(r *types.Resource) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			d.deleteTopLevel(ctx, r, rep)
		}(r)
	}
	wg.Wait()
}

// deleteTopLevel processes one top-level resource and records its outcome.
// A cancelled context before the subtree starts records a skip; in-flight
// work is allowed to finish.
func (d *Deleter) deleteTopLevel(ctx context.Context, r *types.Resource, rep *report.Report) {
	if ctx.Err() != nil || d.dryRun {
		_ = r.Transition(types.StateSkipped)
		rep.Append(report.Outcome{ID: r.ID, Kind: r.Kind, State: r.State})
		if d.dryRun {
			d.logger.Info().Str("id", r.ID).Msg("dry run, would delete")
		}
		return
	}

	err := d.deleteTree(ctx, r)
	rep.Append(report.Outcome{ID: r.ID, Kind: r.Kind, State: r.State, Err: err})
}

// deleteTree deletes r's dependents post-order, then r itself. The first
// dependent failure marks r failed and stops the subtree; siblings of r
// are unaffected. Cancellation mid-subtree stops before the next node
// rather than burning a provider call per remaining dependent.
func (d *Deleter) deleteTree(ctx context.Context, r *types.Resource) error {
	if err := ctx.Err(); err != nil {
		_ = r.Transition(types.StateSkipped)
		return err
	}
	if err := r.Transition(types.StatePendingDelete); err != nil {
		return err
	}

	for _, dep := range r.Dependents {
		if err := d.deleteTree(ctx, dep); err != nil {
			_ = r.Transition(types.StateFailed)
			return fmt.Errorf("dependent %s %s: %w", dep.Kind, dep.ID, err)
		}
	}

	if err := d.deleteOne(ctx, r); err != nil {
		_ = r.Transition(types.StateFailed)
		return err
	}
	_ = r.Transition(types.StateDeleted)
	return nil
}

// deleteOne issues a single deletion. Throttles retry with backoff, a
// conflict fails immediately, and not-found counts as deleted so re-runs
// stay idempotent.
func (d *Deleter) deleteOne(ctx context.Context, r *types.Resource) error {
	err := d.policy.Do(ctx, func() error {
		return d.adapter.Delete(ctx, r)
	}, providers.IsThrottled)

	switch {
	case err == nil:
		d.logger.Info().Str("kind", string(r.Kind)).Str("id", r.ID).Msg("deleted")
		return nil
	case providers.IsNotFound(err):
		d.logger.Info().Str("kind", string(r.Kind)).Str("id", r.ID).Msg("already gone")
		return nil
	case providers.IsConflict(err):
		d.logger.Error().Str("kind", string(r.Kind)).Str("id", r.ID).Err(err).Msg("delete conflict")
		return err
	default:
		d.logger.Error().Str("kind", string(r.Kind)).Str("id", r.ID).Err(err).Msg("delete failed")
		return err
	}
}
