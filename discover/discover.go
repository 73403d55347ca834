// Package discover produces the complete, filtered candidate set for one
// resource kind within one scope.
package discover

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cloudsweep/sweeper/providers"
	"github.com/cloudsweep/sweeper/retry"
	"github.com/cloudsweep/sweeper/types"
)

// FailedError means discovery could not produce a complete candidate set.
// The run must not act on a partial resource list, so the caller aborts
// with no deletions attempted.
type FailedError struct {
	Kind types.Kind
	Err  error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("discovery failed for %s: %v", e.Kind, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// Engine discovers deletion candidates through one adapter.
type Engine struct {
	adapter providers.Adapter
	policy  retry.Policy
	logger  zerolog.Logger
}

// New creates a discovery engine with the default retry policy.
func New(adapter providers.Adapter, logger zerolog.Logger) *Engine {
	return &Engine{
		adapter: adapter,
		policy:  retry.DefaultPolicy(),
		logger:  logger.With().Str("component", "discover").Str("kind", string(adapter.Kind())).Logger(),
	}
}

// NewWithPolicy creates a discovery engine with an explicit retry policy.
func NewWithPolicy(adapter providers.Adapter, policy retry.Policy, logger zerolog.Logger) *Engine {
	e := New(adapter, logger)
	e.policy = policy
	return e
}

// Discover pages through the adapter until exhaustion, applying the filter
// to each page before accumulating, then resolves deletion dependents for
// every surviving candidate. Either the full candidate set is returned or
// a FailedError; partial sets are never returned.
func (e *Engine) Discover(ctx context.Context, scope types.Scope, filter *types.Filter) ([]*types.Resource, error) {
	if err := filter.Compile(); err != nil {
		return nil, &FailedError{Kind: e.adapter.Kind(), Err: err}
	}

	var candidates []*types.Resource
	token := ""
	page := 0

	for {
		resources, next, err := e.fetchPage(ctx, scope, token)
		if err != nil {
			return nil, &FailedError{Kind: e.adapter.Kind(), Err: err}
		}
		page++

		matched := 0
		for _, r := range resources {
			if filter.Matches(r) {
				candidates = append(candidates, r)
				matched++
			}
		}
		e.logger.Debug().
			Int("page", page).
			Int("listed", len(resources)).
			Int("matched", matched).
			Msg("page discovered")

		if next == "" {
			break
		}
		token = next
	}

	for _, r := range candidates {
		if err := e.resolveDependents(ctx, r); err != nil {
			return nil, &FailedError{Kind: e.adapter.Kind(), Err: err}
		}
	}

	e.logger.Info().Int("candidates", len(candidates)).Msg("discovery complete")
	return candidates, nil
}

// fetchPage retrieves one page, retrying throttle responses with bounded
// exponential backoff. Any other failure surfaces immediately.
func (e *Engine) fetchPage(ctx context.Context, scope types.Scope, token string) ([]*types.Resource, string, error) {
	var resources []*types.Resource
	var next string

	err := e.policy.Do(ctx, func() error {
		var err error
		resources, next, err = e.adapter.ListPage(ctx, scope, token)
		return err
	}, providers.IsThrottled)
	if err != nil {
		return nil, "", fmt.Errorf("list page: %w", err)
	}
	return resources, next, nil
}

// resolveDependents builds the dependency tree under r eagerly, depth
// first, so discovery and deletion stay cleanly separated phases.
func (e *Engine) resolveDependents(ctx context.Context, r *types.Resource) error {
	var deps []*types.Resource
	err := e.policy.Do(ctx, func() error {
		var err error
		deps, err = e.adapter.Dependents(ctx, r)
		return err
	}, providers.IsThrottled)
	if err != nil {
		return fmt.Errorf("resolve dependents of %s: %w", r.ID, err)
	}
	if len(deps) == 0 {
		return nil
	}

	r.Dependents = deps
	e.logger.Debug().Str("id", r.ID).Int("dependents", len(deps)).Msg("dependents resolved")

	for _, dep := range deps {
		if err := e.resolveDependents(ctx, dep); err != nil {
			return err
		}
	}
	return nil
}
