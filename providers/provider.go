package providers

import (
	"context"

	"github.com/cloudsweep/sweeper/types"
)

// Adapter wraps the provider API for one resource kind behind a uniform
// shape: page through candidates, resolve deletion dependencies, delete.
// Implementations classify provider failures into the error taxonomy in
// errors.go so callers never inspect provider-specific codes.
type Adapter interface {
	// Kind returns the resource kind this adapter serves.
	Kind() types.Kind

	// ListPage produces one page of candidates. An empty next token means
	// pages are exhausted. Resources come back in StateDiscovered with
	// tags populated where the kind supports them.
	ListPage(ctx context.Context, scope types.Scope, pageToken string) (resources []*types.Resource, next string, err error)

	// Dependents discovers the child resources that must be removed before
	// r can be deleted. Kinds without ordering constraints return nil, nil.
	Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error)

	// Delete removes one resource. ErrNotFound is success from the
	// caller's point of view; ErrConflict means an unmet precondition and
	// must not be retried blindly.
	Delete(ctx context.Context, r *types.Resource) error
}
