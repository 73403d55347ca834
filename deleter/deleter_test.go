package deleter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsweep/sweeper/providers"
	"github.com/cloudsweep/sweeper/types"
)

// recordingAdapter scripts per-resource delete results and records the
// order deletions were issued in.
type recordingAdapter struct {
	mu      sync.Mutex
	results map[string][]error
	calls   []string

	// onDelete, when set, runs after each recorded call. Tests use it to
	// cancel the context mid-run.
	onDelete func(id string)
}

func newRecordingAdapter() *recordingAdapter {
	return &recordingAdapter{results: map[string][]error{}}
}

// script queues delete results for a resource; once the queue drains,
// further deletes succeed.
func (a *recordingAdapter) script(id string, errs ...error) {
	a.results[id] = errs
}

func (a *recordingAdapter) Kind() types.Kind { return types.KindECSCluster }

func (a *recordingAdapter) ListPage(_ context.Context, _ types.Scope, _ string) ([]*types.Resource, string, error) {
	return nil, "", errors.New("not under test")
}

func (a *recordingAdapter) Dependents(_ context.Context, _ *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

func (a *recordingAdapter) Delete(_ context.Context, r *types.Resource) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, r.ID)
	if a.onDelete != nil {
		a.onDelete(r.ID)
	}
	if queued := a.results[r.ID]; len(queued) > 0 {
		err := queued[0]
		a.results[r.ID] = queued[1:]
		return err
	}
	return nil
}

func (a *recordingAdapter) deleteCalls(id string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if c == id {
			n++
		}
	}
	return n
}

func res(id string, deps ...*types.Resource) *types.Resource {
	return &types.Resource{
		Kind:       types.KindECSCluster,
		ID:         id,
		Name:       id,
		State:      types.StateDiscovered,
		Dependents: deps,
	}
}

func newTestDeleter(a providers.Adapter, dryRun bool) *Deleter {
	d := New(a, dryRun, zerolog.Nop())
	d.policy.BaseDelay = 0
	return d
}

func TestDeleteAll_PostOrder(t *testing.T) {
	adapter := newRecordingAdapter()
	tree := res("cluster", res("svc-1"), res("svc-2"))

	rep := newTestDeleter(adapter, false).DeleteAll(context.Background(), []*types.Resource{tree})

	require.Equal(t, []string{"svc-1", "svc-2", "cluster"}, adapter.calls,
		"dependents must be deleted before their parent")
	assert.True(t, rep.OK())
	assert.Equal(t, types.StateDeleted, tree.State)
	assert.Equal(t, types.StateDeleted, tree.Dependents[0].State)
}

func TestDeleteAll_FailureIsolation(t *testing.T) {
	adapter := newRecordingAdapter()
	adapter.script("b", fmt.Errorf("delete: %w", providers.ErrConflict))

	a, b, c := res("a"), res("b"), res("c")
	rep := newTestDeleter(adapter, false).DeleteAll(context.Background(), []*types.Resource{a, b, c})

	s := rep.Summarize()
	assert.Equal(t, 2, s.Deleted)
	assert.Equal(t, 1, s.Failed)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, "b", s.Failures[0].ID)

	assert.Equal(t, types.StateDeleted, a.State)
	assert.Equal(t, types.StateFailed, b.State)
	assert.Equal(t, types.StateDeleted, c.State, "a failing sibling must not block later resources")
}

func TestDeleteAll_ConflictNotRetried(t *testing.T) {
	adapter := newRecordingAdapter()
	adapter.script("a", fmt.Errorf("delete: %w", providers.ErrConflict))

	rep := newTestDeleter(adapter, false).DeleteAll(context.Background(), []*types.Resource{res("a")})

	assert.False(t, rep.OK())
	assert.Equal(t, 1, adapter.deleteCalls("a"), "conflicts are terminal, never retried")
}

func TestDeleteAll_ThrottleRetriedOnce(t *testing.T) {
	adapter := newRecordingAdapter()
	adapter.script("a", fmt.Errorf("delete: %w", providers.ErrThrottled))

	rep := newTestDeleter(adapter, false).DeleteAll(context.Background(), []*types.Resource{res("a")})

	assert.True(t, rep.OK())
	assert.Equal(t, 2, adapter.deleteCalls("a"))
}

func TestDeleteAll_NotFoundIsSuccess(t *testing.T) {
	adapter := newRecordingAdapter()
	adapter.script("a", fmt.Errorf("delete: %w", providers.ErrNotFound))
	adapter.script("b", fmt.Errorf("delete: %w", providers.ErrNotFound))

	a, b := res("a"), res("b")
	rep := newTestDeleter(adapter, false).DeleteAll(context.Background(), []*types.Resource{a, b})

	s := rep.Summarize()
	assert.Equal(t, 2, s.Deleted)
	assert.Zero(t, s.Failed, "re-running over already-deleted resources must succeed")
	assert.Equal(t, types.StateDeleted, a.State)
}

func TestDeleteAll_DependentFailureStopsSubtree(t *testing.T) {
	adapter := newRecordingAdapter()
	adapter.script("svc-1", fmt.Errorf("delete: %w", providers.ErrUnavailable))

	tree := res("cluster", res("svc-1"), res("svc-2"))
	rep := newTestDeleter(adapter, false).DeleteAll(context.Background(), []*types.Resource{tree})

	assert.False(t, rep.OK())
	assert.Equal(t, types.StateFailed, tree.State)
	assert.Zero(t, adapter.deleteCalls("cluster"), "parent must not be deleted after a dependent fails")

	s := rep.Summarize()
	require.Len(t, s.Failures, 1)
	assert.ErrorIs(t, s.Failures[0].Err, providers.ErrUnavailable)
	assert.Contains(t, s.Failures[0].Err.Error(), "svc-1")
}

func TestDeleteAll_DryRun(t *testing.T) {
	adapter := newRecordingAdapter()
	a, b := res("a", res("a-child")), res("b")

	rep := newTestDeleter(adapter, true).DeleteAll(context.Background(), []*types.Resource{a, b})

	assert.Empty(t, adapter.calls, "dry run must issue no deletions")
	s := rep.Summarize()
	assert.Equal(t, 2, s.Skipped)
	assert.Zero(t, s.Deleted)
	assert.Equal(t, types.StateSkipped, a.State)
}

func TestDeleteAll_CancelMidSubtreeStopsRemainingDeletes(t *testing.T) {
	adapter := newRecordingAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	adapter.onDelete = func(id string) {
		if id == "obj-1" {
			cancel()
		}
	}

	tree := res("bucket", res("obj-1"), res("obj-2"), res("obj-3"))
	rep := newTestDeleter(adapter, false).DeleteAll(ctx, []*types.Resource{tree})

	assert.Equal(t, []string{"obj-1"}, adapter.calls,
		"no provider calls may be issued for the subtree once the context is cancelled")
	assert.Equal(t, types.StateSkipped, tree.Dependents[1].State)
	assert.Equal(t, types.StateDiscovered, tree.Dependents[2].State, "the subtree stops at the first cancelled node")
	assert.Equal(t, types.StateFailed, tree.State)

	s := rep.Summarize()
	require.Len(t, s.Failures, 1)
	assert.ErrorIs(t, s.Failures[0].Err, context.Canceled)
}

func TestDeleteAll_CancelledContextSkips(t *testing.T) {
	adapter := newRecordingAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := newTestDeleter(adapter, false).DeleteAll(ctx, []*types.Resource{res("a"), res("b")})

	assert.Empty(t, adapter.calls)
	s := rep.Summarize()
	assert.Equal(t, 2, s.Skipped)
	assert.Zero(t, s.Failed, "cancellation is not a failure")
}

func TestDeleteAll_Concurrent(t *testing.T) {
	adapter := newRecordingAdapter()
	adapter.script("b", fmt.Errorf("delete: %w", providers.ErrConflict))

	var resources []*types.Resource
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		resources = append(resources, res(id))
	}

	d := newTestDeleter(adapter, false)
	d.Workers = 3
	rep := d.DeleteAll(context.Background(), resources)

	s := rep.Summarize()
	assert.Equal(t, 4, s.Deleted)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, rep.Outcomes(), 5)
}
