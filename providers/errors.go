package providers

import "errors"

// Error taxonomy for provider calls. Adapters wrap provider failures with
// exactly one of these sentinels so the engine and deleter can branch with
// errors.Is instead of provider-specific codes.
var (
	// ErrUnavailable covers connectivity and auth failures. Not retried.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrThrottled covers rate-limit responses. Retried with backoff at
	// the call site.
	ErrThrottled = errors.New("provider throttled")

	// ErrConflict means the provider refused a deletion because of an
	// unmet precondition, e.g. a non-empty bucket. Never retried.
	ErrConflict = errors.New("delete conflict")

	// ErrNotFound means the resource is already gone. Deletion callers
	// treat it as success, which keeps re-runs idempotent.
	ErrNotFound = errors.New("resource not found")
)

// IsThrottled reports whether err is a rate-limit failure.
func IsThrottled(err error) bool { return errors.Is(err, ErrThrottled) }

// IsNotFound reports whether err means the resource is already absent.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is an unmet-precondition refusal.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
