package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/cloudsweep/sweeper/providers"
)

// AWS error codes folded into the provider taxonomy. The services here
// disagree on spelling, so each bucket carries every code an adapter can
// actually see.
var (
	throttleCodes = map[string]bool{
		"Throttling":                             true,
		"ThrottlingException":                    true,
		"ThrottledException":                     true,
		"TooManyRequestsException":               true,
		"RequestLimitExceeded":                   true,
		"RequestThrottled":                       true,
		"SlowDown":                               true,
		"LimitExceededException":                 true,
		"ProvisionedThroughputExceededException": true,
	}

	notFoundCodes = map[string]bool{
		"NoSuchBucket":                true,
		"NoSuchKey":                   true,
		"NoSuchEntity":                true,
		"NoSuchDistribution":          true,
		"NotFoundException":           true,
		"ResourceNotFoundException":   true,
		"ResourceNotFoundFault":       true,
		"ClusterNotFoundException":    true,
		"ServiceNotFoundException":    true,
		"RepositoryNotFoundException": true,
		"PipelineNotFoundException":   true,
		"InvalidInstanceID.NotFound":  true,
		"NoSuchWebsiteConfiguration":  true,
	}

	conflictCodes = map[string]bool{
		"BucketNotEmpty":              true,
		"DeleteConflict":              true,
		"DeleteConflictException":     true,
		"DependencyViolation":         true,
		"DistributionNotDisabled":     true,
		"PreconditionFailed":          true,
		"ResourceInUseException":      true,
		"RepositoryNotEmptyException": true,
		"OperationNotPermitted":       true,
	}
)

// classify maps an SDK error onto the provider error taxonomy, keeping the
// provider's reason string attached for the batch report.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case throttleCodes[code]:
			return fmt.Errorf("%s: %w: %s", op, providers.ErrThrottled, code)
		case notFoundCodes[code]:
			return fmt.Errorf("%s: %w: %s", op, providers.ErrNotFound, code)
		case conflictCodes[code]:
			return fmt.Errorf("%s: %w: %s: %s", op, providers.ErrConflict, code, apiErr.ErrorMessage())
		}
	}

	// Connectivity, auth, and anything unrecognized.
	return fmt.Errorf("%s: %w: %v", op, providers.ErrUnavailable, err)
}
