package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsweep/sweeper/providers"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "from service"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"s3 slowdown", apiError("SlowDown"), providers.ErrThrottled},
		{"generic throttling", apiError("Throttling"), providers.ErrThrottled},
		{"dynamodb throughput", apiError("ProvisionedThroughputExceededException"), providers.ErrThrottled},
		{"ec2 request limit", apiError("RequestLimitExceeded"), providers.ErrThrottled},
		{"bucket gone", apiError("NoSuchBucket"), providers.ErrNotFound},
		{"iam entity gone", apiError("NoSuchEntity"), providers.ErrNotFound},
		{"instance gone", apiError("InvalidInstanceID.NotFound"), providers.ErrNotFound},
		{"ecs cluster gone", apiError("ClusterNotFoundException"), providers.ErrNotFound},
		{"bucket not empty", apiError("BucketNotEmpty"), providers.ErrConflict},
		{"iam delete conflict", apiError("DeleteConflict"), providers.ErrConflict},
		{"ec2 dependency", apiError("DependencyViolation"), providers.ErrConflict},
		{"ecs in use", apiError("ResourceInUseException"), providers.ErrConflict},
		{"access denied", apiError("AccessDenied"), providers.ErrUnavailable},
		{"unknown code", apiError("SomeNewException"), providers.ErrUnavailable},
		{"plain error", errors.New("dial tcp: connection refused"), providers.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("delete bucket", tt.err)
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, classify("delete bucket", nil))
}

func TestClassify_OpInMessage(t *testing.T) {
	got := classify("terminate instance", apiError("RequestLimitExceeded"))
	assert.Contains(t, got.Error(), "terminate instance")
	assert.Contains(t, got.Error(), "RequestLimitExceeded")
}

func TestClassify_ContextErrorsPassThrough(t *testing.T) {
	got := classify("list roles", context.Canceled)
	assert.ErrorIs(t, got, context.Canceled)
	assert.NotErrorIs(t, got, providers.ErrUnavailable)

	got = classify("list roles", fmt.Errorf("wait: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, got, context.DeadlineExceeded)
	assert.NotErrorIs(t, got, providers.ErrUnavailable)
}

func TestClassify_WrappedAPIError(t *testing.T) {
	got := classify("delete table", fmt.Errorf("operation DeleteTable: %w", apiError("ResourceNotFoundException")))
	assert.ErrorIs(t, got, providers.ErrNotFound)
}
