package aws

import (
	"strings"

	"github.com/cloudsweep/sweeper/providers"
)

// nameFromARN extracts the trailing resource name from an ARN, e.g.
// "arn:aws:ecs:eu-west-1:123:service/web" -> "web".
func nameFromARN(arn string) string {
	if i := strings.LastIndexByte(arn, '/'); i >= 0 {
		return arn[i+1:]
	}
	if i := strings.LastIndexByte(arn, ':'); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// taskDefinitionName extracts "family:revision" from a task definition ARN.
func taskDefinitionName(arn string) string {
	if i := strings.IndexByte(arn, '/'); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// isBenignDeregister reports whether a preparatory step (deregister, scale
// to zero) failed in a way that must not block the real deletion: the
// target is already gone or already inactive.
func isBenignDeregister(err error) bool {
	return providers.IsNotFound(err) || providers.IsConflict(err)
}
