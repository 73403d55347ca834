package types

import "fmt"

// Kind identifies one of the resource kinds sweeper knows how to delete.
// The set is closed: every kind has exactly one adapter behind it.
type Kind string

const (
	KindBucket                 Kind = "s3-bucket"
	KindBucketObject           Kind = "s3-object"
	KindCloudFrontDistribution Kind = "cloudfront-distribution"
	KindCodeBuildProject       Kind = "codebuild-project"
	KindCodePipelinePipeline   Kind = "codepipeline-pipeline"
	KindEC2Instance            Kind = "ec2-instance"
	KindECSCluster             Kind = "ecs-cluster"
	KindECSService             Kind = "ecs-service"
	KindECSTaskDefinition      Kind = "ecs-task-definition"
	KindECRRepository          Kind = "ecr-repository"
	KindDynamoDBTable          Kind = "dynamodb-table"
	KindIAMRole                Kind = "iam-role"
	KindIAMUser                Kind = "iam-user"
	KindIAMGroup               Kind = "iam-group"
	KindIAMPolicy              Kind = "iam-policy"

	// Dependent-only kinds. These never appear as top-level batch entries;
	// they exist so dependency steps flow through the same deleter as
	// ordinary resources.
	KindCloudFrontDisable   Kind = "cloudfront-disable"
	KindIAMPolicyAttachment Kind = "iam-policy-attachment"
	KindIAMInlinePolicy     Kind = "iam-inline-policy"
	KindIAMAccessKey        Kind = "iam-access-key"
	KindIAMPolicyVersion    Kind = "iam-policy-version"
	KindIAMGroupMembership  Kind = "iam-group-membership"
	KindIAMInstanceProfile  Kind = "iam-instance-profile"
)

// State tracks a resource through one run. Transitions are monotonic:
// Discovered -> PendingDelete -> {Deleted | Failed}, or Discovered -> Skipped.
type State string

const (
	StateDiscovered    State = "discovered"
	StatePendingDelete State = "pending-delete"
	StateDeleted       State = "deleted"
	StateFailed        State = "failed"
	StateSkipped       State = "skipped"
)

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	return s == StateDeleted || s == StateFailed || s == StateSkipped
}

// Resource is one discovered cloud object and its deletion dependencies.
type Resource struct {
	Kind Kind
	ID   string
	Name string
	ARN  string
	Tags map[string]string

	// Meta carries kind-specific strings the adapter needs at delete time,
	// e.g. the cluster ARN for an ECS service or the version ID for an
	// S3 object version.
	Meta map[string]string

	// Dependents must reach a terminal state before this resource may be
	// deleted. Populated by the discovery engine for kinds that need it.
	Dependents []*Resource

	State State
}

// Transition advances the resource state. Backward transitions and
// transitions out of a terminal state are rejected.
func (r *Resource) Transition(next State) error {
	if r.State.Terminal() {
		return fmt.Errorf("resource %s: state %s is terminal, cannot move to %s", r.ID, r.State, next)
	}
	switch next {
	case StatePendingDelete:
		if r.State != StateDiscovered {
			return fmt.Errorf("resource %s: cannot move from %s to %s", r.ID, r.State, next)
		}
	case StateDeleted, StateFailed:
		if r.State != StatePendingDelete {
			return fmt.Errorf("resource %s: cannot move from %s to %s", r.ID, r.State, next)
		}
	case StateSkipped:
		if r.State != StateDiscovered {
			return fmt.Errorf("resource %s: cannot move from %s to %s", r.ID, r.State, next)
		}
	default:
		return fmt.Errorf("resource %s: invalid target state %s", r.ID, next)
	}
	r.State = next
	return nil
}

// MetaValue returns a kind-specific metadata entry, or "" when absent.
func (r *Resource) MetaValue(key string) string {
	if r.Meta == nil {
		return ""
	}
	return r.Meta[key]
}

// Scope identifies which account context a run operates against.
type Scope struct {
	Profile string
	Region  string
}

// Options is the execution context shared by every command in a run.
type Options struct {
	DryRun bool
	Force  bool
}
