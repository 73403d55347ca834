package aws

import (
	"fmt"

	"github.com/cloudsweep/sweeper/providers"
	"github.com/cloudsweep/sweeper/types"
)

// NewAdapter builds the adapter serving one top-level resource kind.
// Dependent-only kinds have no adapter of their own; the parent's adapter
// deletes them.
func NewAdapter(kind types.Kind, c *Clients) (providers.Adapter, error) {
	switch kind {
	case types.KindBucket:
		return NewBucketAdapter(c.S3, c.Tagging), nil
	case types.KindEC2Instance:
		return NewInstanceAdapter(c.EC2), nil
	case types.KindECSCluster:
		return NewClusterAdapter(c.ECS), nil
	case types.KindECSService:
		return NewServiceAdapter(c.ECS), nil
	case types.KindECSTaskDefinition:
		return NewTaskDefinitionAdapter(c.ECS), nil
	case types.KindECRRepository:
		return NewRepositoryAdapter(c.ECR, c.Tagging), nil
	case types.KindIAMRole:
		return NewRoleAdapter(c.IAM), nil
	case types.KindIAMUser:
		return NewUserAdapter(c.IAM), nil
	case types.KindIAMGroup:
		return NewGroupAdapter(c.IAM), nil
	case types.KindIAMPolicy:
		return NewPolicyAdapter(c.IAM), nil
	case types.KindCloudFrontDistribution:
		return NewDistributionAdapter(c.CloudFront), nil
	case types.KindCodeBuildProject:
		return NewProjectAdapter(c.CodeBuild), nil
	case types.KindCodePipelinePipeline:
		return NewPipelineAdapter(c.CodePipeline, c.Tagging, c.Region()), nil
	case types.KindDynamoDBTable:
		return NewTableAdapter(c.DynamoDB, c.Tagging), nil
	default:
		return nil, fmt.Errorf("no adapter for kind %s", kind)
	}
}
