// Package aws implements the provider adapters over aws-sdk-go-v2.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Clients bundles the service clients one run needs. Adapters hold the
// narrow interface they use, so tests swap in recording fakes without
// touching the SDK.
type Clients struct {
	S3           S3API
	EC2          EC2API
	ECS          ECSAPI
	ECR          ECRAPI
	IAM          IAMAPI
	CloudFront   CloudFrontAPI
	CodeBuild    CodeBuildAPI
	CodePipeline CodePipelineAPI
	DynamoDB     DynamoDBAPI
	Tagging      TaggingAPI

	region string
}

// NewClients resolves credentials for the scope's profile and region and
// constructs the service clients. The underlying session is shared
// read-only by every adapter in the run.
func NewClients(ctx context.Context, profile, region string) (*Clients, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Clients{
		S3:           s3.NewFromConfig(cfg),
		EC2:          ec2.NewFromConfig(cfg),
		ECS:          ecs.NewFromConfig(cfg),
		ECR:          ecr.NewFromConfig(cfg),
		IAM:          iam.NewFromConfig(cfg),
		CloudFront:   cloudfront.NewFromConfig(cfg),
		CodeBuild:    codebuild.NewFromConfig(cfg),
		CodePipeline: codepipeline.NewFromConfig(cfg),
		DynamoDB:     dynamodb.NewFromConfig(cfg),
		Tagging:      resourcegroupstaggingapi.NewFromConfig(cfg),
		region:       cfg.Region,
	}, nil
}

// Region returns the region the clients were built for.
func (c *Clients) Region() string { return c.region }
