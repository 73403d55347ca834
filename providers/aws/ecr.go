package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"

	"github.com/cloudsweep/sweeper/types"
)

// RepositoryAdapter lists and deletes ECR repositories. Deletion is
// forced, so images are removed implicitly by the provider.
type RepositoryAdapter struct {
	client ECRAPI
	tags   *tagFetcher
}

// NewRepositoryAdapter creates the ECR repository adapter.
func NewRepositoryAdapter(client ECRAPI, tagging TaggingAPI) *RepositoryAdapter {
	return &RepositoryAdapter{client: client, tags: newTagFetcher(tagging)}
}

// Kind returns the adapter's resource kind.
func (a *RepositoryAdapter) Kind() types.Kind { return types.KindECRRepository }

// ListPage lists one page of repositories with their tags.
func (a *RepositoryAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &ecr.DescribeRepositoriesInput{}
	if pageToken != "" {
		input.NextToken = aws.String(pageToken)
	}

	output, err := a.client.DescribeRepositories(ctx, input)
	if err != nil {
		return nil, "", classify("describe repositories", err)
	}

	tagsByARN, err := a.tags.tagsByARN(ctx, "ecr:repository")
	if err != nil {
		return nil, "", err
	}

	resources := make([]*types.Resource, 0, len(output.Repositories))
	for _, repo := range output.Repositories {
		arn := aws.ToString(repo.RepositoryArn)
		resources = append(resources, &types.Resource{
			Kind:  types.KindECRRepository,
			ID:    aws.ToString(repo.RepositoryName),
			Name:  aws.ToString(repo.RepositoryName),
			ARN:   arn,
			Tags:  tagsByARN[arn],
			State: types.StateDiscovered,
		})
	}

	return resources, aws.ToString(output.NextToken), nil
}

// Dependents is a no-op; force deletion covers images.
func (a *RepositoryAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

// Delete force-removes one repository.
func (a *RepositoryAdapter) Delete(ctx context.Context, r *types.Resource) error {
	_, err := a.client.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RepositoryName: aws.String(r.Name),
		Force:          true,
	})
	if err != nil {
		return classify("delete repository", err)
	}
	return nil
}
