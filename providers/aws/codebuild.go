package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"

	"github.com/cloudsweep/sweeper/types"
)

// ProjectAdapter lists and deletes CodeBuild projects.
type ProjectAdapter struct {
	client CodeBuildAPI
}

// NewProjectAdapter creates the CodeBuild project adapter.
func NewProjectAdapter(client CodeBuildAPI) *ProjectAdapter {
	return &ProjectAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *ProjectAdapter) Kind() types.Kind { return types.KindCodeBuildProject }

// ListPage lists one page of projects, batch-describing them for ARNs
// and tags.
func (a *ProjectAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &codebuild.ListProjectsInput{}
	if pageToken != "" {
		input.NextToken = aws.String(pageToken)
	}

	listed, err := a.client.ListProjects(ctx, input)
	if err != nil {
		return nil, "", classify("list projects", err)
	}
	if len(listed.Projects) == 0 {
		return nil, aws.ToString(listed.NextToken), nil
	}

	described, err := a.client.BatchGetProjects(ctx, &codebuild.BatchGetProjectsInput{
		Names: listed.Projects,
	})
	if err != nil {
		return nil, "", classify("batch get projects", err)
	}

	resources := make([]*types.Resource, 0, len(described.Projects))
	for _, project := range described.Projects {
		tags := make(map[string]string, len(project.Tags))
		for _, tag := range project.Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
		resources = append(resources, &types.Resource{
			Kind:  types.KindCodeBuildProject,
			ID:    aws.ToString(project.Name),
			Name:  aws.ToString(project.Name),
			ARN:   aws.ToString(project.Arn),
			Tags:  tags,
			State: types.StateDiscovered,
		})
	}

	return resources, aws.ToString(listed.NextToken), nil
}

// Dependents is a no-op for projects.
func (a *ProjectAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

// Delete removes one project.
func (a *ProjectAdapter) Delete(ctx context.Context, r *types.Resource) error {
	_, err := a.client.DeleteProject(ctx, &codebuild.DeleteProjectInput{Name: aws.String(r.Name)})
	if err != nil {
		return classify("delete project", err)
	}
	return nil
}
