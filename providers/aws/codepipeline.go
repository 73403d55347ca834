package aws

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codepipeline"

	"github.com/cloudsweep/sweeper/types"
)

// PipelineAdapter lists and deletes CodePipeline pipelines. Tags come
// from the tagging API; ListPipelines does not return them.
type PipelineAdapter struct {
	client CodePipelineAPI
	tags   *tagFetcher
	region string
}

// NewPipelineAdapter creates the CodePipeline adapter.
func NewPipelineAdapter(client CodePipelineAPI, tagging TaggingAPI, region string) *PipelineAdapter {
	return &PipelineAdapter{client: client, tags: newTagFetcher(tagging), region: region}
}

// Kind returns the adapter's resource kind.
func (a *PipelineAdapter) Kind() types.Kind { return types.KindCodePipelinePipeline }

// ListPage lists one page of pipelines with their tags.
func (a *PipelineAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &codepipeline.ListPipelinesInput{}
	if pageToken != "" {
		input.NextToken = aws.String(pageToken)
	}

	output, err := a.client.ListPipelines(ctx, input)
	if err != nil {
		return nil, "", classify("list pipelines", err)
	}

	tagsByARN, err := a.tags.tagsByARN(ctx, "codepipeline:pipeline")
	if err != nil {
		return nil, "", err
	}

	resources := make([]*types.Resource, 0, len(output.Pipelines))
	for _, pipeline := range output.Pipelines {
		name := aws.ToString(pipeline.Name)
		resources = append(resources, &types.Resource{
			Kind:  types.KindCodePipelinePipeline,
			ID:    name,
			Name:  name,
			Tags:  tagsForPipeline(tagsByARN, a.region, name),
			State: types.StateDiscovered,
		})
	}

	return resources, aws.ToString(output.NextToken), nil
}

// tagsForPipeline matches a pipeline to its tagging API entry. Pipeline
// ARNs end in ":<name>", so a suffix match works without knowing the
// account ID.
func tagsForPipeline(tagsByARN map[string]map[string]string, region, name string) map[string]string {
	for arn, tags := range tagsByARN {
		if !strings.HasSuffix(arn, ":"+name) {
			continue
		}
		if region == "" || strings.Contains(arn, ":"+region+":") {
			return tags
		}
	}
	return nil
}

// Dependents is a no-op for pipelines.
func (a *PipelineAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

// Delete removes one pipeline.
func (a *PipelineAdapter) Delete(ctx context.Context, r *types.Resource) error {
	_, err := a.client.DeletePipeline(ctx, &codepipeline.DeletePipelineInput{Name: aws.String(r.Name)})
	if err != nil {
		return classify("delete pipeline", err)
	}
	return nil
}
