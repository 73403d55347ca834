package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
)

// tagFetcher resolves tags through the Resource Groups Tagging API for
// kinds whose list call does not carry them (S3, CodePipeline, ECR). The
// result is cached per run; tags do not change mid-batch.
type tagFetcher struct {
	client TaggingAPI
	cache  map[string]map[string]map[string]string // type filter -> ARN -> tags
}

func newTagFetcher(client TaggingAPI) *tagFetcher {
	return &tagFetcher{
		client: client,
		cache:  make(map[string]map[string]map[string]string),
	}
}

// tagsByARN returns the ARN-to-tags mapping for one resource type filter,
// e.g. "s3:bucket". Untagged resources are absent from the map.
func (f *tagFetcher) tagsByARN(ctx context.Context, typeFilter string) (map[string]map[string]string, error) {
	if cached, ok := f.cache[typeFilter]; ok {
		return cached, nil
	}

	byARN := make(map[string]map[string]string)
	token := ""
	for {
		input := &resourcegroupstaggingapi.GetResourcesInput{
			ResourceTypeFilters: []string{typeFilter},
		}
		if token != "" {
			input.PaginationToken = aws.String(token)
		}

		output, err := f.client.GetResources(ctx, input)
		if err != nil {
			return nil, classify("get resource tags", err)
		}

		for _, mapping := range output.ResourceTagMappingList {
			tags := make(map[string]string, len(mapping.Tags))
			for _, tag := range mapping.Tags {
				tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
			}
			byARN[aws.ToString(mapping.ResourceARN)] = tags
		}

		next := aws.ToString(output.PaginationToken)
		if next == "" {
			break
		}
		token = next
	}

	f.cache[typeFilter] = byARN
	return byARN, nil
}
