package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"

	"github.com/cloudsweep/sweeper/providers"
	"github.com/cloudsweep/sweeper/types"
)

const metaDistributionID = "distribution-id"

// CloudFront refuses DeleteDistribution until the disabled configuration
// has finished deploying to every edge location, which routinely takes
// minutes.
const (
	deployPollInterval = 20 * time.Second
	deployPollAttempts = 50
)

// DistributionAdapter lists and deletes CloudFront distributions. An
// enabled distribution's dependent is its own disablement: the config is
// switched off and deployed before DeleteDistribution can succeed.
type DistributionAdapter struct {
	client CloudFrontAPI
}

// NewDistributionAdapter creates the CloudFront distribution adapter.
func NewDistributionAdapter(client CloudFrontAPI) *DistributionAdapter {
	return &DistributionAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *DistributionAdapter) Kind() types.Kind { return types.KindCloudFrontDistribution }

// ListPage lists one page of distributions with their tags.
func (a *DistributionAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &cloudfront.ListDistributionsInput{}
	if pageToken != "" {
		input.Marker = aws.String(pageToken)
	}

	output, err := a.client.ListDistributions(ctx, input)
	if err != nil {
		return nil, "", classify("list distributions", err)
	}
	list := output.DistributionList
	if list == nil {
		return nil, "", nil
	}

	var resources []*types.Resource
	for _, dist := range list.Items {
		arn := aws.ToString(dist.ARN)
		tags, err := a.distributionTags(ctx, arn)
		if err != nil {
			return nil, "", err
		}
		resources = append(resources, &types.Resource{
			Kind: types.KindCloudFrontDistribution,
			ID:   aws.ToString(dist.Id),
			Name: aws.ToString(dist.DomainName),
			ARN:  arn,
			Tags: tags,
			Meta: map[string]string{
				metaDistributionID: aws.ToString(dist.Id),
			},
			State: types.StateDiscovered,
		})
	}

	next := ""
	if aws.ToBool(list.IsTruncated) {
		next = aws.ToString(list.NextMarker)
	}
	return resources, next, nil
}

func (a *DistributionAdapter) distributionTags(ctx context.Context, arn string) (map[string]string, error) {
	output, err := a.client.ListTagsForResource(ctx, &cloudfront.ListTagsForResourceInput{
		Resource: aws.String(arn),
	})
	if err != nil {
		return nil, classify("list distribution tags", err)
	}
	if output.Tags == nil || len(output.Tags.Items) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(output.Tags.Items))
	for _, tag := range output.Tags.Items {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

// Dependents returns the disablement step. It is emitted unconditionally;
// deleting it is a no-op when the distribution is already disabled.
func (a *DistributionAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	if r.Kind != types.KindCloudFrontDistribution {
		return nil, nil
	}
	id := r.MetaValue(metaDistributionID)
	return []*types.Resource{
		{
			Kind:  types.KindCloudFrontDisable,
			ID:    id + "/disable",
			Name:  id,
			Meta:  map[string]string{metaDistributionID: id},
			State: types.StateDiscovered,
		},
	}, nil
}

// Delete disables the distribution (dependent step) or deletes it with
// the current ETag once disabled.
func (a *DistributionAdapter) Delete(ctx context.Context, r *types.Resource) error {
	if r.Kind == types.KindCloudFrontDisable {
		return a.disable(ctx, r.MetaValue(metaDistributionID))
	}

	id := r.MetaValue(metaDistributionID)
	got, err := a.client.GetDistribution(ctx, &cloudfront.GetDistributionInput{Id: aws.String(id)})
	if err != nil {
		return classify("get distribution", err)
	}

	_, err = a.client.DeleteDistribution(ctx, &cloudfront.DeleteDistributionInput{
		Id:      aws.String(id),
		IfMatch: got.ETag,
	})
	if err != nil {
		return classify("delete distribution", err)
	}
	return nil
}

// disable switches the distribution config off and waits for the change
// to deploy. Already-disabled distributions pass straight through.
func (a *DistributionAdapter) disable(ctx context.Context, id string) error {
	got, err := a.client.GetDistributionConfig(ctx, &cloudfront.GetDistributionConfigInput{
		Id: aws.String(id),
	})
	if err != nil {
		return classify("get distribution config", err)
	}
	if !aws.ToBool(got.DistributionConfig.Enabled) {
		return nil
	}

	got.DistributionConfig.Enabled = aws.Bool(false)
	_, err = a.client.UpdateDistribution(ctx, &cloudfront.UpdateDistributionInput{
		Id:                 aws.String(id),
		DistributionConfig: got.DistributionConfig,
		IfMatch:            got.ETag,
	})
	if err != nil {
		return classify("disable distribution", err)
	}

	return a.waitDeployed(ctx, id)
}

// waitDeployed polls until the distribution status reaches Deployed.
func (a *DistributionAdapter) waitDeployed(ctx context.Context, id string) error {
	for attempt := 0; attempt < deployPollAttempts; attempt++ {
		got, err := a.client.GetDistribution(ctx, &cloudfront.GetDistributionInput{Id: aws.String(id)})
		if err != nil {
			return classify("get distribution", err)
		}
		if aws.ToString(got.Distribution.Status) == "Deployed" {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(deployPollInterval):
		}
	}
	return fmt.Errorf("disable distribution %s: %w: still deploying", id, providers.ErrConflict)
}
