package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cloudsweep/sweeper/providers"
	"github.com/cloudsweep/sweeper/types"
)

const (
	metaBucket    = "bucket"
	metaKey       = "key"
	metaVersionID = "version-id"
)

// BucketAdapter lists and deletes S3 buckets. A bucket's dependents are
// every object version and delete marker it holds; the bucket itself
// cannot go until they are gone.
type BucketAdapter struct {
	client S3API
	tags   *tagFetcher
}

// NewBucketAdapter creates the S3 bucket adapter.
func NewBucketAdapter(client S3API, tagging TaggingAPI) *BucketAdapter {
	return &BucketAdapter{client: client, tags: newTagFetcher(tagging)}
}

// Kind returns the adapter's resource kind.
func (a *BucketAdapter) Kind() types.Kind { return types.KindBucket }

// ListPage lists one page of buckets with their tags.
func (a *BucketAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &s3.ListBucketsInput{}
	if pageToken != "" {
		input.ContinuationToken = aws.String(pageToken)
	}

	output, err := a.client.ListBuckets(ctx, input)
	if err != nil {
		return nil, "", classify("list buckets", err)
	}

	tagsByARN, err := a.tags.tagsByARN(ctx, "s3:bucket")
	if err != nil {
		return nil, "", err
	}

	resources := make([]*types.Resource, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)
		arn := "arn:aws:s3:::" + name
		resources = append(resources, &types.Resource{
			Kind:  types.KindBucket,
			ID:    name,
			Name:  name,
			ARN:   arn,
			Tags:  tagsByARN[arn],
			State: types.StateDiscovered,
		})
	}

	return resources, aws.ToString(output.ContinuationToken), nil
}

// Dependents enumerates every object version and delete marker in the
// bucket, so versioned buckets empty completely before deletion.
func (a *BucketAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	if r.Kind != types.KindBucket {
		return nil, nil
	}

	var deps []*types.Resource
	input := &s3.ListObjectVersionsInput{Bucket: aws.String(r.ID)}

	for {
		output, err := a.client.ListObjectVersions(ctx, input)
		if err != nil {
			return nil, classify("list object versions", err)
		}

		for _, version := range output.Versions {
			deps = append(deps, objectResource(r.ID, aws.ToString(version.Key), aws.ToString(version.VersionId)))
		}
		for _, marker := range output.DeleteMarkers {
			deps = append(deps, objectResource(r.ID, aws.ToString(marker.Key), aws.ToString(marker.VersionId)))
		}

		if !aws.ToBool(output.IsTruncated) {
			break
		}
		input.KeyMarker = output.NextKeyMarker
		input.VersionIdMarker = output.NextVersionIdMarker
	}

	return deps, nil
}

func objectResource(bucket, key, versionID string) *types.Resource {
	return &types.Resource{
		Kind: types.KindBucketObject,
		ID:   key + "@" + versionID,
		Name: key,
		Meta: map[string]string{
			metaBucket:    bucket,
			metaKey:       key,
			metaVersionID: versionID,
		},
		State: types.StateDiscovered,
	}
}

// Delete removes one object version or, once emptied, the bucket itself.
// The website configuration goes before the bucket; its absence is fine.
func (a *BucketAdapter) Delete(ctx context.Context, r *types.Resource) error {
	if r.Kind == types.KindBucketObject {
		input := &s3.DeleteObjectInput{
			Bucket: aws.String(r.MetaValue(metaBucket)),
			Key:    aws.String(r.MetaValue(metaKey)),
		}
		if v := r.MetaValue(metaVersionID); v != "" {
			input.VersionId = aws.String(v)
		}
		if _, err := a.client.DeleteObject(ctx, input); err != nil {
			return classify("delete object", err)
		}
		return nil
	}

	_, err := a.client.DeleteBucketWebsite(ctx, &s3.DeleteBucketWebsiteInput{Bucket: aws.String(r.ID)})
	if err != nil && !providers.IsNotFound(classify("delete bucket website", err)) {
		return classify("delete bucket website", err)
	}

	if _, err := a.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(r.ID)}); err != nil {
		return classify("delete bucket", err)
	}
	return nil
}
