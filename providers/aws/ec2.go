package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudsweep/sweeper/types"
)

// InstanceAdapter lists and terminates EC2 instances. Instances carry no
// deletion dependents; volumes marked delete-on-termination go with them.
type InstanceAdapter struct {
	client EC2API
}

// NewInstanceAdapter creates the EC2 instance adapter.
func NewInstanceAdapter(client EC2API) *InstanceAdapter {
	return &InstanceAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *InstanceAdapter) Kind() types.Kind { return types.KindEC2Instance }

// ListPage lists one page of instances that are not already terminated.
func (a *InstanceAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"pending", "running", "stopping", "stopped"},
			},
		},
	}
	if pageToken != "" {
		input.NextToken = aws.String(pageToken)
	}

	output, err := a.client.DescribeInstances(ctx, input)
	if err != nil {
		return nil, "", classify("describe instances", err)
	}

	var resources []*types.Resource
	for _, reservation := range output.Reservations {
		for _, instance := range reservation.Instances {
			resources = append(resources, instanceResource(instance))
		}
	}

	return resources, aws.ToString(output.NextToken), nil
}

func instanceResource(instance ec2types.Instance) *types.Resource {
	tags := make(map[string]string, len(instance.Tags))
	for _, tag := range instance.Tags {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}

	return &types.Resource{
		Kind:  types.KindEC2Instance,
		ID:    aws.ToString(instance.InstanceId),
		Name:  tags["Name"],
		Tags:  tags,
		State: types.StateDiscovered,
	}
}

// Dependents is a no-op for instances.
func (a *InstanceAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

// Delete terminates one instance.
func (a *InstanceAdapter) Delete(ctx context.Context, r *types.Resource) error {
	_, err := a.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{r.ID},
	})
	if err != nil {
		return classify("terminate instance", err)
	}
	return nil
}
