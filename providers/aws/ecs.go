package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/cloudsweep/sweeper/types"
)

const metaCluster = "cluster"

// ClusterAdapter lists and deletes ECS clusters. A cluster's dependents
// are its services, each scaled to zero and force-deleted first.
type ClusterAdapter struct {
	client ECSAPI
}

// NewClusterAdapter creates the ECS cluster adapter.
func NewClusterAdapter(client ECSAPI) *ClusterAdapter {
	return &ClusterAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *ClusterAdapter) Kind() types.Kind { return types.KindECSCluster }

// ListPage lists one page of clusters with their tags.
func (a *ClusterAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &ecs.ListClustersInput{}
	if pageToken != "" {
		input.NextToken = aws.String(pageToken)
	}

	listed, err := a.client.ListClusters(ctx, input)
	if err != nil {
		return nil, "", classify("list clusters", err)
	}
	if len(listed.ClusterArns) == 0 {
		return nil, aws.ToString(listed.NextToken), nil
	}

	described, err := a.client.DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: listed.ClusterArns,
		Include:  []ecstypes.ClusterField{ecstypes.ClusterFieldTags},
	})
	if err != nil {
		return nil, "", classify("describe clusters", err)
	}

	resources := make([]*types.Resource, 0, len(described.Clusters))
	for _, cluster := range described.Clusters {
		resources = append(resources, &types.Resource{
			Kind:  types.KindECSCluster,
			ID:    aws.ToString(cluster.ClusterArn),
			Name:  aws.ToString(cluster.ClusterName),
			ARN:   aws.ToString(cluster.ClusterArn),
			Tags:  ecsTagMap(cluster.Tags),
			State: types.StateDiscovered,
		})
	}

	return resources, aws.ToString(listed.NextToken), nil
}

// Dependents lists the cluster's services as ECSService resources.
func (a *ClusterAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	if r.Kind != types.KindECSCluster {
		return nil, nil
	}

	var deps []*types.Resource
	input := &ecs.ListServicesInput{Cluster: aws.String(r.ARN)}
	for {
		output, err := a.client.ListServices(ctx, input)
		if err != nil {
			return nil, classify("list services", err)
		}
		for _, arn := range output.ServiceArns {
			deps = append(deps, serviceResource(arn, r.ARN, nil))
		}
		if output.NextToken == nil {
			break
		}
		input.NextToken = output.NextToken
	}
	return deps, nil
}

// Delete removes a service dependent or the emptied cluster.
func (a *ClusterAdapter) Delete(ctx context.Context, r *types.Resource) error {
	if r.Kind == types.KindECSService {
		return deleteService(ctx, a.client, r)
	}

	_, err := a.client.DeleteCluster(ctx, &ecs.DeleteClusterInput{Cluster: aws.String(r.ARN)})
	if err != nil {
		return classify("delete cluster", err)
	}
	return nil
}

// ServiceAdapter lists and deletes ECS services across every cluster in
// the scope.
type ServiceAdapter struct {
	client ECSAPI
}

// NewServiceAdapter creates the ECS service adapter.
func NewServiceAdapter(client ECSAPI) *ServiceAdapter {
	return &ServiceAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *ServiceAdapter) Kind() types.Kind { return types.KindECSService }

// ListPage walks clusters one page at a time and lists every service in
// each. The page token is the cluster list token.
func (a *ServiceAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &ecs.ListClustersInput{}
	if pageToken != "" {
		input.NextToken = aws.String(pageToken)
	}

	clusters, err := a.client.ListClusters(ctx, input)
	if err != nil {
		return nil, "", classify("list clusters", err)
	}

	var resources []*types.Resource
	for _, clusterARN := range clusters.ClusterArns {
		services, err := a.listClusterServices(ctx, clusterARN)
		if err != nil {
			return nil, "", err
		}
		resources = append(resources, services...)
	}

	return resources, aws.ToString(clusters.NextToken), nil
}

func (a *ServiceAdapter) listClusterServices(ctx context.Context, clusterARN string) ([]*types.Resource, error) {
	var resources []*types.Resource
	input := &ecs.ListServicesInput{Cluster: aws.String(clusterARN)}

	for {
		listed, err := a.client.ListServices(ctx, input)
		if err != nil {
			return nil, classify("list services", err)
		}
		if len(listed.ServiceArns) > 0 {
			described, err := a.client.DescribeServices(ctx, &ecs.DescribeServicesInput{
				Cluster:  aws.String(clusterARN),
				Services: listed.ServiceArns,
				Include:  []ecstypes.ServiceField{ecstypes.ServiceFieldTags},
			})
			if err != nil {
				return nil, classify("describe services", err)
			}
			for _, service := range described.Services {
				resources = append(resources, serviceResource(
					aws.ToString(service.ServiceArn), clusterARN, ecsTagMap(service.Tags)))
			}
		}
		if listed.NextToken == nil {
			return resources, nil
		}
		input.NextToken = listed.NextToken
	}
}

// Dependents is a no-op; service deletion scales to zero internally.
func (a *ServiceAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

// Delete scales the service to zero and force-deletes it.
func (a *ServiceAdapter) Delete(ctx context.Context, r *types.Resource) error {
	return deleteService(ctx, a.client, r)
}

// TaskDefinitionAdapter lists and deletes registered task definitions.
type TaskDefinitionAdapter struct {
	client ECSAPI
}

// NewTaskDefinitionAdapter creates the ECS task definition adapter.
func NewTaskDefinitionAdapter(client ECSAPI) *TaskDefinitionAdapter {
	return &TaskDefinitionAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *TaskDefinitionAdapter) Kind() types.Kind { return types.KindECSTaskDefinition }

// ListPage lists one page of task definition revisions with their tags.
func (a *TaskDefinitionAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &ecs.ListTaskDefinitionsInput{}
	if pageToken != "" {
		input.NextToken = aws.String(pageToken)
	}

	output, err := a.client.ListTaskDefinitions(ctx, input)
	if err != nil {
		return nil, "", classify("list task definitions", err)
	}

	resources := make([]*types.Resource, 0, len(output.TaskDefinitionArns))
	for _, arn := range output.TaskDefinitionArns {
		tags, err := a.client.ListTagsForResource(ctx, &ecs.ListTagsForResourceInput{
			ResourceArn: aws.String(arn),
		})
		if err != nil {
			return nil, "", classify("list task definition tags", err)
		}
		resources = append(resources, &types.Resource{
			Kind:  types.KindECSTaskDefinition,
			ID:    arn,
			Name:  taskDefinitionName(arn),
			ARN:   arn,
			Tags:  ecsTagMap(tags.Tags),
			State: types.StateDiscovered,
		})
	}

	return resources, aws.ToString(output.NextToken), nil
}

// Dependents is a no-op for task definitions.
func (a *TaskDefinitionAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

// Delete deregisters the revision, then deletes it.
func (a *TaskDefinitionAdapter) Delete(ctx context.Context, r *types.Resource) error {
	name := taskDefinitionName(r.ARN)
	if _, err := a.client.DeregisterTaskDefinition(ctx, &ecs.DeregisterTaskDefinitionInput{
		TaskDefinition: aws.String(name),
	}); err != nil {
		// Already inactive revisions still need the delete below.
		classified := classify("deregister task definition", err)
		if !isBenignDeregister(classified) {
			return classified
		}
	}

	_, err := a.client.DeleteTaskDefinitions(ctx, &ecs.DeleteTaskDefinitionsInput{
		TaskDefinitions: []string{name},
	})
	if err != nil {
		return classify("delete task definition", err)
	}
	return nil
}

func serviceResource(serviceARN, clusterARN string, tags map[string]string) *types.Resource {
	return &types.Resource{
		Kind:  types.KindECSService,
		ID:    serviceARN,
		Name:  nameFromARN(serviceARN),
		ARN:   serviceARN,
		Tags:  tags,
		Meta:  map[string]string{metaCluster: clusterARN},
		State: types.StateDiscovered,
	}
}

// deleteService scales the service down before removal; force covers
// services still draining.
func deleteService(ctx context.Context, client ECSAPI, r *types.Resource) error {
	cluster := aws.String(r.MetaValue(metaCluster))

	_, err := client.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:      cluster,
		Service:      aws.String(r.ARN),
		DesiredCount: aws.Int32(0),
	})
	if err != nil {
		classified := classify("scale service to zero", err)
		if !isBenignDeregister(classified) {
			return classified
		}
	}

	_, err = client.DeleteService(ctx, &ecs.DeleteServiceInput{
		Cluster: cluster,
		Service: aws.String(r.ARN),
		Force:   aws.Bool(true),
	})
	if err != nil {
		return classify("delete service", err)
	}
	return nil
}

func ecsTagMap(tags []ecstypes.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}
