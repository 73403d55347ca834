package aws

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsweep/sweeper/types"
)

type mockECS struct {
	clusterArns []string
	serviceArns []string

	updateCalls   []ecs.UpdateServiceInput
	updateErr     error
	deleteSvcIn   []ecs.DeleteServiceInput
	deletedArns   []string
	deregistered  []string
	deregisterErr error
}

func (m *mockECS) ListClusters(_ context.Context, _ *ecs.ListClustersInput, _ ...func(*ecs.Options)) (*ecs.ListClustersOutput, error) {
	return &ecs.ListClustersOutput{ClusterArns: m.clusterArns}, nil
}

func (m *mockECS) DescribeClusters(_ context.Context, params *ecs.DescribeClustersInput, _ ...func(*ecs.Options)) (*ecs.DescribeClustersOutput, error) {
	out := &ecs.DescribeClustersOutput{}
	for _, arn := range params.Clusters {
		out.Clusters = append(out.Clusters, ecstypes.Cluster{
			ClusterArn:  awssdk.String(arn),
			ClusterName: awssdk.String(nameFromARN(arn)),
			Tags: []ecstypes.Tag{
				{Key: awssdk.String("env"), Value: awssdk.String("staging")},
			},
		})
	}
	return out, nil
}

func (m *mockECS) ListServices(_ context.Context, _ *ecs.ListServicesInput, _ ...func(*ecs.Options)) (*ecs.ListServicesOutput, error) {
	return &ecs.ListServicesOutput{ServiceArns: m.serviceArns}, nil
}

func (m *mockECS) DescribeServices(_ context.Context, params *ecs.DescribeServicesInput, _ ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	out := &ecs.DescribeServicesOutput{}
	for _, arn := range params.Services {
		out.Services = append(out.Services, ecstypes.Service{ServiceArn: awssdk.String(arn)})
	}
	return out, nil
}

func (m *mockECS) UpdateService(_ context.Context, params *ecs.UpdateServiceInput, _ ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error) {
	m.updateCalls = append(m.updateCalls, *params)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &ecs.UpdateServiceOutput{}, nil
}

func (m *mockECS) DeleteService(_ context.Context, params *ecs.DeleteServiceInput, _ ...func(*ecs.Options)) (*ecs.DeleteServiceOutput, error) {
	m.deleteSvcIn = append(m.deleteSvcIn, *params)
	return &ecs.DeleteServiceOutput{}, nil
}

func (m *mockECS) DeleteCluster(_ context.Context, params *ecs.DeleteClusterInput, _ ...func(*ecs.Options)) (*ecs.DeleteClusterOutput, error) {
	m.deletedArns = append(m.deletedArns, awssdk.ToString(params.Cluster))
	return &ecs.DeleteClusterOutput{}, nil
}

func (m *mockECS) ListTaskDefinitions(_ context.Context, _ *ecs.ListTaskDefinitionsInput, _ ...func(*ecs.Options)) (*ecs.ListTaskDefinitionsOutput, error) {
	return &ecs.ListTaskDefinitionsOutput{}, nil
}

func (m *mockECS) DeregisterTaskDefinition(_ context.Context, params *ecs.DeregisterTaskDefinitionInput, _ ...func(*ecs.Options)) (*ecs.DeregisterTaskDefinitionOutput, error) {
	m.deregistered = append(m.deregistered, awssdk.ToString(params.TaskDefinition))
	if m.deregisterErr != nil {
		return nil, m.deregisterErr
	}
	return &ecs.DeregisterTaskDefinitionOutput{}, nil
}

func (m *mockECS) DeleteTaskDefinitions(_ context.Context, params *ecs.DeleteTaskDefinitionsInput, _ ...func(*ecs.Options)) (*ecs.DeleteTaskDefinitionsOutput, error) {
	m.deletedArns = append(m.deletedArns, params.TaskDefinitions...)
	return &ecs.DeleteTaskDefinitionsOutput{}, nil
}

func (m *mockECS) ListTagsForResource(_ context.Context, _ *ecs.ListTagsForResourceInput, _ ...func(*ecs.Options)) (*ecs.ListTagsForResourceOutput, error) {
	return &ecs.ListTagsForResourceOutput{}, nil
}

const (
	testClusterARN = "arn:aws:ecs:eu-west-1:123456789012:cluster/staging"
	testServiceARN = "arn:aws:ecs:eu-west-1:123456789012:service/staging/web"
)

func TestClusterAdapter_ListPage(t *testing.T) {
	client := &mockECS{clusterArns: []string{testClusterARN}}
	adapter := NewClusterAdapter(client)

	got, next, err := adapter.ListPage(context.Background(), types.Scope{}, "")
	require.NoError(t, err)
	assert.Empty(t, next)

	require.Len(t, got, 1)
	assert.Equal(t, "staging", got[0].Name)
	assert.Equal(t, testClusterARN, got[0].ARN)
	assert.Equal(t, map[string]string{"env": "staging"}, got[0].Tags)
}

func TestClusterAdapter_DependentsAreServices(t *testing.T) {
	client := &mockECS{serviceArns: []string{testServiceARN}}
	adapter := NewClusterAdapter(client)

	cluster := &types.Resource{Kind: types.KindECSCluster, ID: testClusterARN, ARN: testClusterARN, State: types.StateDiscovered}
	deps, err := adapter.Dependents(context.Background(), cluster)
	require.NoError(t, err)

	require.Len(t, deps, 1)
	assert.Equal(t, types.KindECSService, deps[0].Kind)
	assert.Equal(t, "web", deps[0].Name)
	assert.Equal(t, testClusterARN, deps[0].MetaValue(metaCluster))
}

func TestClusterAdapter_DeleteService(t *testing.T) {
	client := &mockECS{}
	adapter := NewClusterAdapter(client)

	svc := serviceResource(testServiceARN, testClusterARN, nil)
	require.NoError(t, adapter.Delete(context.Background(), svc))

	require.Len(t, client.updateCalls, 1)
	assert.Equal(t, int32(0), awssdk.ToInt32(client.updateCalls[0].DesiredCount), "service must scale to zero before deletion")

	require.Len(t, client.deleteSvcIn, 1)
	assert.True(t, awssdk.ToBool(client.deleteSvcIn[0].Force))
	assert.Equal(t, testClusterARN, awssdk.ToString(client.deleteSvcIn[0].Cluster))
}

func TestClusterAdapter_DeleteServiceToleratesMissingOnScaleDown(t *testing.T) {
	client := &mockECS{
		updateErr: &smithy.GenericAPIError{Code: "ServiceNotFoundException"},
	}
	adapter := NewClusterAdapter(client)

	svc := serviceResource(testServiceARN, testClusterARN, nil)
	require.NoError(t, adapter.Delete(context.Background(), svc))
	assert.Len(t, client.deleteSvcIn, 1, "delete still runs when scale-down finds nothing")
}

func TestClusterAdapter_DeleteCluster(t *testing.T) {
	client := &mockECS{}
	adapter := NewClusterAdapter(client)

	cluster := &types.Resource{Kind: types.KindECSCluster, ID: testClusterARN, ARN: testClusterARN, State: types.StateDiscovered}
	require.NoError(t, adapter.Delete(context.Background(), cluster))
	assert.Equal(t, []string{testClusterARN}, client.deletedArns)
}

func TestTaskDefinitionAdapter_DeleteDeregistersFirst(t *testing.T) {
	client := &mockECS{}
	adapter := NewTaskDefinitionAdapter(client)

	arn := "arn:aws:ecs:eu-west-1:123456789012:task-definition/web:3"
	td := &types.Resource{Kind: types.KindECSTaskDefinition, ID: arn, ARN: arn, State: types.StateDiscovered}
	require.NoError(t, adapter.Delete(context.Background(), td))

	assert.Equal(t, []string{"web:3"}, client.deregistered)
	assert.Equal(t, []string{"web:3"}, client.deletedArns)
}

func TestTaskDefinitionAdapter_DeleteToleratesInactiveRevision(t *testing.T) {
	client := &mockECS{
		deregisterErr: &smithy.GenericAPIError{Code: "ResourceInUseException"},
	}
	adapter := NewTaskDefinitionAdapter(client)

	arn := "arn:aws:ecs:eu-west-1:123456789012:task-definition/web:3"
	td := &types.Resource{Kind: types.KindECSTaskDefinition, ID: arn, ARN: arn, State: types.StateDiscovered}
	require.NoError(t, adapter.Delete(context.Background(), td))
	assert.Equal(t, []string{"web:3"}, client.deletedArns, "inactive revisions still get deleted")
}
