package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/cloudsweep/sweeper/types"
)

// TableAdapter lists and deletes DynamoDB tables.
type TableAdapter struct {
	client DynamoDBAPI
	tags   *tagFetcher
}

// NewTableAdapter creates the DynamoDB table adapter.
func NewTableAdapter(client DynamoDBAPI, tagging TaggingAPI) *TableAdapter {
	return &TableAdapter{client: client, tags: newTagFetcher(tagging)}
}

// Kind returns the adapter's resource kind.
func (a *TableAdapter) Kind() types.Kind { return types.KindDynamoDBTable }

// ListPage lists one page of tables with their ARNs and tags.
func (a *TableAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &dynamodb.ListTablesInput{}
	if pageToken != "" {
		input.ExclusiveStartTableName = aws.String(pageToken)
	}

	output, err := a.client.ListTables(ctx, input)
	if err != nil {
		return nil, "", classify("list tables", err)
	}

	tagsByARN, err := a.tags.tagsByARN(ctx, "dynamodb:table")
	if err != nil {
		return nil, "", err
	}

	resources := make([]*types.Resource, 0, len(output.TableNames))
	for _, name := range output.TableNames {
		described, err := a.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(name),
		})
		if err != nil {
			return nil, "", classify("describe table", err)
		}
		arn := aws.ToString(described.Table.TableArn)
		resources = append(resources, &types.Resource{
			Kind:  types.KindDynamoDBTable,
			ID:    name,
			Name:  name,
			ARN:   arn,
			Tags:  tagsByARN[arn],
			State: types.StateDiscovered,
		})
	}

	return resources, aws.ToString(output.LastEvaluatedTableName), nil
}

// Dependents is a no-op for tables.
func (a *TableAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	return nil, nil
}

// Delete removes one table.
func (a *TableAdapter) Delete(ctx context.Context, r *types.Resource) error {
	_, err := a.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(r.Name)})
	if err != nil {
		return classify("delete table", err)
	}
	return nil
}
