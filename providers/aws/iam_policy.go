package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/cloudsweep/sweeper/types"
)

// GroupAdapter lists and deletes IAM groups. Member users are removed
// from the group before the group is deleted.
type GroupAdapter struct {
	client IAMAPI
}

// NewGroupAdapter creates the IAM group adapter.
func NewGroupAdapter(client IAMAPI) *GroupAdapter {
	return &GroupAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *GroupAdapter) Kind() types.Kind { return types.KindIAMGroup }

// ListPage lists one page of groups. Groups carry no tags in IAM.
func (a *GroupAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &iam.ListGroupsInput{}
	if pageToken != "" {
		input.Marker = aws.String(pageToken)
	}

	output, err := a.client.ListGroups(ctx, input)
	if err != nil {
		return nil, "", classify("list groups", err)
	}

	resources := make([]*types.Resource, 0, len(output.Groups))
	for _, group := range output.Groups {
		name := aws.ToString(group.GroupName)
		resources = append(resources, &types.Resource{
			Kind:  types.KindIAMGroup,
			ID:    name,
			Name:  name,
			ARN:   aws.ToString(group.Arn),
			State: types.StateDiscovered,
		})
	}

	return resources, paginationMarker(output.IsTruncated, output.Marker), nil
}

// Dependents lists the group's member users as membership removals.
func (a *GroupAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	if r.Kind != types.KindIAMGroup {
		return nil, nil
	}

	var deps []*types.Resource
	input := &iam.GetGroupInput{GroupName: aws.String(r.Name)}
	for {
		output, err := a.client.GetGroup(ctx, input)
		if err != nil {
			return nil, classify("get group", err)
		}
		for _, user := range output.Users {
			deps = append(deps, &types.Resource{
				Kind: types.KindIAMGroupMembership,
				ID:   r.Name + "/" + aws.ToString(user.UserName),
				Name: aws.ToString(user.UserName),
				Meta: map[string]string{
					metaUserName:  aws.ToString(user.UserName),
					metaGroupName: r.Name,
				},
				State: types.StateDiscovered,
			})
		}
		if !output.IsTruncated {
			break
		}
		input.Marker = output.Marker
	}
	return deps, nil
}

// Delete removes a membership dependent or the emptied group.
func (a *GroupAdapter) Delete(ctx context.Context, r *types.Resource) error {
	switch r.Kind {
	case types.KindIAMGroupMembership:
		_, err := a.client.RemoveUserFromGroup(ctx, &iam.RemoveUserFromGroupInput{
			GroupName: aws.String(r.MetaValue(metaGroupName)),
			UserName:  aws.String(r.MetaValue(metaUserName)),
		})
		return classify("remove user from group", err)
	case types.KindIAMGroup:
		_, err := a.client.DeleteGroup(ctx, &iam.DeleteGroupInput{GroupName: aws.String(r.Name)})
		return classify("delete group", err)
	default:
		return fmt.Errorf("group adapter cannot delete kind %s", r.Kind)
	}
}

// PolicyAdapter lists and deletes customer-managed IAM policies. Before
// DeletePolicy, every attachment is detached and every non-default
// version deleted.
type PolicyAdapter struct {
	client IAMAPI
}

// NewPolicyAdapter creates the IAM policy adapter.
func NewPolicyAdapter(client IAMAPI) *PolicyAdapter {
	return &PolicyAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *PolicyAdapter) Kind() types.Kind { return types.KindIAMPolicy }

// ListPage lists one page of customer-managed policies with their tags.
// AWS-managed policies are not listed; they cannot be deleted.
func (a *PolicyAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &iam.ListPoliciesInput{Scope: iamtypes.PolicyScopeTypeLocal}
	if pageToken != "" {
		input.Marker = aws.String(pageToken)
	}

	output, err := a.client.ListPolicies(ctx, input)
	if err != nil {
		return nil, "", classify("list policies", err)
	}

	var resources []*types.Resource
	for _, policy := range output.Policies {
		arn := aws.ToString(policy.Arn)
		tagsOut, err := a.client.ListPolicyTags(ctx, &iam.ListPolicyTagsInput{PolicyArn: aws.String(arn)})
		if err != nil {
			return nil, "", classify("list policy tags", err)
		}
		resources = append(resources, &types.Resource{
			Kind:  types.KindIAMPolicy,
			ID:    arn,
			Name:  aws.ToString(policy.PolicyName),
			ARN:   arn,
			Tags:  iamTagMap(tagsOut.Tags),
			State: types.StateDiscovered,
		})
	}

	return resources, paginationMarker(output.IsTruncated, output.Marker), nil
}

// Dependents resolves attachments and non-default versions.
func (a *PolicyAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	if r.Kind != types.KindIAMPolicy {
		return nil, nil
	}
	var deps []*types.Resource

	entities, err := a.client.ListEntitiesForPolicy(ctx, &iam.ListEntitiesForPolicyInput{
		PolicyArn: aws.String(r.ARN),
	})
	if err != nil {
		return nil, classify("list entities for policy", err)
	}
	for _, role := range entities.PolicyRoles {
		deps = append(deps, policyDetachResource(r.ARN, "role", aws.ToString(role.RoleName)))
	}
	for _, user := range entities.PolicyUsers {
		deps = append(deps, policyDetachResource(r.ARN, "user", aws.ToString(user.UserName)))
	}
	for _, group := range entities.PolicyGroups {
		deps = append(deps, policyDetachResource(r.ARN, "group", aws.ToString(group.GroupName)))
	}

	versions, err := a.client.ListPolicyVersions(ctx, &iam.ListPolicyVersionsInput{
		PolicyArn: aws.String(r.ARN),
	})
	if err != nil {
		return nil, classify("list policy versions", err)
	}
	for _, version := range versions.Versions {
		if version.IsDefaultVersion {
			continue
		}
		deps = append(deps, &types.Resource{
			Kind: types.KindIAMPolicyVersion,
			ID:   r.ARN + ":" + aws.ToString(version.VersionId),
			Name: aws.ToString(version.VersionId),
			Meta: map[string]string{
				metaPolicyARN:   r.ARN,
				metaVersionName: aws.ToString(version.VersionId),
			},
			State: types.StateDiscovered,
		})
	}

	return deps, nil
}

// Delete removes one policy dependent or the policy itself.
func (a *PolicyAdapter) Delete(ctx context.Context, r *types.Resource) error {
	switch r.Kind {
	case types.KindIAMPolicyAttachment:
		return a.detach(ctx, r)
	case types.KindIAMPolicyVersion:
		_, err := a.client.DeletePolicyVersion(ctx, &iam.DeletePolicyVersionInput{
			PolicyArn: aws.String(r.MetaValue(metaPolicyARN)),
			VersionId: aws.String(r.MetaValue(metaVersionName)),
		})
		return classify("delete policy version", err)
	case types.KindIAMPolicy:
		_, err := a.client.DeletePolicy(ctx, &iam.DeletePolicyInput{PolicyArn: aws.String(r.ARN)})
		return classify("delete policy", err)
	default:
		return fmt.Errorf("policy adapter cannot delete kind %s", r.Kind)
	}
}

func (a *PolicyAdapter) detach(ctx context.Context, r *types.Resource) error {
	policyARN := aws.String(r.MetaValue(metaPolicyARN))
	entityName := aws.String(r.MetaValue(metaEntityName))

	switch r.MetaValue(metaEntityKind) {
	case "role":
		_, err := a.client.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			RoleName: entityName, PolicyArn: policyARN,
		})
		return classify("detach policy from role", err)
	case "user":
		_, err := a.client.DetachUserPolicy(ctx, &iam.DetachUserPolicyInput{
			UserName: entityName, PolicyArn: policyARN,
		})
		return classify("detach policy from user", err)
	case "group":
		_, err := a.client.DetachGroupPolicy(ctx, &iam.DetachGroupPolicyInput{
			GroupName: entityName, PolicyArn: policyARN,
		})
		return classify("detach policy from group", err)
	default:
		return fmt.Errorf("unknown policy attachment entity %q", r.MetaValue(metaEntityKind))
	}
}

func policyDetachResource(policyARN, entityKind, entityName string) *types.Resource {
	return &types.Resource{
		Kind: types.KindIAMPolicyAttachment,
		ID:   nameFromARN(policyARN) + "/" + entityKind + "/" + entityName,
		Name: entityName,
		Meta: map[string]string{
			metaPolicyARN:  policyARN,
			metaEntityKind: entityKind,
			metaEntityName: entityName,
		},
		State: types.StateDiscovered,
	}
}
