package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/cloudsweep/sweeper/types"
)

// Meta keys shared by the IAM adapters. Dependent resources carry enough
// metadata to be deleted without re-describing the parent.
const (
	metaRoleName    = "role"
	metaUserName    = "user"
	metaGroupName   = "group"
	metaPolicyARN   = "policy-arn"
	metaPolicyName  = "policy-name"
	metaVersionName = "version"
	metaProfileName = "instance-profile"
	metaAccessKeyID = "access-key-id"
	metaEntityKind  = "entity" // role | user | group, for policy detach
	metaEntityName  = "entity-name"
)

// RoleAdapter lists and deletes IAM roles. A role's dependents are its
// attached managed policies, inline policies, and instance profile
// memberships, all of which must go before DeleteRole succeeds.
type RoleAdapter struct {
	client IAMAPI
}

// NewRoleAdapter creates the IAM role adapter.
func NewRoleAdapter(client IAMAPI) *RoleAdapter {
	return &RoleAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *RoleAdapter) Kind() types.Kind { return types.KindIAMRole }

// ListPage lists one page of roles with their tags. Service-linked roles
// are excluded; AWS owns their lifecycle.
func (a *RoleAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &iam.ListRolesInput{}
	if pageToken != "" {
		input.Marker = aws.String(pageToken)
	}

	output, err := a.client.ListRoles(ctx, input)
	if err != nil {
		return nil, "", classify("list roles", err)
	}

	var resources []*types.Resource
	for _, role := range output.Roles {
		if isServiceLinkedRole(role) {
			continue
		}
		name := aws.ToString(role.RoleName)
		tags, err := a.roleTags(ctx, name)
		if err != nil {
			return nil, "", err
		}
		resources = append(resources, &types.Resource{
			Kind:  types.KindIAMRole,
			ID:    name,
			Name:  name,
			ARN:   aws.ToString(role.Arn),
			Tags:  tags,
			Meta:  map[string]string{metaRoleName: name},
			State: types.StateDiscovered,
		})
	}

	return resources, paginationMarker(output.IsTruncated, output.Marker), nil
}

func (a *RoleAdapter) roleTags(ctx context.Context, name string) (map[string]string, error) {
	output, err := a.client.ListRoleTags(ctx, &iam.ListRoleTagsInput{RoleName: aws.String(name)})
	if err != nil {
		return nil, classify("list role tags", err)
	}
	return iamTagMap(output.Tags), nil
}

// Dependents resolves everything DeleteRole requires to be gone first.
func (a *RoleAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	if r.Kind != types.KindIAMRole {
		return nil, nil
	}
	name := r.Name
	var deps []*types.Resource

	attached, err := a.client.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(name),
	})
	if err != nil {
		return nil, classify("list attached role policies", err)
	}
	for _, policy := range attached.AttachedPolicies {
		deps = append(deps, attachmentResource("role", name, aws.ToString(policy.PolicyArn)))
	}

	inline, err := a.client.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
		RoleName: aws.String(name),
	})
	if err != nil {
		return nil, classify("list role policies", err)
	}
	for _, policyName := range inline.PolicyNames {
		deps = append(deps, &types.Resource{
			Kind: types.KindIAMInlinePolicy,
			ID:   name + "/" + policyName,
			Name: policyName,
			Meta: map[string]string{
				metaEntityKind: "role",
				metaEntityName: name,
				metaPolicyName: policyName,
			},
			State: types.StateDiscovered,
		})
	}

	profiles, err := a.client.ListInstanceProfilesForRole(ctx, &iam.ListInstanceProfilesForRoleInput{
		RoleName: aws.String(name),
	})
	if err != nil {
		return nil, classify("list instance profiles for role", err)
	}
	for _, profile := range profiles.InstanceProfiles {
		deps = append(deps, &types.Resource{
			Kind: types.KindIAMInstanceProfile,
			ID:   aws.ToString(profile.InstanceProfileName) + "/" + name,
			Name: aws.ToString(profile.InstanceProfileName),
			Meta: map[string]string{
				metaRoleName:    name,
				metaProfileName: aws.ToString(profile.InstanceProfileName),
			},
			State: types.StateDiscovered,
		})
	}

	return deps, nil
}

// Delete removes one role dependent or the role itself.
func (a *RoleAdapter) Delete(ctx context.Context, r *types.Resource) error {
	switch r.Kind {
	case types.KindIAMPolicyAttachment:
		_, err := a.client.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			RoleName:  aws.String(r.MetaValue(metaEntityName)),
			PolicyArn: aws.String(r.MetaValue(metaPolicyARN)),
		})
		return classify("detach role policy", err)
	case types.KindIAMInlinePolicy:
		_, err := a.client.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
			RoleName:   aws.String(r.MetaValue(metaEntityName)),
			PolicyName: aws.String(r.MetaValue(metaPolicyName)),
		})
		return classify("delete role inline policy", err)
	case types.KindIAMInstanceProfile:
		_, err := a.client.RemoveRoleFromInstanceProfile(ctx, &iam.RemoveRoleFromInstanceProfileInput{
			InstanceProfileName: aws.String(r.MetaValue(metaProfileName)),
			RoleName:            aws.String(r.MetaValue(metaRoleName)),
		})
		return classify("remove role from instance profile", err)
	case types.KindIAMRole:
		_, err := a.client.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: aws.String(r.Name)})
		return classify("delete role", err)
	default:
		return fmt.Errorf("role adapter cannot delete kind %s", r.Kind)
	}
}

// UserAdapter lists and deletes IAM users with their access keys, policy
// attachments, inline policies, and group memberships.
type UserAdapter struct {
	client IAMAPI
}

// NewUserAdapter creates the IAM user adapter.
func NewUserAdapter(client IAMAPI) *UserAdapter {
	return &UserAdapter{client: client}
}

// Kind returns the adapter's resource kind.
func (a *UserAdapter) Kind() types.Kind { return types.KindIAMUser }

// ListPage lists one page of users with their tags.
func (a *UserAdapter) ListPage(ctx context.Context, scope types.Scope, pageToken string) ([]*types.Resource, string, error) {
	input := &iam.ListUsersInput{}
	if pageToken != "" {
		input.Marker = aws.String(pageToken)
	}

	output, err := a.client.ListUsers(ctx, input)
	if err != nil {
		return nil, "", classify("list users", err)
	}

	var resources []*types.Resource
	for _, user := range output.Users {
		name := aws.ToString(user.UserName)
		tagsOut, err := a.client.ListUserTags(ctx, &iam.ListUserTagsInput{UserName: aws.String(name)})
		if err != nil {
			return nil, "", classify("list user tags", err)
		}
		resources = append(resources, &types.Resource{
			Kind:  types.KindIAMUser,
			ID:    name,
			Name:  name,
			ARN:   aws.ToString(user.Arn),
			Tags:  iamTagMap(tagsOut.Tags),
			State: types.StateDiscovered,
		})
	}

	return resources, paginationMarker(output.IsTruncated, output.Marker), nil
}

// Dependents resolves everything DeleteUser requires to be gone first.
func (a *UserAdapter) Dependents(ctx context.Context, r *types.Resource) ([]*types.Resource, error) {
	if r.Kind != types.KindIAMUser {
		return nil, nil
	}
	name := r.Name
	var deps []*types.Resource

	keys, err := a.client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{UserName: aws.String(name)})
	if err != nil {
		return nil, classify("list access keys", err)
	}
	for _, key := range keys.AccessKeyMetadata {
		deps = append(deps, &types.Resource{
			Kind: types.KindIAMAccessKey,
			ID:   aws.ToString(key.AccessKeyId),
			Name: aws.ToString(key.AccessKeyId),
			Meta: map[string]string{
				metaUserName:    name,
				metaAccessKeyID: aws.ToString(key.AccessKeyId),
			},
			State: types.StateDiscovered,
		})
	}

	attached, err := a.client.ListAttachedUserPolicies(ctx, &iam.ListAttachedUserPoliciesInput{
		UserName: aws.String(name),
	})
	if err != nil {
		return nil, classify("list attached user policies", err)
	}
	for _, policy := range attached.AttachedPolicies {
		deps = append(deps, attachmentResource("user", name, aws.ToString(policy.PolicyArn)))
	}

	inline, err := a.client.ListUserPolicies(ctx, &iam.ListUserPoliciesInput{UserName: aws.String(name)})
	if err != nil {
		return nil, classify("list user policies", err)
	}
	for _, policyName := range inline.PolicyNames {
		deps = append(deps, &types.Resource{
			Kind: types.KindIAMInlinePolicy,
			ID:   name + "/" + policyName,
			Name: policyName,
			Meta: map[string]string{
				metaEntityKind: "user",
				metaEntityName: name,
				metaPolicyName: policyName,
			},
			State: types.StateDiscovered,
		})
	}

	groups, err := a.client.ListGroupsForUser(ctx, &iam.ListGroupsForUserInput{UserName: aws.String(name)})
	if err != nil {
		return nil, classify("list groups for user", err)
	}
	for _, group := range groups.Groups {
		deps = append(deps, &types.Resource{
			Kind: types.KindIAMGroupMembership,
			ID:   aws.ToString(group.GroupName) + "/" + name,
			Name: aws.ToString(group.GroupName),
			Meta: map[string]string{
				metaUserName:  name,
				metaGroupName: aws.ToString(group.GroupName),
			},
			State: types.StateDiscovered,
		})
	}

	return deps, nil
}

// Delete removes one user dependent or the user itself.
func (a *UserAdapter) Delete(ctx context.Context, r *types.Resource) error {
	switch r.Kind {
	case types.KindIAMAccessKey:
		_, err := a.client.DeleteAccessKey(ctx, &iam.DeleteAccessKeyInput{
			UserName:    aws.String(r.MetaValue(metaUserName)),
			AccessKeyId: aws.String(r.MetaValue(metaAccessKeyID)),
		})
		return classify("delete access key", err)
	case types.KindIAMPolicyAttachment:
		_, err := a.client.DetachUserPolicy(ctx, &iam.DetachUserPolicyInput{
			UserName:  aws.String(r.MetaValue(metaEntityName)),
			PolicyArn: aws.String(r.MetaValue(metaPolicyARN)),
		})
		return classify("detach user policy", err)
	case types.KindIAMInlinePolicy:
		_, err := a.client.DeleteUserPolicy(ctx, &iam.DeleteUserPolicyInput{
			UserName:   aws.String(r.MetaValue(metaEntityName)),
			PolicyName: aws.String(r.MetaValue(metaPolicyName)),
		})
		return classify("delete user inline policy", err)
	case types.KindIAMGroupMembership:
		_, err := a.client.RemoveUserFromGroup(ctx, &iam.RemoveUserFromGroupInput{
			GroupName: aws.String(r.MetaValue(metaGroupName)),
			UserName:  aws.String(r.MetaValue(metaUserName)),
		})
		return classify("remove user from group", err)
	case types.KindIAMUser:
		_, err := a.client.DeleteUser(ctx, &iam.DeleteUserInput{UserName: aws.String(r.Name)})
		return classify("delete user", err)
	default:
		return fmt.Errorf("user adapter cannot delete kind %s", r.Kind)
	}
}

func attachmentResource(entityKind, entityName, policyARN string) *types.Resource {
	return &types.Resource{
		Kind: types.KindIAMPolicyAttachment,
		ID:   entityName + "/" + nameFromARN(policyARN),
		Name: nameFromARN(policyARN),
		ARN:  policyARN,
		Meta: map[string]string{
			metaEntityKind: entityKind,
			metaEntityName: entityName,
			metaPolicyARN:  policyARN,
		},
		State: types.StateDiscovered,
	}
}

func isServiceLinkedRole(role iamtypes.Role) bool {
	return strings.HasPrefix(aws.ToString(role.Path), "/aws-service-role/")
}

func iamTagMap(tags []iamtypes.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

// paginationMarker converts IAM's IsTruncated/Marker pair into the
// adapter's single-token shape.
func paginationMarker(isTruncated bool, marker *string) string {
	if !isTruncated {
		return ""
	}
	return aws.ToString(marker)
}
