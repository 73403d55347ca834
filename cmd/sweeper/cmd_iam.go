package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	iamPolicyTags string
	iamRoleTags   string

	iamCmd = &cobra.Command{
		Use:   "iam",
		Short: "Remove IAM roles, users, groups, and policies",
	}

	iamRemoveRoleByName = &cobra.Command{
		Use:   "remove-role-by-name <name>",
		Short: "Detach policies and delete one role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindIAMRole, &types.Filter{IDs: args})
		},
	}

	iamRemoveRolesByTags = &cobra.Command{
		Use:   "remove-roles-by-tags",
		Short: "Detach policies and delete every role matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(iamRoleTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindIAMRole, filter)
		},
	}

	iamRemoveUserByName = &cobra.Command{
		Use:   "remove-user-by-name <name>",
		Short: "Remove keys, policies, group memberships, then delete one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindIAMUser, &types.Filter{IDs: args})
		},
	}

	iamRemoveGroupByName = &cobra.Command{
		Use:   "remove-group-by-name <name>",
		Short: "Remove members and delete one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindIAMGroup, &types.Filter{IDs: args})
		},
	}

	iamRemovePolicyByName = &cobra.Command{
		Use:   "remove-policy-by-name <name>",
		Short: "Detach everywhere, drop old versions, delete one policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindIAMPolicy, &types.Filter{IDs: args})
		},
	}

	iamRemovePoliciesByTags = &cobra.Command{
		Use:   "remove-policies-by-tags",
		Short: "Delete every customer-managed policy matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(iamPolicyTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindIAMPolicy, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(iamCmd)
	iamCmd.AddCommand(
		iamRemoveRoleByName,
		iamRemoveRolesByTags,
		iamRemoveUserByName,
		iamRemoveGroupByName,
		iamRemovePolicyByName,
		iamRemovePoliciesByTags,
	)

	iamRemoveRolesByTags.Flags().StringVar(&iamRoleTags, "tags", "", "Tag filter, key=value pairs separated by commas")
	iamRemovePoliciesByTags.Flags().StringVar(&iamPolicyTags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
