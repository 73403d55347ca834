package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	cloudfrontTags string

	cloudfrontCmd = &cobra.Command{
		Use:   "cloudfront",
		Short: "Remove CloudFront distributions",
	}

	cloudfrontRemoveByID = &cobra.Command{
		Use:   "remove-distribution-by-id <id>",
		Short: "Disable and delete one distribution by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindCloudFrontDistribution, &types.Filter{IDs: args})
		},
	}

	cloudfrontRemoveByName = &cobra.Command{
		Use:   "remove-distribution-by-name <domain-name>",
		Short: "Disable and delete one distribution by domain name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindCloudFrontDistribution, &types.Filter{IDs: args})
		},
	}

	cloudfrontRemoveByARN = &cobra.Command{
		Use:   "remove-distribution-by-arn <arn>",
		Short: "Disable and delete one distribution by ARN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindCloudFrontDistribution, &types.Filter{IDs: args})
		},
	}

	cloudfrontRemoveByTags = &cobra.Command{
		Use:   "remove-distributions-by-tags",
		Short: "Disable and delete every distribution matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(cloudfrontTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindCloudFrontDistribution, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(cloudfrontCmd)
	cloudfrontCmd.AddCommand(
		cloudfrontRemoveByID,
		cloudfrontRemoveByName,
		cloudfrontRemoveByARN,
		cloudfrontRemoveByTags,
	)

	cloudfrontRemoveByTags.Flags().StringVar(&cloudfrontTags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
