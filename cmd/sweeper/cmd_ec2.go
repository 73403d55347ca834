package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	ec2Tags string

	ec2Cmd = &cobra.Command{
		Use:   "ec2",
		Short: "Terminate EC2 instances",
	}

	ec2RemoveByID = &cobra.Command{
		Use:   "remove-instance-by-id <instance-id>...",
		Short: "Terminate instances by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindEC2Instance, &types.Filter{IDs: args})
		},
	}

	ec2RemoveByTags = &cobra.Command{
		Use:   "remove-instances-by-tags",
		Short: "Terminate every instance matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(ec2Tags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindEC2Instance, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(ec2Cmd)
	ec2Cmd.AddCommand(ec2RemoveByID, ec2RemoveByTags)

	ec2RemoveByTags.Flags().StringVar(&ec2Tags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
