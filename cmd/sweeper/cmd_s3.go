package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	s3Tags    string
	s3Pattern string

	s3Cmd = &cobra.Command{
		Use:   "s3",
		Short: "Remove S3 buckets",
	}

	s3RemoveByName = &cobra.Command{
		Use:   "remove-bucket-by-name <name>",
		Short: "Empty and delete one bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindBucket, &types.Filter{IDs: args})
		},
	}

	s3RemoveByTags = &cobra.Command{
		Use:   "remove-buckets-by-tags",
		Short: "Empty and delete every bucket matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(s3Tags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindBucket, filter)
		},
	}

	s3RemoveByPattern = &cobra.Command{
		Use:   "remove-buckets-by-pattern",
		Short: "Empty and delete every bucket whose name matches the glob",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindBucket, &types.Filter{NamePattern: s3Pattern})
		},
	}
)

func init() {
	rootCmd.AddCommand(s3Cmd)
	s3Cmd.AddCommand(s3RemoveByName, s3RemoveByTags, s3RemoveByPattern)

	s3RemoveByTags.Flags().StringVar(&s3Tags, "tags", "", "Tag filter, key=value pairs separated by commas")
	s3RemoveByPattern.Flags().StringVar(&s3Pattern, "pattern", "", "Name glob, e.g. 'dev-*'")
	_ = s3RemoveByPattern.MarkFlagRequired("pattern")
}
