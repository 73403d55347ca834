package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	codebuildTags string

	codebuildCmd = &cobra.Command{
		Use:   "codebuild",
		Short: "Remove CodeBuild projects",
	}

	codebuildRemoveByName = &cobra.Command{
		Use:   "remove-project-by-name <name>",
		Short: "Delete one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindCodeBuildProject, &types.Filter{IDs: args})
		},
	}

	codebuildRemoveByTags = &cobra.Command{
		Use:   "remove-projects-by-tags",
		Short: "Delete every project matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(codebuildTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindCodeBuildProject, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(codebuildCmd)
	codebuildCmd.AddCommand(codebuildRemoveByName, codebuildRemoveByTags)

	codebuildRemoveByTags.Flags().StringVar(&codebuildTags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
