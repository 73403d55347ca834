package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	codepipelineTags string

	codepipelineCmd = &cobra.Command{
		Use:   "codepipeline",
		Short: "Remove CodePipeline pipelines",
	}

	codepipelineRemoveByName = &cobra.Command{
		Use:   "remove-pipeline-by-name <name>",
		Short: "Delete one pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindCodePipelinePipeline, &types.Filter{IDs: args})
		},
	}

	codepipelineRemoveByTags = &cobra.Command{
		Use:   "remove-pipelines-by-tags",
		Short: "Delete every pipeline matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(codepipelineTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindCodePipelinePipeline, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(codepipelineCmd)
	codepipelineCmd.AddCommand(codepipelineRemoveByName, codepipelineRemoveByTags)

	codepipelineRemoveByTags.Flags().StringVar(&codepipelineTags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
