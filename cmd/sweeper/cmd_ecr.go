package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	ecrTags string

	ecrCmd = &cobra.Command{
		Use:   "ecr",
		Short: "Remove ECR repositories",
	}

	ecrRemoveByName = &cobra.Command{
		Use:   "remove-repository-by-name <name>",
		Short: "Force-delete one repository, images included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindECRRepository, &types.Filter{IDs: args})
		},
	}

	ecrRemoveByTags = &cobra.Command{
		Use:   "remove-repositories-by-tags",
		Short: "Force-delete every repository matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(ecrTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindECRRepository, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(ecrCmd)
	ecrCmd.AddCommand(ecrRemoveByName, ecrRemoveByTags)

	ecrRemoveByTags.Flags().StringVar(&ecrTags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
