package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	ecsServiceTags string
	ecsClusterTags string
	ecsTaskDefTags string

	ecsCmd = &cobra.Command{
		Use:   "ecs",
		Short: "Remove ECS clusters, services, and task definitions",
	}

	ecsRemoveServiceByName = &cobra.Command{
		Use:   "remove-service-by-name <service>...",
		Short: "Scale to zero and delete services by name or ARN",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindECSService, &types.Filter{IDs: args})
		},
	}

	ecsRemoveServicesByTags = &cobra.Command{
		Use:   "remove-services-by-tags",
		Short: "Scale to zero and delete every service matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(ecsServiceTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindECSService, filter)
		},
	}

	ecsRemoveClustersByTags = &cobra.Command{
		Use:   "remove-clusters-by-tags",
		Short: "Delete every cluster matching the tags, services first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(ecsClusterTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindECSCluster, filter)
		},
	}

	ecsRemoveClusterByName = &cobra.Command{
		Use:   "remove-cluster-by-name <name>",
		Short: "Delete one cluster, services first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindECSCluster, &types.Filter{IDs: args})
		},
	}

	ecsRemoveTaskDefsByTags = &cobra.Command{
		Use:   "remove-task-definitions-by-tags",
		Short: "Deregister and delete every task definition matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(ecsTaskDefTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindECSTaskDefinition, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(ecsCmd)
	ecsCmd.AddCommand(
		ecsRemoveServiceByName,
		ecsRemoveServicesByTags,
		ecsRemoveClusterByName,
		ecsRemoveClustersByTags,
		ecsRemoveTaskDefsByTags,
	)

	ecsRemoveServicesByTags.Flags().StringVar(&ecsServiceTags, "tags", "", "Tag filter, key=value pairs separated by commas")
	ecsRemoveClustersByTags.Flags().StringVar(&ecsClusterTags, "tags", "", "Tag filter, key=value pairs separated by commas")
	ecsRemoveTaskDefsByTags.Flags().StringVar(&ecsTaskDefTags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
