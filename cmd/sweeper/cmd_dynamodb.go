package main

import (
	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/types"
)

var (
	dynamodbTags string

	dynamodbCmd = &cobra.Command{
		Use:   "dynamodb",
		Short: "Remove DynamoDB tables",
	}

	dynamodbRemoveByName = &cobra.Command{
		Use:   "remove-table-by-name <name>",
		Short: "Delete one table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoval(cmd, types.KindDynamoDBTable, &types.Filter{IDs: args})
		},
	}

	dynamodbRemoveByFile = &cobra.Command{
		Use:   "remove-tables-by-file <path>",
		Short: "Delete every table listed in a file, one name per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fileFilter(args[0])
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindDynamoDBTable, filter)
		},
	}

	dynamodbRemoveByTags = &cobra.Command{
		Use:   "remove-tables-by-tags",
		Short: "Delete every table matching the tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tagsFilter(dynamodbTags)
			if err != nil {
				return err
			}
			return runRemoval(cmd, types.KindDynamoDBTable, filter)
		},
	}
)

func init() {
	rootCmd.AddCommand(dynamodbCmd)
	dynamodbCmd.AddCommand(dynamodbRemoveByName, dynamodbRemoveByFile, dynamodbRemoveByTags)

	dynamodbRemoveByTags.Flags().StringVar(&dynamodbTags, "tags", "", "Tag filter, key=value pairs separated by commas")
}
