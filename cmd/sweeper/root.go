package main

import (
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	flagProfile string
	flagRegion  string
	flagForce   bool
	flagDryRun  bool
	flagDebug   bool

	rootCmd = &cobra.Command{
		Use:   "sweeper",
		Short: "Bulk deletion for AWS account resources",
		Long: `Sweeper discovers and deletes AWS resources in bulk, replacing
console clicking with repeatable commands scoped by profile and region.

Each command lists candidates for one resource kind, filters them by
name, tag, or pattern, and deletes them in dependency order: bucket
objects before buckets, policy attachments before roles, services
before clusters. Failures never stop the rest of the batch.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.SetVersionTemplate("sweeper {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "AWS region to operate in")
	rootCmd.PersistentFlags().BoolVar(&flagForce, "force", false, "Skip the confirmation prompt")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "List what would be deleted without deleting")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}
