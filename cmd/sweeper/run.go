package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudsweep/sweeper/deleter"
	"github.com/cloudsweep/sweeper/discover"
	"github.com/cloudsweep/sweeper/providers/aws"
	"github.com/cloudsweep/sweeper/report"
	"github.com/cloudsweep/sweeper/telemetry"
	"github.com/cloudsweep/sweeper/types"
)

// runRemoval is the shared dispatch path: build clients for the scope,
// discover candidates for the kind, confirm, delete, report. The returned
// error drives the process exit status.
func runRemoval(cmd *cobra.Command, kind types.Kind, filter *types.Filter) error {
	ctx := cmd.Context()
	logger := telemetry.NewConsoleLogger("sweeper", flagDebug)

	clients, err := aws.NewClients(ctx, flagProfile, flagRegion)
	if err != nil {
		return err
	}
	adapter, err := aws.NewAdapter(kind, clients)
	if err != nil {
		return err
	}

	scope := types.Scope{Profile: flagProfile, Region: clients.Region()}
	candidates, err := discover.New(adapter, logger).Discover(ctx, scope, filter)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		logger.Info().Str("kind", string(kind)).Msg("no matching resources")
		return nil
	}

	opts := types.Options{DryRun: flagDryRun, Force: flagForce}
	if !opts.DryRun && !opts.Force && !confirmRemoval(cmd, candidates) {
		logger.Info().Msg("aborted, nothing deleted")
		return nil
	}

	rep := deleter.New(adapter, opts.DryRun, logger).DeleteAll(ctx, candidates)
	rep.Log(logger)
	printSummary(cmd, rep)

	if !rep.OK() {
		s := rep.Summarize()
		return fmt.Errorf("%d of %d resources failed", s.Failed, len(candidates))
	}
	return nil
}

// confirmRemoval lists the candidates and asks for an explicit yes.
func confirmRemoval(cmd *cobra.Command, candidates []*types.Resource) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "About to delete %d resources:\n", len(candidates))
	for _, r := range candidates {
		fmt.Fprintf(out, "  %s  %s\n", r.Kind, r.ID)
	}
	fmt.Fprint(out, "Proceed? [y/N]: ")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printSummary(cmd *cobra.Command, rep *report.Report) {
	s := rep.Summarize()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "deleted: %d  failed: %d  skipped: %d\n", s.Deleted, s.Failed, s.Skipped)
	for _, f := range s.Failures {
		fmt.Fprintf(out, "FAILED %s %s: %v\n", f.Kind, f.ID, f.Err)
	}
}

// fileFilter builds an ID filter from a file holding one identifier per
// line. Blank lines and #-comments are skipped.
func fileFilter(path string) (*types.Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read id list: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read id list: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("id list %s is empty", path)
	}
	return &types.Filter{IDs: ids}, nil
}

// tagsFilter builds a tag filter from the --tags flag value.
func tagsFilter(tagsFlag string) (*types.Filter, error) {
	tags, err := types.ParseTags(tagsFlag)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("--tags is required, e.g. --tags env=dev,team=web")
	}
	return &types.Filter{Tags: tags}, nil
}
