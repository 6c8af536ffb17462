package main

import (
	"fmt"
	"io"

	"cutoffrank/domain/cutoff"
	"cutoffrank/domain/selection"
	"cutoffrank/internal/errors"

	"github.com/spf13/cobra"
)

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the reservation categories in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), svc.Categories())
			return nil
		},
	}
}

func newCollegesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "colleges",
		Short: "List every college in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), svc.Colleges())
			return nil
		},
	}
}

func newBranchesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "branches [college]",
		Short: "List the branches offered by a college",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			branches := svc.Branches(args[0])
			if len(branches) == 0 {
				return errors.NotFound(fmt.Sprintf("college %q", args[0]))
			}
			printLines(cmd.OutOrStdout(), branches)
			return nil
		},
	}
}

func newLookupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [category] [college] [branch]",
		Short: "Print the cutoff rank for one college and branch",
		Long: `Print the cutoff rank for one (category, college, branch) selection.

Example: cutoffrank lookup GM "RV College of Engineering" "Computer Science"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := svc.Lookup(selection.Picks{Category: args[0], College: args[1], Branch: args[2]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cutoff Rank: %s\n", entry.Cutoff)
			return nil
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [category]",
		Short: "Summarize the cutoff ranks of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := svc.Summary(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func printSummary(w io.Writer, s cutoff.Summary) {
	fmt.Fprintln(w, accentStyle.Render("Category: "+s.Category))
	fmt.Fprintf(w, "Count:  %d\n", s.Count)
	fmt.Fprintf(w, "Min:    %s\n", s.Min)
	fmt.Fprintf(w, "Max:    %s\n", s.Max)
	fmt.Fprintf(w, "Mean:   %s\n", cutoff.Rank(s.Mean))
	fmt.Fprintf(w, "Median: %s\n", cutoff.Rank(s.Median))
}
