package cli

import (
	"dock-rebalance-service/internal/domain"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func buildPlanCommand(opts *options) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the proposed dock moves for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := opts.resolveDay(day, time.Now())
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			plan, fp, err := client.Plan(ctx, day)
			if err != nil {
				return fmt.Errorf("compute plan: %w", err)
			}

			printPlan(cmd.OutOrStdout(), plan, fp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&day, "day", "d", "", "planning day (YYYY-MM-DD); defaults to tomorrow in --timezone")

	return cmd
}

func printPlan(w io.Writer, plan domain.RebalancePlan, fingerprint string) {
	fmt.Fprintf(w, "Day %s: %d candidates, %d moves (fingerprint %s)\n",
		plan.Day, len(plan.Candidates), len(plan.Assignments), fingerprint)

	if len(plan.Candidates) == 0 {
		fmt.Fprintln(w, "No vessel visits for this day.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VVN\tVESSEL\tFROM\tTO\tHOURS")
	for _, e := range plan.ResultEntries() {
		to := "-"
		if e.IsMoved() {
			to = e.ProposedDock
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\n", e.VvnID, e.VesselName, e.OriginalDock, to, e.Duration)
	}
	_ = tw.Flush()

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCK\tBEFORE\tAFTER\tDIFF")
	for _, ld := range plan.LoadDifferences {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%+.1f\n", ld.Dock, ld.Before, ld.After, ld.Difference)
	}
	_ = tw.Flush()

	improvement := plan.Stats.ImprovementPercent
	if improvement < 0 {
		improvement = 0
	}
	fmt.Fprintf(w, "Std dev %.2f -> %.2f (%.1f%% better)\n",
		plan.Stats.StdDevBefore, plan.Stats.StdDevAfter, improvement)
}
