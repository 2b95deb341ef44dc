package cli

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/services"
	"dock-rebalance-service/internal/session"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func buildApplyCommand(opts *options) *cobra.Command {
	var (
		day          string
		officer      string
		serverSide   bool
		entryTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Compute the plan for a day and apply its moves",
		Long: `Computes the plan, then applies every moved entry one at a time:
the vessel visit's dock is updated and an audit record is written.
A failed entry never stops the others.

With --server-side the service applies the plan itself and rejects it
if the day's data changed since it was computed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("officer", officer); err != nil {
				return err
			}

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

			s := session.New()
			if _, err := s.Compute(ctx, day, client.Plan); err != nil {
				return err
			}

			apply := func(ctx context.Context, plan domain.RebalancePlan, fp string, moved []domain.RebalanceResultEntry) (domain.ApplyOutcome, error) {
				if serverSide {
					return client.ApplyOnServer(ctx, plan.Day, officer, moved, fp)
				}
				return services.ApplyPlan(ctx, services.ApplyPlanRequest{
					Entries:      moved,
					OfficerID:    officer,
					EntryTimeout: entryTimeout,
				}, client, client)
			}

			outcome, err := s.Apply(ctx, apply)
			if errors.Is(err, session.ErrNothingToApply) {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to apply for %s: the docks are already balanced.\n", day)
				return nil
			}

			printOutcome(cmd.OutOrStdout(), outcome)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			switch outcome.Result() {
			case domain.ApplyPartial:
				return &ExitError{Code: 2, Err: errors.New("plan partially applied; recompute before applying again")}
			case domain.ApplyFailed:
				return &ExitError{Code: 1, Err: errors.New("no move could be applied; the plan can be retried")}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&day, "day", "d", "", "planning day (YYYY-MM-DD); defaults to tomorrow in --timezone")
	cmd.Flags().StringVarP(&officer, "officer", "o", "", "officer id recorded in the audit log (required)")
	cmd.Flags().BoolVar(&serverSide, "server-side", false, "let the service apply the plan with a staleness check")
	cmd.Flags().DurationVar(&entryTimeout, "entry-timeout", 10*time.Second, "timeout per update or audit call")

	return cmd
}

func printOutcome(w io.Writer, o domain.ApplyOutcome) {
	switch o.Result() {
	case domain.ApplyApplied:
		fmt.Fprintf(w, "Applied all %d moves.\n", o.SuccessCount)
	case domain.ApplyPartial:
		fmt.Fprintf(w, "Partially applied: %d succeeded, %d failed.\n", o.SuccessCount, o.FailCount)
	case domain.ApplyFailed:
		fmt.Fprintf(w, "Apply failed: all %d moves failed.\n", o.FailCount)
	}
	for _, f := range o.Failures {
		fmt.Fprintf(w, "  %s (%s): %s\n", f.VvnID, f.Step, f.Reason)
	}
}
