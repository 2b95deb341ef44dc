// Package cli implements rebalancectl, the officer-side client of the
// planning service.
//
//	rebalancectl
//	├── plan   --day      # show the proposed moves and balance stats
//	├── apply  --day --officer [--server-side]
//	└── audit  [--json]   # list the dock reassignment log
//
// apply exits 0 when everything (or nothing) was applied, 2 on a partial
// apply and 1 when every move failed, so scripts can tell the three apart.
package cli

import (
	"context"
	"dock-rebalance-service/internal/adapters/portapi"
	"dock-rebalance-service/internal/config"
	"dock-rebalance-service/internal/domain"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

// ExitError carries a process exit code through cobra.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

type options struct {
	server   string
	token    string
	timezone string
	timeout  time.Duration
}

func (o *options) client() (*portapi.Client, error) {
	return portapi.NewClient(o.server, portapi.WithToken(o.token))
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func BuildCLI() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "rebalancectl",
		Short:         "Plan and apply dock rebalancing for a day",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.server, "server", "s", config.Get("PORTOPS_URL", "http://localhost:8080"), "planning service base URL")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", config.Get("API_TOKEN", ""), "bearer token for the planning service")
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "timezone", config.Get("TIMEZONE", "UTC"), "time zone the default --day is taken in; match the server's server.timezone")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall command timeout")

	rootCmd.AddCommand(buildPlanCommand(opts))
	rootCmd.AddCommand(buildApplyCommand(opts))
	rootCmd.AddCommand(buildAuditCommand(opts))

	return rootCmd
}

// resolveDay returns day, or tomorrow in the configured time zone when day is
// empty, so the default matches the day the server's preview plans.
func (o *options) resolveDay(day string, now time.Time) (string, error) {
	if day != "" {
		return day, nil
	}
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return "", fmt.Errorf("--timezone %q: %w", o.timezone, err)
	}
	return now.In(loc).AddDate(0, 0, 1).Format(domain.DayLayout), nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
