package cli

import (
	"cmp"
	"dock-rebalance-service/internal/api/dto"
	"dock-rebalance-service/internal/domain"
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func buildAuditCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List dock reassignment audit records, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			logs, err := client.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list audit log: %w", err)
			}

			// The store does not guarantee order.
			slices.SortStableFunc(logs, func(a, b domain.DockReassignmentLog) int {
				if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
					return c
				}
				return cmp.Compare(a.ID, b.ID)
			})

			w := cmd.OutOrStdout()
			if asJSON {
				out := make([]dto.DockReassignmentLogDTO, 0, len(logs))
				for _, l := range logs {
					out = append(out, dto.NewReassignmentLogDTO(l))
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tVVN\tVESSEL\tFROM\tTO\tOFFICER")
			for _, l := range logs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.Timestamp.Format(time.RFC3339), l.VvnID, l.VesselName, l.OriginalDock, l.UpdatedDock, l.OfficerID)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")

	return cmd
}
