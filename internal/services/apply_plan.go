package services

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	StepUpdate = "update"
	StepLog    = "log"
)

var ErrOfficerRequired = errors.New("officer id is required")

type ApplyPlanRequest struct {
	Entries   []domain.RebalanceResultEntry
	OfficerID string
	// Clock for audit timestamps; defaults to time.Now.
	Now func() time.Time
	// Per-step timeout; zero means no timeout.
	EntryTimeout time.Duration
}

// ApplyPlan commits the moved entries one at a time: update the visit's dock,
// then append an audit record. A failure of either step is counted against
// that entry and the run continues; there is no rollback across entries.
//
// The run is not interrupted by cancellation of ctx. Only an authorization
// failure stops it early, returning the outcome so far with the error.
func ApplyPlan(
	ctx context.Context,
	req ApplyPlanRequest,
	updater ports.DockUpdater,
	logs ports.ReassignmentLogStore,
) (outcome domain.ApplyOutcome, err error) {
	moved := domain.MovedOnly(req.Entries)
	if len(moved) == 0 {
		return domain.ApplyOutcome{}, nil
	}
	if strings.TrimSpace(req.OfficerID) == "" {
		return domain.ApplyOutcome{}, fmt.Errorf("apply plan: %w", ErrOfficerRequired)
	}

	defer obs.Time(ctx, "services.ApplyPlan")(&err)

	now := req.Now
	if now == nil {
		now = time.Now
	}

	base := context.WithoutCancel(ctx)

	for _, e := range moved {
		if err := runStep(base, req.EntryTimeout, func(sctx context.Context) error {
			return updater.UpdateDock(sctx, e.VvnID, e.ProposedDock)
		}); err != nil {
			outcome.Fail(e.VvnID, StepUpdate, err)
			if errors.Is(err, ports.ErrUnauthorized) {
				return outcome, fmt.Errorf("apply plan: update %s: %w", e.VvnID, err)
			}
			continue
		}

		entry := domain.DockReassignmentLog{
			VvnID:        e.VvnID,
			VesselName:   e.VesselName,
			OriginalDock: e.OriginalDock,
			UpdatedDock:  e.ProposedDock,
			OfficerID:    req.OfficerID,
			Timestamp:    now(),
		}
		if err := runStep(base, req.EntryTimeout, func(sctx context.Context) error {
			_, err := logs.Append(sctx, entry)
			return err
		}); err != nil {
			// The dock already changed; the audit gap is logged so it can be reconciled.
			slog.ErrorContext(ctx, "dock updated without audit record",
				"req_id", obs.RequestID(ctx), "vvn_id", e.VvnID, "dock", e.ProposedDock, "err", err)
			outcome.Fail(e.VvnID, StepLog, err)
			if errors.Is(err, ports.ErrUnauthorized) {
				return outcome, fmt.Errorf("apply plan: log %s: %w", e.VvnID, err)
			}
			continue
		}

		outcome.SuccessCount++
	}

	return outcome, nil
}

func runStep(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(sctx)
}
