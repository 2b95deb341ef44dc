package services

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// OracleFactory builds the feasibility predicate from the current dock data.
type OracleFactory func(docks []domain.Dock) ports.FeasibilityChecker

type PlanDayRequest struct {
	Day      string
	Location *time.Location
}

// PlanDay loads the candidates arriving on the requested day and the known
// docks, then computes a rebalance plan for them. The returned fingerprint
// identifies the dock and candidate state the plan was computed from.
func PlanDay(
	ctx context.Context,
	req PlanDayRequest,
	repo ports.VesselVisitReader,
	oracles OracleFactory,
) (plan domain.RebalancePlan, fingerprint string, err error) {
	defer obs.Time(ctx, "services.PlanDay")(&err)

	day, err := domain.ParseDay(req.Day, req.Location)
	if err != nil {
		return domain.RebalancePlan{}, "", fmt.Errorf("plan day: %w", err)
	}

	var (
		candidates []domain.RebalanceCandidate
		docks      []domain.Dock
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := repo.ListCandidates(gctx, day.Start, day.End)
		if err != nil {
			return fmt.Errorf("plan day: list candidates: %w", err)
		}
		candidates = c
		return nil
	})
	g.Go(func() error {
		d, err := repo.ListDocks(gctx)
		if err != nil {
			return fmt.Errorf("plan day: list docks: %w", err)
		}
		docks = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.RebalancePlan{}, "", err
	}

	valid := make([]domain.RebalanceCandidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			slog.WarnContext(ctx, "skipping invalid candidate", "req_id", obs.RequestID(ctx), "day", day.Day, "err", err)
			continue
		}
		valid = append(valid, c)
	}

	var oracle ports.FeasibilityChecker
	if oracles != nil {
		oracle = oracles(docks)
	}

	plan = PlanRebalance(day, valid, domain.DockCodes(docks), oracle)
	return plan, PlanFingerprint(plan, docks), nil
}
