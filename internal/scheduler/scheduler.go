package scheduler

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/metrics"
	"dock-rebalance-service/internal/ports"
	"dock-rebalance-service/internal/services"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic plan preview. The preview computes the next
// day's plan for logs and metrics only; it never applies anything.
type Scheduler struct {
	Cron     *cron.Cron
	Visits   ports.VesselVisitReader
	Oracles  services.OracleFactory
	Metrics  *metrics.Collector
	Location *time.Location
	Now      func() time.Time
	Ctx      context.Context
}

func NewScheduler(
	ctx context.Context,
	visits ports.VesselVisitReader,
	oracles services.OracleFactory,
	m *metrics.Collector,
	loc *time.Location,
) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Visits:   visits,
		Oracles:  oracles,
		Metrics:  m,
		Location: loc,
		Now:      time.Now,
		Ctx:      ctx,
	}
}

// RegisterPreview schedules the preview job. The cron expression has a seconds field.
func (s *Scheduler) RegisterPreview(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.previewTask); err != nil {
		return fmt.Errorf("register preview task %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	slog.Info("scheduler started", "jobs", len(s.Cron.Entries()))
}

// Stop stops the scheduler and waits for a running preview to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RunPreviewNow computes tomorrow's plan immediately.
func (s *Scheduler) RunPreviewNow(ctx context.Context) (domain.RebalancePlan, error) {
	day := s.Now().In(s.Location).AddDate(0, 0, 1).Format(domain.DayLayout)

	start := time.Now()
	plan, _, err := services.PlanDay(ctx, services.PlanDayRequest{Day: day, Location: s.Location}, s.Visits, s.Oracles)
	if err != nil {
		return domain.RebalancePlan{}, fmt.Errorf("preview %s: %w", day, err)
	}
	s.Metrics.RecordPlan(plan, time.Since(start))

	return plan, nil
}

func (s *Scheduler) previewTask() {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	plan, err := s.RunPreviewNow(ctx)
	if err != nil {
		slog.Error("plan preview failed", "err", err)
		return
	}

	slog.Info("plan preview",
		"day", plan.Day,
		"candidates", len(plan.Candidates),
		"moves", len(plan.Assignments),
		"std_dev_before", plan.Stats.StdDevBefore,
		"std_dev_after", plan.Stats.StdDevAfter,
		"improvement_pct", plan.Stats.ImprovementPercent,
	)
}
