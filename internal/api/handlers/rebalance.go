package handlers

import (
	"dock-rebalance-service/internal/api/dto"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/metrics"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"dock-rebalance-service/internal/services"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type RebalanceHandler struct {
	Visits       ports.VesselVisitRepository
	Logs         ports.ReassignmentLogStore
	Oracles      services.OracleFactory
	Metrics      *metrics.Collector
	Location     *time.Location
	EntryTimeout time.Duration
}

// Plan computes the dock rebalance plan for ?day=YYYY-MM-DD. The response
// carries the plan fingerprint as its ETag.
func (h *RebalanceHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	day := strings.TrimSpace(r.URL.Query().Get("day"))
	if _, err := domain.ParseDay(day, h.Location); err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
		return
	}

	start := time.Now()
	plan, fingerprint, err := services.PlanDay(r.Context(), services.PlanDayRequest{Day: day, Location: h.Location}, h.Visits, h.Oracles)
	if err != nil {
		slog.ErrorContext(r.Context(), "plan rebalance failed", "req_id", obs.RequestID(r.Context()), "day", day, "err", err)
		writeUpstreamError(w, r, err)
		return
	}
	h.Metrics.RecordPlan(plan, time.Since(start))

	w.Header().Set("ETag", `"`+fingerprint+`"`)
	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}

// Apply commits the moved entries of a previously computed plan. With an
// If-Match header the day is re-planned first and a changed fingerprint is
// rejected with 412, so a plan computed from stale data is never applied.
func (h *RebalanceHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.ApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, decodeError(err))
		return
	}

	if strings.TrimSpace(req.OfficerID) == "" {
		writeError(w, r, http.StatusBadRequest, "officerId is required")
		return
	}
	if _, err := domain.ParseDay(req.Day, h.Location); err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
		return
	}

	if want := strings.Trim(strings.TrimSpace(r.Header.Get("If-Match")), `"`); want != "" {
		_, current, err := services.PlanDay(r.Context(), services.PlanDayRequest{Day: req.Day, Location: h.Location}, h.Visits, h.Oracles)
		if err != nil {
			slog.ErrorContext(r.Context(), "replan before apply failed", "req_id", obs.RequestID(r.Context()), "day", req.Day, "err", err)
			writeUpstreamError(w, r, err)
			return
		}
		if current != want {
			writeError(w, r, http.StatusPreconditionFailed, ports.ErrStalePlan.Error()+": recompute the plan before applying")
			return
		}
	}

	entries := make([]domain.RebalanceResultEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, e.Entry())
	}

	outcome, err := services.ApplyPlan(r.Context(), services.ApplyPlanRequest{
		Entries:      entries,
		OfficerID:    req.OfficerID,
		EntryTimeout: h.EntryTimeout,
	}, h.Visits, h.Logs)
	h.Metrics.RecordApply(outcome)
	if err != nil {
		slog.ErrorContext(r.Context(), "apply plan aborted", "req_id", obs.RequestID(r.Context()), "day", req.Day, "err", err)
		if errors.Is(err, ports.ErrUnauthorized) {
			writeError(w, r, http.StatusForbidden, "apply rejected: unauthorized")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.InfoContext(r.Context(), "plan applied",
		"req_id", obs.RequestID(r.Context()), "day", req.Day, "officer_id", req.OfficerID,
		"result", outcome.Result(), "success", outcome.SuccessCount, "failed", outcome.FailCount)

	writeJSON(w, r, http.StatusOK, dto.NewApplyResponse(outcome))
}

func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ports.ErrUpstreamUnavailable) {
		writeError(w, r, http.StatusServiceUnavailable, "vessel visit store unavailable")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
