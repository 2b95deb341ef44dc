package dto

import (
	"dock-rebalance-service/internal/domain"
	"time"
)

type RebalanceCandidateResponse struct {
	VvnID                  string     `json:"vvnId"`
	VesselName             string     `json:"vesselName"`
	VesselType             string     `json:"vesselType,omitempty"`
	CurrentDock            string     `json:"currentDock"`
	EstimatedTimeArrival   *time.Time `json:"estimatedTimeArrival"`
	EstimatedTimeDeparture *time.Time `json:"estimatedTimeDeparture"`
	OperationDurationHours float64    `json:"operationDurationHours"`
}

type DockAssignmentResponse struct {
	ID   string `json:"id"`
	Dock string `json:"dock"`
}

type LoadDifferenceResponse struct {
	Dock       string  `json:"dock"`
	Before     float64 `json:"before"`
	After      float64 `json:"after"`
	Difference float64 `json:"difference"`
}

// PlanResponse is the DockRebalanceFinal wire shape.
type PlanResponse struct {
	Day                string                       `json:"day"`
	Candidates         []RebalanceCandidateResponse `json:"candidates"`
	Assignments        []DockAssignmentResponse     `json:"assignments"`
	LoadDifferences    []LoadDifferenceResponse     `json:"loadDifferences"`
	BalanceScore       float64                      `json:"balanceScore"`
	ImprovementPercent float64                      `json:"improvementPercent"`
	StdDevBefore       float64                      `json:"stdDevBefore"`
	StdDevAfter        float64                      `json:"stdDevAfter"`
}

type ApplyEntryRequest struct {
	VvnID        string     `json:"vvnId"`
	VesselName   string     `json:"vesselName"`
	OriginalDock string     `json:"originalDock"`
	ProposedDock string     `json:"proposedDock"`
	ETA          *time.Time `json:"eta,omitempty"`
	ETD          *time.Time `json:"etd,omitempty"`
	Duration     float64    `json:"duration"`
}

type ApplyRequest struct {
	Day       string              `json:"day"`
	OfficerID string              `json:"officerId"`
	Entries   []ApplyEntryRequest `json:"entries"`
}

type ApplyFailureResponse struct {
	VvnID  string `json:"vvnId"`
	Step   string `json:"step"`
	Reason string `json:"reason"`
}

type ApplyResponse struct {
	SuccessCount int                    `json:"successCount"`
	FailCount    int                    `json:"failCount"`
	Result       string                 `json:"result"`
	Failures     []ApplyFailureResponse `json:"failures"`
}

type UpdateDockRequest struct {
	Dock string `json:"dock"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func NewPlanResponse(p domain.RebalancePlan) PlanResponse {
	res := PlanResponse{
		Day:                p.Day,
		Candidates:         make([]RebalanceCandidateResponse, 0, len(p.Candidates)),
		Assignments:        make([]DockAssignmentResponse, 0, len(p.Assignments)),
		LoadDifferences:    make([]LoadDifferenceResponse, 0, len(p.LoadDifferences)),
		BalanceScore:       p.Stats.BalanceScore,
		ImprovementPercent: p.Stats.ImprovementPercent,
		StdDevBefore:       p.Stats.StdDevBefore,
		StdDevAfter:        p.Stats.StdDevAfter,
	}

	for _, c := range p.Candidates {
		res.Candidates = append(res.Candidates, RebalanceCandidateResponse{
			VvnID:                  c.VvnID,
			VesselName:             c.VesselName,
			VesselType:             c.VesselType,
			CurrentDock:            c.CurrentDock,
			EstimatedTimeArrival:   timePtr(c.EstimatedTimeArrival),
			EstimatedTimeDeparture: timePtr(c.EstimatedTimeDeparture),
			OperationDurationHours: c.OperationDurationHours,
		})
	}
	for _, a := range p.Assignments {
		res.Assignments = append(res.Assignments, DockAssignmentResponse{ID: a.ID, Dock: a.Dock})
	}
	for _, ld := range p.LoadDifferences {
		res.LoadDifferences = append(res.LoadDifferences, LoadDifferenceResponse{
			Dock:       ld.Dock,
			Before:     ld.Before,
			After:      ld.After,
			Difference: ld.Difference,
		})
	}

	return res
}

// Plan converts the wire shape back to the domain plan.
func (r PlanResponse) Plan() domain.RebalancePlan {
	p := domain.RebalancePlan{
		Day:             r.Day,
		Candidates:      make([]domain.RebalanceCandidate, 0, len(r.Candidates)),
		Assignments:     make([]domain.DockAssignment, 0, len(r.Assignments)),
		LoadDifferences: make([]domain.LoadDifference, 0, len(r.LoadDifferences)),
		Stats: domain.RebalanceStats{
			BalanceScore:       r.BalanceScore,
			ImprovementPercent: r.ImprovementPercent,
			StdDevBefore:       r.StdDevBefore,
			StdDevAfter:        r.StdDevAfter,
		},
	}

	for _, c := range r.Candidates {
		p.Candidates = append(p.Candidates, domain.RebalanceCandidate{
			VvnID:                  c.VvnID,
			VesselName:             c.VesselName,
			VesselType:             c.VesselType,
			CurrentDock:            c.CurrentDock,
			EstimatedTimeArrival:   timeVal(c.EstimatedTimeArrival),
			EstimatedTimeDeparture: timeVal(c.EstimatedTimeDeparture),
			OperationDurationHours: c.OperationDurationHours,
		})
	}
	for _, a := range r.Assignments {
		p.Assignments = append(p.Assignments, domain.DockAssignment{ID: a.ID, Dock: a.Dock})
	}
	for _, ld := range r.LoadDifferences {
		p.LoadDifferences = append(p.LoadDifferences, domain.LoadDifference{
			Dock:       ld.Dock,
			Before:     ld.Before,
			After:      ld.After,
			Difference: ld.Difference,
		})
	}

	return p
}

func NewApplyEntries(entries []domain.RebalanceResultEntry) []ApplyEntryRequest {
	out := make([]ApplyEntryRequest, 0, len(entries))
	for _, e := range entries {
		out = append(out, ApplyEntryRequest{
			VvnID:        e.VvnID,
			VesselName:   e.VesselName,
			OriginalDock: e.OriginalDock,
			ProposedDock: e.ProposedDock,
			ETA:          timePtr(e.ETA),
			ETD:          timePtr(e.ETD),
			Duration:     e.Duration,
		})
	}
	return out
}

func (e ApplyEntryRequest) Entry() domain.RebalanceResultEntry {
	return domain.RebalanceResultEntry{
		VvnID:        e.VvnID,
		VesselName:   e.VesselName,
		OriginalDock: e.OriginalDock,
		ProposedDock: e.ProposedDock,
		ETA:          timeVal(e.ETA),
		ETD:          timeVal(e.ETD),
		Duration:     e.Duration,
	}
}

func NewApplyResponse(o domain.ApplyOutcome) ApplyResponse {
	res := ApplyResponse{
		SuccessCount: o.SuccessCount,
		FailCount:    o.FailCount,
		Result:       string(o.Result()),
		Failures:     make([]ApplyFailureResponse, 0, len(o.Failures)),
	}
	for _, f := range o.Failures {
		res.Failures = append(res.Failures, ApplyFailureResponse{VvnID: f.VvnID, Step: f.Step, Reason: f.Reason})
	}
	return res
}

func (r ApplyResponse) Outcome() domain.ApplyOutcome {
	o := domain.ApplyOutcome{SuccessCount: r.SuccessCount, FailCount: r.FailCount}
	for _, f := range r.Failures {
		o.Failures = append(o.Failures, domain.ApplyFailure{VvnID: f.VvnID, Step: f.Step, Reason: f.Reason})
	}
	return o
}
