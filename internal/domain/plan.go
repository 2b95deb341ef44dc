package domain

import "time"

// Proposed new dock for a candidate, keyed by vvnId.
type DockAssignment struct {
	ID   string
	Dock string
}

// Per-dock load comparison between the current and proposed assignment.
type LoadDifference struct {
	Dock       string
	Before     float64
	After      float64
	Difference float64
}

// RebalanceStats quantifies the balance of a plan.
// BalanceScore equals StdDevAfter; lower is more balanced.
// ImprovementPercent may be negative, which callers treat as no improvement.
type RebalanceStats struct {
	BalanceScore       float64
	ImprovementPercent float64
	StdDevBefore       float64
	StdDevAfter        float64
}

// Represents the dock rebalancing plan for a single day.
// A RebalancePlan is computed in memory per request and never persisted.
// Assignments only hold candidates whose dock changes.
type RebalancePlan struct {
	Day             string
	Candidates      []RebalanceCandidate
	Assignments     []DockAssignment
	LoadDifferences []LoadDifference
	Stats           RebalanceStats
}

// Per-candidate view joining the candidate with its proposed dock.
type RebalanceResultEntry struct {
	VvnID        string
	VesselName   string
	OriginalDock string
	ProposedDock string
	ETA          time.Time
	ETD          time.Time
	Duration     float64
}

func (e RebalanceResultEntry) IsMoved() bool {
	return e.OriginalDock != e.ProposedDock
}

// ResultEntries joins candidates with assignments in candidate order.
// A candidate without an assignment keeps its current dock.
func (p RebalancePlan) ResultEntries() []RebalanceResultEntry {
	proposed := make(map[string]string, len(p.Assignments))
	for _, a := range p.Assignments {
		proposed[a.ID] = a.Dock
	}

	out := make([]RebalanceResultEntry, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		dock, ok := proposed[c.VvnID]
		if !ok || dock == "" {
			dock = c.CurrentDock
		}

		out = append(out, RebalanceResultEntry{
			VvnID:        c.VvnID,
			VesselName:   c.VesselName,
			OriginalDock: c.CurrentDock,
			ProposedDock: dock,
			ETA:          c.EstimatedTimeArrival,
			ETD:          c.EstimatedTimeDeparture,
			Duration:     c.OperationDurationHours,
		})
	}

	return out
}

// MovedEntries returns the result entries whose dock changes.
func (p RebalancePlan) MovedEntries() []RebalanceResultEntry {
	return MovedOnly(p.ResultEntries())
}

// MovedOnly filters entries down to the moved ones, keeping order.
func MovedOnly(entries []RebalanceResultEntry) []RebalanceResultEntry {
	out := make([]RebalanceResultEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsMoved() {
			out = append(out, e)
		}
	}
	return out
}
