package domain

import (
	"testing"
	"time"
)

func TestRebalancePlanResultEntries(t *testing.T) {
	eta := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	plan := RebalancePlan{
		Day: "2026-03-02",
		Candidates: []RebalanceCandidate{
			{VvnID: "v1", VesselName: "Aurora", CurrentDock: "D1", EstimatedTimeArrival: eta, OperationDurationHours: 4},
			{VvnID: "v2", VesselName: "Boreas", CurrentDock: "D1", EstimatedTimeArrival: eta, OperationDurationHours: 4},
			{VvnID: "v3", VesselName: "Cirrus", CurrentDock: "D2", EstimatedTimeArrival: eta, OperationDurationHours: 1},
		},
		Assignments: []DockAssignment{
			{ID: "v1", Dock: "D2"},
			// points at the current dock, so not a move
			{ID: "v3", Dock: "D2"},
		},
	}

	entries := plan.ResultEntries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := map[string]struct {
		proposed string
		moved    bool
	}{
		"v1": {"D2", true},
		"v2": {"D1", false},
		"v3": {"D2", false},
	}
	for _, e := range entries {
		w := want[e.VvnID]
		if e.ProposedDock != w.proposed {
			t.Errorf("%s proposed = %q, want %q", e.VvnID, e.ProposedDock, w.proposed)
		}
		if e.IsMoved() != w.moved {
			t.Errorf("%s IsMoved = %v, want %v", e.VvnID, e.IsMoved(), w.moved)
		}
		if e.IsMoved() != (e.OriginalDock != e.ProposedDock) {
			t.Errorf("%s IsMoved disagrees with docks", e.VvnID)
		}
	}

	moved := plan.MovedEntries()
	if len(moved) != 1 || moved[0].VvnID != "v1" {
		t.Fatalf("moved entries = %+v, want only v1", moved)
	}
}

func TestApplyOutcomeResult(t *testing.T) {
	cases := []struct {
		name    string
		outcome ApplyOutcome
		want    ApplyResult
	}{
		{"nothing", ApplyOutcome{}, ApplyNothing},
		{"all applied", ApplyOutcome{SuccessCount: 3}, ApplyApplied},
		{"all failed", ApplyOutcome{FailCount: 2}, ApplyFailed},
		{"partial", ApplyOutcome{SuccessCount: 1, FailCount: 1}, ApplyPartial},
	}

	for _, tc := range cases {
		if got := tc.outcome.Result(); got != tc.want {
			t.Errorf("%s: Result() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
