package services

import (
	"dock-rebalance-service/internal/adapters/feasibility"
	"dock-rebalance-service/internal/domain"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioA() []domain.RebalanceCandidate {
	return []domain.RebalanceCandidate{
		{VvnID: "v1", VesselName: "Aurora", CurrentDock: "D1", OperationDurationHours: 4},
		{VvnID: "v2", VesselName: "Borealis", CurrentDock: "D1", OperationDurationHours: 4},
		{VvnID: "v3", VesselName: "Cygnus", CurrentDock: "D2", OperationDurationHours: 1},
	}
}

func TestPlanRebalanceMovesLoadOffTheBusiestDock(t *testing.T) {
	day := mustDay(t, "2026-03-10")

	plan := PlanRebalance(day, scenarioA(), []string{"D1", "D2"}, feasibility.AllowAll{})

	require.Equal(t, []domain.DockAssignment{{ID: "v1", Dock: "D2"}}, plan.Assignments)
	assert.InDelta(t, 3.5, plan.Stats.StdDevBefore, 1e-9)
	assert.InDelta(t, 0.5, plan.Stats.StdDevAfter, 1e-9)
	assert.Equal(t, plan.Stats.StdDevAfter, plan.Stats.BalanceScore)
	assert.InDelta(t, 300.0/3.5, plan.Stats.ImprovementPercent, 1e-9)
	assert.Less(t, plan.Stats.StdDevAfter, plan.Stats.StdDevBefore)

	require.Equal(t, []domain.LoadDifference{
		{Dock: "D1", Before: 8, After: 4, Difference: -4},
		{Dock: "D2", Before: 1, After: 5, Difference: 4},
	}, plan.LoadDifferences)
	assert.Equal(t, "2026-03-10", plan.Day)
	assert.Len(t, plan.Candidates, 3)
}

func TestPlanRebalanceRespectsFeasibility(t *testing.T) {
	day := mustDay(t, "2026-03-10")
	noV1OnD2 := feasibility.Func(func(c domain.RebalanceCandidate, dock string) bool {
		return !(c.VvnID == "v1" && dock == "D2")
	})

	plan := PlanRebalance(day, scenarioA(), []string{"D1", "D2"}, noV1OnD2)

	assert.Equal(t, []domain.DockAssignment{{ID: "v2", Dock: "D2"}}, plan.Assignments)

	nothing := feasibility.Func(func(domain.RebalanceCandidate, string) bool { return false })
	plan = PlanRebalance(day, scenarioA(), []string{"D1", "D2"}, nothing)

	assert.Empty(t, plan.Assignments)
	assert.Equal(t, plan.Stats.StdDevBefore, plan.Stats.StdDevAfter)
	assert.Equal(t, 0.0, plan.Stats.ImprovementPercent)
}

func TestPlanRebalanceEmptyCandidates(t *testing.T) {
	day := mustDay(t, "2026-03-10")

	plan := PlanRebalance(day, nil, []string{"D1", "D2"}, feasibility.AllowAll{})

	require.NotNil(t, plan.Candidates)
	assert.Empty(t, plan.Candidates)
	assert.Empty(t, plan.Assignments)
	assert.Empty(t, plan.LoadDifferences)
	assert.Equal(t, domain.RebalanceStats{}, plan.Stats)
}

func TestPlanRebalanceBalancedInputMakesNoMoves(t *testing.T) {
	day := mustDay(t, "2026-03-10")
	candidates := []domain.RebalanceCandidate{
		{VvnID: "v1", CurrentDock: "D1", OperationDurationHours: 3},
		{VvnID: "v2", CurrentDock: "D2", OperationDurationHours: 3},
	}

	plan := PlanRebalance(day, candidates, []string{"D1", "D2"}, feasibility.AllowAll{})

	assert.Empty(t, plan.Assignments)
	assert.Equal(t, 0.0, plan.Stats.StdDevBefore)
	assert.Equal(t, 0.0, plan.Stats.ImprovementPercent)
	for _, e := range plan.ResultEntries() {
		assert.False(t, e.IsMoved(), e.VvnID)
	}
}

func TestPlanRebalanceAddsDocksOnlyKnownFromCandidates(t *testing.T) {
	day := mustDay(t, "2026-03-10")
	candidates := []domain.RebalanceCandidate{
		{VvnID: "v1", CurrentDock: "X9", OperationDurationHours: 6},
	}

	plan := PlanRebalance(day, candidates, []string{"D1"}, feasibility.AllowAll{})

	require.Len(t, plan.LoadDifferences, 2)
	assert.Equal(t, "D1", plan.LoadDifferences[0].Dock)
	assert.Equal(t, "X9", plan.LoadDifferences[1].Dock)
}

func TestPlanRebalanceConservesTotalLoad(t *testing.T) {
	day := mustDay(t, "2026-03-10")
	docks := []string{"D1", "D2", "D3", "D4"}

	candidates := make([]domain.RebalanceCandidate, 0, 12)
	for i := 0; i < 12; i++ {
		candidates = append(candidates, domain.RebalanceCandidate{
			VvnID:                  fmt.Sprintf("v%02d", i),
			CurrentDock:            docks[i%2],
			OperationDurationHours: float64(i%5 + 1),
		})
	}

	plan := PlanRebalance(day, candidates, docks, feasibility.AllowAll{})

	var before, after float64
	for _, ld := range plan.LoadDifferences {
		before += ld.Before
		after += ld.After
		assert.InDelta(t, ld.After-ld.Before, ld.Difference, 1e-9)
	}
	assert.InDelta(t, before, after, 1e-9)
	assert.LessOrEqual(t, plan.Stats.StdDevAfter, plan.Stats.StdDevBefore)
	assert.NotEmpty(t, plan.Assignments)

	for _, e := range plan.ResultEntries() {
		assert.Equal(t, e.ProposedDock != e.OriginalDock, e.IsMoved())
	}
}

func TestPlanRebalanceIsDeterministic(t *testing.T) {
	day := mustDay(t, "2026-03-10")
	candidates := []domain.RebalanceCandidate{
		{VvnID: "c", CurrentDock: "D1", OperationDurationHours: 2},
		{VvnID: "a", CurrentDock: "D1", OperationDurationHours: 2},
		{VvnID: "b", CurrentDock: "D1", OperationDurationHours: 2},
		{VvnID: "d", CurrentDock: "D3", OperationDurationHours: 1},
	}
	docks := []string{"D3", "D2", "D1"}

	first := PlanRebalance(day, candidates, docks, feasibility.AllowAll{})
	second := PlanRebalance(day, candidates, docks, feasibility.AllowAll{})

	assert.Equal(t, first, second)
	// Ties between equal candidates go to the lowest vvnId.
	require.NotEmpty(t, first.Assignments)
	assert.Equal(t, "a", first.Assignments[0].ID)
}

func TestPlanRebalanceIsDeterministicWithFractionalLoads(t *testing.T) {
	day := mustDay(t, "2026-03-10")

	docks := make([]string, 0, 12)
	for i := range 12 {
		docks = append(docks, fmt.Sprintf("D%02d", i))
	}
	candidates := make([]domain.RebalanceCandidate, 0, 40)
	for i := range 40 {
		candidates = append(candidates, domain.RebalanceCandidate{
			VvnID:                  fmt.Sprintf("v%02d", i),
			CurrentDock:            docks[i%3],
			OperationDurationHours: 0.1 + float64(i%7)*1.37 + float64(i)*0.013,
		})
	}

	first := PlanRebalance(day, candidates, docks, feasibility.AllowAll{})
	require.NotEmpty(t, first.Assignments)
	for range 200 {
		require.Equal(t, first, PlanRebalance(day, candidates, docks, feasibility.AllowAll{}))
	}
}

func TestDockStdDevFollowsDockOrder(t *testing.T) {
	docks := []string{"D1", "D2", "D3"}
	loads := map[string]float64{"D1": 0.1, "D2": 0.2, "D3": 0.7}

	want := StdDev([]float64{0.1, 0.2, 0.7})
	for range 50 {
		require.Equal(t, want, DockStdDev(docks, loads))
	}
}
