package services

import (
	"cmp"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/ports"
	"math"
	"slices"
)

// Improvements smaller than this are treated as no improvement, so float
// noise can never cause a churn move.
const stdDevEpsilon = 1e-9

// PlanRebalance proposes dock reassignments that reduce the standard
// deviation of dock load for the day.
//
// The search is a greedy local search: docks are tried from most to least
// loaded, and for each candidate on that dock the least-loaded feasible other
// dock is evaluated. The single best move is applied only if it strictly
// lowers the standard deviation; the search stops at the first state where no
// move does. The result is a local optimum, not a global one.
//
// PlanRebalance is pure: identical inputs and oracle answers produce an
// identical plan. It never fails; empty input yields a zero plan.
func PlanRebalance(
	day domain.DayWindow,
	candidates []domain.RebalanceCandidate,
	docks []string,
	oracle ports.FeasibilityChecker,
) domain.RebalancePlan {
	if len(candidates) == 0 {
		return domain.RebalancePlan{
			Day:             day.Day,
			Candidates:      []domain.RebalanceCandidate{},
			Assignments:     []domain.DockAssignment{},
			LoadDifferences: []domain.LoadDifference{},
		}
	}

	dockSet := mergeDocks(docks, candidates)

	assigned := make(map[string]string, len(candidates))
	for _, c := range candidates {
		assigned[c.VvnID] = c.CurrentDock
	}
	proposed := func(c domain.RebalanceCandidate) string { return assigned[c.VvnID] }

	before := LoadDistribution(dockSet, candidates, CurrentDock, day)
	loads := LoadDistribution(dockSet, candidates, CurrentDock, day)

	// Each applied move strictly lowers the variance, so the loop terminates;
	// the cap only guards against pathological oracles.
	maxMoves := len(candidates)*len(dockSet) + 1
	for moves := 0; moves < maxMoves; moves++ {
		m, ok := bestMove(day, candidates, dockSet, assigned, loads, oracle)
		if !ok {
			break
		}

		assigned[m.vvnID] = m.to
		loads[m.from] -= m.load
		loads[m.to] += m.load
	}

	after := LoadDistribution(dockSet, candidates, proposed, day)

	return domain.RebalancePlan{
		Day:             day.Day,
		Candidates:      slices.Clone(candidates),
		Assignments:     movedAssignments(candidates, assigned),
		LoadDifferences: loadDifferences(dockSet, before, after),
		Stats:           computeStats(dockSet, before, after),
	}
}

type move struct {
	vvnID  string
	from   string
	to     string
	load   float64
	stdDev float64
}

// bestMove finds the strictly improving move, starting from the most-loaded dock.
func bestMove(
	day domain.DayWindow,
	candidates []domain.RebalanceCandidate,
	docks []string,
	assigned map[string]string,
	loads map[string]float64,
	oracle ports.FeasibilityChecker,
) (move, bool) {
	current := DockStdDev(docks, loads)

	byLoadDesc := slices.Clone(docks)
	slices.SortFunc(byLoadDesc, func(a, b string) int {
		if c := cmp.Compare(loads[b], loads[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	byLoadAsc := slices.Clone(docks)
	slices.SortFunc(byLoadAsc, func(a, b string) int {
		if c := cmp.Compare(loads[a], loads[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	for _, source := range byLoadDesc {
		var best move
		found := false

		for _, c := range candidatesOn(source, candidates, assigned) {
			load := loadContribution(c)
			if load == 0 || !day.Intersects(c.EstimatedTimeArrival, c.EstimatedTimeDeparture) {
				continue
			}

			target, ok := leastLoadedFeasible(c, source, byLoadAsc, oracle)
			if !ok {
				continue
			}

			srcLoad, dstLoad := loads[source], loads[target]
			loads[source] = srcLoad - load
			loads[target] = dstLoad + load
			sd := DockStdDev(docks, loads)
			loads[source], loads[target] = srcLoad, dstLoad

			if sd >= current-stdDevEpsilon {
				continue
			}
			// Candidates are visited in vvnId order, so strict < keeps the lowest id on ties.
			if !found || sd < best.stdDev-stdDevEpsilon {
				best = move{vvnID: c.VvnID, from: source, to: target, load: load, stdDev: sd}
				found = true
			}
		}

		if found {
			return best, true
		}
	}

	return move{}, false
}

// candidatesOn returns the candidates currently assigned to dock, ordered by vvnId.
func candidatesOn(dock string, candidates []domain.RebalanceCandidate, assigned map[string]string) []domain.RebalanceCandidate {
	out := make([]domain.RebalanceCandidate, 0)
	for _, c := range candidates {
		if assigned[c.VvnID] == dock {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.RebalanceCandidate) int {
		return cmp.Compare(a.VvnID, b.VvnID)
	})
	return out
}

func leastLoadedFeasible(
	c domain.RebalanceCandidate,
	source string,
	byLoadAsc []string,
	oracle ports.FeasibilityChecker,
) (string, bool) {
	for _, d := range byLoadAsc {
		if d == source {
			continue
		}
		if d == c.CurrentDock || oracle == nil || oracle.IsFeasible(c, d) {
			return d, true
		}
	}
	return "", false
}

// mergeDocks returns the supplied docks plus any dock only known from a
// candidate, sorted by code. Including the latter keeps total load conserved.
func mergeDocks(docks []string, candidates []domain.RebalanceCandidate) []string {
	seen := make(map[string]struct{}, len(docks))
	out := make([]string, 0, len(docks))
	add := func(d string) {
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	for _, d := range docks {
		add(d)
	}
	for _, c := range candidates {
		add(c.CurrentDock)
	}

	slices.Sort(out)
	return out
}

func movedAssignments(candidates []domain.RebalanceCandidate, assigned map[string]string) []domain.DockAssignment {
	out := make([]domain.DockAssignment, 0)
	for _, c := range candidates {
		if d := assigned[c.VvnID]; d != c.CurrentDock {
			out = append(out, domain.DockAssignment{ID: c.VvnID, Dock: d})
		}
	}
	return out
}

func loadDifferences(docks []string, before, after map[string]float64) []domain.LoadDifference {
	out := make([]domain.LoadDifference, 0, len(docks))
	for _, d := range docks {
		out = append(out, domain.LoadDifference{
			Dock:       d,
			Before:     before[d],
			After:      after[d],
			Difference: after[d] - before[d],
		})
	}
	return out
}

func computeStats(docks []string, before, after map[string]float64) domain.RebalanceStats {
	sdBefore := DockStdDev(docks, before)
	sdAfter := DockStdDev(docks, after)

	improvement := 0.0
	if sdBefore > 0 {
		improvement = (sdBefore - sdAfter) / sdBefore * 100
	}
	if math.IsNaN(improvement) || math.IsInf(improvement, 0) {
		improvement = 0
	}

	return domain.RebalanceStats{
		BalanceScore:       sdAfter,
		ImprovementPercent: improvement,
		StdDevBefore:       sdBefore,
		StdDevAfter:        sdAfter,
	}
}
