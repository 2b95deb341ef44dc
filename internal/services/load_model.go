package services

import (
	"dock-rebalance-service/internal/domain"
	"math"
)

// AssignmentFunc returns the dock a candidate is (or would be) berthed at.
type AssignmentFunc func(c domain.RebalanceCandidate) string

// CurrentDock is the identity assignment used for "before" loads.
func CurrentDock(c domain.RebalanceCandidate) string { return c.CurrentDock }

// loadContribution is the load a single visit adds to its dock.
// It scales with operation duration; negative durations contribute nothing.
func loadContribution(c domain.RebalanceCandidate) float64 {
	return math.Max(0, c.OperationDurationHours)
}

// ComputeLoad sums the load of every candidate assigned to dock whose
// arrival/departure window intersects the day.
func ComputeLoad(
	dock string,
	candidates []domain.RebalanceCandidate,
	assign AssignmentFunc,
	day domain.DayWindow,
) float64 {
	load := 0.0
	for _, c := range candidates {
		if assign(c) != dock {
			continue
		}
		if !day.Intersects(c.EstimatedTimeArrival, c.EstimatedTimeDeparture) {
			continue
		}
		load += loadContribution(c)
	}
	return load
}

// LoadDistribution computes the load of every dock under assign.
// Docks without candidates are present with load 0.
func LoadDistribution(
	docks []string,
	candidates []domain.RebalanceCandidate,
	assign AssignmentFunc,
	day domain.DayWindow,
) map[string]float64 {
	out := make(map[string]float64, len(docks))
	for _, d := range docks {
		out[d] = 0
	}

	for _, c := range candidates {
		d := assign(c)
		if _, ok := out[d]; !ok {
			continue
		}
		if !day.Intersects(c.EstimatedTimeArrival, c.EstimatedTimeDeparture) {
			continue
		}
		out[d] += loadContribution(c)
	}

	return out
}

// StdDev is the population standard deviation of the loads. Empty input yields 0.
// Loads are summed in slice order so equal inputs give bit-identical results.
func StdDev(loads []float64) float64 {
	n := len(loads)
	if n == 0 {
		return 0
	}

	sum := 0.0
	for _, l := range loads {
		sum += l
	}
	mean := sum / float64(n)

	sq := 0.0
	for _, l := range loads {
		d := l - mean
		sq += d * d
	}

	return math.Sqrt(sq / float64(n))
}

// DockStdDev is StdDev over a load distribution, summed in docks order.
func DockStdDev(docks []string, loads map[string]float64) float64 {
	ordered := make([]float64, 0, len(docks))
	for _, d := range docks {
		ordered = append(ordered, loads[d])
	}
	return StdDev(ordered)
}
