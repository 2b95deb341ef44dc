package feasibility

import (
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/ports"
)

// DockRules decides feasibility from dock data: the dock must be known, not
// out of service, and accept the candidate's vessel type.
type DockRules struct {
	docks map[string]domain.Dock
}

func NewDockRules(docks []domain.Dock) *DockRules {
	m := make(map[string]domain.Dock, len(docks))
	for _, d := range docks {
		m[d.Code] = d
	}
	return &DockRules{docks: m}
}

// FromDocks matches the planner's oracle factory signature.
func FromDocks(docks []domain.Dock) ports.FeasibilityChecker {
	return NewDockRules(docks)
}

func (r *DockRules) IsFeasible(candidate domain.RebalanceCandidate, dock string) bool {
	d, ok := r.docks[dock]
	if !ok {
		return false
	}
	if d.Status == domain.DockOutOfService {
		return false
	}
	return d.Accepts(candidate.VesselType)
}

// AllowAll accepts every move.
type AllowAll struct{}

func (AllowAll) IsFeasible(domain.RebalanceCandidate, string) bool { return true }

// Func adapts a plain function to ports.FeasibilityChecker.
type Func func(candidate domain.RebalanceCandidate, dock string) bool

func (f Func) IsFeasible(candidate domain.RebalanceCandidate, dock string) bool {
	return f(candidate, dock)
}
