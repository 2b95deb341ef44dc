package ports

import "dock-rebalance-service/internal/domain"

// Injected predicate deciding whether a candidate may be berthed at a dock.
type FeasibilityChecker interface {
	IsFeasible(candidate domain.RebalanceCandidate, dock string) bool
}
