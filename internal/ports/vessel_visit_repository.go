package ports

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"time"
)

// Port: read access to the vessel visit notifications and docks used for planning.
type VesselVisitReader interface {
	// Return visits whose ETA falls inside [from, to), ordered by ETA then vvnId.
	ListCandidates(ctx context.Context, from, to time.Time) ([]domain.RebalanceCandidate, error)
	// Return every known dock ordered by code.
	ListDocks(ctx context.Context) ([]domain.Dock, error)
}

// Port: the vessel-visit-notification collaborator used by the apply step.
type DockUpdater interface {
	// Set the dock of a vessel visit notification.
	UpdateDock(ctx context.Context, vvnID string, dock string) error
}

// Combined store exposed by the local SQL adapters.
type VesselVisitRepository interface {
	VesselVisitReader
	DockUpdater
}
