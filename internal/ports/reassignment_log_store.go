package ports

import (
	"context"
	"dock-rebalance-service/internal/domain"
)

// Port: append-only persistence of dock reassignment audit records.
// There is intentionally no update or delete.
type ReassignmentLogStore interface {
	// Persist the entry, assigning its ID, and return the stored record.
	Append(ctx context.Context, entry domain.DockReassignmentLog) (domain.DockReassignmentLog, error)
	// Return every stored record. Ordering is not guaranteed.
	ListAll(ctx context.Context) ([]domain.DockReassignmentLog, error)
}
