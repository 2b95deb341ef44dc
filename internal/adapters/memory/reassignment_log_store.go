package memory

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ReassignmentLogStore keeps audit records in insertion order.
type ReassignmentLogStore struct {
	mu      sync.Mutex
	entries []domain.DockReassignmentLog

	// Error returned by Append when set.
	AppendErr error
}

func NewReassignmentLogStore() *ReassignmentLogStore {
	return &ReassignmentLogStore{}
}

func (s *ReassignmentLogStore) Append(ctx context.Context, entry domain.DockReassignmentLog) (domain.DockReassignmentLog, error) {
	if err := entry.Validate(); err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append reassignment log: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		return domain.DockReassignmentLog{}, s.AppendErr
	}

	entry.ID = uuid.NewString()
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *ReassignmentLogStore) ListAll(ctx context.Context) ([]domain.DockReassignmentLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries), nil
}

func (s *ReassignmentLogStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
