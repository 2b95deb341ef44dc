package memory

import (
	"cmp"
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/ports"
	"fmt"
	"slices"
	"sync"
	"time"
)

// VesselVisitStore is an in-memory ports.VesselVisitRepository used by tests
// and the demo server. UpdateFailures lets callers inject per-visit errors.
type VesselVisitStore struct {
	mu     sync.Mutex
	visits map[string]domain.RebalanceCandidate
	docks  map[string]domain.Dock

	// Errors returned by UpdateDock for a vvnId instead of updating it.
	UpdateFailures map[string]error
	// Error returned by every read when set.
	ReadErr error

	updates []string
}

func NewVesselVisitStore(docks []domain.Dock, visits []domain.RebalanceCandidate) *VesselVisitStore {
	s := &VesselVisitStore{
		visits:         make(map[string]domain.RebalanceCandidate, len(visits)),
		docks:          make(map[string]domain.Dock, len(docks)),
		UpdateFailures: make(map[string]error),
	}
	for _, d := range docks {
		s.docks[d.Code] = d
	}
	for _, v := range visits {
		s.visits[v.VvnID] = v
	}
	return s
}

func (s *VesselVisitStore) ListCandidates(ctx context.Context, from, to time.Time) ([]domain.RebalanceCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}

	out := make([]domain.RebalanceCandidate, 0, len(s.visits))
	for _, v := range s.visits {
		eta := v.EstimatedTimeArrival
		if eta.IsZero() || eta.Before(from) || !eta.Before(to) {
			continue
		}
		out = append(out, v)
	}

	slices.SortFunc(out, func(a, b domain.RebalanceCandidate) int {
		if c := a.EstimatedTimeArrival.Compare(b.EstimatedTimeArrival); c != 0 {
			return c
		}
		return cmp.Compare(a.VvnID, b.VvnID)
	})
	return out, nil
}

func (s *VesselVisitStore) ListDocks(ctx context.Context) ([]domain.Dock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}

	out := make([]domain.Dock, 0, len(s.docks))
	for _, d := range s.docks {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b domain.Dock) int { return cmp.Compare(a.Code, b.Code) })
	return out, nil
}

func (s *VesselVisitStore) UpdateDock(ctx context.Context, vvnID string, dock string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates = append(s.updates, vvnID)

	if err, ok := s.UpdateFailures[vvnID]; ok {
		return err
	}
	v, ok := s.visits[vvnID]
	if !ok {
		return fmt.Errorf("update dock %q: %w", vvnID, ports.ErrNotFound)
	}
	if _, ok := s.docks[dock]; !ok {
		return fmt.Errorf("update dock %q -> %q: %w", vvnID, dock, ports.ErrUnknownDock)
	}

	v.CurrentDock = dock
	s.visits[vvnID] = v
	return nil
}

// Visit returns the stored visit for assertions.
func (s *VesselVisitStore) Visit(vvnID string) (domain.RebalanceCandidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[vvnID]
	return v, ok
}

// UpdateCalls returns the vvnIds passed to UpdateDock, in call order.
func (s *VesselVisitStore) UpdateCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.updates)
}

// PutDock adds or replaces a dock.
func (s *VesselVisitStore) PutDock(d domain.Dock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docks[d.Code] = d
}

// PutVisit adds or replaces a visit.
func (s *VesselVisitStore) PutVisit(v domain.RebalanceCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits[v.VvnID] = v
}
