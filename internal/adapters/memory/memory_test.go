package memory

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/ports"
	"errors"
	"testing"
	"time"
)

func TestVesselVisitStoreListCandidatesFiltersByETA(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := NewVesselVisitStore(
		[]domain.Dock{{Code: "D2"}, {Code: "D1"}},
		[]domain.RebalanceCandidate{
			{VvnID: "b", CurrentDock: "D1", EstimatedTimeArrival: day.Add(2 * time.Hour)},
			{VvnID: "a", CurrentDock: "D1", EstimatedTimeArrival: day.Add(2 * time.Hour)},
			{VvnID: "late", CurrentDock: "D1", EstimatedTimeArrival: day.AddDate(0, 0, 1)},
			{VvnID: "none", CurrentDock: "D1"},
		},
	)

	got, err := store.ListCandidates(context.Background(), day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].VvnID != "a" || got[1].VvnID != "b" {
		t.Fatalf("unexpected order: %q, %q", got[0].VvnID, got[1].VvnID)
	}

	docks, err := store.ListDocks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docks[0].Code != "D1" || docks[1].Code != "D2" {
		t.Fatalf("docks not sorted: %+v", docks)
	}
}

func TestVesselVisitStoreUpdateDock(t *testing.T) {
	store := NewVesselVisitStore(
		[]domain.Dock{{Code: "D1"}, {Code: "D2"}},
		[]domain.RebalanceCandidate{{VvnID: "v1", CurrentDock: "D1"}},
	)
	ctx := context.Background()

	if err := store.UpdateDock(ctx, "v1", "D2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := store.Visit("v1")
	if v.CurrentDock != "D2" {
		t.Fatalf("expected D2, got %q", v.CurrentDock)
	}

	if err := store.UpdateDock(ctx, "missing", "D2"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateDock(ctx, "v1", "D9"); !errors.Is(err, ports.ErrUnknownDock) {
		t.Fatalf("expected ErrUnknownDock, got %v", err)
	}
	if n := len(store.UpdateCalls()); n != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", n)
	}
}

func TestReassignmentLogStoreAssignsDistinctIDs(t *testing.T) {
	store := NewReassignmentLogStore()
	ctx := context.Background()
	entry := domain.DockReassignmentLog{
		VvnID: "v1", VesselName: "Aurora", OriginalDock: "D1", UpdatedDock: "D2",
		OfficerID: "off-1", Timestamp: time.Now(),
	}

	first, err := store.Append(ctx, entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Append(ctx, entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q and %q", first.ID, second.ID)
	}

	all, _ := store.ListAll(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}

	if _, err := store.Append(ctx, domain.DockReassignmentLog{VvnID: "v1"}); err == nil {
		t.Fatalf("expected validation error")
	}
}
