package feasibility

import (
	"dock-rebalance-service/internal/domain"
	"testing"
)

func TestDockRulesIsFeasible(t *testing.T) {
	rules := NewDockRules([]domain.Dock{
		{Code: "D1", Status: domain.DockAvailable},
		{Code: "D2", Status: domain.DockOccupied, AllowedVesselTypes: []string{"Container"}},
		{Code: "D3", Status: domain.DockOutOfService},
	})

	tanker := domain.RebalanceCandidate{VvnID: "v1", VesselType: "tanker"}
	container := domain.RebalanceCandidate{VvnID: "v2", VesselType: "container"}

	tests := []struct {
		name string
		c    domain.RebalanceCandidate
		dock string
		want bool
	}{
		{"open dock", tanker, "D1", true},
		{"type allowed", container, "D2", true},
		{"type rejected", tanker, "D2", false},
		{"out of service", container, "D3", false},
		{"unknown dock", container, "D9", false},
	}

	for _, tc := range tests {
		if got := rules.IsFeasible(tc.c, tc.dock); got != tc.want {
			t.Fatalf("%s: IsFeasible = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFuncAndAllowAll(t *testing.T) {
	deny := Func(func(domain.RebalanceCandidate, string) bool { return false })
	if deny.IsFeasible(domain.RebalanceCandidate{}, "D1") {
		t.Fatalf("expected Func to delegate")
	}
	if !(AllowAll{}).IsFeasible(domain.RebalanceCandidate{}, "D1") {
		t.Fatalf("expected AllowAll to accept")
	}
}
