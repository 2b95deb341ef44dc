package domain

import (
	"testing"
	"time"
)

func TestRebalanceCandidateValidate(t *testing.T) {
	eta := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		c       RebalanceCandidate
		wantErr bool
	}{
		{"valid", RebalanceCandidate{VvnID: "v1", CurrentDock: "D1", EstimatedTimeArrival: eta, EstimatedTimeDeparture: eta.Add(time.Hour), OperationDurationHours: 1}, false},
		{"no timestamps", RebalanceCandidate{VvnID: "v1", CurrentDock: "D1"}, false},
		{"missing id", RebalanceCandidate{CurrentDock: "D1"}, true},
		{"missing dock", RebalanceCandidate{VvnID: "v1"}, true},
		{"negative duration", RebalanceCandidate{VvnID: "v1", CurrentDock: "D1", OperationDurationHours: -1}, true},
		{"departure before arrival", RebalanceCandidate{VvnID: "v1", CurrentDock: "D1", EstimatedTimeArrival: eta, EstimatedTimeDeparture: eta.Add(-time.Hour)}, true},
		{"departure equals arrival", RebalanceCandidate{VvnID: "v1", CurrentDock: "D1", EstimatedTimeArrival: eta, EstimatedTimeDeparture: eta}, true},
	}

	for _, tc := range cases {
		err := tc.c.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: Validate() err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestDayWindowIntersects(t *testing.T) {
	day, err := ParseDay("2026-03-02", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !day.End.Equal(day.Start.Add(24 * time.Hour)) {
		t.Fatalf("day window = [%v, %v), want 24h", day.Start, day.End)
	}

	before := day.Start.Add(-48 * time.Hour)
	after := day.End.Add(48 * time.Hour)

	if !day.Intersects(time.Time{}, time.Time{}) {
		t.Errorf("open window should intersect")
	}
	if !day.Intersects(day.Start.Add(-time.Hour), day.Start.Add(time.Hour)) {
		t.Errorf("window straddling the start should intersect")
	}
	if day.Intersects(before, before.Add(time.Hour)) {
		t.Errorf("window entirely before the day should not intersect")
	}
	if day.Intersects(after, time.Time{}) {
		t.Errorf("window starting after the day should not intersect")
	}
	if day.Intersects(day.End, day.End.Add(time.Hour)) {
		t.Errorf("window starting at the exclusive end should not intersect")
	}
}

func TestParseDayRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "2026-13-01", "02/03/2026", "2026-03-02T00:00:00Z"} {
		if _, err := ParseDay(in, nil); err == nil {
			t.Errorf("ParseDay(%q) expected error", in)
		}
	}
}

func TestDockAccepts(t *testing.T) {
	open := Dock{Code: "D1"}
	if !open.Accepts("tanker") {
		t.Errorf("dock without restrictions should accept any type")
	}

	restricted := Dock{Code: "D2", AllowedVesselTypes: []string{"Container", "ro-ro"}}
	if !restricted.Accepts("container") {
		t.Errorf("type match should be case-insensitive")
	}
	if restricted.Accepts("tanker") {
		t.Errorf("restricted dock should reject tanker")
	}
}
