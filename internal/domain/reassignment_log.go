package domain

import (
	"fmt"
	"strings"
	"time"
)

// Immutable audit record of one applied dock reassignment.
// ID is assigned by the store on append.
type DockReassignmentLog struct {
	ID           string
	VvnID        string
	VesselName   string
	OriginalDock string
	UpdatedDock  string
	OfficerID    string
	Timestamp    time.Time
}

// Validate checks that every field except ID is set.
func (l DockReassignmentLog) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"vvnId", l.VvnID},
		{"vesselName", l.VesselName},
		{"originalDock", l.OriginalDock},
		{"updatedDock", l.UpdatedDock},
		{"officerId", l.OfficerID},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("reassignment log: %s is required", f.name)
		}
	}
	if l.Timestamp.IsZero() {
		return fmt.Errorf("reassignment log: timestamp is required")
	}
	return nil
}
