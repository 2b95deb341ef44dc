package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Represents a vessel visit notification considered for reassignment on a planning day.
// Zero ETA/ETD values mean the timestamp is not known.
type RebalanceCandidate struct {
	VvnID                  string
	VesselName             string
	VesselType             string
	CurrentDock            string
	EstimatedTimeArrival   time.Time
	EstimatedTimeDeparture time.Time
	OperationDurationHours float64
}

// Validate checks the candidate invariants.
func (c RebalanceCandidate) Validate() error {
	if strings.TrimSpace(c.VvnID) == "" {
		return errors.New("candidate: vvnId must not be empty")
	}
	if strings.TrimSpace(c.CurrentDock) == "" {
		return fmt.Errorf("candidate %s: currentDock must not be empty", c.VvnID)
	}
	if c.OperationDurationHours < 0 {
		return fmt.Errorf("candidate %s: operationDurationHours must be >= 0, got %g", c.VvnID, c.OperationDurationHours)
	}

	eta, etd := c.EstimatedTimeArrival, c.EstimatedTimeDeparture
	if !eta.IsZero() && !etd.IsZero() && !etd.After(eta) {
		return fmt.Errorf("candidate %s: estimatedTimeDeparture must be after estimatedTimeArrival", c.VvnID)
	}

	return nil
}
