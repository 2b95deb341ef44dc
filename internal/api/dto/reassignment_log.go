package dto

import (
	"dock-rebalance-service/internal/domain"
	"time"
)

// DockReassignmentLogDTO is used for both requests and responses; id is
// ignored on create.
type DockReassignmentLogDTO struct {
	ID           string    `json:"id,omitempty"`
	VvnID        string    `json:"vvnId"`
	VesselName   string    `json:"vesselName"`
	OriginalDock string    `json:"originalDock"`
	UpdatedDock  string    `json:"updatedDock"`
	OfficerID    string    `json:"officerId"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewReassignmentLogDTO(l domain.DockReassignmentLog) DockReassignmentLogDTO {
	return DockReassignmentLogDTO(l)
}

func (d DockReassignmentLogDTO) Log() domain.DockReassignmentLog {
	return domain.DockReassignmentLog(d)
}
