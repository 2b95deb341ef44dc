package domain

import "strings"

type DockStatus string

const (
	DockAvailable    DockStatus = "available"
	DockOccupied     DockStatus = "occupied"
	DockOutOfService DockStatus = "out-of-service"
)

// A physical berth identified by its code.
// An empty AllowedVesselTypes list accepts any vessel type.
type Dock struct {
	Code               string
	Status             DockStatus
	AllowedVesselTypes []string
}

// Accepts reports whether the dock can berth the given vessel type.
func (d Dock) Accepts(vesselType string) bool {
	if len(d.AllowedVesselTypes) == 0 {
		return true
	}

	for _, t := range d.AllowedVesselTypes {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(vesselType)) {
			return true
		}
	}
	return false
}

// DockCodes returns the codes of the given docks in input order.
func DockCodes(docks []Dock) []string {
	out := make([]string, 0, len(docks))
	for _, d := range docks {
		out = append(out, d.Code)
	}
	return out
}
