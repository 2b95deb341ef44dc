package services

import (
	"cmp"
	"dock-rebalance-service/internal/domain"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// PlanFingerprint identifies the state a plan was computed from: the day,
// every candidate field the planner reads, the dock rows the feasibility
// oracle is built from, and the resulting assignments. Two plans share a
// fingerprint only if nothing they depend on has changed.
func PlanFingerprint(plan domain.RebalancePlan, docks []domain.Dock) string {
	candidates := slices.Clone(plan.Candidates)
	slices.SortFunc(candidates, func(a, b domain.RebalanceCandidate) int { return cmp.Compare(a.VvnID, b.VvnID) })

	rows := slices.Clone(docks)
	slices.SortFunc(rows, func(a, b domain.Dock) int { return cmp.Compare(a.Code, b.Code) })

	assignments := slices.Clone(plan.Assignments)
	slices.SortFunc(assignments, func(a, b domain.DockAssignment) int { return cmp.Compare(a.ID, b.ID) })

	h := xxh3.New()
	write := func(fields ...string) {
		_, _ = h.Write([]byte(strings.Join(fields, "\x1f") + "\n"))
	}

	write("day", plan.Day)
	for _, c := range candidates {
		write("vvn", c.VvnID, c.CurrentDock, c.VesselType,
			strconv.FormatFloat(c.OperationDurationHours, 'g', -1, 64),
			unixNano(c.EstimatedTimeArrival), unixNano(c.EstimatedTimeDeparture))
	}
	for _, d := range rows {
		types := make([]string, 0, len(d.AllowedVesselTypes))
		for _, t := range d.AllowedVesselTypes {
			types = append(types, strings.ToLower(strings.TrimSpace(t)))
		}
		slices.Sort(types)
		write("dock", d.Code, string(d.Status), strings.Join(types, ","))
	}
	for _, ld := range plan.LoadDifferences {
		write("load", ld.Dock)
	}
	for _, a := range assignments {
		write("move", a.ID, a.Dock)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func unixNano(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.UnixNano(), 10)
}
