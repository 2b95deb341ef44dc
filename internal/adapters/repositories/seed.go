package repositories

import (
	"database/sql"
	"dock-rebalance-service/internal/domain"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

type DockSeed struct {
	Code               string   `json:"code"`
	Status             string   `json:"status"`
	AllowedVesselTypes []string `json:"allowedVesselTypes"`
}

type VesselVisitSeed struct {
	VvnID                  string     `json:"vvnId"`
	VesselName             string     `json:"vesselName"`
	VesselType             string     `json:"vesselType"`
	Dock                   string     `json:"dock"`
	ETA                    *time.Time `json:"eta"`
	ETD                    *time.Time `json:"etd"`
	OperationDurationHours float64    `json:"operationDurationHours"`
}

type SeedFile struct {
	Docks        []DockSeed        `json:"docks"`
	VesselVisits []VesselVisitSeed `json:"vesselVisits"`
}

// Populate the database with docks and vessel visits from a JSON file.
// Existing rows with the same key are replaced.
func SeedFromJSON(db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	return Seed(db, dialect, data)
}

// Seed writes the given docks and vessel visits in one transaction.
func Seed(db *sql.DB, dialect Dialect, data SeedFile) error {
	docks := make([]domain.Dock, 0, len(data.Docks))
	for i, d := range data.Docks {
		code := strings.TrimSpace(d.Code)
		if code == "" {
			return fmt.Errorf("seed: dock at index %d: code cannot be empty", i+1)
		}
		status := domain.DockStatus(strings.TrimSpace(d.Status))
		if status == "" {
			status = domain.DockAvailable
		}
		docks = append(docks, domain.Dock{Code: code, Status: status, AllowedVesselTypes: d.AllowedVesselTypes})
	}

	visits := make([]domain.RebalanceCandidate, 0, len(data.VesselVisits))
	for i, v := range data.VesselVisits {
		c := domain.RebalanceCandidate{
			VvnID:                  strings.TrimSpace(v.VvnID),
			VesselName:             strings.TrimSpace(v.VesselName),
			VesselType:             strings.TrimSpace(v.VesselType),
			CurrentDock:            strings.TrimSpace(v.Dock),
			OperationDurationHours: v.OperationDurationHours,
		}
		if v.ETA != nil {
			c.EstimatedTimeArrival = *v.ETA
		}
		if v.ETD != nil {
			c.EstimatedTimeDeparture = *v.ETD
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("seed: vessel visit at index %d: %w", i+1, err)
		}
		visits = append(visits, c)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	dockStmt, err := tx.Prepare(dialect.rebind(`
	INSERT INTO docks (code, status, allowed_vessel_types)
	VALUES (?, ?, ?)
	ON CONFLICT (code) DO UPDATE
	SET status = EXCLUDED.status,
		allowed_vessel_types = EXCLUDED.allowed_vessel_types;
	`))
	if err != nil {
		return fmt.Errorf("seed: prepare dock insert: %w", err)
	}
	defer dockStmt.Close()

	for _, d := range docks {
		if _, err := dockStmt.Exec(d.Code, string(d.Status), joinTypes(d.AllowedVesselTypes)); err != nil {
			return fmt.Errorf("seed: insert dock=%q: %w", d.Code, err)
		}
	}

	visitStmt, err := tx.Prepare(dialect.rebind(`
	INSERT INTO vessel_visit_notifications (
		vvn_id,
		vessel_name,
		vessel_type,
		dock,
		eta,
		etd,
		operation_duration_hours
	)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (vvn_id) DO UPDATE
	SET vessel_name = EXCLUDED.vessel_name,
		vessel_type = EXCLUDED.vessel_type,
		dock = EXCLUDED.dock,
		eta = EXCLUDED.eta,
		etd = EXCLUDED.etd,
		operation_duration_hours = EXCLUDED.operation_duration_hours;
	`))
	if err != nil {
		return fmt.Errorf("seed: prepare vessel visit insert: %w", err)
	}
	defer visitStmt.Close()

	for _, v := range visits {
		if _, err := visitStmt.Exec(
			v.VvnID,
			v.VesselName,
			v.VesselType,
			v.CurrentDock,
			toUnix(v.EstimatedTimeArrival),
			toUnix(v.EstimatedTimeDeparture),
			v.OperationDurationHours,
		); err != nil {
			return fmt.Errorf("seed: insert vvn_id=%q: %w", v.VvnID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}

func joinTypes(types []string) string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

func splitTypes(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Timestamps are stored as unix seconds; zero times are NULL.
func toUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromUnix(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).UTC()
}
