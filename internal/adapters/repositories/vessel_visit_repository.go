package repositories

import (
	"context"
	"database/sql"
	"dock-rebalance-service/internal/domain"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the VesselVisitRepository port.
type VesselVisitRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewVesselVisitRepository(db *sql.DB, dialect Dialect) *VesselVisitRepository {
	return &VesselVisitRepository{DB: db, Dialect: dialect}
}

// Return visits whose ETA falls inside [from, to).
func (r *VesselVisitRepository) ListCandidates(
	ctx context.Context,
	from, to time.Time,
) (_ []domain.RebalanceCandidate, err error) {
	defer obs.Time(ctx, "vvn.repo.ListCandidates")(&err)

	if r.DB == nil {
		return nil, errors.New("vessel visit repository: DB is nil")
	}

	query := r.Dialect.rebind(`
	SELECT
		vvn_id,
		vessel_name,
		vessel_type,
		dock,
		eta,
		etd,
		operation_duration_hours
	FROM vessel_visit_notifications
	WHERE eta >= ? AND eta < ?
	ORDER BY eta, vvn_id;
	`)
	rows, err := r.DB.QueryContext(ctx, query, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("list candidates: query vessel_visit_notifications: %w: %w", ports.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	out := make([]domain.RebalanceCandidate, 0, 64)
	for rows.Next() {
		var c domain.RebalanceCandidate
		var eta, etd sql.NullInt64
		if err := rows.Scan(
			&c.VvnID,
			&c.VesselName,
			&c.VesselType,
			&c.CurrentDock,
			&eta,
			&etd,
			&c.OperationDurationHours,
		); err != nil {
			return nil, fmt.Errorf("list candidates: scan row: %w", err)
		}
		c.EstimatedTimeArrival = fromUnix(eta)
		c.EstimatedTimeDeparture = fromUnix(etd)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: row iteration: %w", err)
	}

	return out, nil
}

// Return every dock ordered by code.
func (r *VesselVisitRepository) ListDocks(ctx context.Context) (_ []domain.Dock, err error) {
	defer obs.Time(ctx, "vvn.repo.ListDocks")(&err)

	if r.DB == nil {
		return nil, errors.New("vessel visit repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT code, status, allowed_vessel_types
	FROM docks
	ORDER BY code;
	`)
	if err != nil {
		return nil, fmt.Errorf("list docks: query docks: %w: %w", ports.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	out := make([]domain.Dock, 0, 16)
	for rows.Next() {
		var code, status, types string
		if err := rows.Scan(&code, &status, &types); err != nil {
			return nil, fmt.Errorf("list docks: scan row: %w", err)
		}
		out = append(out, domain.Dock{
			Code:               code,
			Status:             domain.DockStatus(status),
			AllowedVesselTypes: splitTypes(types),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list docks: row iteration: %w", err)
	}

	return out, nil
}

// Set the dock of a vessel visit notification. The dock must exist.
func (r *VesselVisitRepository) UpdateDock(ctx context.Context, vvnID string, dock string) (err error) {
	defer obs.Time(ctx, "vvn.repo.UpdateDock")(&err)

	if r.DB == nil {
		return errors.New("vessel visit repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update dock: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, r.Dialect.rebind(`SELECT 1 FROM docks WHERE code = ?;`), dock).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update dock: dock=%q: %w", dock, ports.ErrUnknownDock)
	}
	if err != nil {
		return fmt.Errorf("update dock: lookup dock=%q: %w", dock, err)
	}

	res, err := tx.ExecContext(ctx, r.Dialect.rebind(`
	UPDATE vessel_visit_notifications
	SET dock = ?
	WHERE vvn_id = ?;
	`), dock, vvnID)
	if err != nil {
		return fmt.Errorf("update dock: vvn_id=%q: %w", vvnID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update dock: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update dock: vvn_id=%q: %w", vvnID, ports.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update dock: commit tx: %w", err)
	}

	return nil
}
