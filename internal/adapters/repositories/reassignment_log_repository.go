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

	"github.com/google/uuid"
)

// SQL-backed append-only audit log.
type ReassignmentLogRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewReassignmentLogRepository(db *sql.DB, dialect Dialect) *ReassignmentLogRepository {
	return &ReassignmentLogRepository{DB: db, Dialect: dialect}
}

func (r *ReassignmentLogRepository) Append(
	ctx context.Context,
	entry domain.DockReassignmentLog,
) (_ domain.DockReassignmentLog, err error) {
	defer obs.Time(ctx, "audit.repo.Append")(&err)

	if r.DB == nil {
		return domain.DockReassignmentLog{}, errors.New("reassignment log repository: DB is nil")
	}
	if err := entry.Validate(); err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append reassignment log: %w", err)
	}

	entry.ID = uuid.NewString()
	entry.Timestamp = entry.Timestamp.UTC().Truncate(time.Millisecond)

	_, err = r.DB.ExecContext(ctx, r.Dialect.rebind(`
	INSERT INTO dock_reassignment_log (
		id,
		vvn_id,
		vessel_name,
		original_dock,
		updated_dock,
		officer_id,
		logged_at_ms
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`),
		entry.ID,
		entry.VvnID,
		entry.VesselName,
		entry.OriginalDock,
		entry.UpdatedDock,
		entry.OfficerID,
		entry.Timestamp.UnixMilli(),
	)
	if err != nil {
		return domain.DockReassignmentLog{}, fmt.Errorf("append reassignment log: insert vvn_id=%q: %w: %w", entry.VvnID, ports.ErrUpstreamUnavailable, err)
	}

	return entry, nil
}

// Return every record, oldest first.
func (r *ReassignmentLogRepository) ListAll(ctx context.Context) (_ []domain.DockReassignmentLog, err error) {
	defer obs.Time(ctx, "audit.repo.ListAll")(&err)

	if r.DB == nil {
		return nil, errors.New("reassignment log repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT
		id,
		vvn_id,
		vessel_name,
		original_dock,
		updated_dock,
		officer_id,
		logged_at_ms
	FROM dock_reassignment_log
	ORDER BY logged_at_ms, id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list reassignment log: query: %w: %w", ports.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	out := make([]domain.DockReassignmentLog, 0, 64)
	for rows.Next() {
		var l domain.DockReassignmentLog
		var ms int64
		if err := rows.Scan(&l.ID, &l.VvnID, &l.VesselName, &l.OriginalDock, &l.UpdatedDock, &l.OfficerID, &ms); err != nil {
			return nil, fmt.Errorf("list reassignment log: scan row: %w", err)
		}
		l.Timestamp = time.UnixMilli(ms).UTC()
		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reassignment log: row iteration: %w: %w", ports.ErrUpstreamUnavailable, err)
	}

	return out, nil
}
