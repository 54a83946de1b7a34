package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// History implements dashboard.History on the import_history table.
type History struct {
	pool *pgxpool.Pool
}

var _ dashboard.History = (*History)(nil)

// NewHistory creates an import history store.
func NewHistory(pool *pgxpool.Pool) *History {
	return &History{pool: pool}
}

// Record inserts a report. Reports without a valid batch id get a new one.
func (h *History) Record(ctx context.Context, r dashboard.ImportReport) error {
	id := toPgUUID(r.BatchID)
	if !id.Valid {
		id = pgtype.UUID{Bytes: uuid.New(), Valid: true}
	}

	failures := r.Failures
	if failures == nil {
		failures = []dashboard.ImportFailure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	createdAt := r.StartedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = h.pool.Exec(ctx, `
		INSERT INTO import_history (id, admin_email, total, succeeded, failures, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, toPgText(r.AdminEmail), r.Total, r.Succeeded, failuresJSON,
		r.Duration.Milliseconds(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// Recent returns the newest reports first.
func (h *History) Recent(ctx context.Context, limit int) ([]dashboard.ImportReport, error) {
	if limit <= 0 {
		limit = dashboard.DefaultHistoryLimit
	}

	rows, err := h.pool.Query(ctx, `
		SELECT id, admin_email, total, succeeded, failures, duration_ms, created_at
		FROM import_history ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import history: %w", err)
	}
	defer rows.Close()

	reports := make([]dashboard.ImportReport, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read import history: %w", err)
	}
	return reports, nil
}

// Prune deletes reports older than cutoff and returns how many were removed.
func (h *History) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := h.pool.Exec(ctx, `DELETE FROM import_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune import history: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanReport scans one import_history row.
func scanReport(rows pgx.Rows) (dashboard.ImportReport, error) {
	var (
		id         pgtype.UUID
		adminEmail pgtype.Text
		total      int32
		succeeded  int32
		failures   []byte
		durationMS int64
		createdAt  pgtype.Timestamptz
	)
	if err := rows.Scan(&id, &adminEmail, &total, &succeeded, &failures, &durationMS, &createdAt); err != nil {
		return dashboard.ImportReport{}, fmt.Errorf("scan import history: %w", err)
	}

	r := dashboard.ImportReport{
		BatchID:   pgUUIDToString(id),
		Total:     int(total),
		Succeeded: int(succeeded),
		StartedAt: createdAt.Time,
		Duration:  time.Duration(durationMS) * time.Millisecond,
	}
	if adminEmail.Valid {
		r.AdminEmail = adminEmail.String
	}
	if len(failures) > 0 {
		if err := json.Unmarshal(failures, &r.Failures); err != nil {
			return dashboard.ImportReport{}, fmt.Errorf("decode failures: %w", err)
		}
	}
	return r, nil
}
