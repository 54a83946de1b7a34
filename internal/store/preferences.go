package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/leadintake/internal/session"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Preferences implements session.Store on the dashboard_preferences table.
type Preferences struct {
	pool *pgxpool.Pool
}

var _ session.Store = (*Preferences)(nil)

// NewPreferences creates a preference store.
func NewPreferences(pool *pgxpool.Pool) *Preferences {
	return &Preferences{pool: pool}
}

// Load returns the stored preferences, or zero Preferences when the browser
// has none.
func (s *Preferences) Load(ctx context.Context, browserID string) (session.Preferences, error) {
	var p session.Preferences
	err := s.pool.QueryRow(ctx, `
		SELECT search, filter_date, date_saved, duplicates_only, status, tag
		FROM dashboard_preferences WHERE browser_id = $1`, browserID,
	).Scan(&p.Search, &p.Date, &p.DateSaved, &p.DuplicatesOnly, &p.Status, &p.Tag)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Preferences{}, nil
	}
	if err != nil {
		return session.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

// Save upserts the preferences for a browser.
func (s *Preferences) Save(ctx context.Context, browserID string, p session.Preferences) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO dashboard_preferences
			(browser_id, search, filter_date, date_saved, duplicates_only, status, tag, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (browser_id) DO UPDATE SET
			search = EXCLUDED.search,
			filter_date = EXCLUDED.filter_date,
			date_saved = EXCLUDED.date_saved,
			duplicates_only = EXCLUDED.duplicates_only,
			status = EXCLUDED.status,
			tag = EXCLUDED.tag,
			updated_at = now()`,
		browserID, p.Search, p.Date, p.DateSaved, p.DuplicatesOnly, p.Status, p.Tag,
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Delete removes a browser's preferences.
func (s *Preferences) Delete(ctx context.Context, browserID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM dashboard_preferences WHERE browser_id = $1`, browserID); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}
