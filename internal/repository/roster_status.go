package repository

import (
	"context"
	"fmt"
	"time"
)

// SaveLastSyncedAt records the start time of the last successful roster sync.
func (r *Repository) SaveLastSyncedAt(ctx context.Context, date time.Time) error {
	defer r.observe("save_last_synced_at", time.Now())

	query := `
		INSERT INTO roster_status (id, last_synced_at)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_synced_at = $1, updated_at = CURRENT_TIMESTAMP;`

	_, err := r.db.Exec(ctx, query, date)
	if err != nil {
		return fmt.Errorf("failed to execute insert query: %w", err)
	}

	return nil
}

// GetLastSyncedAt returns the start time of the last successful roster sync.
func (r *Repository) GetLastSyncedAt(ctx context.Context) (time.Time, error) {
	defer r.observe("get_last_synced_at", time.Now())

	query := "SELECT last_synced_at FROM roster_status WHERE id = 1"

	var lastDate time.Time

	err := r.db.QueryRow(ctx, query).Scan(&lastDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last synced date from table roster_status: %w", err)
	}

	return lastDate, nil
}
