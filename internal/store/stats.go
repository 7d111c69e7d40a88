package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trailtrack/apiserver/types"
)

// StatsRepository computes per-owner aggregates across the record tables.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Counts reads every dashboard counter in a single statement so all values
// come from the same snapshot.
func (r *StatsRepository) Counts(ctx context.Context, ownerID int) (types.RecordCounts, error) {
	const query = `
		SELECT
			(SELECT COUNT(1) FROM leads WHERE owner_id = $1),
			(SELECT COUNT(1) FROM leads WHERE owner_id = $1 AND status = $2),
			(SELECT COUNT(1) FROM accounts WHERE owner_id = $1),
			(SELECT COUNT(1) FROM tasks WHERE owner_id = $1 AND status = $3),
			(SELECT COALESCE(SUM(value_cents), 0) FROM leads WHERE owner_id = $1 AND status = $2)`
	var counts types.RecordCounts
	if err := r.db.QueryRowContext(ctx, query, ownerID, types.LeadStatusOpen, types.TaskStatusOpen).Scan(
		&counts.TotalLeads,
		&counts.OpenLeads,
		&counts.TotalAccounts,
		&counts.OpenTasks,
		&counts.OpenPipelineCents,
	); err != nil {
		return types.RecordCounts{}, fmt.Errorf("dashboard counts: %w", err)
	}
	return counts, nil
}
